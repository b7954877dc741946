package rewards

import (
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// ExpToLevel: сколько опыта нужно, чтобы уйти с уровня level.
func ExpToLevel(level int) int {
	return level * 100
}

// LevelUp применяет правило повышения уровня: пока exp >= level×100,
// порог вычитается и уровень растёт. Остаток опыта переносится.
func LevelUp(level, exp int) (int, int, int) {
	if level < 1 {
		level = 1
	}
	gained := 0
	for exp >= ExpToLevel(level) {
		exp -= ExpToLevel(level)
		level++
		gained++
	}
	return level, exp, gained
}

// Feed возвращает счастье после amount порций корма (не выше максимума).
func Feed(g *config.Game, happiness int, amount int64) int {
	next := common.AddSat(int64(happiness), common.MulSat(int64(g.PetFoodHappiness), amount))
	if next > ledger.PetMaxHappiness {
		return ledger.PetMaxHappiness
	}
	return common.ClampRange(int(next), 0, ledger.PetMaxHappiness)
}

// Play: исход игры с питомцем.
type Play struct {
	ExpGained    int
	HappyCost    int
	LevelsGained int
	Pet          ledger.Pet // питомец после игры
}

// RollPlay разыгрывает игру с питомцем. Если счастье ниже порога: ErrPetTooSad.
func RollPlay(src Source, g *config.Game, pet ledger.Pet) (Play, error) {
	if pet.Happiness < g.PetPlayMinHappiness {
		return Play{}, common.ErrPetTooSad
	}
	p := Play{
		ExpGained: Between(src, g.PetPlayExpMin, g.PetPlayExpMax),
		HappyCost: Between(src, g.PetPlayCostMin, g.PetPlayCostMax),
		Pet:       pet,
	}
	p.Pet.Happiness = common.ClampRange(p.Pet.Happiness-p.HappyCost, 0, ledger.PetMaxHappiness)
	p.Pet.Level, p.Pet.Exp, p.LevelsGained = LevelUp(pet.Level, pet.Exp+p.ExpGained)
	return p, nil
}

package rewards

import (
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
)

// Catch: исход одной рыбалки.
type Catch struct {
	MaxCatch     int   // верхняя граница базового улова
	Base         int64 // базовый улов в [1, MaxCatch]
	Bonus        int64 // бонус «огромного улова» (0, если не выпал)
	Huge         bool
	Total        int64 // Base + Bonus
	CoinsPerFish int64
	Coins        int64
	XP           int64
}

// MaxCatch = BASE_MAX + min(UPGRADE_CAP, уровень удочки).
func MaxCatch(g *config.Game, rodLevel int64) int {
	bonus := rodLevel
	if bonus > int64(g.FishUpgradeCap) {
		bonus = int64(g.FishUpgradeCap)
	}
	if bonus < 0 {
		bonus = 0
	}
	return g.FishBaseMax + int(bonus)
}

// HugeCatchChance = base_chance + rod_level × per_level_bonus.
func HugeCatchChance(g *config.Game, rodLevel int64) float64 {
	return g.FishBonusChance + float64(rodLevel)*g.FishBonusPerLevel
}

// RollCatch разыгрывает улов для удочки уровня rodLevel.
//
// Монеты = улов × (случайная цена рыбы + уровень удочки), опыт = улов × XP_PER_FISH.
func RollCatch(src Source, g *config.Game, rodLevel int64) Catch {
	if rodLevel < 0 {
		rodLevel = 0
	}
	c := Catch{MaxCatch: MaxCatch(g, rodLevel)}
	c.Base = int64(Between(src, 1, c.MaxCatch))

	if src.Float64() < HugeCatchChance(g, rodLevel) {
		c.Huge = true
		c.Bonus = int64(Between(src, g.FishBonusMin, g.FishBonusMax))
	}
	c.Total = c.Base + c.Bonus

	c.CoinsPerFish = common.AddSat(int64(Between(src, g.FishValueMin, g.FishValueMax)), rodLevel)
	c.Coins = common.MulSat(c.Total, c.CoinsPerFish)
	c.XP = common.MulSat(c.Total, g.FishXPPerFish)
	return c
}

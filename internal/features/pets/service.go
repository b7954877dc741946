// Package pets управляет питомцем игрока: просмотр, усыновление, переименование, кормление, игра.
// Изменения питомца: частичные обновления по закрытому списку полей (ledger.PetPatch).
package pets

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Status: питомец и запас корма.
type Status struct {
	Pet  ledger.Pet
	Food int64
}

// FeedResult: итог кормления.
type FeedResult struct {
	Pet      ledger.Pet
	Eaten    int64
	FoodLeft int64
}

// Service управляет питомцами.
type Service struct {
	store ledger.Store
	game  *config.Game
	src   rewards.Source
}

// NewService создаёт сервис питомцев.
func NewService(store ledger.Store, game *config.Game, src rewards.Source) *Service {
	return &Service{store: store, game: game, src: src}
}

// View возвращает питомца и запас корма.
func (s *Service) View(ctx context.Context, accountID int64) (*Status, error) {
	var st Status
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		pet, err := tx.Pet(ctx, accountID)
		if err != nil {
			return err
		}
		food, err := tx.Item(ctx, accountID, config.ItemPetFood)
		if err != nil {
			return err
		}
		st = Status{Pet: *pet, Food: food}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// Adopt заводит питомца заново: новое имя, уровень 1, счастье 100, опыт 0.
func (s *Service) Adopt(ctx context.Context, accountID int64, name string) (*ledger.Pet, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, accountID, ledger.PetPatch{
		ledger.PetName:      name,
		ledger.PetLevel:     ledger.PetDefaultLevel,
		ledger.PetHappiness: ledger.PetDefaultHappiness,
		ledger.PetExp:       0,
	})
}

// Rename меняет только имя.
func (s *Service) Rename(ctx context.Context, accountID int64, name string) (*ledger.Pet, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return s.patch(ctx, accountID, ledger.PetPatch{ledger.PetName: name})
}

// Feed скармливает amount порций корма: +PET_FOOD_HAPPINESS за порцию, не выше 100.
func (s *Service) Feed(ctx context.Context, accountID, amount int64) (*FeedResult, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}

	var res FeedResult
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		food, err := tx.Item(ctx, accountID, config.ItemPetFood)
		if err != nil {
			return err
		}
		if food < amount {
			return common.NewInsufficient(config.ItemPetFood, amount, food)
		}
		pet, err := tx.Pet(ctx, accountID)
		if err != nil {
			return err
		}

		pet.Happiness = rewards.Feed(s.game, pet.Happiness, amount)
		if err := tx.SetItem(ctx, accountID, config.ItemPetFood, food-amount); err != nil {
			return err
		}
		if err := tx.PatchPet(ctx, accountID, ledger.PetPatch{ledger.PetHappiness: pet.Happiness}); err != nil {
			return err
		}
		res = FeedResult{Pet: *pet, Eaten: amount, FoodLeft: food - amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Play играет с питомцем: опыт растёт, счастье падает, возможно повышение уровня.
// Если питомец грустный (счастье < PET_PLAY_MIN_HAPPINESS): ErrPetTooSad.
func (s *Service) Play(ctx context.Context, accountID int64) (*rewards.Play, error) {
	var res rewards.Play
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		pet, err := tx.Pet(ctx, accountID)
		if err != nil {
			return err
		}
		p, err := rewards.RollPlay(s.src, s.game, *pet)
		if err != nil {
			return err
		}
		if err := tx.PatchPet(ctx, accountID, ledger.PetPatch{
			ledger.PetHappiness: p.Pet.Happiness,
			ledger.PetLevel:     p.Pet.Level,
			ledger.PetExp:       p.Pet.Exp,
		}); err != nil {
			return err
		}
		res = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.LevelsGained > 0 {
		log.WithFields(log.Fields{
			"user_id": accountID,
			"level":   res.Pet.Level,
		}).Info("Питомец получил уровень")
	}
	return &res, nil
}

func (s *Service) patch(ctx context.Context, accountID int64, patch ledger.PetPatch) (*ledger.Pet, error) {
	var out *ledger.Pet
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		if err := tx.PatchPet(ctx, accountID, patch); err != nil {
			return err
		}
		pet, err := tx.Pet(ctx, accountID)
		out = pet
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// cleanName обрезает имя до PetNameMaxLen символов.
func cleanName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", common.ErrBadArgument
	}
	return common.TruncateRunes(name, ledger.PetNameMaxLen), nil
}

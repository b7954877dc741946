// Package casino: service.go содержит бизнес-логику слотов.
package casino

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Service управляет слотами.
type Service struct {
	store ledger.Store
	game  *config.Game
	src   rewards.Source
	now   func() time.Time
}

// NewService создаёт сервис слотов.
func NewService(store ledger.Store, game *config.Game, src rewards.Source) *Service {
	return &Service{store: store, game: game, src: src, now: time.Now}
}

// ValidateBet проверяет ставку по SLOTS_MIN_BET/SLOTS_MAX_BET.
func (s *Service) ValidateBet(bet int64) error {
	if bet < s.game.SlotsMinBet {
		return common.ErrInvalidAmount
	}
	if s.game.SlotsMaxBet > 0 && bet > s.game.SlotsMaxBet {
		return common.ErrInvalidAmount
	}
	if !rewards.PayoutFits(s.game, bet) {
		return common.ErrAmountTooLarge
	}
	return nil
}

// Spin списывает ставку, крутит барабаны и начисляет выплату: всё в одной транзакции.
// Баланс после спина = баланс до − ставка + выплата.
func (s *Service) Spin(ctx context.Context, accountID, bet int64, privileged bool) (*SpinResult, error) {
	if err := s.ValidateBet(bet); err != nil {
		return nil, err
	}

	now := s.now()
	var res SpinResult

	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.Balance < bet {
			return common.NewInsufficient("coins", bet, acc.Balance)
		}

		// Ставка списывается до розыгрыша
		acc.Balance -= bet
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:   accountID,
			Delta:       -bet,
			Kind:        ledger.KindSlotsBet,
			Description: "Slots bet",
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		forced := privileged && s.game.SlotsForceJackpotRole
		var draw rewards.Draw
		if forced {
			draw = rewards.ForcedJackpot(s.game)
		} else {
			draw = rewards.Spin(s.src, s.game.SlotsSymbols)
		}
		payout, outcome := rewards.SlotPayout(s.game, draw, bet)

		if payout > 0 {
			acc.Balance = common.AddSat(acc.Balance, payout)
			if err := tx.Record(ctx, ledger.Entry{
				AccountID:   accountID,
				Delta:       payout,
				Kind:        ledger.KindSlotsWin,
				Description: "Slots win: " + string(outcome),
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}

		res = SpinResult{
			Draw:    draw,
			Outcome: outcome,
			Bet:     bet,
			Payout:  payout,
			Balance: acc.Balance,
			Forced:  forced,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": accountID,
		"bet":     bet,
		"payout":  res.Payout,
		"outcome": res.Outcome,
	}).Debug("Спин слотов")
	return &res, nil
}

// service.go: рыбалка и нюк. Каждое действие выполняется в одной транзакции.

package fishing

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Service: рыбалка и нюки.
type Service struct {
	store ledger.Store
	game  *config.Game
	src   rewards.Source
	now   func() time.Time
}

// NewService создаёт сервис рыбалки.
func NewService(store ledger.Store, game *config.Game, src rewards.Source) *Service {
	return &Service{store: store, game: game, src: src, now: time.Now}
}

// WithClock подменяет часы (для тестов).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fish закидывает удочку: проверяет кулдаун, разыгрывает улов и начисляет рыбу, монеты и опыт.
func (s *Service) Fish(ctx context.Context, accountID int64) (*FishResult, error) {
	now := s.now()
	var res FishResult

	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if err := ledger.CheckCooldown(ctx, tx, accountID, ledger.ActionFish, s.game.FishCooldown, now); err != nil {
			return err
		}
		rod, err := tx.Item(ctx, accountID, config.ItemRod)
		if err != nil {
			return err
		}

		c := rewards.RollCatch(s.src, s.game, rod)
		acc.FishCount = common.AddSat(acc.FishCount, c.Total)
		acc.Balance = common.AddSat(acc.Balance, c.Coins)
		acc.XP = common.AddSat(acc.XP, c.XP)
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, accountID, ledger.ActionFish, now); err != nil {
			return err
		}
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:   accountID,
			Delta:       c.Coins,
			Kind:        ledger.KindFish,
			Description: fmt.Sprintf("Caught %d fish", c.Total),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		res = FishResult{Catch: c, RodLevel: rod, FishCount: acc.FishCount, Balance: acc.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": accountID,
		"caught":  res.Catch.Total,
		"huge":    res.Catch.Huge,
	}).Debug("Рыбалка")
	return &res, nil
}

// Nuke взрывает рыбу цели. Нужен заряд "nuke" (привилегированным не нужен),
// у цели должна быть рыба, кулдаун действует для всех.
func (s *Service) Nuke(ctx context.Context, actorID, targetID int64, privileged bool) (*NukeResult, error) {
	if actorID == targetID {
		return nil, common.ErrSelfTarget
	}
	now := s.now()
	var res NukeResult

	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		actor, target, err := lockPair(ctx, tx, actorID, targetID)
		if err != nil {
			return err
		}
		if err := ledger.CheckCooldown(ctx, tx, actorID, ledger.ActionNuke, s.game.NukeCooldown, now); err != nil {
			return err
		}
		charges, err := tx.Item(ctx, actorID, config.ItemNuke)
		if err != nil {
			return err
		}
		if !privileged && charges < 1 {
			return common.NewInsufficient(config.ItemNuke, 1, charges)
		}
		if target.FishCount <= 0 {
			return common.ErrTargetEmpty
		}

		n := rewards.RollNuke(s.src, s.game, target.FishCount)
		target.FishCount = n.TargetAfter
		if err := tx.SaveAccount(ctx, target); err != nil {
			return err
		}

		if !privileged {
			charges--
			if err := tx.SetItem(ctx, actorID, config.ItemNuke, charges); err != nil {
				return err
			}
		}
		actor.FishCount = common.AddSat(actor.FishCount, n.Salvage)
		actor.Balance = common.AddSat(actor.Balance, n.CoinSalvage)
		if err := tx.SaveAccount(ctx, actor); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, actorID, ledger.ActionNuke, now); err != nil {
			return err
		}
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:      actorID,
			CounterpartyID: &targetID,
			Delta:          n.CoinSalvage,
			Kind:           ledger.KindNukeSalvage,
			Description:    fmt.Sprintf("Nuke salvage: %d fish destroyed", n.Destroyed),
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		res = NukeResult{
			Nuke:           n,
			ChargesLeft:    charges,
			ChargeConsumed: !privileged,
			ActorFish:      actor.FishCount,
			ActorBalance:   actor.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":   actorID,
		"target_id": targetID,
		"pct":       res.Nuke.Pct,
		"destroyed": res.Nuke.Destroyed,
	}).Info("Нюк")
	return &res, nil
}

// SelfNuke выполняет нюк без цели: платим SELF_NUKE_COST и подбрасываем монету.
func (s *Service) SelfNuke(ctx context.Context, accountID int64) (*SelfNukeResult, error) {
	now := s.now()
	var res SelfNukeResult

	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if err := ledger.CheckCooldown(ctx, tx, accountID, ledger.ActionNuke, s.game.NukeCooldown, now); err != nil {
			return err
		}
		if acc.Balance < s.game.SelfNukeCost {
			return common.NewInsufficient("coins", s.game.SelfNukeCost, acc.Balance)
		}

		before := acc.Balance
		sn := rewards.RollSelfNuke(s.src, s.game, acc.FishCount)
		acc.Balance -= sn.Cost
		if sn.Won {
			acc.Balance = common.AddSat(acc.Balance, sn.Payout)
		} else {
			acc.FishCount = common.ClampMin(acc.FishCount - sn.Destroyed)
			acc.Balance = common.ClampMin(acc.Balance - sn.Penalty)
		}
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, accountID, ledger.ActionNuke, now); err != nil {
			return err
		}

		desc := "Self-detonation: lost"
		if sn.Won {
			desc = "Self-detonation: won"
		}
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:   accountID,
			Delta:       acc.Balance - before,
			Kind:        ledger.KindSelfNuke,
			Description: desc,
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		res = SelfNukeResult{
			SelfNuke:  sn,
			Delta:     acc.Balance - before,
			FishCount: acc.FishCount,
			Balance:   acc.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// lockPair берёт оба аккаунта в порядке возрастания id,
// чтобы встречные нюки не блокировали друг друга.
func lockPair(ctx context.Context, tx ledger.Tx, actorID, targetID int64) (*ledger.Account, *ledger.Account, error) {
	first, second := actorID, targetID
	if second < first {
		first, second = second, first
	}
	a, err := tx.Account(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	b, err := tx.Account(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == actorID {
		return a, b, nil
	}
	return b, a, nil
}

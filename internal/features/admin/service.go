// service.go: мутации чужих аккаунтов. Каждая проверяет права до любых изменений.

package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// Service выполняет админские операции.
type Service struct {
	store  ledger.Store
	game   *config.Game
	policy Policy
	now    func() time.Time
}

// NewService создаёт сервис.
func NewService(store ledger.Store, game *config.Game, policy Policy) *Service {
	return &Service{store: store, game: game, policy: policy, now: time.Now}
}

// Policy возвращает политику доступа.
func (s *Service) Policy() Policy {
	return s.policy
}

// GiveCoins прибавляет amount монет цели (amount может быть отрицательным, итог не меньше нуля).
// Возвращает новый баланс.
func (s *Service) GiveCoins(ctx context.Context, actor Actor, targetID, amount int64) (int64, error) {
	if !s.policy.IsPrivileged(actor) {
		return 0, common.ErrNotPrivileged
	}
	if amount == 0 {
		return 0, common.ErrInvalidAmount
	}
	return s.mutateAccount(ctx, actor, targetID, ledger.KindAdminGive, func(acc *ledger.Account) {
		acc.Balance = common.ClampMin(common.AddSat(acc.Balance, amount))
	})
}

// SetCoins заменяет баланс цели. Отрицательное значение обрезается до нуля.
func (s *Service) SetCoins(ctx context.Context, actor Actor, targetID, value int64) (int64, error) {
	if !s.policy.IsPrivileged(actor) {
		return 0, common.ErrNotPrivileged
	}
	return s.mutateAccount(ctx, actor, targetID, ledger.KindAdminSet, func(acc *ledger.Account) {
		acc.Balance = common.ClampMin(value)
	})
}

// SetFish заменяет количество рыбы цели. В историю пишется запись с нулевой дельтой монет.
func (s *Service) SetFish(ctx context.Context, actor Actor, targetID, value int64) (int64, error) {
	if !s.policy.IsPrivileged(actor) {
		return 0, common.ErrNotPrivileged
	}
	now := s.now()
	var out int64
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, targetID)
		if err != nil {
			return err
		}
		before := acc.FishCount
		acc.FishCount = common.ClampMin(value)
		out = acc.FishCount
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}

		actorID := actor.ID
		return tx.Record(ctx, ledger.Entry{
			AccountID:      targetID,
			CounterpartyID: &actorID,
			Kind:           ledger.KindAdjust,
			Description:    fmt.Sprintf("Fish set %d → %d by admin %d", before, out, actor.ID),
			CreatedAt:      now,
		})
	})
	if err != nil {
		return 0, err
	}
	s.audit(actor, targetID, "setfish", out)
	return out, nil
}

// GiveItem прибавляет amount предметов цели. Предмет должен быть в магазине.
func (s *Service) GiveItem(ctx context.Context, actor Actor, targetID int64, item string, amount int64) (int64, error) {
	if !s.policy.IsPrivileged(actor) {
		return 0, common.ErrNotPrivileged
	}
	item = strings.ToLower(strings.TrimSpace(item))
	if _, ok := s.game.ShopItem(item); !ok {
		return 0, common.ErrUnknownItem
	}
	if amount == 0 {
		return 0, common.ErrInvalidAmount
	}

	var out int64
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, targetID); err != nil {
			return err
		}
		qty, err := ledger.AddItem(ctx, tx, targetID, item, amount)
		out = qty
		return err
	})
	if err != nil {
		return 0, err
	}
	s.audit(actor, targetID, "giveitem "+item, out)
	return out, nil
}

// mutateAccount меняет баланс цели и пишет запись в историю.
func (s *Service) mutateAccount(ctx context.Context, actor Actor, targetID int64, kind string, mutate func(*ledger.Account)) (int64, error) {
	now := s.now()
	var out int64
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, targetID)
		if err != nil {
			return err
		}
		before := acc.Balance
		mutate(acc)
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		out = acc.Balance

		actorID := actor.ID
		return tx.Record(ctx, ledger.Entry{
			AccountID:      targetID,
			CounterpartyID: &actorID,
			Delta:          acc.Balance - before,
			Kind:           kind,
			Description:    fmt.Sprintf("Adjusted by admin %d", actor.ID),
			CreatedAt:      now,
		})
	})
	if err != nil {
		return 0, err
	}
	s.audit(actor, targetID, kind, out)
	return out, nil
}

func (s *Service) audit(actor Actor, targetID int64, action string, value int64) {
	log.WithFields(log.Fields{
		"admin_id":  actor.ID,
		"target_id": targetID,
		"action":    action,
		"value":     value,
	}).Warn("Админская операция")
}

// Package economy: service.go содержит бизнес-логику монет.
package economy

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// Service управляет монетами игроков.
type Service struct {
	ledger *ledger.Ledger
	game   *config.Game
	now    func() time.Time
}

// NewService создаёт сервис экономики.
func NewService(l *ledger.Ledger, game *config.Game) *Service {
	return &Service{ledger: l, game: game, now: time.Now}
}

// WithClock подменяет часы (для тестов).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Profile возвращает аккаунт, инвентарь и питомца игрока.
// Аккаунт создаётся при первом обращении.
func (s *Service) Profile(ctx context.Context, accountID int64) (*ledger.Snapshot, error) {
	snap, err := s.ledger.Snapshot(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения профиля: %w", err)
	}
	return snap, nil
}

// ClaimDaily начисляет ежедневный бонус, если с прошлого прошло DAILY_COOLDOWN.
// На кулдауне возвращает *common.CooldownError и ничего не меняет.
func (s *Service) ClaimDaily(ctx context.Context, accountID int64) (*DailyResult, error) {
	now := s.now()
	var res DailyResult

	err := s.ledger.Store().Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if err := ledger.CheckCooldown(ctx, tx, accountID, ledger.ActionDaily, s.game.DailyCooldown, now); err != nil {
			return err
		}

		acc.Balance = common.AddSat(acc.Balance, s.game.DailyReward)
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		if err := tx.StampAction(ctx, accountID, ledger.ActionDaily, now); err != nil {
			return err
		}
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:   accountID,
			Delta:       s.game.DailyReward,
			Kind:        ledger.KindDaily,
			Description: "Daily reward",
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		res = DailyResult{
			Reward:    s.game.DailyReward,
			Balance:   acc.Balance,
			NextClaim: now.Add(s.game.DailyCooldown),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": accountID,
		"reward":  res.Reward,
	}).Info("Ежедневный бонус выдан")
	return &res, nil
}

// Leaderboard возвращает top-N по рыбе или монетам.
// limit <= 0: размер по умолчанию, больше MaxLeaderboard не отдаём.
func (s *Service) Leaderboard(ctx context.Context, metric ledger.Metric, limit int) ([]ledger.Standing, error) {
	if limit <= 0 {
		limit = s.game.LeaderboardSize
	}
	if limit > MaxLeaderboard {
		limit = MaxLeaderboard
	}
	return s.ledger.Top(ctx, metric, limit)
}

// History возвращает последние записи истории монет.
func (s *Service) History(ctx context.Context, accountID int64) ([]ledger.Entry, error) {
	return s.ledger.History(ctx, accountID, HistoryLimit)
}

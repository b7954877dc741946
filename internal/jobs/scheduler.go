// Package jobs управляет фоновыми задачами (cron).
// Сейчас задача одна: ежедневная публикация лидербордов в канал объявлений.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// Leaderboards: источник таблиц лидеров (economy.Service).
type Leaderboards interface {
	Leaderboard(ctx context.Context, metric ledger.Metric, limit int) ([]ledger.Standing, error)
}

// Sender отправляет ответ в канал (bot.Bot).
type Sender interface {
	SendMessage(channelID string, reply chat.Reply) error
}

// Formatter рисует строки лидерборда.
type Formatter func(standings []ledger.Standing, unit string) string

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron      *cron.Cron
	boards    Leaderboards
	sender    Sender
	format    Formatter
	channelID string
	spec      string
}

// NewScheduler создаёт планировщик в часовом поясе tz (пусто или ошибка: UTC).
func NewScheduler(boards Leaderboards, sender Sender, format Formatter, channelID, spec, tz string) *Scheduler {
	loc := time.UTC
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			log.WithError(err).Warnf("Не удалось загрузить часовой пояс %s, используем UTC", tz)
		} else {
			loc = l
		}
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		boards:    boards,
		sender:    sender,
		format:    format,
		channelID: channelID,
		spec:      spec,
	}
}

// Start запускает все фоновые задачи.
// Без канала объявлений публикация не регистрируется.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.channelID == "" {
		log.Info("ANNOUNCE_CHANNEL_ID не задан, публикация лидерборда отключена")
	} else {
		_, err := s.cron.AddFunc(s.spec, func() {
			log.Info("[CRON] Публикация лидерборда")
			if err := s.PostLeaderboards(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка публикации лидерборда")
			}
		})
		if err != nil {
			return fmt.Errorf("некорректное расписание %q: %w", s.spec, err)
		}
	}

	s.cron.Start()
	log.WithField("entries", len(s.cron.Entries())).Info("Планировщик задач запущен")
	return nil
}

// Stop останавливает планировщик и ждёт выполняющиеся задачи.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}

// PostLeaderboards отправляет обе таблицы в канал объявлений.
func (s *Scheduler) PostLeaderboards(ctx context.Context) error {
	boards := []struct {
		metric ledger.Metric
		title  string
		unit   string
	}{
		{ledger.MetricFish, "🎣 Daily fish leaderboard", "fish"},
		{ledger.MetricBalance, "💰 Daily richest players", "coins"},
	}

	reply := chat.Reply{Title: "📣 Leaderboards", Color: chat.ColorGold}
	for _, b := range boards {
		standings, err := s.boards.Leaderboard(ctx, b.metric, 0)
		if err != nil {
			return fmt.Errorf("лидерборд %s: %w", b.metric, err)
		}
		reply.AddField(b.title, s.format(standings, b.unit), false)
	}

	if err := s.sender.SendMessage(s.channelID, reply); err != nil {
		return fmt.Errorf("отправка в канал %s: %w", s.channelID, err)
	}
	return nil
}

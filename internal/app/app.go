// Package app инициализирует все компоненты приложения.
// app.go собирает приложение: открывает хранилище, создаёт сервисы, обработчики,
// диспетчер, Discord-сессию, планировщик и HTTP-статус.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/bot"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/db/postgres"
	"fishnuke.gg/discord-bot/internal/db/sqlite"
	"fishnuke.gg/discord-bot/internal/dispatch"
	"fishnuke.gg/discord-bot/internal/features/admin"
	"fishnuke.gg/discord-bot/internal/features/casino"
	"fishnuke.gg/discord-bot/internal/features/economy"
	"fishnuke.gg/discord-bot/internal/features/fishing"
	"fishnuke.gg/discord-bot/internal/features/pets"
	"fishnuke.gg/discord-bot/internal/features/shop"
	"fishnuke.gg/discord-bot/internal/httpapi"
	"fishnuke.gg/discord-bot/internal/jobs"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// App содержит все компоненты приложения.
type App struct {
	Bot        *bot.Bot
	Dispatcher *dispatch.Dispatcher
	Scheduler  *jobs.Scheduler
	HTTP       *httpapi.Server
	Store      ledger.Store
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен: компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище ===
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Сервисы и обработчики ===
	dispatcher, economyService := Wire(cfg, store, rewards.NewSource())

	// === 3. Discord ===
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("ошибка создания Discord-сессии: %w", err)
	}
	b := bot.New(session, cfg, dispatcher)

	// === 4. Планировщик задач ===
	scheduler := jobs.NewScheduler(
		economyService, b, economy.FormatStandings,
		cfg.AnnounceChannelID, cfg.LeaderboardCron, cfg.AppTimezone,
	)

	a := &App{
		Bot:        b,
		Dispatcher: dispatcher,
		Scheduler:  scheduler,
		Store:      store,
	}

	// === 5. HTTP-статус (необязательно) ===
	if cfg.HTTPAddr != "" {
		router := httpapi.NewRouter(store, economyService, cfg.AppEnv != "development")
		a.HTTP = httpapi.NewServer(cfg.HTTPAddr, router)
	}
	return a, nil
}

// OpenStore открывает хранилище по DB_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config) (ledger.Store, error) {
	defaults := ledger.Defaults{
		StartingBalance: cfg.Game.StartingBalance,
		PetName:         cfg.Game.PetDefaultName,
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		return postgres.NewStore(pool, defaults), nil
	default:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, defaults)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
		}
		return store, nil
	}
}

// Wire собирает сервисы, обработчики и диспетчер поверх готового хранилища.
func Wire(cfg *config.Config, store ledger.Store, src rewards.Source) (*dispatch.Dispatcher, *economy.Service) {
	game := &cfg.Game
	policy := admin.Policy{OwnerID: cfg.OwnerID, AdminRole: cfg.AdminRole}

	economyService := economy.NewService(ledger.New(store), game)
	fishingService := fishing.NewService(store, game, src)
	shopService := shop.NewService(store, game)
	casinoService := casino.NewService(store, game, src)
	petsService := pets.NewService(store, game, src)
	adminService := admin.NewService(store, game, policy)

	handlers := dispatch.Handlers{
		Economy: economy.NewHandler(economyService),
		Fishing: fishing.NewHandler(fishingService),
		Shop:    shop.NewHandler(shopService),
		Casino:  casino.NewHandler(casinoService),
		Pets:    pets.NewHandler(petsService),
		Admin:   admin.NewHandler(adminService),
	}
	features := dispatch.Features{
		Slots: cfg.FeatureSlotsEnabled,
		Pets:  cfg.FeaturePetsEnabled,
		Nuke:  cfg.FeatureNukeEnabled,
	}
	return dispatch.New(cfg.CommandPrefix, policy, handlers, features), economyService
}

// Run запускает планировщик, HTTP и бота. Блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		return err
	}
	if a.HTTP != nil {
		a.HTTP.Start()
	}
	return a.Bot.Start(ctx)
}

// Shutdown останавливает фоновые компоненты и закрывает хранилище.
func (a *App) Shutdown() error {
	a.Scheduler.Stop()

	var errs []error
	if a.HTTP != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.HTTP.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("хранилище: %w", err))
	}
	log.Info("Компоненты остановлены")
	return errors.Join(errs...)
}

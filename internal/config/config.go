// Package config загружает конфигурацию бота из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры,
// перед этим godotenv подхватывает .env (если он есть).
// Конфигурация читается один раз при старте и дальше только передаётся по указателю.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Драйверы хранилища
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config содержит ВСЕ настройки приложения.
type Config struct {
	// --- Discord ---
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	// Префикс команд в чате (!fish, !daily)
	CommandPrefix string `envconfig:"COMMAND_PREFIX" default:"!"`
	// Канал для ежедневной публикации лидерборда (пусто: не публикуем)
	AnnounceChannelID string `envconfig:"ANNOUNCE_CHANNEL_ID"`
	// Каналы, где бот отвечает на команды (пусто: во всех каналах сервера)
	AllowedChannelIDs []string `envconfig:"ALLOWED_CHANNEL_IDS"`

	// --- Авторизация ---
	// Владелец бота всегда привилегирован
	OwnerID int64 `envconfig:"OWNER_ID" default:"0"`
	// Роль, которая даёт права администратора
	AdminRole string `envconfig:"ADMIN_ROLE" default:"Admin"`

	// --- Database ---
	DBDriver   string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"data/fishnuke.db"`
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"fishnuke"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"fishnuke"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"2"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`
	// HTTP-статус (healthz, лидерборды). Пусто: не поднимаем.
	HTTPAddr string `envconfig:"HTTP_ADDR"`

	// --- Bot runtime ---
	// Сколько сообщений обрабатываем параллельно
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`

	// --- Jobs ---
	LeaderboardCron string `envconfig:"LEADERBOARD_CRON" default:"0 12 * * *"`

	// --- Feature Flags ---
	FeatureSlotsEnabled bool `envconfig:"FEATURE_SLOTS_ENABLED" default:"true"`
	FeaturePetsEnabled  bool `envconfig:"FEATURE_PETS_ENABLED" default:"true"`
	FeatureNukeEnabled  bool `envconfig:"FEATURE_NUKE_ENABLED" default:"true"`

	// --- Игровые константы ---
	Game Game `envconfig:"GAME"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет значения, которые envconfig проверить не может.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH не задан")
		}
	case DriverPostgres:
		if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("неизвестный DB_DRIVER %q (sqlite|postgres)", c.DBDriver)
	}
	if c.CommandPrefix == "" {
		return fmt.Errorf("COMMAND_PREFIX не может быть пустым")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT должен быть > 0")
	}
	if c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS и RATE_LIMIT_WINDOW должны быть > 0")
	}
	if err := c.Game.Validate(); err != nil {
		return fmt.Errorf("игровые константы: %w", err)
	}
	return nil
}

// Load читает .env и переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	// .env необязателен: в контейнере всё приходит через окружение
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("не удалось прочитать .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadGame загружает только игровые константы (GAME_*) с их значениями по умолчанию.
// Нужен тестам и утилитам, которым не нужен токен Discord.
func LoadGame() (*Game, error) {
	var g Game
	if err := envconfig.Process("GAME", &g); err != nil {
		return nil, fmt.Errorf("не удалось загрузить игровые константы: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

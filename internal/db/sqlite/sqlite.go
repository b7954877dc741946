// Package sqlite: локальное хранилище аккаунтов на SQLite (modernc.org/sqlite, без cgo).
// Используется по умолчанию (DB_DRIVER=sqlite) и в тестах.
//
// SQLite держит одно соединение: все транзакции выполняются последовательно,
// поэтому блокировка строк (как FOR UPDATE в Postgres) не нужна.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"fishnuke.gg/discord-bot/internal/ledger"
)

// Store: реализация ledger.Store поверх SQLite.
type Store struct {
	db       *sql.DB
	defaults ledger.Defaults
}

var _ ledger.Store = (*Store)(nil)

// Open открывает (или создаёт) файл БД, применяет миграции и возвращает хранилище.
func Open(ctx context.Context, dbPath string, defaults ledger.Defaults) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог БД: %w", err)
	}

	// DSN:
	// - busy_timeout: ожидание блокировки
	// - journal_mode(WAL): журнал упреждающей записи
	// - synchronous(NORMAL): рекомендуется вместе с WAL
	// - foreign_keys(1): SQLite по умолчанию их не проверяет
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)",
		filepath.Clean(dbPath),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.WithField("path", dbPath).Info("SQLite открыта")
	return &Store{db: db, defaults: defaults}, nil
}

// Ping проверяет соединение.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close закрывает БД.
func (s *Store) Close() error {
	return s.db.Close()
}

// Atomic выполняет fn в транзакции.
func (s *Store) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&tx{tx: sqlTx, defaults: s.defaults}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// Top возвращает лидерборд по рыбе или монетам.
func (s *Store) Top(ctx context.Context, metric ledger.Metric, limit int) ([]ledger.Standing, error) {
	if limit <= 0 {
		limit = 10
	}

	var query string
	switch metric {
	case ledger.MetricFish:
		query = `SELECT account_id, fish_count FROM accounts ORDER BY fish_count DESC, account_id ASC LIMIT ?`
	case ledger.MetricBalance:
		query = `SELECT account_id, balance FROM accounts ORDER BY balance DESC, account_id ASC LIMIT ?`
	default:
		return nil, fmt.Errorf("неизвестная метрика %q", metric)
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения лидерборда: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.Standing, 0, limit)
	for rows.Next() {
		var st ledger.Standing
		if err := rows.Scan(&st.AccountID, &st.Value); err != nil {
			return nil, fmt.Errorf("ошибка сканирования лидерборда: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// History возвращает последние записи истории аккаунта.
func (s *Store) History(ctx context.Context, accountID int64, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, counterparty_id, delta, kind, description, created_at
		FROM ledger_entries
		WHERE account_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var (
			e           ledger.Entry
			counterpart sql.NullInt64
			createdMs   int64
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &counterpart, &e.Delta, &e.Kind, &e.Description, &createdMs); err != nil {
			return nil, fmt.Errorf("ошибка сканирования истории: %w", err)
		}
		if counterpart.Valid {
			v := counterpart.Int64
			e.CounterpartyID = &v
		}
		e.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

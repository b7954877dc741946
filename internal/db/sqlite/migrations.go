package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Миграции применяются по порядку, версия записывается в schema_migrations.
var migrations = []struct {
	version int
	sql     string
}{
	{1, migration001Accounts},
	{2, migration002Items},
	{3, migration003Pets},
	{4, migration004Ledger},
}

var migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    account_id INTEGER PRIMARY KEY,
    balance    INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
    fish_count INTEGER NOT NULL DEFAULT 0 CHECK (fish_count >= 0),
    xp         INTEGER NOT NULL DEFAULT 0 CHECK (xp >= 0),
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_accounts_fish ON accounts (fish_count DESC);
CREATE INDEX IF NOT EXISTS idx_accounts_balance ON accounts (balance DESC);
CREATE TABLE IF NOT EXISTS cooldowns (
    account_id INTEGER NOT NULL REFERENCES accounts(account_id),
    action     TEXT    NOT NULL,
    last_at    INTEGER NOT NULL,
    PRIMARY KEY (account_id, action)
);
`

var migration002Items = `
CREATE TABLE IF NOT EXISTS items (
    account_id INTEGER NOT NULL REFERENCES accounts(account_id),
    item_name  TEXT    NOT NULL,
    quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    PRIMARY KEY (account_id, item_name)
);
`

var migration003Pets = `
CREATE TABLE IF NOT EXISTS pets (
    account_id INTEGER PRIMARY KEY REFERENCES accounts(account_id),
    name       TEXT    NOT NULL DEFAULT 'Lucky',
    level      INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
    happiness  INTEGER NOT NULL DEFAULT 100 CHECK (happiness BETWEEN 0 AND 100),
    exp        INTEGER NOT NULL DEFAULT 0 CHECK (exp >= 0)
);
`

var migration004Ledger = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id      INTEGER NOT NULL REFERENCES accounts(account_id),
    counterparty_id INTEGER,
    delta           INTEGER NOT NULL,
    kind            TEXT    NOT NULL,
    description     TEXT    NOT NULL DEFAULT '',
    created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries (account_id, id DESC);
`

// runMigrations создаёт таблицу версий и применяет недостающие миграции.
func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
		)
	`)
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		applied, err := execMigration(ctx, db, m.version, m.sql)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.version)
		}
	}
	return nil
}

// execMigration выполняет одну миграцию в транзакции, если она ещё не применена.
func execMigration(ctx context.Context, db *sql.DB, version int, stmt string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}
	return true, tx.Commit()
}

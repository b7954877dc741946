// Package postgres: queries.go содержит SQL миграций и их выполнение.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Миграции встроены в код для упрощения деплоя.
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
    account_id BIGINT PRIMARY KEY,
    balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
    fish_count BIGINT NOT NULL DEFAULT 0 CHECK (fish_count >= 0),
    xp BIGINT NOT NULL DEFAULT 0 CHECK (xp >= 0),
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_accounts_fish ON accounts(fish_count DESC);
CREATE INDEX IF NOT EXISTS idx_accounts_balance ON accounts(balance DESC);
CREATE TABLE IF NOT EXISTS cooldowns (
    account_id BIGINT NOT NULL REFERENCES accounts(account_id),
    action VARCHAR(16) NOT NULL,
    last_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (account_id, action)
);
`

var migration002Items = `
CREATE TABLE IF NOT EXISTS items (
    account_id BIGINT NOT NULL REFERENCES accounts(account_id),
    item_name VARCHAR(64) NOT NULL,
    quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    PRIMARY KEY (account_id, item_name)
);
`

var migration003Pets = `
CREATE TABLE IF NOT EXISTS pets (
    account_id BIGINT PRIMARY KEY REFERENCES accounts(account_id),
    name VARCHAR(32) NOT NULL DEFAULT 'Lucky',
    level INTEGER NOT NULL DEFAULT 1 CHECK (level >= 1),
    happiness INTEGER NOT NULL DEFAULT 100 CHECK (happiness BETWEEN 0 AND 100),
    exp INTEGER NOT NULL DEFAULT 0 CHECK (exp >= 0)
);
`

var migration004Ledger = `
CREATE TABLE IF NOT EXISTS ledger_entries (
    id BIGSERIAL PRIMARY KEY,
    account_id BIGINT NOT NULL REFERENCES accounts(account_id),
    counterparty_id BIGINT,
    delta BIGINT NOT NULL,
    kind VARCHAR(32) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries(account_id, id DESC);
`

// ExecMigrationSQL выполняет один SQL-запрос миграции в транзакции.
// Если запрос упадёт: транзакция откатится автоматически.
// Возвращает true, если миграция применена сейчас (false: была применена раньше).
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Проверяем, не была ли эта миграция уже применена
	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	return true, tx.Commit(ctx)
}

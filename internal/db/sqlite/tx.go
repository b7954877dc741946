package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// tx: ledger.Tx поверх *sql.Tx.
type tx struct {
	tx       *sql.Tx
	defaults ledger.Defaults
}

// Account возвращает аккаунт, создавая его (и питомца) при первом обращении.
func (t *tx) Account(ctx context.Context, id int64) (*ledger.Account, error) {
	now := time.Now().UTC()
	fresh := t.defaults.NewAccount(id, now)
	pet := t.defaults.NewPet(id)

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (account_id, balance, fish_count, xp, created_at, updated_at)
		VALUES (?, ?, 0, 0, ?, ?)
		ON CONFLICT (account_id) DO NOTHING
	`, id, fresh.Balance, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO pets (account_id, name, level, happiness, exp)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO NOTHING
	`, id, pet.Name, pet.Level, pet.Happiness, pet.Exp)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания питомца: %w", err)
	}

	var (
		a                  ledger.Account
		createdMs, updated int64
	)
	err = t.tx.QueryRowContext(ctx, `
		SELECT account_id, balance, fish_count, xp, created_at, updated_at
		FROM accounts WHERE account_id = ?
	`, id).Scan(&a.ID, &a.Balance, &a.FishCount, &a.XP, &createdMs, &updated)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аккаунта: %w", err)
	}
	a.CreatedAt = time.UnixMilli(createdMs).UTC()
	a.UpdatedAt = time.UnixMilli(updated).UTC()
	return &a, nil
}

// SaveAccount сохраняет числовые поля аккаунта (с обрезкой до нуля).
func (t *tx) SaveAccount(ctx context.Context, a *ledger.Account) error {
	a.Balance = common.ClampMin(a.Balance)
	a.FishCount = common.ClampMin(a.FishCount)
	a.XP = common.ClampMin(a.XP)
	a.UpdatedAt = time.Now().UTC()

	_, err := t.tx.ExecContext(ctx, `
		UPDATE accounts
		SET balance = ?, fish_count = ?, xp = ?, updated_at = ?
		WHERE account_id = ?
	`, a.Balance, a.FishCount, a.XP, a.UpdatedAt.UnixMilli(), a.ID)
	if err != nil {
		return fmt.Errorf("ошибка сохранения аккаунта: %w", err)
	}
	return nil
}

// Item возвращает количество предмета (0, если записи нет).
func (t *tx) Item(ctx context.Context, accountID int64, name string) (int64, error) {
	var qty int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT quantity FROM items WHERE account_id = ? AND item_name = ?`, accountID, name,
	).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения предмета %s: %w", name, err)
	}
	return qty, nil
}

// Items возвращает ненулевые предметы аккаунта.
func (t *tx) Items(ctx context.Context, accountID int64) ([]ledger.InventoryItem, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT account_id, item_name, quantity FROM items
		WHERE account_id = ? AND quantity > 0
		ORDER BY item_name
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения инвентаря: %w", err)
	}
	defer rows.Close()

	var out []ledger.InventoryItem
	for rows.Next() {
		var it ledger.InventoryItem
		if err := rows.Scan(&it.AccountID, &it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("ошибка сканирования инвентаря: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SetItem заменяет количество предмета (upsert).
func (t *tx) SetItem(ctx context.Context, accountID int64, name string, qty int64) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO items (account_id, item_name, quantity) VALUES (?, ?, ?)
		ON CONFLICT (account_id, item_name) DO UPDATE SET quantity = excluded.quantity
	`, accountID, name, common.ClampMin(qty))
	if err != nil {
		return fmt.Errorf("ошибка записи предмета %s: %w", name, err)
	}
	return nil
}

// LastAction возвращает время последнего действия.
func (t *tx) LastAction(ctx context.Context, accountID int64, action ledger.Action) (time.Time, error) {
	var ms int64
	err := t.tx.QueryRowContext(ctx,
		`SELECT last_at FROM cooldowns WHERE account_id = ? AND action = ?`, accountID, string(action),
	).Scan(&ms)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("ошибка чтения кулдауна: %w", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// StampAction записывает время действия. MAX() держит время монотонным.
func (t *tx) StampAction(ctx context.Context, accountID int64, action ledger.Action, at time.Time) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO cooldowns (account_id, action, last_at) VALUES (?, ?, ?)
		ON CONFLICT (account_id, action) DO UPDATE SET last_at = MAX(cooldowns.last_at, excluded.last_at)
	`, accountID, string(action), at.UnixMilli())
	if err != nil {
		return fmt.Errorf("ошибка записи кулдауна: %w", err)
	}
	return nil
}

// Pet возвращает питомца (Account создаёт его вместе с аккаунтом).
func (t *tx) Pet(ctx context.Context, accountID int64) (*ledger.Pet, error) {
	var p ledger.Pet
	err := t.tx.QueryRowContext(ctx, `
		SELECT account_id, name, level, happiness, exp FROM pets WHERE account_id = ?
	`, accountID).Scan(&p.AccountID, &p.Name, &p.Level, &p.Happiness, &p.Exp)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := t.Account(ctx, accountID); err != nil {
			return nil, err
		}
		return t.defaults.NewPet(accountID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения питомца: %w", err)
	}
	return &p, nil
}

// PatchPet обновляет разрешённые поля питомца.
func (t *tx) PatchPet(ctx context.Context, accountID int64, patch ledger.PetPatch) error {
	cols, vals, err := ledger.ValidatePatch(patch)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = ?"
	}
	vals = append(vals, accountID)

	query := "UPDATE pets SET " + strings.Join(sets, ", ") + " WHERE account_id = ?"
	if _, err := t.tx.ExecContext(ctx, query, vals...); err != nil {
		return fmt.Errorf("ошибка обновления питомца: %w", err)
	}
	return nil
}

// Record добавляет запись в историю.
func (t *tx) Record(ctx context.Context, e ledger.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var counterpart any
	if e.CounterpartyID != nil {
		counterpart = *e.CounterpartyID
	}
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (account_id, counterparty_id, delta, kind, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.AccountID, counterpart, e.Delta, e.Kind, e.Description, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("ошибка записи истории: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// Store: реализация ledger.Store поверх пула PostgreSQL.
// Все денежные операции выполняются в транзакциях БД для целостности данных,
// строка аккаунта блокируется через SELECT ... FOR UPDATE.
type Store struct {
	db       *pgxpool.Pool
	defaults ledger.Defaults
}

var _ ledger.Store = (*Store)(nil)

// NewStore создаёт хранилище. Пул должен быть уже смигрирован (RunMigrations).
func NewStore(db *pgxpool.Pool, defaults ledger.Defaults) *Store {
	return &Store{db: db, defaults: defaults}
}

// Ping проверяет соединение.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close закрывает пул.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// Atomic выполняет fn в транзакции (либо всё, либо ничего).
func (s *Store) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	pgTx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer pgTx.Rollback(ctx)

	if err := fn(&tx{tx: pgTx, defaults: s.defaults}); err != nil {
		return err
	}
	if err := pgTx.Commit(ctx); err != nil {
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
		query = `SELECT account_id, fish_count FROM accounts ORDER BY fish_count DESC, account_id ASC LIMIT $1`
	case ledger.MetricBalance:
		query = `SELECT account_id, balance FROM accounts ORDER BY balance DESC, account_id ASC LIMIT $1`
	default:
		return nil, fmt.Errorf("неизвестная метрика %q", metric)
	}

	rows, err := s.db.Query(ctx, query, limit)
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

// History возвращает последние N записей истории аккаунта.
func (s *Store) History(ctx context.Context, accountID int64, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, account_id, counterparty_id, delta, kind, description, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории: %w", err)
	}
	defer rows.Close()

	var out []ledger.Entry
	for rows.Next() {
		var e ledger.Entry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.CounterpartyID, &e.Delta, &e.Kind, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования истории: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// tx: ledger.Tx поверх pgx.Tx.
type tx struct {
	tx       pgx.Tx
	defaults ledger.Defaults
}

// Account возвращает аккаунт, создавая его (и питомца) при первом обращении,
// и блокирует строку до конца транзакции.
func (t *tx) Account(ctx context.Context, id int64) (*ledger.Account, error) {
	pet := t.defaults.NewPet(id)

	_, err := t.tx.Exec(ctx, `
		INSERT INTO accounts (account_id, balance, fish_count, xp)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (account_id) DO NOTHING
	`, id, t.defaults.StartingBalance)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания аккаунта: %w", err)
	}
	_, err = t.tx.Exec(ctx, `
		INSERT INTO pets (account_id, name, level, happiness, exp)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id) DO NOTHING
	`, id, pet.Name, pet.Level, pet.Happiness, pet.Exp)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания питомца: %w", err)
	}

	var a ledger.Account
	err = t.tx.QueryRow(ctx, `
		SELECT account_id, balance, fish_count, xp, created_at, updated_at
		FROM accounts WHERE account_id = $1
		FOR UPDATE
	`, id).Scan(&a.ID, &a.Balance, &a.FishCount, &a.XP, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аккаунта: %w", err)
	}
	return &a, nil
}

// SaveAccount сохраняет числовые поля аккаунта (с обрезкой до нуля).
func (t *tx) SaveAccount(ctx context.Context, a *ledger.Account) error {
	a.Balance = common.ClampMin(a.Balance)
	a.FishCount = common.ClampMin(a.FishCount)
	a.XP = common.ClampMin(a.XP)

	err := t.tx.QueryRow(ctx, `
		UPDATE accounts
		SET balance = $2, fish_count = $3, xp = $4, updated_at = NOW()
		WHERE account_id = $1
		RETURNING updated_at
	`, a.ID, a.Balance, a.FishCount, a.XP).Scan(&a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ошибка сохранения аккаунта: %w", err)
	}
	return nil
}

// Item возвращает количество предмета (0, если записи нет).
func (t *tx) Item(ctx context.Context, accountID int64, name string) (int64, error) {
	var qty int64
	err := t.tx.QueryRow(ctx,
		`SELECT quantity FROM items WHERE account_id = $1 AND item_name = $2`, accountID, name,
	).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка чтения предмета %s: %w", name, err)
	}
	return qty, nil
}

// Items возвращает ненулевые предметы аккаунта.
func (t *tx) Items(ctx context.Context, accountID int64) ([]ledger.InventoryItem, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT account_id, item_name, quantity FROM items
		WHERE account_id = $1 AND quantity > 0
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
	_, err := t.tx.Exec(ctx, `
		INSERT INTO items (account_id, item_name, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (account_id, item_name) DO UPDATE SET quantity = EXCLUDED.quantity
	`, accountID, name, common.ClampMin(qty))
	if err != nil {
		return fmt.Errorf("ошибка записи предмета %s: %w", name, err)
	}
	return nil
}

// LastAction возвращает время последнего действия (zero: не было).
func (t *tx) LastAction(ctx context.Context, accountID int64, action ledger.Action) (time.Time, error) {
	var at time.Time
	err := t.tx.QueryRow(ctx,
		`SELECT last_at FROM cooldowns WHERE account_id = $1 AND action = $2`, accountID, string(action),
	).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("ошибка чтения кулдауна: %w", err)
	}
	return at, nil
}

// StampAction записывает время действия. GREATEST держит время монотонным.
func (t *tx) StampAction(ctx context.Context, accountID int64, action ledger.Action, at time.Time) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO cooldowns (account_id, action, last_at) VALUES ($1, $2, $3)
		ON CONFLICT (account_id, action) DO UPDATE SET last_at = GREATEST(cooldowns.last_at, EXCLUDED.last_at)
	`, accountID, string(action), at)
	if err != nil {
		return fmt.Errorf("ошибка записи кулдауна: %w", err)
	}
	return nil
}

// Pet возвращает питомца.
func (t *tx) Pet(ctx context.Context, accountID int64) (*ledger.Pet, error) {
	var p ledger.Pet
	err := t.tx.QueryRow(ctx, `
		SELECT account_id, name, level, happiness, exp FROM pets WHERE account_id = $1
	`, accountID).Scan(&p.AccountID, &p.Name, &p.Level, &p.Happiness, &p.Exp)
	if errors.Is(err, pgx.ErrNoRows) {
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
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	vals = append(vals, accountID)

	query := fmt.Sprintf("UPDATE pets SET %s WHERE account_id = $%d", strings.Join(sets, ", "), len(vals))
	if _, err := t.tx.Exec(ctx, query, vals...); err != nil {
		return fmt.Errorf("ошибка обновления питомца: %w", err)
	}
	return nil
}

// Record добавляет запись в историю.
func (t *tx) Record(ctx context.Context, e ledger.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := t.tx.Exec(ctx, `
		INSERT INTO ledger_entries (account_id, counterparty_id, delta, kind, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.AccountID, e.CounterpartyID, e.Delta, e.Kind, e.Description, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка записи истории: %w", err)
	}
	return nil
}

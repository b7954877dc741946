package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fishnuke.gg/discord-bot/internal/common"
)

// Field указывает, что читаем/меняем: монеты, рыбу или предмет по имени.
type Field string

const (
	FieldBalance Field = "balance"
	FieldFish    Field = "fish"
)

// ItemField возвращает поле для предмета инвентаря.
func ItemField(name string) Field {
	return Field(strings.ToLower(strings.TrimSpace(name)))
}

// Ledger: get/add/set по монетам, рыбе и предметам.
// Каждая операция выполняется в своей транзакции и начинается с get-or-create аккаунта.
// Результат никогда не уходит в минус: отрицательные значения обрезаются до нуля,
// а переполнение упирается в math.MaxInt64.
type Ledger struct {
	store Store
}

// New создаёт ledger поверх хранилища.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Store возвращает хранилище, чтобы сервисы могли собирать свои транзакции.
func (l *Ledger) Store() Store {
	return l.store
}

// Get возвращает текущее значение поля.
func (l *Ledger) Get(ctx context.Context, accountID int64, field Field) (int64, error) {
	var out int64
	err := l.store.Atomic(ctx, func(tx Tx) error {
		v, err := read(ctx, tx, accountID, field)
		out = v
		return err
	})
	return out, err
}

// Add прибавляет delta к полю (delta может быть отрицательной) и возвращает новое значение.
func (l *Ledger) Add(ctx context.Context, accountID int64, field Field, delta int64) (int64, error) {
	var out int64
	err := l.store.Atomic(ctx, func(tx Tx) error {
		cur, err := read(ctx, tx, accountID, field)
		if err != nil {
			return err
		}
		out = common.ClampMin(common.AddSat(cur, delta))
		return write(ctx, tx, accountID, field, out)
	})
	return out, err
}

// Set заменяет значение поля (с обрезкой до нуля) и возвращает сохранённое значение.
func (l *Ledger) Set(ctx context.Context, accountID int64, field Field, value int64) (int64, error) {
	out := common.ClampMin(value)
	err := l.store.Atomic(ctx, func(tx Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		return write(ctx, tx, accountID, field, out)
	})
	return out, err
}

// Snapshot: всё, что показывается в профиле игрока.
type Snapshot struct {
	Account *Account
	Items   []InventoryItem
	Pet     *Pet
}

// Snapshot читает аккаунт, инвентарь и питомца в одной транзакции.
func (l *Ledger) Snapshot(ctx context.Context, accountID int64) (*Snapshot, error) {
	var snap Snapshot
	err := l.store.Atomic(ctx, func(tx Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		items, err := tx.Items(ctx, accountID)
		if err != nil {
			return err
		}
		pet, err := tx.Pet(ctx, accountID)
		if err != nil {
			return err
		}
		snap = Snapshot{Account: acc, Items: items, Pet: pet}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Top возвращает лидерборд.
func (l *Ledger) Top(ctx context.Context, metric Metric, limit int) ([]Standing, error) {
	switch metric {
	case MetricFish, MetricBalance:
	default:
		return nil, fmt.Errorf("%w: unknown leaderboard %q", common.ErrValidation, metric)
	}
	return l.store.Top(ctx, metric, limit)
}

// History возвращает последние записи истории.
func (l *Ledger) History(ctx context.Context, accountID int64, limit int) ([]Entry, error) {
	return l.store.History(ctx, accountID, limit)
}

// AddItem меняет количество предмета внутри уже открытой транзакции.
// Возвращает новое количество (не меньше нуля).
func AddItem(ctx context.Context, tx Tx, accountID int64, name string, delta int64) (int64, error) {
	cur, err := tx.Item(ctx, accountID, name)
	if err != nil {
		return 0, err
	}
	next := common.ClampMin(common.AddSat(cur, delta))
	if err := tx.SetItem(ctx, accountID, name, next); err != nil {
		return 0, err
	}
	return next, nil
}

// CheckCooldown читает время последнего действия и возвращает *common.CooldownError,
// если окно ещё не прошло.
func CheckCooldown(ctx context.Context, tx Tx, accountID int64, action Action, window time.Duration, now time.Time) error {
	if window <= 0 {
		return nil
	}
	last, err := tx.LastAction(ctx, accountID, action)
	if err != nil {
		return err
	}
	if rem := Remaining(last, now, window); rem > 0 {
		return &common.CooldownError{Action: string(action), Remaining: rem}
	}
	return nil
}

// Remaining возвращает, сколько осталось ждать до конца окна (0 значит готово).
// Ready → Cooling при успешном действии, Cooling → Ready когда now-last >= window.
func Remaining(last, now time.Time, window time.Duration) time.Duration {
	if last.IsZero() {
		return 0
	}
	elapsed := now.Sub(last)
	if elapsed >= window {
		return 0
	}
	return window - elapsed
}

func read(ctx context.Context, tx Tx, accountID int64, field Field) (int64, error) {
	acc, err := tx.Account(ctx, accountID)
	if err != nil {
		return 0, err
	}
	switch field {
	case FieldBalance:
		return acc.Balance, nil
	case FieldFish:
		return acc.FishCount, nil
	case "":
		return 0, common.ErrUnknownItem
	default:
		return tx.Item(ctx, accountID, string(field))
	}
}

func write(ctx context.Context, tx Tx, accountID int64, field Field, value int64) error {
	switch field {
	case FieldBalance, FieldFish:
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		if field == FieldBalance {
			acc.Balance = value
		} else {
			acc.FishCount = value
		}
		return tx.SaveAccount(ctx, acc)
	case "":
		return common.ErrUnknownItem
	default:
		return tx.SetItem(ctx, accountID, string(field), value)
	}
}

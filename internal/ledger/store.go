package ledger

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"
)

// Store описывает постоянное хранилище аккаунтов. Реализации: postgres и sqlite.
type Store interface {
	// Atomic выполняет fn в одной транзакции БД.
	// Если fn вернула ошибку: все изменения откатываются.
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	// Top возвращает top-N аккаунтов по метрике (по убыванию).
	Top(ctx context.Context, metric Metric, limit int) ([]Standing, error)
	// History возвращает последние записи истории аккаунта.
	History(ctx context.Context, accountID int64, limit int) ([]Entry, error)
	Ping(ctx context.Context) error
	Close() error
}

// Tx: операции внутри одной транзакции.
// Account создаёт запись, если её нет, и блокирует строку до конца транзакции.
type Tx interface {
	Account(ctx context.Context, id int64) (*Account, error)
	SaveAccount(ctx context.Context, a *Account) error

	Item(ctx context.Context, accountID int64, name string) (int64, error)
	Items(ctx context.Context, accountID int64) ([]InventoryItem, error)
	SetItem(ctx context.Context, accountID int64, name string, qty int64) error

	// LastAction возвращает время последнего успешного действия (zero: не было).
	LastAction(ctx context.Context, accountID int64, action Action) (time.Time, error)
	// StampAction фиксирует время действия; время не уменьшается.
	StampAction(ctx context.Context, accountID int64, action Action, at time.Time) error

	Pet(ctx context.Context, accountID int64) (*Pet, error)
	PatchPet(ctx context.Context, accountID int64, patch PetPatch) error

	Record(ctx context.Context, e Entry) error
}

// Defaults: значения для новых записей.
type Defaults struct {
	StartingBalance int64
	PetName         string
}

// NewAccount возвращает запись нового игрока.
func (d Defaults) NewAccount(id int64, now time.Time) *Account {
	return &Account{ID: id, Balance: d.StartingBalance, CreatedAt: now, UpdatedAt: now}
}

// NewPet возвращает питомца по умолчанию.
func (d Defaults) NewPet(accountID int64) *Pet {
	name := d.PetName
	if name == "" {
		name = "Lucky"
	}
	return &Pet{
		AccountID: accountID,
		Name:      name,
		Level:     PetDefaultLevel,
		Happiness: PetDefaultHappiness,
		Exp:       0,
	}
}

// ValidatePatch проверяет частичное обновление питомца по allow-list
// и возвращает значения, приведённые к типам колонок, в стабильном порядке полей.
func ValidatePatch(patch PetPatch) ([]string, []any, error) {
	var cols []string
	var vals []any
	for _, f := range []PetField{PetName, PetLevel, PetHappiness, PetExp} {
		v, ok := patch[f]
		if !ok {
			continue
		}
		switch f {
		case PetName:
			s, ok := v.(string)
			if !ok || s == "" || utf8.RuneCountInString(s) > PetNameMaxLen {
				return nil, nil, fmt.Errorf("поле %s: некорректное имя %v", f, v)
			}
			vals = append(vals, s)
		case PetLevel:
			n, ok := v.(int)
			if !ok || n < 1 {
				return nil, nil, fmt.Errorf("поле %s: некорректное значение %v", f, v)
			}
			vals = append(vals, n)
		case PetHappiness:
			n, ok := v.(int)
			if !ok || n < 0 || n > PetMaxHappiness {
				return nil, nil, fmt.Errorf("поле %s: некорректное значение %v", f, v)
			}
			vals = append(vals, n)
		case PetExp:
			n, ok := v.(int)
			if !ok || n < 0 {
				return nil, nil, fmt.Errorf("поле %s: некорректное значение %v", f, v)
			}
			vals = append(vals, n)
		}
		cols = append(cols, PetColumns[f])
	}
	if len(cols) != len(patch) {
		return nil, nil, fmt.Errorf("недопустимые поля питомца: %v", patch)
	}
	return cols, vals, nil
}

// Package ledger владеет состоянием игроков: монеты, рыба, предметы, кулдауны, питомец.
// models.go описывает записи, которые хранятся в БД.
package ledger

import "time"

// Account: запись игрока. Создаётся лениво при первом обращении.
type Account struct {
	ID        int64     `db:"account_id"` // Discord user ID (snowflake)
	Balance   int64     `db:"balance"`    // Монеты, никогда < 0
	FishCount int64     `db:"fish_count"` // Рыба, никогда < 0
	XP        int64     `db:"xp"`         // Опыт рыбака
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Action: действие с кулдауном.
type Action string

const (
	ActionDaily Action = "daily"
	ActionFish  Action = "fish"
	ActionNuke  Action = "nuke"
)

// InventoryItem: предмет в инвентаре. Для удочки Quantity означает уровень.
type InventoryItem struct {
	AccountID int64  `db:"account_id"`
	Name      string `db:"item_name"`
	Quantity  int64  `db:"quantity"`
}

// Pet: питомец игрока (один на аккаунт).
type Pet struct {
	AccountID int64  `db:"account_id"`
	Name      string `db:"name"`
	Level     int    `db:"level"`
	Happiness int    `db:"happiness"`
	Exp       int    `db:"exp"`
}

// Значения питомца по умолчанию
const (
	PetDefaultLevel     = 1
	PetDefaultHappiness = 100
	PetMaxHappiness     = 100
	PetNameMaxLen       = 32
)

// PetField: поле питомца, которое разрешено обновлять.
type PetField string

const (
	PetName      PetField = "name"
	PetLevel     PetField = "level"
	PetHappiness PetField = "happiness"
	PetExp       PetField = "exp"
)

// PetPatch задаёт частичное обновление питомца (поле → новое значение).
// Хранилище принимает только поля из allow-list (см. PetColumns).
type PetPatch map[PetField]any

// PetColumns: allow-list полей питомца и их колонок в таблице pets.
var PetColumns = map[PetField]string{
	PetName:      "name",
	PetLevel:     "level",
	PetHappiness: "happiness",
	PetExp:       "exp",
}

// Metric: по чему строится лидерборд.
type Metric string

const (
	MetricFish    Metric = "fish"
	MetricBalance Metric = "balance"
)

// Standing: строка лидерборда.
type Standing struct {
	AccountID int64 `json:"account_id"`
	Value     int64 `json:"value"`
}

// Entry: запись в истории движения монет.
type Entry struct {
	ID             int64     `db:"id"`
	AccountID      int64     `db:"account_id"`
	CounterpartyID *int64    `db:"counterparty_id"` // второй участник (нюк, выдача админом)
	Delta          int64     `db:"delta"`           // со знаком: + начисление, - списание
	Kind           string    `db:"kind"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
}

// Типы записей истории
const (
	KindDaily       = "daily"
	KindFish        = "fish"
	KindNukeSalvage = "nuke_salvage"
	KindSelfNuke    = "self_nuke"
	KindShop        = "shop"
	KindSlotsBet    = "slots_bet"
	KindSlotsWin    = "slots_win"
	KindAdminGive   = "admin_give"
	KindAdminSet    = "admin_set"
	KindAdjust      = "adjust"
)

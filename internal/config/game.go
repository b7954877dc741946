package config

import (
	"fmt"
	"time"
)

// Названия предметов магазина
const (
	ItemNuke    = "nuke"
	ItemPetFood = "petfood"
	ItemRod     = "rod"
)

// Game: каноническая таблица игровых констант.
// Ревизии бота расходились в кулдаунах и диапазонах урона: здесь выбрана одна политика,
// все значения можно переопределить через GAME_*.
type Game struct {
	// --- Аккаунт и ежедневный бонус ---
	StartingBalance int64         `envconfig:"STARTING_BALANCE" default:"500"`
	DailyReward     int64         `envconfig:"DAILY_REWARD" default:"200"`
	DailyCooldown   time.Duration `envconfig:"DAILY_COOLDOWN" default:"24h"`

	// --- Рыбалка ---
	FishCooldown      time.Duration `envconfig:"FISH_COOLDOWN" default:"5s"`
	FishBaseMax       int           `envconfig:"FISH_BASE_MAX" default:"6"`
	FishUpgradeCap    int           `envconfig:"FISH_UPGRADE_CAP" default:"10"`
	FishBonusChance   float64       `envconfig:"FISH_BONUS_CHANCE" default:"0.05"`
	FishBonusPerLevel float64       `envconfig:"FISH_BONUS_PER_LEVEL" default:"0.01"`
	FishBonusMin      int           `envconfig:"FISH_BONUS_MIN" default:"3"`
	FishBonusMax      int           `envconfig:"FISH_BONUS_MAX" default:"12"`
	FishValueMin      int           `envconfig:"FISH_VALUE_MIN" default:"5"`
	FishValueMax      int           `envconfig:"FISH_VALUE_MAX" default:"15"`
	FishXPPerFish     int64         `envconfig:"FISH_XP_PER_FISH" default:"2"`

	// --- Нюк ---
	NukeCooldown   time.Duration `envconfig:"NUKE_COOLDOWN" default:"6h"`
	NukePctMin     int           `envconfig:"NUKE_PCT_MIN" default:"10"`
	NukePctMax     int           `envconfig:"NUKE_PCT_MAX" default:"50"`
	NukeSalvagePct int           `envconfig:"NUKE_SALVAGE_PCT" default:"25"`
	// Самоподрыв (нюк без цели)
	SelfNukeCost       int64 `envconfig:"SELF_NUKE_COST" default:"100"`
	SelfNukePenalty    int64 `envconfig:"SELF_NUKE_PENALTY" default:"200"`
	SelfNukeMultiplier int64 `envconfig:"SELF_NUKE_MULTIPLIER" default:"3"`

	// --- Магазин ---
	PriceNuke      int64   `envconfig:"PRICE_NUKE" default:"500"`
	PricePetFood   int64   `envconfig:"PRICE_PETFOOD" default:"50"`
	PriceRod       int64   `envconfig:"PRICE_ROD" default:"300"`
	RodPriceGrowth float64 `envconfig:"ROD_PRICE_GROWTH" default:"1.2"`
	// Сколько штук (уровней удочки) можно купить одной командой
	ShopMaxAmount int64 `envconfig:"SHOP_MAX_AMOUNT" default:"1000"`

	// --- Слоты ---
	SlotsSymbols          []string `envconfig:"SLOTS_SYMBOLS" default:"🍒,🍋,🍊,🍇,⭐,💎,7️⃣"`
	SlotsJackpotSymbol    string   `envconfig:"SLOTS_JACKPOT_SYMBOL" default:"7️⃣"`
	SlotsSecondarySymbol  string   `envconfig:"SLOTS_SECONDARY_SYMBOL" default:"💎"`
	SlotsJackpotMult      int64    `envconfig:"SLOTS_JACKPOT_MULT" default:"10"`
	SlotsSecondaryMult    int64    `envconfig:"SLOTS_SECONDARY_MULT" default:"5"`
	SlotsTripleMult       int64    `envconfig:"SLOTS_TRIPLE_MULT" default:"3"`
	SlotsPairMult         int64    `envconfig:"SLOTS_PAIR_MULT" default:"2"`
	SlotsMinBet           int64    `envconfig:"SLOTS_MIN_BET" default:"1"`
	SlotsMaxBet           int64    `envconfig:"SLOTS_MAX_BET" default:"0"` // 0: без лимита
	SlotsForceJackpotRole bool     `envconfig:"SLOTS_FORCE_JACKPOT_FOR_ADMINS" default:"false"`

	// --- Питомец ---
	PetDefaultName      string `envconfig:"PET_DEFAULT_NAME" default:"Lucky"`
	PetFoodHappiness    int    `envconfig:"PET_FOOD_HAPPINESS" default:"10"`
	PetPlayMinHappiness int    `envconfig:"PET_PLAY_MIN_HAPPINESS" default:"20"`
	PetPlayExpMin       int    `envconfig:"PET_PLAY_EXP_MIN" default:"5"`
	PetPlayExpMax       int    `envconfig:"PET_PLAY_EXP_MAX" default:"15"`
	PetPlayCostMin      int    `envconfig:"PET_PLAY_COST_MIN" default:"5"`
	PetPlayCostMax      int    `envconfig:"PET_PLAY_COST_MAX" default:"15"`

	// --- Лидерборды ---
	LeaderboardSize int `envconfig:"LEADERBOARD_SIZE" default:"10"`
}

// ShopItem: строка прайс-листа.
type ShopItem struct {
	Name        string
	Price       int64 // для удочки: базовая цена первого уровня
	Description string
	Upgradeable bool
}

// ShopItems возвращает прайс-лист в порядке показа.
func (g *Game) ShopItems() []ShopItem {
	return []ShopItem{
		{Name: ItemNuke, Price: g.PriceNuke, Description: "Destroy other players' fish (in-game)"},
		{Name: ItemPetFood, Price: g.PricePetFood, Description: "Feed your pet (+happiness)"},
		{Name: ItemRod, Price: g.PriceRod, Description: "Upgrade rod for better fishing", Upgradeable: true},
	}
}

// ShopItem ищет предмет по имени.
func (g *Game) ShopItem(name string) (ShopItem, bool) {
	for _, it := range g.ShopItems() {
		if it.Name == name {
			return it, true
		}
	}
	return ShopItem{}, false
}

// Validate проверяет диапазоны игровых констант.
func (g *Game) Validate() error {
	if g.StartingBalance < 0 || g.DailyReward < 0 {
		return fmt.Errorf("стартовый баланс и дейлик не могут быть отрицательными")
	}
	if g.DailyCooldown <= 0 || g.FishCooldown <= 0 || g.NukeCooldown < 0 {
		return fmt.Errorf("кулдауны должны быть > 0 (нюк: >= 0)")
	}
	if g.FishBaseMax < 1 || g.FishUpgradeCap < 0 {
		return fmt.Errorf("FISH_BASE_MAX должен быть >= 1")
	}
	if err := checkRange("FISH_BONUS", g.FishBonusMin, g.FishBonusMax, 0); err != nil {
		return err
	}
	if err := checkRange("FISH_VALUE", g.FishValueMin, g.FishValueMax, 0); err != nil {
		return err
	}
	if err := checkRange("NUKE_PCT", g.NukePctMin, g.NukePctMax, 0); err != nil {
		return err
	}
	if g.NukePctMax > 100 || g.NukeSalvagePct < 0 || g.NukeSalvagePct > 100 {
		return fmt.Errorf("проценты нюка должны быть в [0,100]")
	}
	if g.SelfNukeCost < 0 || g.SelfNukePenalty < 0 || g.SelfNukeMultiplier < 0 {
		return fmt.Errorf("параметры самоподрыва не могут быть отрицательными")
	}
	if g.PriceNuke <= 0 || g.PricePetFood <= 0 || g.PriceRod <= 0 || g.RodPriceGrowth < 1 {
		return fmt.Errorf("цены должны быть > 0, рост цены удочки >= 1")
	}
	if g.ShopMaxAmount < 1 {
		return fmt.Errorf("SHOP_MAX_AMOUNT должен быть >= 1")
	}
	if len(g.SlotsSymbols) < 2 {
		return fmt.Errorf("для слотов нужно минимум 2 символа")
	}
	if !contains(g.SlotsSymbols, g.SlotsJackpotSymbol) || !contains(g.SlotsSymbols, g.SlotsSecondarySymbol) {
		return fmt.Errorf("джекпот и вторичный символ должны быть в SLOTS_SYMBOLS")
	}
	if g.SlotsJackpotMult < 0 || g.SlotsSecondaryMult < 0 || g.SlotsTripleMult < 0 || g.SlotsPairMult < 0 {
		return fmt.Errorf("множители слотов не могут быть отрицательными")
	}
	if g.SlotsMinBet < 1 || (g.SlotsMaxBet != 0 && g.SlotsMaxBet < g.SlotsMinBet) {
		return fmt.Errorf("некорректные SLOTS_MIN_BET/SLOTS_MAX_BET")
	}
	if err := checkRange("PET_PLAY_EXP", g.PetPlayExpMin, g.PetPlayExpMax, 0); err != nil {
		return err
	}
	if err := checkRange("PET_PLAY_COST", g.PetPlayCostMin, g.PetPlayCostMax, 0); err != nil {
		return err
	}
	if g.PetFoodHappiness < 0 {
		return fmt.Errorf("PET_FOOD_HAPPINESS не может быть отрицательным")
	}
	if g.PetDefaultName == "" || g.LeaderboardSize <= 0 {
		return fmt.Errorf("PET_DEFAULT_NAME и LEADERBOARD_SIZE обязательны")
	}
	return nil
}

func checkRange(name string, lo, hi, floor int) error {
	if lo < floor || hi < lo {
		return fmt.Errorf("некорректный диапазон %s: [%d,%d]", name, lo, hi)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

package rewards_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
	"fishnuke.gg/discord-bot/internal/rewards/rewardstest"
)

func game(t *testing.T) *config.Game {
	t.Helper()
	g, err := config.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	return g
}

func TestBetween(t *testing.T) {
	src := rewardstest.New(0, 4, 10)
	if got := rewards.Between(src, 5, 9); got != 5 {
		t.Fatalf("Between first = %d, want 5", got)
	}
	if got := rewards.Between(src, 5, 9); got != 9 {
		t.Fatalf("Between second = %d, want 9", got)
	}
	// 10 % 5 = 0
	if got := rewards.Between(src, 5, 9); got != 5 {
		t.Fatalf("Between wrap = %d, want 5", got)
	}
	if got := rewards.Between(src, 7, 7); got != 7 {
		t.Fatalf("Between degenerate = %d, want 7", got)
	}
}

func TestRollCatchBounds(t *testing.T) {
	g := game(t)
	src := rewards.NewSource()

	for _, rod := range []int64{0, 1, 5, 10, 25} {
		maxCatch := rewards.MaxCatch(g, rod)
		for i := 0; i < 500; i++ {
			c := rewards.RollCatch(src, g, rod)
			if c.Base < 1 || c.Base > int64(maxCatch) {
				t.Fatalf("rod %d: base %d out of [1,%d]", rod, c.Base, maxCatch)
			}
			if c.Huge && (c.Bonus < int64(g.FishBonusMin) || c.Bonus > int64(g.FishBonusMax)) {
				t.Fatalf("rod %d: bonus %d out of range", rod, c.Bonus)
			}
			if !c.Huge && c.Bonus != 0 {
				t.Fatalf("rod %d: bonus %d without huge catch", rod, c.Bonus)
			}
			if c.Total != c.Base+c.Bonus || c.Coins != c.Total*c.CoinsPerFish {
				t.Fatalf("rod %d: inconsistent catch %+v", rod, c)
			}
			if c.XP != c.Total*g.FishXPPerFish {
				t.Fatalf("rod %d: xp %d, want %d", rod, c.XP, c.Total*g.FishXPPerFish)
			}
		}
	}
}

func TestMaxCatchCapped(t *testing.T) {
	g := game(t)
	if got := rewards.MaxCatch(g, 0); got != 6 {
		t.Fatalf("MaxCatch(0) = %d, want 6", got)
	}
	if got := rewards.MaxCatch(g, 3); got != 9 {
		t.Fatalf("MaxCatch(3) = %d, want 9", got)
	}
	if got := rewards.MaxCatch(g, 50); got != 16 {
		t.Fatalf("MaxCatch(50) = %d, want 16", got)
	}
}

func TestRollCatchScripted(t *testing.T) {
	g := game(t)
	// база: 3 → 4 рыбы; бонус: 0.0 < шанс → огромный улов, 2 → 3+2=5; цена: 0 → 5 + rod 2
	src := rewardstest.New(3, 2, 0).WithFloats(0.0)
	c := rewards.RollCatch(src, g, 2)
	if c.Base != 4 || !c.Huge || c.Bonus != 5 {
		t.Fatalf("catch = %+v, want base 4 huge bonus 5", c)
	}
	if c.CoinsPerFish != 7 || c.Coins != 63 || c.XP != 18 {
		t.Fatalf("catch = %+v, want 7/63/18", c)
	}
}

func TestDestroyed(t *testing.T) {
	tests := []struct {
		fish int64
		pct  int
		want int64
	}{
		{fish: 100, pct: 10, want: 10},
		{fish: 100, pct: 50, want: 50},
		{fish: 3, pct: 10, want: 1},
		{fish: 1, pct: 50, want: 1},
		{fish: 0, pct: 50, want: 0},
		{fish: 19, pct: 25, want: 4},
	}
	for _, tt := range tests {
		if got := rewards.Destroyed(tt.fish, tt.pct); got != tt.want {
			t.Errorf("Destroyed(%d, %d) = %d, want %d", tt.fish, tt.pct, got, tt.want)
		}
	}
}

func TestRollNukeArithmetic(t *testing.T) {
	g := game(t)
	src := rewards.NewSource()
	for _, fish := range []int64{1, 2, 7, 100, 12345} {
		for i := 0; i < 200; i++ {
			n := rewards.RollNuke(src, g, fish)
			if n.Pct < g.NukePctMin || n.Pct > g.NukePctMax {
				t.Fatalf("pct %d out of range", n.Pct)
			}
			want := fish * int64(n.Pct) / 100
			if want < 1 {
				want = 1
			}
			if n.Destroyed != want {
				t.Fatalf("fish %d pct %d: destroyed %d, want %d", fish, n.Pct, n.Destroyed, want)
			}
			if n.TargetAfter != fish-n.Destroyed || n.TargetAfter < 0 {
				t.Fatalf("target after = %d", n.TargetAfter)
			}
			if n.Salvage != n.Destroyed*int64(g.NukeSalvagePct)/100 {
				t.Fatalf("salvage = %d for destroyed %d", n.Salvage, n.Destroyed)
			}
			if n.CoinSalvage < n.Salvage*int64(g.FishValueMin) || n.CoinSalvage > n.Salvage*int64(g.FishValueMax) {
				t.Fatalf("coin salvage %d out of range for salvage %d", n.CoinSalvage, n.Salvage)
			}
		}
	}
}

func TestRollSelfNuke(t *testing.T) {
	g := game(t)

	win := rewards.RollSelfNuke(rewardstest.New(1), g, 40)
	if !win.Won || win.Payout != g.SelfNukeCost*g.SelfNukeMultiplier || win.Destroyed != 0 {
		t.Fatalf("win = %+v", win)
	}

	// проигрыш, pct = 10 + 15 = 25
	lose := rewards.RollSelfNuke(rewardstest.New(0, 15), g, 40)
	if lose.Won || lose.Pct != 25 || lose.Destroyed != 10 || lose.Penalty != g.SelfNukePenalty {
		t.Fatalf("lose = %+v", lose)
	}

	empty := rewards.RollSelfNuke(rewardstest.New(0, 0), g, 0)
	if empty.Destroyed != 0 {
		t.Fatalf("destroyed %d with no fish", empty.Destroyed)
	}
}

func TestRodPriceRamp(t *testing.T) {
	tests := []struct {
		name  string
		base  int64
		level int64
		k     int64
		want  int64
	}{
		{name: "one from zero", base: 300, level: 0, k: 1, want: 300},
		{name: "three from zero", base: 300, level: 0, k: 3, want: 300 + 360 + 432},
		{name: "base 100", base: 100, level: 0, k: 3, want: 100 + 120 + 144},
		{name: "from level two", base: 300, level: 2, k: 1, want: 432},
		{name: "zero count", base: 300, level: 4, k: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewards.RodPrice(tt.base, 1.2, tt.level, tt.k); got != tt.want {
				t.Fatalf("RodPrice = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRodPriceSaturates(t *testing.T) {
	start := time.Now()
	got := rewards.RodPrice(300, 1.2, 0, 200_000_000)
	if got != math.MaxInt64 {
		t.Fatalf("RodPrice(k=2e8) = %d, want saturation", got)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("RodPrice took %v, want early stop", elapsed)
	}
	// на уровнях, где цена шага выходит за int64, сумма не «замирает» на мусорном значении
	for _, k := range []int64{230, 300, 400} {
		if got := rewards.RodPrice(300, 1.2, 0, k); got != math.MaxInt64 {
			t.Errorf("RodPrice(k=%d) = %d, want saturation", k, got)
		}
	}
	if got := rewards.RodPrice(300, 1.2, math.MaxInt32, 1); got != math.MaxInt64 {
		t.Errorf("huge rod level = %d, want saturation", got)
	}
}

func TestCostBounds(t *testing.T) {
	g := game(t)

	if _, err := rewards.Cost(g, config.ItemNuke, 36893488147419103, 0); !errors.Is(err, common.ErrAmountTooLarge) {
		t.Fatalf("huge nuke amount err = %v", err)
	}
	if _, err := rewards.Cost(g, config.ItemRod, math.MaxInt64, 0); !errors.Is(err, common.ErrAmountTooLarge) {
		t.Fatalf("huge rod amount err = %v", err)
	}
	if got, err := rewards.Cost(g, config.ItemNuke, g.ShopMaxAmount, 0); err != nil || got != g.PriceNuke*g.ShopMaxAmount {
		t.Fatalf("nuke at cap = %d, %v", got, err)
	}

	// лимит снят, но цена всё равно не помещается в int64
	g.ShopMaxAmount = math.MaxInt64
	if _, err := rewards.Cost(g, config.ItemNuke, math.MaxInt64/2, 0); !errors.Is(err, common.ErrAmountTooLarge) {
		t.Fatalf("overflowing nuke cost err = %v", err)
	}
	if _, err := rewards.Cost(g, config.ItemRod, 500, 0); !errors.Is(err, common.ErrAmountTooLarge) {
		t.Fatalf("overflowing rod cost err = %v", err)
	}
}

func TestPayoutBounds(t *testing.T) {
	g := game(t)
	if !rewards.PayoutFits(g, 1_000_000) {
		t.Fatal("ordinary bet must fit")
	}
	if rewards.PayoutFits(g, math.MaxInt64/g.SlotsJackpotMult+1) {
		t.Fatal("jackpot overflow must not fit")
	}
	payout, _ := rewards.SlotPayout(g, rewards.ForcedJackpot(g), math.MaxInt64/2)
	if payout != math.MaxInt64 {
		t.Fatalf("payout = %d, want saturation", payout)
	}
}

func TestDestroyedLargeCounts(t *testing.T) {
	if got := rewards.Destroyed(math.MaxInt64, 50); got != math.MaxInt64/2 {
		t.Fatalf("Destroyed(max, 50) = %d, want %d", got, int64(math.MaxInt64/2))
	}
	if got := rewards.Salvage(math.MaxInt64, 100); got != math.MaxInt64 {
		t.Fatalf("Salvage(max, 100) = %d", got)
	}
	if got := rewards.Destroyed(250, 10); got != 25 {
		t.Fatalf("Destroyed(250, 10) = %d", got)
	}
}

func TestCost(t *testing.T) {
	g := game(t)

	if got, err := rewards.Cost(g, config.ItemNuke, 2, 0); err != nil || got != 1000 {
		t.Fatalf("nuke x2 = %d, %v", got, err)
	}
	if got, err := rewards.Cost(g, config.ItemRod, 2, 1); err != nil || got != 360+432 {
		t.Fatalf("rod x2 from 1 = %d, %v", got, err)
	}
	if _, err := rewards.Cost(g, "boat", 1, 0); !errors.Is(err, common.ErrUnknownItem) {
		t.Fatalf("unknown item err = %v", err)
	}
	if _, err := rewards.Cost(g, config.ItemNuke, 0, 0); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("zero amount err = %v", err)
	}
}

func TestSlotPayout(t *testing.T) {
	g := game(t)
	tests := []struct {
		draw    rewards.Draw
		payout  int64
		outcome rewards.SlotOutcome
	}{
		{rewards.Draw{"7️⃣", "7️⃣", "7️⃣"}, 100, rewards.SlotJackpot},
		{rewards.Draw{"💎", "💎", "💎"}, 50, rewards.SlotSecondary},
		{rewards.Draw{"🍇", "🍇", "🍇"}, 30, rewards.SlotTriple},
		{rewards.Draw{"🍒", "🍒", "⭐"}, 20, rewards.SlotPair},
		{rewards.Draw{"⭐", "🍒", "⭐"}, 20, rewards.SlotPair},
		{rewards.Draw{"🍒", "🍋", "⭐"}, 0, rewards.SlotLose},
	}
	for _, tt := range tests {
		payout, outcome := rewards.SlotPayout(g, tt.draw, 10)
		if payout != tt.payout || outcome != tt.outcome {
			t.Errorf("%s: got %d/%s, want %d/%s", tt.draw, payout, outcome, tt.payout, tt.outcome)
		}
	}
}

func TestSpinUsesAlphabet(t *testing.T) {
	g := game(t)
	d := rewards.Spin(rewardstest.New(0, 5, 6), g.SlotsSymbols)
	want := rewards.Draw{g.SlotsSymbols[0], g.SlotsSymbols[5], g.SlotsSymbols[6]}
	if d != want {
		t.Fatalf("Spin = %v, want %v", d, want)
	}
	if rewards.ForcedJackpot(g) != (rewards.Draw{"7️⃣", "7️⃣", "7️⃣"}) {
		t.Fatalf("ForcedJackpot = %v", rewards.ForcedJackpot(g))
	}
}

func TestLevelUp(t *testing.T) {
	tests := []struct {
		level, exp         int
		wantLevel, wantExp int
		wantGained         int
	}{
		{level: 1, exp: 99, wantLevel: 1, wantExp: 99, wantGained: 0},
		{level: 1, exp: 100, wantLevel: 2, wantExp: 0, wantGained: 1},
		{level: 1, exp: 310, wantLevel: 3, wantExp: 10, wantGained: 2},
		{level: 4, exp: 405, wantLevel: 5, wantExp: 5, wantGained: 1},
	}
	for _, tt := range tests {
		level, exp, gained := rewards.LevelUp(tt.level, tt.exp)
		if level != tt.wantLevel || exp != tt.wantExp || gained != tt.wantGained {
			t.Errorf("LevelUp(%d, %d) = %d, %d, %d", tt.level, tt.exp, level, exp, gained)
		}
	}
}

func TestFeedCapped(t *testing.T) {
	g := game(t)
	if got := rewards.Feed(g, 50, 2); got != 70 {
		t.Fatalf("Feed(50, 2) = %d, want 70", got)
	}
	if got := rewards.Feed(g, 95, 3); got != 100 {
		t.Fatalf("Feed(95, 3) = %d, want 100", got)
	}
	if got := rewards.Feed(g, 10, math.MaxInt64); got != 100 {
		t.Fatalf("Feed(10, max) = %d, want 100", got)
	}
}

func TestRollPlay(t *testing.T) {
	g := game(t)

	sad := ledger.Pet{Level: 1, Happiness: 19}
	if _, err := rewards.RollPlay(rewardstest.New(), g, sad); !errors.Is(err, common.ErrPetTooSad) {
		t.Fatalf("sad pet err = %v", err)
	}

	// опыт 5+10 = 15, стоимость 5+10 = 15
	pet := ledger.Pet{Name: "Lucky", Level: 1, Happiness: 20, Exp: 90}
	p, err := rewards.RollPlay(rewardstest.New(10, 10), g, pet)
	if err != nil {
		t.Fatalf("RollPlay: %v", err)
	}
	if p.ExpGained != 15 || p.HappyCost != 15 {
		t.Fatalf("play = %+v", p)
	}
	if p.Pet.Happiness != 5 || p.Pet.Level != 2 || p.Pet.Exp != 5 || p.LevelsGained != 1 {
		t.Fatalf("pet after play = %+v", p.Pet)
	}
}

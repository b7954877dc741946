package dispatch_test

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/db/sqlite"
	"fishnuke.gg/discord-bot/internal/dispatch"
	"fishnuke.gg/discord-bot/internal/features/admin"
	"fishnuke.gg/discord-bot/internal/features/casino"
	"fishnuke.gg/discord-bot/internal/features/economy"
	"fishnuke.gg/discord-bot/internal/features/fishing"
	"fishnuke.gg/discord-bot/internal/features/pets"
	"fishnuke.gg/discord-bot/internal/features/shop"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards/rewardstest"
)

const (
	ownerID  int64 = 999
	playerA  int64 = 1
	playerB  int64 = 2
	modID    int64 = 3
	startBal int64 = 500
)

type env struct {
	t      *testing.T
	game   *config.Game
	ledger *ledger.Ledger
	src    *rewardstest.Source
	now    time.Time
	d      *dispatch.Dispatcher
}

func newEnv(t *testing.T, tweak func(g *config.Game)) *env {
	t.Helper()
	g, err := config.LoadGame()
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if tweak != nil {
		tweak(g)
	}

	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "bot.db"), ledger.Defaults{
		StartingBalance: g.StartingBalance,
		PetName:         g.PetDefaultName,
	})
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	e := &env{
		t:      t,
		game:   g,
		ledger: ledger.New(store),
		src:    rewardstest.New(),
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return e.now }
	policy := admin.Policy{OwnerID: ownerID, AdminRole: "Admin"}

	h := dispatch.Handlers{
		Economy: economy.NewHandler(economy.NewService(e.ledger, g).WithClock(clock)),
		Fishing: fishing.NewHandler(fishing.NewService(store, g, e.src).WithClock(clock)),
		Shop:    shop.NewHandler(shop.NewService(store, g)),
		Casino:  casino.NewHandler(casino.NewService(store, g, e.src)),
		Pets:    pets.NewHandler(pets.NewService(store, g, e.src)),
		Admin:   admin.NewHandler(admin.NewService(store, g, policy)),
	}
	e.d = dispatch.New("!", policy, h, dispatch.Features{Slots: true, Pets: true, Nuke: true})
	return e
}

// run выполняет команду и падает на внутренней ошибке.
func (e *env) run(actor int64, command string, args ...string) chat.Reply {
	e.t.Helper()
	return e.runReq(chat.Request{Command: command, ActorID: actor, ActorName: "player", Args: args})
}

func (e *env) runAt(actor, target int64, command string, args ...string) chat.Reply {
	e.t.Helper()
	return e.runReq(chat.Request{
		Command: command, ActorID: actor, ActorName: "player",
		TargetID: target, TargetName: "target", Args: args,
	})
}

func (e *env) runReq(req chat.Request) chat.Reply {
	e.t.Helper()
	reply, err := e.d.Dispatch(context.Background(), req)
	if err != nil {
		e.t.Fatalf("%s: internal error: %v", req.Command, err)
	}
	return reply
}

func (e *env) ok(reply chat.Reply) chat.Reply {
	e.t.Helper()
	if reply.Err != nil {
		e.t.Fatalf("unexpected rejection: %v (%s)", reply.Err, reply.Text)
	}
	return reply
}

func (e *env) get(id int64, field ledger.Field) int64 {
	e.t.Helper()
	v, err := e.ledger.Get(context.Background(), id, field)
	if err != nil {
		e.t.Fatalf("Get(%d, %s): %v", id, field, err)
	}
	return v
}

func TestDailyWindow(t *testing.T) {
	e := newEnv(t, nil)
	start := e.now

	e.ok(e.run(playerA, "daily"))
	if got := e.get(playerA, ledger.FieldBalance); got != startBal+200 {
		t.Fatalf("balance after first daily = %d, want %d", got, startBal+200)
	}

	e.now = start.Add(time.Hour)
	reply := e.run(playerA, "daily")
	var cd *common.CooldownError
	if !errors.As(reply.Err, &cd) {
		t.Fatalf("second daily err = %v, want cooldown", reply.Err)
	}
	if cd.Remaining != 23*time.Hour {
		t.Fatalf("remaining = %s, want 23h", cd.Remaining)
	}
	if !strings.Contains(reply.Text, "23h 0m 0s") {
		t.Fatalf("cooldown text = %q", reply.Text)
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal+200 {
		t.Fatalf("balance changed on rejected daily: %d", got)
	}

	e.now = start.Add(24 * time.Hour)
	e.ok(e.run(playerA, "daily"))
	if got := e.get(playerA, ledger.FieldBalance); got != startBal+400 {
		t.Fatalf("balance after third daily = %d, want %d", got, startBal+400)
	}
}

func TestFishCooldown(t *testing.T) {
	e := newEnv(t, nil)

	// база 1+2 = 3 рыбы, без огромного улова, цена 5
	e.src.Push(2, 0)
	e.ok(e.run(playerA, "fish"))
	if got := e.get(playerA, ledger.FieldFish); got != 3 {
		t.Fatalf("fish = %d, want 3", got)
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal+15 {
		t.Fatalf("balance = %d, want %d", got, startBal+15)
	}

	if reply := e.run(playerA, "fish"); !errors.Is(reply.Err, common.ErrCooldown) {
		t.Fatalf("second fish err = %v, want cooldown", reply.Err)
	}

	e.now = e.now.Add(5 * time.Second)
	e.ok(e.run(playerA, "fish"))
}

func TestNuke(t *testing.T) {
	e := newEnv(t, nil)

	e.ok(e.runAt(ownerID, playerB, "setfish", "100"))

	// без заряда
	reply := e.runAt(playerA, playerB, "nuke")
	var ins *common.InsufficientError
	if !errors.As(reply.Err, &ins) || ins.Resource != config.ItemNuke || ins.Need != 1 || ins.Have != 0 {
		t.Fatalf("nuke without charge err = %v", reply.Err)
	}

	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "1"))

	// pct = 10+10 = 20: уничтожено 20, спасено 5, по 5 монет
	e.src.Push(10, 0)
	e.ok(e.runAt(playerA, playerB, "nuke"))

	if got := e.get(playerB, ledger.FieldFish); got != 80 {
		t.Fatalf("target fish = %d, want 80", got)
	}
	if got := e.get(playerA, ledger.FieldFish); got != 5 {
		t.Fatalf("actor fish = %d, want 5", got)
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal+25 {
		t.Fatalf("actor balance = %d, want %d", got, startBal+25)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != 0 {
		t.Fatalf("charges = %d, want 0", got)
	}

	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "1"))
	if reply := e.runAt(playerA, playerB, "nuke"); !errors.Is(reply.Err, common.ErrCooldown) {
		t.Fatalf("second nuke err = %v, want cooldown", reply.Err)
	}
}

func TestNukeSelfTargetRejected(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "setfish", "50"))
	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "2"))

	reply := e.runAt(playerA, playerA, "nuke")
	if !errors.Is(reply.Err, common.ErrSelfTarget) {
		t.Fatalf("self nuke err = %v, want ErrSelfTarget", reply.Err)
	}
	if got := e.get(playerA, ledger.FieldFish); got != 50 {
		t.Fatalf("fish changed: %d", got)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != 2 {
		t.Fatalf("charges changed: %d", got)
	}
}

func TestNukeEmptyTarget(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "1"))

	if reply := e.runAt(playerA, playerB, "nuke"); !errors.Is(reply.Err, common.ErrTargetEmpty) {
		t.Fatalf("err = %v, want ErrTargetEmpty", reply.Err)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != 1 {
		t.Fatalf("charge consumed on rejected nuke: %d", got)
	}
}

func TestPrivilegedNukeKeepsCharges(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerB, "setfish", "10"))

	e.src.Push(0, 0)
	e.ok(e.runAt(ownerID, playerB, "nuke"))
	if got := e.get(playerB, ledger.FieldFish); got != 9 {
		t.Fatalf("target fish = %d, want 9", got)
	}
	if got := e.get(ownerID, ledger.ItemField(config.ItemNuke)); got != 0 {
		t.Fatalf("owner charges = %d", got)
	}
	// кулдаун действует и для владельца
	if reply := e.runAt(ownerID, playerB, "nuke"); !errors.Is(reply.Err, common.ErrCooldown) {
		t.Fatalf("err = %v, want cooldown", reply.Err)
	}
}

func TestSelfDetonate(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "setfish", "40"))

	// проигрыш: pct 10+15 = 25 → 10 рыбы, штраф 200
	e.src.Push(0, 15)
	e.ok(e.run(playerA, "nuke"))
	if got := e.get(playerA, ledger.FieldFish); got != 30 {
		t.Fatalf("fish = %d, want 30", got)
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal-100-200 {
		t.Fatalf("balance = %d, want %d", got, startBal-300)
	}

	// выигрыш после кулдауна
	e.now = e.now.Add(e.game.NukeCooldown)
	e.src.Push(1)
	e.ok(e.run(playerB, "nuke"))
	if got := e.get(playerB, ledger.FieldBalance); got != startBal-100+300 {
		t.Fatalf("winner balance = %d, want %d", got, startBal+200)
	}
}

func TestSelfDetonateNeedsCoins(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "setbal", "99"))

	if reply := e.run(playerA, "nuke"); !errors.Is(reply.Err, common.ErrInsufficient) {
		t.Fatalf("err = %v, want insufficient", reply.Err)
	}
	if got := e.get(playerA, ledger.FieldBalance); got != 99 {
		t.Fatalf("balance changed: %d", got)
	}
}

func TestBuyRodRamp(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "give", "1000"))

	e.ok(e.run(playerA, "buy", "rod", "3"))
	if got := e.get(playerA, ledger.FieldBalance); got != 1500-(300+360+432) {
		t.Fatalf("balance = %d, want %d", got, 1500-1092)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemRod)); got != 3 {
		t.Fatalf("rod level = %d, want 3", got)
	}

	// следующий уровень стоит 518, денег не хватает: ничего не меняется
	reply := e.run(playerA, "buy", "rod")
	var ins *common.InsufficientError
	if !errors.As(reply.Err, &ins) || ins.Need != 518 || ins.Have != 408 {
		t.Fatalf("err = %v, want need 518 have 408", reply.Err)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemRod)); got != 3 {
		t.Fatalf("rod level changed: %d", got)
	}
}

func TestBuyValidation(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		args []string
		want error
	}{
		{args: []string{"boat"}, want: common.ErrUnknownItem},
		{args: []string{"nuke", "0"}, want: common.ErrInvalidAmount},
		{args: []string{"nuke", "-2"}, want: common.ErrInvalidAmount},
		{args: []string{"nuke", "lots"}, want: common.ErrBadArgument},
		{args: nil, want: common.ErrBadArgument},
	}
	for _, tt := range tests {
		reply := e.run(playerA, "buy", tt.args...)
		if !errors.Is(reply.Err, tt.want) {
			t.Errorf("buy %v: err = %v, want %v", tt.args, reply.Err, tt.want)
		}
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal {
		t.Fatalf("balance changed: %d", got)
	}
}

func TestSlots(t *testing.T) {
	e := newEnv(t, nil)

	// 7️⃣ 7️⃣ 7️⃣ → ×10
	e.src.Push(6, 6, 6)
	e.ok(e.run(playerA, "slots", "100"))
	want := startBal - 100 + 1000
	if got := e.get(playerA, ledger.FieldBalance); got != want {
		t.Fatalf("after jackpot = %d, want %d", got, want)
	}

	// 🍒 🍒 ⭐ → ×2
	e.src.Push(0, 0, 4)
	e.ok(e.run(playerA, "slots", "100"))
	want += -100 + 200
	if got := e.get(playerA, ledger.FieldBalance); got != want {
		t.Fatalf("after pair = %d, want %d", got, want)
	}

	// 🍒 🍋 ⭐ → 0
	e.src.Push(0, 1, 4)
	e.ok(e.run(playerA, "slots", "100"))
	want -= 100
	if got := e.get(playerA, ledger.FieldBalance); got != want {
		t.Fatalf("after loss = %d, want %d", got, want)
	}

	if reply := e.run(playerA, "slots", "100000"); !errors.Is(reply.Err, common.ErrInsufficient) {
		t.Fatalf("big bet err = %v", reply.Err)
	}
	if reply := e.run(playerA, "slots"); !errors.Is(reply.Err, common.ErrValidation) {
		t.Fatalf("missing bet err = %v", reply.Err)
	}
}

func TestSlotsForcedJackpotForAdmins(t *testing.T) {
	e := newEnv(t, func(g *config.Game) { g.SlotsForceJackpotRole = true })

	e.src.Push(0, 1, 4)
	reply := e.ok(e.runReq(chat.Request{
		Command: "slots", ActorID: modID, ActorRoles: []string{"admin"}, Args: []string{"10"},
	}))
	if !strings.Contains(reply.Text, "JACKPOT") {
		t.Fatalf("reply = %q, want jackpot", reply.Text)
	}
	if got := e.get(modID, ledger.FieldBalance); got != startBal-10+100 {
		t.Fatalf("balance = %d, want %d", got, startBal+90)
	}

	// обычный игрок крутит честно
	e.src.Push(0, 1, 4)
	e.ok(e.run(playerA, "slots", "10"))
	if got := e.get(playerA, ledger.FieldBalance); got != startBal-10 {
		t.Fatalf("player balance = %d, want %d", got, startBal-10)
	}
}

func TestAdminPermission(t *testing.T) {
	e := newEnv(t, nil)

	for _, cmd := range []string{"give", "setbal", "setfish"} {
		reply := e.runAt(playerA, playerB, cmd, "1000")
		if !errors.Is(reply.Err, common.ErrPermissionDenied) {
			t.Fatalf("%s by player: err = %v, want permission denied", cmd, reply.Err)
		}
	}
	if reply := e.runAt(playerA, playerB, "giveitem", "nuke", "5"); !errors.Is(reply.Err, common.ErrPermissionDenied) {
		t.Fatalf("giveitem by player: err = %v", reply.Err)
	}
	if got := e.get(playerB, ledger.FieldBalance); got != startBal {
		t.Fatalf("balance mutated by unprivileged actor: %d", got)
	}
	if got := e.get(playerB, ledger.ItemField(config.ItemNuke)); got != 0 {
		t.Fatalf("items mutated by unprivileged actor: %d", got)
	}

	// владелец
	e.ok(e.runAt(ownerID, playerB, "give", "250"))
	if got := e.get(playerB, ledger.FieldBalance); got != startBal+250 {
		t.Fatalf("after give = %d", got)
	}

	// роль администратора
	e.ok(e.runReq(chat.Request{
		Command: "setbal", ActorID: modID, ActorRoles: []string{"Member", "Admin"},
		TargetID: playerB, TargetName: "b", Args: []string{"42"},
	}))
	if got := e.get(playerB, ledger.FieldBalance); got != 42 {
		t.Fatalf("after setbal = %d, want 42", got)
	}

	if reply := e.run(ownerID, "give", "10"); !errors.Is(reply.Err, common.ErrMissingTarget) {
		t.Fatalf("give without target: err = %v", reply.Err)
	}
}

func TestNonNegative(t *testing.T) {
	e := newEnv(t, nil)

	e.ok(e.runAt(ownerID, playerA, "setbal", "-50"))
	if got := e.get(playerA, ledger.FieldBalance); got != 0 {
		t.Fatalf("setbal -50 → %d, want 0", got)
	}

	e.ok(e.runAt(ownerID, playerB, "give", "-100000"))
	if got := e.get(playerB, ledger.FieldBalance); got != 0 {
		t.Fatalf("give -100000 → %d, want 0", got)
	}

	e.ok(e.runAt(ownerID, playerB, "setfish", "-1"))
	if got := e.get(playerB, ledger.FieldFish); got != 0 {
		t.Fatalf("setfish -1 → %d, want 0", got)
	}
}

func TestBuyHugeAmountRejected(t *testing.T) {
	e := newEnv(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{name: "nuke cost wraps int64", args: []string{"nuke", "36893488147419103"}},
		{name: "nuke over per-purchase cap", args: []string{"nuke", "1001"}},
		{name: "rod max int64", args: []string{"rod", "9223372036854775807"}},
		{name: "rod over per-purchase cap", args: []string{"rod", "5000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := e.run(playerA, "buy", tt.args...)
			if !errors.Is(reply.Err, common.ErrAmountTooLarge) {
				t.Fatalf("err = %v (%s), want amount too large", reply.Err, reply.Text)
			}
		})
	}
	if got := e.get(playerA, ledger.FieldBalance); got != startBal {
		t.Fatalf("balance = %d, want %d", got, startBal)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != 0 {
		t.Fatalf("nukes = %d, want 0", got)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemRod)); got != 0 {
		t.Fatalf("rod level = %d, want 0", got)
	}
}

func TestExtremeAmountsStayNonNegative(t *testing.T) {
	e := newEnv(t, nil)
	const maxStr = "9223372036854775807"

	// give упирается в потолок, а не переполняется
	e.ok(e.runAt(ownerID, playerA, "give", maxStr))
	e.ok(e.runAt(ownerID, playerA, "give", maxStr))
	if got := e.get(playerA, ledger.FieldBalance); got != math.MaxInt64 {
		t.Fatalf("balance after two max gives = %d", got)
	}

	// выплата джекпота не должна переполнить ставку
	if reply := e.run(playerA, "slots", maxStr); !errors.Is(reply.Err, common.ErrAmountTooLarge) {
		t.Fatalf("max bet err = %v", reply.Err)
	}
	e.src.Push(6, 6, 6)
	e.ok(e.run(playerA, "slots", "922337203685477580"))
	if got := e.get(playerA, ledger.FieldBalance); got != math.MaxInt64 {
		t.Fatalf("balance after big jackpot = %d", got)
	}

	// покупка по максимальной цене в пределах лимита
	e.ok(e.run(playerA, "buy", "nuke", "1000"))
	if got := e.get(playerA, ledger.FieldBalance); got != math.MaxInt64-500_000 {
		t.Fatalf("balance after buy = %d", got)
	}

	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", maxStr))
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != math.MaxInt64 {
		t.Fatalf("nukes = %d, want saturation", got)
	}
	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "-9223372036854775808"))
	if got := e.get(playerA, ledger.ItemField(config.ItemNuke)); got != 0 {
		t.Fatalf("nukes after min give = %d, want 0", got)
	}

	// нюк по цели с максимумом рыбы
	e.ok(e.runAt(ownerID, playerB, "setfish", maxStr))
	e.ok(e.runAt(ownerID, playerA, "giveitem", "nuke", "1"))
	e.src.Push(0, 0)
	e.ok(e.runAt(playerA, playerB, "nuke"))
	if got := e.get(playerB, ledger.FieldFish); got != math.MaxInt64-math.MaxInt64/10 {
		t.Fatalf("target fish = %d", got)
	}

	for _, id := range []int64{playerA, playerB} {
		for _, f := range []ledger.Field{ledger.FieldBalance, ledger.FieldFish, ledger.ItemField(config.ItemNuke)} {
			if got := e.get(id, f); got < 0 {
				t.Fatalf("account %d %s = %d", id, f, got)
			}
		}
	}
}

func TestSetFishRecordsHistory(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerB, "setfish", "42"))

	entries, err := e.ledger.History(context.Background(), playerB, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Kind != ledger.KindAdjust || entries[0].Delta != 0 {
		t.Fatalf("history = %+v", entries)
	}
	if !strings.Contains(entries[0].Description, "42") {
		t.Fatalf("description = %q", entries[0].Description)
	}
}

func TestBalanceIsIdempotent(t *testing.T) {
	e := newEnv(t, nil)

	first := e.ok(e.run(playerA, "balance"))
	second := e.ok(e.run(playerA, "bal"))
	if len(first.Fields) == 0 || first.Fields[0].Value != second.Fields[0].Value {
		t.Fatalf("balance replies differ: %+v vs %+v", first.Fields, second.Fields)
	}
	if first.Fields[0].Value != "500" {
		t.Fatalf("starting balance shown as %q", first.Fields[0].Value)
	}

	// баланс другого игрока по упоминанию
	e.ok(e.runAt(ownerID, playerB, "setbal", "1234"))
	reply := e.ok(e.runAt(playerA, playerB, "balance"))
	if reply.Fields[0].Value != "1,234" {
		t.Fatalf("target balance shown as %q", reply.Fields[0].Value)
	}
}

func TestPets(t *testing.T) {
	e := newEnv(t, nil)

	reply := e.ok(e.run(playerA, "pet"))
	if reply.Fields[0].Value != "Lucky" {
		t.Fatalf("default pet name = %q", reply.Fields[0].Value)
	}

	if reply := e.run(playerA, "pet", "feed"); !errors.Is(reply.Err, common.ErrInsufficient) {
		t.Fatalf("feed without food err = %v", reply.Err)
	}

	// опыт 5+10, цена 5+10 → счастье 85
	e.src.Push(10, 10)
	e.ok(e.run(playerA, "pet", "play"))

	e.ok(e.runAt(ownerID, playerA, "giveitem", "petfood", "3"))
	reply = e.ok(e.run(playerA, "pet", "feed", "2"))
	if got := fieldValue(reply, "Happiness"); got != "100/100" {
		t.Fatalf("happiness after feed = %q", got)
	}
	if got := e.get(playerA, ledger.ItemField(config.ItemPetFood)); got != 1 {
		t.Fatalf("food left = %d, want 1", got)
	}

	long := strings.Repeat("x", 40)
	e.ok(e.run(playerA, "pet", "rename", long))
	reply = e.ok(e.run(playerA, "pet", "view"))
	if got := fieldValue(reply, "Name"); got != strings.Repeat("x", 32) {
		t.Fatalf("name = %q, want 32 runes", got)
	}

	reply = e.ok(e.run(playerA, "pet", "adopt", "Nemo"))
	if fieldValue(reply, "Name") != "Nemo" || fieldValue(reply, "Level") != "1" || fieldValue(reply, "Exp") != "0/100" {
		t.Fatalf("adopted pet = %+v", reply.Fields)
	}

	if reply := e.run(playerA, "pet", "dance"); !errors.Is(reply.Err, common.ErrBadArgument) {
		t.Fatalf("unknown subcommand err = %v", reply.Err)
	}
}

func TestPetTooSad(t *testing.T) {
	e := newEnv(t, nil)

	// каждая игра стоит 15 счастья: 100 → 85 → ... → 10
	for i := 0; i < 6; i++ {
		e.src.Push(0, 10)
		e.ok(e.run(playerA, "pet", "play"))
	}
	if reply := e.run(playerA, "pet", "play"); !errors.Is(reply.Err, common.ErrPetTooSad) {
		t.Fatalf("err = %v, want ErrPetTooSad", reply.Err)
	}
}

func TestLeaderboardAndHistory(t *testing.T) {
	e := newEnv(t, nil)
	e.ok(e.runAt(ownerID, playerA, "setfish", "10"))
	e.ok(e.runAt(ownerID, playerB, "setfish", "30"))

	reply := e.ok(e.run(playerA, "topfish"))
	lines := strings.Split(reply.Text, "\n")
	if len(lines) < 2 || !strings.Contains(lines[0], "<@2>") || !strings.Contains(lines[1], "<@1>") {
		t.Fatalf("topfish = %q", reply.Text)
	}

	e.ok(e.run(playerA, "daily"))
	reply = e.ok(e.run(playerA, "history"))
	if !strings.Contains(reply.Text, "+200 coins") {
		t.Fatalf("history = %q", reply.Text)
	}
}

func TestUnknownAndDisabled(t *testing.T) {
	e := newEnv(t, nil)
	if reply := e.run(playerA, "dance"); !errors.Is(reply.Err, common.ErrUnknownCommand) {
		t.Fatalf("unknown command err = %v", reply.Err)
	}
	if !e.d.Known("INV") || e.d.Known("dance") {
		t.Fatalf("Known() mismatch")
	}

	help := e.ok(e.run(playerA, "help"))
	if strings.Contains(help.Text, "setbal") || len(help.Fields) != 0 {
		t.Fatalf("help leaks admin commands to players")
	}
	adminHelp := e.ok(e.run(ownerID, "help"))
	if len(adminHelp.Fields) != 1 || !strings.Contains(adminHelp.Fields[0].Value, "setbal") {
		t.Fatalf("admin help = %+v", adminHelp.Fields)
	}
}

func fieldValue(r chat.Reply, name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

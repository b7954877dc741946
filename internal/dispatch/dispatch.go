// Package dispatch связывает команду из чата с операцией и ответом.
// Здесь же проверяются права (владелец/роль админа) и фича-флаги.
// Пакет не зависит от транспорта: на вход chat.Request, на выход chat.Reply.
package dispatch

import (
	"context"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/features/admin"
	"fishnuke.gg/discord-bot/internal/features/casino"
	"fishnuke.gg/discord-bot/internal/features/economy"
	"fishnuke.gg/discord-bot/internal/features/fishing"
	"fishnuke.gg/discord-bot/internal/features/pets"
	"fishnuke.gg/discord-bot/internal/features/shop"
)

// Handlers: обработчики фич.
type Handlers struct {
	Economy *economy.Handler
	Fishing *fishing.Handler
	Shop    *shop.Handler
	Casino  *casino.Handler
	Pets    *pets.Handler
	Admin   *admin.Handler
}

// Features: включённые фичи (FEATURE_*_ENABLED).
type Features struct {
	Slots bool
	Pets  bool
	Nuke  bool
}

// route: описание одной команды.
type route struct {
	name       string
	aliases    []string
	usage      string
	summary    string
	privileged bool
	enabled    bool
	handle     chat.Handler
}

// Dispatcher маршрутизирует команды.
type Dispatcher struct {
	prefix string
	policy admin.Policy
	routes []*route
	index  map[string]*route
}

// New регистрирует все команды.
func New(prefix string, policy admin.Policy, h Handlers, f Features) *Dispatcher {
	d := &Dispatcher{prefix: prefix, policy: policy, index: make(map[string]*route)}

	d.add(&route{name: "help", usage: "help", summary: "Show this list", enabled: true, handle: d.help})
	d.add(&route{name: "balance", aliases: []string{"bal"}, usage: "balance [@user]", summary: "Coins, fish and XP", enabled: true, handle: h.Economy.Balance})
	d.add(&route{name: "daily", usage: "daily", summary: "Claim your daily reward", enabled: true, handle: h.Economy.Daily})
	d.add(&route{name: "fish", usage: "fish", summary: "Go fishing", enabled: true, handle: h.Fishing.Fish})
	d.add(&route{name: "inventory", aliases: []string{"inv"}, usage: "inventory [@user]", summary: "Show items", enabled: true, handle: h.Economy.Inventory})
	d.add(&route{name: "shop", usage: "shop", summary: "Price list", enabled: true, handle: h.Shop.Shop})
	d.add(&route{name: "buy", usage: "buy <item> [amount]", summary: "Buy an item", enabled: true, handle: h.Shop.Buy})
	d.add(&route{name: "nuke", usage: "nuke [@user]", summary: "Nuke someone's fish, or gamble on yourself", enabled: f.Nuke, handle: h.Fishing.Nuke})
	d.add(&route{name: "slots", usage: "slots <bet>", summary: "Spin the slot machine", enabled: f.Slots, handle: h.Casino.Slots})
	d.add(&route{name: "pet", usage: "pet [view|adopt <name>|rename <name>|feed [n]|play]", summary: "Your pet", enabled: f.Pets, handle: h.Pets.Pet})
	d.add(&route{name: "topfish", usage: "topfish [n]", summary: "Fish leaderboard", enabled: true, handle: h.Economy.TopFish})
	d.add(&route{name: "toprich", usage: "toprich [n]", summary: "Coin leaderboard", enabled: true, handle: h.Economy.TopRich})
	d.add(&route{name: "history", usage: "history", summary: "Recent transactions", enabled: true, handle: h.Economy.History})

	d.add(&route{name: "give", usage: "give @user <amount>", summary: "Grant coins", privileged: true, enabled: true, handle: h.Admin.Give})
	d.add(&route{name: "setbal", usage: "setbal @user <amount>", summary: "Set balance", privileged: true, enabled: true, handle: h.Admin.SetBalance})
	d.add(&route{name: "setfish", usage: "setfish @user <amount>", summary: "Set fish count", privileged: true, enabled: true, handle: h.Admin.SetFish})
	d.add(&route{name: "giveitem", usage: "giveitem @user <item> [amount]", summary: "Grant items", privileged: true, enabled: true, handle: h.Admin.GiveItem})

	return d
}

func (d *Dispatcher) add(r *route) {
	d.routes = append(d.routes, r)
	d.index[r.name] = r
	for _, a := range r.aliases {
		d.index[a] = r
	}
}

// Known: зарегистрирована ли команда (с учётом алиасов).
func (d *Dispatcher) Known(command string) bool {
	_, ok := d.index[strings.ToLower(command)]
	return ok
}

// Dispatch выполняет команду.
// Отказы (валидация, нехватка, кулдаун, права) возвращаются в Reply.Err,
// ошибка функции: только внутренняя поломка.
func (d *Dispatcher) Dispatch(ctx context.Context, req chat.Request) (chat.Reply, error) {
	req.Command = strings.ToLower(req.Command)
	r, ok := d.index[req.Command]
	if !ok {
		return ErrorReply(common.ErrUnknownCommand, ""), nil
	}
	if !r.enabled {
		return chat.Reply{
			Title: "🚧 Disabled",
			Text:  fmt.Sprintf("`%s` is disabled on this server.", r.name),
			Color: chat.ColorWarning,
			Err:   common.ErrPermissionDenied,
		}, nil
	}

	req.Privileged = d.policy.IsPrivileged(admin.Actor{ID: req.ActorID, Roles: req.ActorRoles})
	if r.privileged && !req.Privileged {
		return ErrorReply(common.ErrNotPrivileged, ""), nil
	}

	reply, err := r.handle(ctx, req)
	if err != nil {
		if IsRejection(err) {
			return ErrorReply(err, d.prefix+r.usage), nil
		}
		log.WithError(err).WithFields(log.Fields{
			"cmd":     r.name,
			"user_id": req.ActorID,
		}).Error("Ошибка выполнения команды")
		return chat.Reply{}, fmt.Errorf("команда %s: %w", r.name, err)
	}
	return reply, nil
}

func (d *Dispatcher) help(_ context.Context, req chat.Request) (chat.Reply, error) {
	reply := chat.Reply{Title: "🎣 FishNuke commands", Color: chat.ColorInfo}

	var player, staff []string
	for _, r := range d.routes {
		if !r.enabled {
			continue
		}
		line := fmt.Sprintf("`%s%s` %s", d.prefix, r.usage, r.summary)
		if r.privileged {
			staff = append(staff, line)
		} else {
			player = append(player, line)
		}
	}
	reply.Text = strings.Join(player, "\n")

	privileged := d.policy.IsPrivileged(admin.Actor{ID: req.ActorID, Roles: req.ActorRoles})
	if privileged && len(staff) > 0 {
		sort.Strings(staff)
		reply.AddField("Admin", strings.Join(staff, "\n"), false)
	}
	return reply, nil
}

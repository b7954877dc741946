// Package economy: handlers.go обрабатывает команды:
// !balance, !daily, !inventory, !topfish, !toprich, !history.
package economy

import (
	"context"
	"fmt"
	"strings"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
)

// Handler обрабатывает команды экономики.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик экономических команд.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance показывает монеты, рыбу и опыт (!balance [@user]).
func (h *Handler) Balance(ctx context.Context, req chat.Request) (chat.Reply, error) {
	snap, err := h.service.Profile(ctx, req.SubjectID())
	if err != nil {
		return chat.Reply{}, err
	}

	reply := chat.Reply{
		Title: fmt.Sprintf("💰 %s's wallet", req.SubjectName()),
		Color: chat.ColorGold,
	}
	reply.AddField("Coins", common.FormatNumber(snap.Account.Balance), true)
	reply.AddField("Fish", common.FormatNumber(snap.Account.FishCount), true)
	reply.AddField("XP", common.FormatNumber(snap.Account.XP), true)
	return reply, nil
}

// Daily: !daily.
func (h *Handler) Daily(ctx context.Context, req chat.Request) (chat.Reply, error) {
	res, err := h.service.ClaimDaily(ctx, req.ActorID)
	if err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{
		Title: "🎁 Daily reward",
		Text: fmt.Sprintf("You claimed **%s**! Balance: %s",
			common.FormatCoins(res.Reward), common.FormatCoins(res.Balance)),
		Color: chat.ColorSuccess,
	}, nil
}

// Inventory: !inventory [@user].
func (h *Handler) Inventory(ctx context.Context, req chat.Request) (chat.Reply, error) {
	snap, err := h.service.Profile(ctx, req.SubjectID())
	if err != nil {
		return chat.Reply{}, err
	}

	reply := chat.Reply{
		Title: fmt.Sprintf("🎒 %s's inventory", req.SubjectName()),
		Color: chat.ColorInfo,
	}
	if len(snap.Items) == 0 {
		reply.Text = "Empty. Visit the `shop`!"
		return reply, nil
	}
	for _, it := range snap.Items {
		label := "x" + common.FormatNumber(it.Quantity)
		if it.Name == config.ItemRod {
			label = "level " + common.FormatNumber(it.Quantity)
		}
		reply.AddField(it.Name, label, true)
	}
	return reply, nil
}

// TopFish: !topfish [n].
func (h *Handler) TopFish(ctx context.Context, req chat.Request) (chat.Reply, error) {
	return h.top(ctx, req, ledger.MetricFish, "🐟 Top fishers", "fish")
}

// TopRich: !toprich [n].
func (h *Handler) TopRich(ctx context.Context, req chat.Request) (chat.Reply, error) {
	return h.top(ctx, req, ledger.MetricBalance, "💰 Richest players", "coins")
}

func (h *Handler) top(ctx context.Context, req chat.Request, metric ledger.Metric, title, unit string) (chat.Reply, error) {
	limit, err := chat.OptionalAmount(req.Arg(0), 0)
	if err != nil {
		return chat.Reply{}, err
	}
	standings, err := h.service.Leaderboard(ctx, metric, int(limit))
	if err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{
		Title: title,
		Text:  FormatStandings(standings, unit),
		Color: chat.ColorPurple,
	}, nil
}

// FormatStandings рисует лидерборд строками "🥇 <@id>: 120 fish".
// Используется и командами, и ежедневной публикацией.
func FormatStandings(standings []ledger.Standing, unit string) string {
	if len(standings) == 0 {
		return "Nobody here yet."
	}
	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	for i, st := range standings {
		place := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			place = medals[i]
		}
		fmt.Fprintf(&sb, "%s %s: %s %s\n", place, chat.Mention(st.AccountID), common.FormatNumber(st.Value), unit)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// History показывает последние движения монет (!history).
func (h *Handler) History(ctx context.Context, req chat.Request) (chat.Reply, error) {
	entries, err := h.service.History(ctx, req.ActorID)
	if err != nil {
		return chat.Reply{}, err
	}

	reply := chat.Reply{Title: "📋 Recent transactions", Color: chat.ColorInfo}
	if len(entries) == 0 {
		reply.Text = "No transactions yet."
		return reply, nil
	}

	var sb strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. `%s` %s | %s\n",
			i+1, e.CreatedAt.UTC().Format("2006-01-02 15:04"), common.FormatSignedCoins(e.Delta), e.Description)
	}
	reply.Text = strings.TrimRight(sb.String(), "\n")
	return reply, nil
}

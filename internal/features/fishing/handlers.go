// Package fishing: handlers.go обрабатывает !fish и !nuke.
package fishing

import (
	"context"
	"fmt"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
)

// Handler обрабатывает команды рыбалки.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Fish: !fish.
func (h *Handler) Fish(ctx context.Context, req chat.Request) (chat.Reply, error) {
	res, err := h.service.Fish(ctx, req.ActorID)
	if err != nil {
		return chat.Reply{}, err
	}

	c := res.Catch
	reply := chat.Reply{
		Title: "🎣 Fishing",
		Text:  fmt.Sprintf("You caught **%d** fish worth %s!", c.Total, common.FormatCoins(c.Coins)),
		Color: chat.ColorInfo,
	}
	if c.Huge {
		reply.Title = "🎣 HUGE CATCH!"
		reply.Text += fmt.Sprintf("\n🐋 Bonus: +%d fish", c.Bonus)
		reply.Color = chat.ColorGold
	}
	reply.AddField("Fish", common.FormatNumber(res.FishCount), true)
	reply.AddField("Coins", common.FormatNumber(res.Balance), true)
	reply.AddField("XP", "+"+common.FormatNumber(c.XP), true)
	return reply, nil
}

// Nuke: !nuke @user (атака) или !nuke (самоподрыв).
func (h *Handler) Nuke(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if !req.HasTarget() {
		return h.selfNuke(ctx, req)
	}

	res, err := h.service.Nuke(ctx, req.ActorID, req.TargetID, req.Privileged)
	if err != nil {
		return chat.Reply{}, err
	}

	n := res.Nuke
	reply := chat.Reply{
		Title: "☢️ NUKE LAUNCHED",
		Text: fmt.Sprintf("%s nuked %s's pond! **%d%%** blast destroyed **%d** fish.",
			req.ActorName, req.TargetName, n.Pct, n.Destroyed),
		Color: chat.ColorError,
	}
	reply.AddField("Salvaged", fmt.Sprintf("%d fish, %s", n.Salvage, common.FormatCoins(n.CoinSalvage)), true)
	reply.AddField("Target fish left", common.FormatNumber(n.TargetAfter), true)
	if res.ChargeConsumed {
		reply.AddField("Charges left", fmt.Sprintf("%d %s", res.ChargesLeft, common.PluralizeCharges(res.ChargesLeft)), true)
	}
	return reply, nil
}

func (h *Handler) selfNuke(ctx context.Context, req chat.Request) (chat.Reply, error) {
	res, err := h.service.SelfNuke(ctx, req.ActorID)
	if err != nil {
		return chat.Reply{}, err
	}

	sn := res.SelfNuke
	reply := chat.Reply{Title: "💣 Self-detonation"}
	if sn.Won {
		reply.Text = fmt.Sprintf("The blast missed and the fish market paid out **%s**!", common.FormatCoins(sn.Payout))
		reply.Color = chat.ColorSuccess
	} else {
		reply.Text = fmt.Sprintf("Boom. You blew up **%d** of your own fish (%d%%) and paid a %s fine.",
			sn.Destroyed, sn.Pct, common.FormatCoins(sn.Penalty))
		reply.Color = chat.ColorError
	}
	reply.AddField("Net", common.FormatSignedCoins(res.Delta), true)
	reply.AddField("Balance", common.FormatNumber(res.Balance), true)
	reply.AddField("Fish", common.FormatNumber(res.FishCount), true)
	return reply, nil
}

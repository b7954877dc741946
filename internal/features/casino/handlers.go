// Package casino: handlers.go обрабатывает команду !slots.
package casino

import (
	"context"
	"fmt"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Handler обрабатывает команды казино.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик казино.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Slots: !slots bet.
//
// Формат ответа:
//
//	🎰 SLOTS 🎰
//	🍒 | 🍒 | ⭐
//	Pair! Payout: 200 coins
//	Balance: 1,100 coins
func (h *Handler) Slots(ctx context.Context, req chat.Request) (chat.Reply, error) {
	bet, err := chat.ParseAmount(req.Arg(0))
	if err != nil {
		return chat.Reply{}, err
	}

	res, err := h.service.Spin(ctx, req.ActorID, bet, req.Privileged)
	if err != nil {
		return chat.Reply{}, err
	}

	reply := chat.Reply{
		Title: "🎰 SLOTS 🎰",
		Text:  fmt.Sprintf("**[ %s ]**\n\n", res.Draw),
		Color: chat.ColorError,
	}
	if res.IsWin() {
		reply.Text += fmt.Sprintf("%s Payout: **%s**", outcomeLabel(res.Outcome), common.FormatCoins(res.Payout))
		reply.Color = chat.ColorSuccess
		if res.Outcome == rewards.SlotJackpot {
			reply.Color = chat.ColorGold
		}
	} else {
		reply.Text += fmt.Sprintf("No luck. You lost %s.", common.FormatCoins(res.Bet))
	}
	reply.AddField("Balance", common.FormatCoins(res.Balance), true)
	return reply, nil
}

func outcomeLabel(o rewards.SlotOutcome) string {
	switch o {
	case rewards.SlotJackpot:
		return "💥 JACKPOT!"
	case rewards.SlotSecondary:
		return "💎 Diamonds!"
	case rewards.SlotTriple:
		return "Three of a kind!"
	case rewards.SlotPair:
		return "Pair!"
	}
	return ""
}

// Package shop: handlers.go обрабатывает !shop и !buy.
package shop

import (
	"context"
	"fmt"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
)

// Handler обрабатывает команды магазина.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Shop показывает прайс-лист (!shop).
func (h *Handler) Shop(ctx context.Context, req chat.Request) (chat.Reply, error) {
	listings, err := h.service.Listings(ctx, req.ActorID)
	if err != nil {
		return chat.Reply{}, err
	}

	reply := chat.Reply{
		Title: "🛒 Shop",
		Text:  "Buy with `buy <item> [amount]`",
		Color: chat.ColorInfo,
	}
	for _, l := range listings {
		value := fmt.Sprintf("%s\n%s", common.FormatCoins(l.Price), l.Description)
		if l.Upgradeable {
			value = fmt.Sprintf("%s (level %d → %d)\n%s", common.FormatCoins(l.Price), l.Owned, l.Owned+1, l.Description)
		}
		reply.AddField(l.Name, value, false)
	}
	return reply, nil
}

// Buy: !buy item [amount].
func (h *Handler) Buy(ctx context.Context, req chat.Request) (chat.Reply, error) {
	item := req.Arg(0)
	if item == "" {
		return chat.Reply{}, common.ErrBadArgument
	}
	amount, err := chat.OptionalAmount(req.Arg(1), 1)
	if err != nil {
		return chat.Reply{}, err
	}

	p, err := h.service.Buy(ctx, req.ActorID, item, amount)
	if err != nil {
		return chat.Reply{}, err
	}

	text := fmt.Sprintf("Bought **%d × %s** for %s.", p.Amount, p.Item, common.FormatCoins(p.Cost))
	if p.Item == config.ItemRod {
		text = fmt.Sprintf("Rod upgraded to **level %d** for %s.", p.Quantity, common.FormatCoins(p.Cost))
	}
	reply := chat.Reply{Title: "🛍️ Purchase complete", Text: text, Color: chat.ColorSuccess}
	reply.AddField("Balance", common.FormatCoins(p.Balance), true)
	return reply, nil
}

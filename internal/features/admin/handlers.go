// Package admin: handlers.go обрабатывает !give, !setbal, !setfish, !giveitem.
package admin

import (
	"context"
	"fmt"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
)

// Handler обрабатывает админские команды.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func actorOf(req chat.Request) Actor {
	return Actor{ID: req.ActorID, Roles: req.ActorRoles}
}

// Give: !give @user amount.
func (h *Handler) Give(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if !req.HasTarget() {
		return chat.Reply{}, common.ErrMissingTarget
	}
	amount, err := chat.ParseInt(req.Arg(0))
	if err != nil {
		return chat.Reply{}, err
	}
	balance, err := h.service.GiveCoins(ctx, actorOf(req), req.TargetID, amount)
	if err != nil {
		return chat.Reply{}, err
	}
	return done(fmt.Sprintf("Gave %s to %s. Balance: %s",
		common.FormatSignedCoins(amount), req.TargetName, common.FormatCoins(balance))), nil
}

// SetBalance: !setbal @user amount.
func (h *Handler) SetBalance(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if !req.HasTarget() {
		return chat.Reply{}, common.ErrMissingTarget
	}
	value, err := chat.ParseInt(req.Arg(0))
	if err != nil {
		return chat.Reply{}, err
	}
	balance, err := h.service.SetCoins(ctx, actorOf(req), req.TargetID, value)
	if err != nil {
		return chat.Reply{}, err
	}
	return done(fmt.Sprintf("Set %s's balance to %s.", req.TargetName, common.FormatCoins(balance))), nil
}

// SetFish: !setfish @user amount.
func (h *Handler) SetFish(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if !req.HasTarget() {
		return chat.Reply{}, common.ErrMissingTarget
	}
	value, err := chat.ParseInt(req.Arg(0))
	if err != nil {
		return chat.Reply{}, err
	}
	fish, err := h.service.SetFish(ctx, actorOf(req), req.TargetID, value)
	if err != nil {
		return chat.Reply{}, err
	}
	return done(fmt.Sprintf("Set %s's fish to %s.", req.TargetName, common.FormatNumber(fish))), nil
}

// GiveItem: !giveitem @user item amount.
func (h *Handler) GiveItem(ctx context.Context, req chat.Request) (chat.Reply, error) {
	if !req.HasTarget() {
		return chat.Reply{}, common.ErrMissingTarget
	}
	item := req.Arg(0)
	if item == "" {
		return chat.Reply{}, common.ErrBadArgument
	}
	amount := int64(1)
	if req.Arg(1) != "" {
		n, err := chat.ParseInt(req.Arg(1))
		if err != nil {
			return chat.Reply{}, err
		}
		amount = n
	}
	qty, err := h.service.GiveItem(ctx, actorOf(req), req.TargetID, item, amount)
	if err != nil {
		return chat.Reply{}, err
	}
	return done(fmt.Sprintf("%s now has %s × %s.", req.TargetName, common.FormatNumber(qty), item)), nil
}

func done(text string) chat.Reply {
	return chat.Reply{Title: "🛠️ Admin", Text: text, Color: chat.ColorWarning}
}

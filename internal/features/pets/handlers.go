// Package pets: handlers.go обрабатывает !pet и его подкоманды.
package pets

import (
	"context"
	"fmt"
	"strings"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Handler обрабатывает команды питомца.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Pet: !pet [view|adopt name|rename name|feed [n]|play].
func (h *Handler) Pet(ctx context.Context, req chat.Request) (chat.Reply, error) {
	sub := strings.ToLower(req.Arg(0))
	rest := ""
	if len(req.Args) > 1 {
		rest = strings.Join(req.Args[1:], " ")
	}

	switch sub {
	case "", "view", "status":
		st, err := h.service.View(ctx, req.ActorID)
		if err != nil {
			return chat.Reply{}, err
		}
		reply := petCard("🐾 Your pet", &st.Pet)
		reply.AddField("Pet food", common.FormatNumber(st.Food), true)
		return reply, nil

	case "adopt", "reset":
		pet, err := h.service.Adopt(ctx, req.ActorID, rest)
		if err != nil {
			return chat.Reply{}, err
		}
		reply := petCard("🏡 New pet adopted", pet)
		reply.Text = fmt.Sprintf("Say hi to **%s**!", pet.Name)
		return reply, nil

	case "rename", "name":
		pet, err := h.service.Rename(ctx, req.ActorID, rest)
		if err != nil {
			return chat.Reply{}, err
		}
		return chat.Reply{
			Title: "✏️ Pet renamed",
			Text:  fmt.Sprintf("Your pet is now called **%s**.", pet.Name),
			Color: chat.ColorSuccess,
		}, nil

	case "feed":
		amount, err := chat.OptionalAmount(req.Arg(1), 1)
		if err != nil {
			return chat.Reply{}, err
		}
		res, err := h.service.Feed(ctx, req.ActorID, amount)
		if err != nil {
			return chat.Reply{}, err
		}
		reply := petCard("🍖 Feeding time", &res.Pet)
		reply.Text = fmt.Sprintf("%s ate %d pet food.", res.Pet.Name, res.Eaten)
		reply.AddField("Pet food left", common.FormatNumber(res.FoodLeft), true)
		return reply, nil

	case "play":
		res, err := h.service.Play(ctx, req.ActorID)
		if err != nil {
			return chat.Reply{}, err
		}
		return playReply(res), nil
	}
	return chat.Reply{}, common.ErrBadArgument
}

func playReply(p *rewards.Play) chat.Reply {
	reply := petCard("🎾 Playtime", &p.Pet)
	reply.Text = fmt.Sprintf("%s gained %d exp and lost %d happiness.", p.Pet.Name, p.ExpGained, p.HappyCost)
	if p.LevelsGained > 0 {
		reply.Text += fmt.Sprintf("\n⬆️ Level up! Now level **%d**.", p.Pet.Level)
		reply.Color = chat.ColorGold
	}
	return reply
}

func petCard(title string, pet *ledger.Pet) chat.Reply {
	reply := chat.Reply{Title: title, Color: chat.ColorPurple}
	reply.AddField("Name", pet.Name, true)
	reply.AddField("Level", fmt.Sprintf("%d", pet.Level), true)
	reply.AddField("Happiness", fmt.Sprintf("%d/%d", pet.Happiness, ledger.PetMaxHappiness), true)
	reply.AddField("Exp", fmt.Sprintf("%d/%d", pet.Exp, rewards.ExpToLevel(pet.Level)), true)
	return reply
}

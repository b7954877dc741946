package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/common"
)

// IsRejection: ошибка из таксономии отказов (показывается пользователю, не логируется как сбой).
func IsRejection(err error) bool {
	return errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrInsufficient) ||
		errors.Is(err, common.ErrCooldown) ||
		errors.Is(err, common.ErrPermissionDenied) ||
		errors.Is(err, common.ErrNotFound)
}

// ErrorReply превращает отказ в понятный ответ. usage добавляется к ошибкам ввода.
func ErrorReply(err error, usage string) chat.Reply {
	reply := chat.Reply{Color: chat.ColorError, Err: err}

	var cd *common.CooldownError
	var ins *common.InsufficientError
	switch {
	case errors.As(err, &cd):
		reply.Title = "⏳ Slow down"
		reply.Text = fmt.Sprintf("You can %s again in **%s**.", actionVerb(cd.Action), common.FormatWait(cd.Remaining))
		reply.Color = chat.ColorWarning
	case errors.As(err, &ins):
		reply.Title = "💸 Not enough"
		reply.Text = fmt.Sprintf("You need **%s** %s but have **%s**.",
			common.FormatNumber(ins.Need), ins.Resource, common.FormatNumber(ins.Have))
	case errors.Is(err, common.ErrInsufficient):
		reply.Title = "💸 Not enough"
		reply.Text = capitalize(strip(err, common.ErrInsufficient))
	case errors.Is(err, common.ErrPermissionDenied):
		reply.Title = "⛔ Not allowed"
		reply.Text = "Only the bot owner and admins can do that."
	case errors.Is(err, common.ErrValidation):
		reply.Title = "❌ Invalid input"
		reply.Text = capitalize(strip(err, common.ErrValidation))
		if usage != "" {
			reply.Text += fmt.Sprintf("\nUsage: `%s`", usage)
		}
	case errors.Is(err, common.ErrNotFound):
		reply.Title = "❓ Not found"
		reply.Text = "I couldn't find that member."
	default:
		reply.Title = "⚠️ Something went wrong"
		reply.Text = "Please try again later."
	}
	return reply
}

// strip убирает префикс категории из текста ошибки.
func strip(err, category error) string {
	return strings.TrimPrefix(err.Error(), category.Error()+": ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func actionVerb(action string) string {
	switch action {
	case "daily":
		return "claim your daily reward"
	case "nuke":
		return "launch a nuke"
	}
	return action
}

package chat

import (
	"strconv"
	"strings"

	"fishnuke.gg/discord-bot/internal/common"
)

// ParseAmount разбирает положительное целое. "all" и мусор не принимаются.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, common.ErrBadArgument
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.ErrBadArgument
	}
	if n <= 0 {
		return 0, common.ErrInvalidAmount
	}
	return n, nil
}

// ParseInt разбирает целое со знаком (для админских команд).
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, common.ErrBadArgument
	}
	return n, nil
}

// OptionalAmount: как ParseAmount, но пустая строка даёт def.
func OptionalAmount(s string, def int64) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	return ParseAmount(s)
}

// Mention форматирует упоминание пользователя Discord.
func Mention(id int64) string {
	return "<@" + strconv.FormatInt(id, 10) + ">"
}

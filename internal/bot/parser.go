package bot

import (
	"regexp"
	"strings"
)

// mentionRe ловит упоминание пользователя вида <@123> или <@!123>.
var mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)

// CommandParser разбирает команды с префиксами (по умолчанию ! и .).
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд. Основной префикс идёт первым.
func NewCommandParser(prefix string) *CommandParser {
	prefixes := []string{prefix}
	for _, p := range []string{"!", "."} {
		if p != prefix {
			prefixes = append(prefixes, p)
		}
	}
	return &CommandParser{validPrefixes: prefixes}
}

// ParseCommand разбирает текст на команду и аргументы.
// Упоминания пользователей из аргументов убираются: цель берётся из message.Mentions.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if prefix != "" && strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}
	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	var args []string
	for _, part := range parts[1:] {
		if IsMention(part) {
			continue
		}
		args = append(args, part)
	}
	return command, args, true
}

// IsMention: является ли токен упоминанием пользователя.
func IsMention(token string) bool {
	return mentionRe.MatchString(token)
}

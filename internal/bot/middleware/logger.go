// Package middleware содержит промежуточные обработчики для логирования,
// восстановления после паник и rate-limiting.
package middleware

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
)

// LogMessage логирует входящую команду.
// Логируется: user_id, guild_id, channel_id, username, текст (первые 50 символов).
func LogMessage(m *discordgo.Message) {
	if m == nil || m.Author == nil {
		return
	}

	text := m.Content
	if short := common.TruncateRunes(text, 50); short != text {
		text = short + "..."
	}

	log.WithFields(log.Fields{
		"user_id":    m.Author.ID,
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"username":   m.Author.Username,
		"text":       text,
	}).Debug("Входящая команда")
}

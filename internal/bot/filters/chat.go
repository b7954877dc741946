// Package filters решает, на какие сообщения бот вообще реагирует.
package filters

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// MessageFilter пропускает только сообщения живых участников на сервере
// и, если задан список, только из разрешённых каналов.
type MessageFilter struct {
	allowed map[string]struct{}
}

// NewMessageFilter создаёт фильтр. Пустой список: разрешены все каналы.
func NewMessageFilter(channelIDs []string) *MessageFilter {
	f := &MessageFilter{}
	if len(channelIDs) > 0 {
		f.allowed = make(map[string]struct{}, len(channelIDs))
		for _, id := range channelIDs {
			f.allowed[id] = struct{}{}
		}
	}
	return f
}

// Allow проверяет сообщение. selfID: id самого бота.
func (f *MessageFilter) Allow(m *discordgo.Message, selfID string) bool {
	if m == nil || m.Author == nil {
		log.WithField("component", "MessageFilter").Debug("nil message/author")
		return false
	}
	// свои сообщения и другие боты
	if m.Author.ID == selfID || m.Author.Bot {
		return false
	}
	// личные сообщения: роли и упоминания работают только на сервере
	if m.GuildID == "" {
		return false
	}
	if f.allowed != nil {
		if _, ok := f.allowed[m.ChannelID]; !ok {
			log.WithFields(log.Fields{
				"component":  "MessageFilter",
				"channel_id": m.ChannelID,
			}).Debug("deny: channel not allowed")
			return false
		}
	}
	return true
}

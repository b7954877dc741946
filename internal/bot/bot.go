// Package bot реализует транспорт Discord: принимает сообщения, разбирает команды,
// вызывает диспетчер и отправляет ответ embed-ом.
package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/bot/filters"
	"fishnuke.gg/discord-bot/internal/bot/middleware"
	"fishnuke.gg/discord-bot/internal/chat"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/dispatch"
)

// Bot: главная структура бота, объединяющая все компоненты.
type Bot struct {
	session *discordgo.Session
	cfg     *config.Config

	filter      *filters.MessageFilter
	rateLimiter *middleware.RateLimiter
	dispatcher  *dispatch.Dispatcher
	parser      *CommandParser

	// ограничитель параллелизма обработки сообщений
	inflight chan struct{}
	// контекст жизни бота, отменяется при остановке
	ctx context.Context
}

// New создаёт бота. Сессия ещё не открыта.
func New(session *discordgo.Session, cfg *config.Config, dispatcher *dispatch.Dispatcher) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return &Bot{
		session:     session,
		cfg:         cfg,
		filter:      filters.NewMessageFilter(cfg.AllowedChannelIDs),
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		dispatcher:  dispatcher,
		parser:      NewCommandParser(cfg.CommandPrefix),
		inflight:    make(chan struct{}, maxInFlight),
		ctx:         context.Background(),
	}
}

// Start открывает gateway и обрабатывает сообщения до отмены ctx.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	remove := b.session.AddHandler(b.onMessageCreate)
	defer remove()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("не удалось подключиться к Discord: %w", err)
	}

	log.WithFields(log.Fields{
		"max_inflight": cap(b.inflight),
		"prefix":       b.cfg.CommandPrefix,
	}).Info("Бот запущен и ожидает сообщения...")

	<-ctx.Done()
	log.Info("Бот останавливается (ctx done)...")
	b.rateLimiter.Close()
	return b.session.Close()
}

// onMessageCreate вызывается discordgo для каждого нового сообщения.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// лимит параллелизма
	select {
	case b.inflight <- struct{}{}:
	case <-b.ctx.Done():
		return
	}
	defer func() { <-b.inflight }()
	defer middleware.RecoverFromPanic()

	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}
	if !b.filter.Allow(m.Message, selfID) {
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(m.Content)
	if !isCommand || !b.dispatcher.Known(cmd) {
		return
	}

	middleware.LogMessage(m.Message)

	req, err := BuildRequest(m.Message, cmd, args, b.roleNames(s, m.Message))
	if err != nil {
		log.WithError(err).Warn("Не удалось разобрать сообщение")
		return
	}

	if !b.rateLimiter.Allow(req.ActorID) {
		log.WithField("user_id", req.ActorID).Debug("rate limited")
		return
	}

	reply, err := b.dispatcher.Dispatch(b.ctx, req)
	if err != nil {
		reply = dispatch.ErrorReply(err, "")
	}
	b.send(m.ChannelID, m.Reference(), reply)
}

// BuildRequest собирает chat.Request из сообщения Discord.
// Цель: первый упомянутый участник, не являющийся ботом.
func BuildRequest(m *discordgo.Message, cmd string, args []string, roles []string) (chat.Request, error) {
	if m.Author == nil {
		return chat.Request{}, fmt.Errorf("сообщение без автора")
	}
	actorID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return chat.Request{}, fmt.Errorf("некорректный id автора %q: %w", m.Author.ID, err)
	}

	req := chat.Request{
		Command:    cmd,
		ActorID:    actorID,
		ActorName:  displayName(m.Member, m.Author),
		ActorRoles: roles,
		Args:       args,
		ChannelID:  m.ChannelID,
	}

	for _, u := range m.Mentions {
		if u == nil || u.Bot {
			continue
		}
		id, err := strconv.ParseInt(u.ID, 10, 64)
		if err != nil {
			continue
		}
		req.TargetID = id
		req.TargetName = displayName(nil, u)
		break
	}
	return req, nil
}

// displayName: ник на сервере, глобальное имя или username.
func displayName(member *discordgo.Member, u *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if u == nil {
		return "someone"
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

// roleNames переводит id ролей автора в имена через кеш состояния (или REST, если кеша нет).
func (b *Bot) roleNames(s *discordgo.Session, m *discordgo.Message) []string {
	if m.Member == nil || len(m.Member.Roles) == 0 || m.GuildID == "" {
		return nil
	}

	names := make([]string, 0, len(m.Member.Roles))
	var guildRoles []*discordgo.Role
	for _, id := range m.Member.Roles {
		if s.State != nil {
			if role, err := s.State.Role(m.GuildID, id); err == nil {
				names = append(names, role.Name)
				continue
			}
		}
		if guildRoles == nil {
			roles, err := s.GuildRoles(m.GuildID)
			if err != nil {
				log.WithError(err).WithField("guild_id", m.GuildID).Warn("Не удалось получить роли сервера")
				return names
			}
			guildRoles = roles
		}
		for _, role := range guildRoles {
			if role.ID == id {
				names = append(names, role.Name)
				break
			}
		}
	}
	return names
}

// send отправляет ответ embed-ом в канал.
func (b *Bot) send(channelID string, ref *discordgo.MessageReference, reply chat.Reply) {
	msg := &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{ToEmbed(reply)},
		Reference:       ref,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if _, err := b.session.ChannelMessageSendComplex(channelID, msg); err != nil {
		log.WithError(err).WithField("channel_id", channelID).Error("Ошибка отправки сообщения")
	}
}

// SendMessage отправляет ответ в канал (для фоновых задач).
func (b *Bot) SendMessage(channelID string, reply chat.Reply) error {
	_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{ToEmbed(reply)},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err != nil {
		return fmt.Errorf("ошибка отправки в канал %s: %w", channelID, err)
	}
	return nil
}

// ToEmbed превращает ответ в embed Discord.
func ToEmbed(reply chat.Reply) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       reply.Title,
		Description: reply.Text,
		Color:       reply.Color,
	}
	for _, f := range reply.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

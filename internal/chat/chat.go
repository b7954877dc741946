// Package chat описывает запрос и ответ, которыми обмениваются транспорт (Discord)
// и обработчики команд. Пакет ничего не знает о discordgo.
package chat

import (
	"context"
	"strings"
)

// Request: разобранная команда из чата.
type Request struct {
	Command    string   // имя команды без префикса, в нижнем регистре
	ActorID    int64    // кто вызвал
	ActorName  string   // отображаемое имя вызвавшего
	ActorRoles []string // имена ролей вызвавшего на сервере
	TargetID   int64    // первый упомянутый участник (0: нет)
	TargetName string
	Args       []string // аргументы без упоминаний
	ChannelID  string

	// Privileged выставляет диспетчер по политике владельца/роли.
	Privileged bool
}

// HasTarget: есть ли в команде упоминание участника.
func (r Request) HasTarget() bool {
	return r.TargetID != 0
}

// Arg возвращает i-й аргумент или пустую строку.
func (r Request) Arg(i int) string {
	if i < 0 || i >= len(r.Args) {
		return ""
	}
	return strings.TrimSpace(r.Args[i])
}

// SubjectID: цель команды, если указана, иначе сам вызвавший.
func (r Request) SubjectID() int64 {
	if r.HasTarget() {
		return r.TargetID
	}
	return r.ActorID
}

// SubjectName: имя цели или вызвавшего.
func (r Request) SubjectName() string {
	if r.HasTarget() {
		return r.TargetName
	}
	return r.ActorName
}

// Цвета embed-ответов
const (
	ColorInfo    = 0x3498DB
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xF1C40F
	ColorError   = 0xE74C3C
	ColorGold    = 0xF39C12
	ColorPurple  = 0x9B59B6
)

// Field: строка embed-ответа.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Reply: ответ на команду. Если Err != nil, команда отклонена,
// а Text содержит сообщение для пользователя.
type Reply struct {
	Title  string
	Text   string
	Fields []Field
	Color  int
	Err    error
}

// AddField добавляет строку в ответ.
func (r *Reply) AddField(name, value string, inline bool) {
	r.Fields = append(r.Fields, Field{Name: name, Value: value, Inline: inline})
}

// Handler обрабатывает одну команду. Ошибка: только внутренняя поломка,
// отказы пользователю возвращаются как ошибки из common и превращаются в Reply диспетчером.
type Handler func(ctx context.Context, req Request) (Reply, error)

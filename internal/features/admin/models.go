// Package admin реализует привилегированные команды: выдача и установка монет, рыбы и предметов.
// models.go описывает политику доступа.
package admin

import "strings"

// Actor: кто вызывает команду.
type Actor struct {
	ID    int64
	Roles []string // имена ролей на сервере
}

// Policy решает, привилегирован ли игрок:
// совпадает с OWNER_ID или имеет роль ADMIN_ROLE (без учёта регистра).
type Policy struct {
	OwnerID   int64
	AdminRole string
}

// IsPrivileged проверяет права.
func (p Policy) IsPrivileged(a Actor) bool {
	if p.OwnerID != 0 && a.ID == p.OwnerID {
		return true
	}
	if p.AdminRole == "" {
		return false
	}
	for _, r := range a.Roles {
		if strings.EqualFold(strings.TrimSpace(r), p.AdminRole) {
			return true
		}
	}
	return false
}

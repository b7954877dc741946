// Package common: errors.go определяет ошибки, которые используются во всех модулях бота.
// Ошибки разбиты на категории (валидация, нехватка ресурса, кулдаун, права),
// чтобы диспетчер мог отличить отказ пользователю от внутренней поломки.
// Все отказы происходят ДО любых изменений в базе и не требуют повтора.
package common

import (
	"errors"
	"fmt"
	"time"
)

// Категории ошибок. Конкретные ошибки оборачивают одну из них,
// проверять категорию нужно через errors.Is.
var (
	// ErrValidation: некорректный ввод (сумма, предмет, цель, аргумент)
	ErrValidation = errors.New("validation failed")
	// ErrInsufficient: не хватает монет, зарядов или предметов
	ErrInsufficient = errors.New("insufficient resources")
	// ErrCooldown: действие ещё на кулдауне
	ErrCooldown = errors.New("cooldown active")
	// ErrPermissionDenied: действие только для привилегированных
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound: цель не найдена транспортом
	ErrNotFound = errors.New("not found")
)

// Ошибки валидации
var (
	// ErrInvalidAmount: сумма или количество ноль/отрицательные
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	// ErrAmountTooLarge: количество больше лимита или не помещается в int64
	ErrAmountTooLarge = fmt.Errorf("%w: amount is too large", ErrValidation)
	// ErrUnknownItem: такого предмета нет в магазине
	ErrUnknownItem = fmt.Errorf("%w: unknown item", ErrValidation)
	// ErrSelfTarget: попытка направить действие на самого себя
	ErrSelfTarget = fmt.Errorf("%w: you cannot target yourself", ErrValidation)
	// ErrBadArgument: аргумент не разобран
	ErrBadArgument = fmt.Errorf("%w: malformed argument", ErrValidation)
	// ErrMissingTarget: команде нужен @участник
	ErrMissingTarget = fmt.Errorf("%w: mention a member", ErrValidation)
	// ErrUnknownCommand: нет такой команды
	ErrUnknownCommand = fmt.Errorf("%w: unknown command", ErrValidation)
)

// Ошибки ресурсов без конкретных чисел
var (
	// ErrTargetEmpty: у цели нет рыбы, взрывать нечего
	ErrTargetEmpty = fmt.Errorf("%w: target has no fish", ErrInsufficient)
	// ErrPetTooSad: питомец слишком грустный, чтобы играть
	ErrPetTooSad = fmt.Errorf("%w: pet is too unhappy to play", ErrInsufficient)
)

// ErrNotPrivileged: команда доступна только владельцу и роли администратора.
var ErrNotPrivileged = fmt.Errorf("%w: admin only", ErrPermissionDenied)

// InsufficientError: нехватка ресурса с указанием, сколько нужно и сколько есть.
type InsufficientError struct {
	Resource string // "coins", "nuke", "petfood", ...
	Need     int64
	Have     int64
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("not enough %s: need %d, have %d", e.Resource, e.Need, e.Have)
}

// Is позволяет проверять errors.Is(err, ErrInsufficient).
func (e *InsufficientError) Is(target error) bool {
	return target == ErrInsufficient
}

// NewInsufficient создаёт ошибку нехватки ресурса.
func NewInsufficient(resource string, need, have int64) error {
	return &InsufficientError{Resource: resource, Need: need, Have: have}
}

// CooldownError: действие на кулдауне, Remaining показывает, сколько ждать.
type CooldownError struct {
	Action    string
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s is on cooldown, try again in %s", e.Action, FormatWait(e.Remaining))
}

// Is позволяет проверять errors.Is(err, ErrCooldown).
func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldown
}

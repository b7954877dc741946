// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: форматирование чисел и валюты, вывод оставшегося времени, клампинг.
package common

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber форматирует число с разделителями тысяч.
// Пример: FormatNumber(2350) → "2,350"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatCoins форматирует сумму монет.
// Пример: FormatCoins(1500) → "1,500 coins", FormatCoins(1) → "1 coin"
func FormatCoins(n int64) string {
	return fmt.Sprintf("%s %s", FormatNumber(n), PluralizeCoins(n))
}

// FormatWait форматирует оставшееся время ожидания в виде "23h 0m 0s".
// Секунды округляются вверх, чтобы не показывать "0s" при 300ms остатка.
func FormatWait(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64((d + time.Second - 1) / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// ClampMin возвращает v, но не меньше нуля.
// Все счётчики (баланс, рыба, предметы) не могут уходить в минус.
func ClampMin(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// AddSat складывает a и b, упираясь в границы int64 вместо переполнения.
func AddSat(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	if b < 0 && a < math.MinInt64-b {
		return math.MinInt64
	}
	return a + b
}

// MulChecked перемножает неотрицательные a и b. ok == false при переполнении.
func MulChecked(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// MulSat: как MulChecked, но при переполнении возвращает math.MaxInt64.
func MulSat(a, b int64) int64 {
	if v, ok := MulChecked(a, b); ok {
		return v
	}
	return math.MaxInt64
}

// ClampRange ограничивает v диапазоном [lo, hi].
func ClampRange(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// TruncateRunes обрезает строку до n символов (не байт).
func TruncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

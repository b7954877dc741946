// Package economy отвечает за монеты игрока: профиль, ежедневный бонус, лидерборды и история.
// models.go описывает результаты операций.
package economy

import "time"

// DailyResult: результат получения ежедневного бонуса.
type DailyResult struct {
	Reward    int64     // сколько начислено
	Balance   int64     // баланс после начисления
	NextClaim time.Time // когда можно снова
}

// Максимум строк в лидерборде и истории
const (
	MaxLeaderboard = 25
	HistoryLimit   = 10
)

// Package casino: слот-машина на три барабана.
// models.go описывает результат спина.
package casino

import "fishnuke.gg/discord-bot/internal/rewards"

// SpinResult: результат одного спина.
type SpinResult struct {
	Draw    rewards.Draw
	Outcome rewards.SlotOutcome
	Bet     int64
	Payout  int64 // 0: проигрыш
	Balance int64 // баланс после спина
	Forced  bool  // джекпот выдан привилегированному игроку принудительно
}

// IsWin: есть ли выплата.
func (r *SpinResult) IsWin() bool {
	return r.Payout > 0
}

// Net: чистый результат спина.
func (r *SpinResult) Net() int64 {
	return r.Payout - r.Bet
}

// Package fishing: рыбалка, нюк по другому игроку и самоподрыв.
package fishing

import "fishnuke.gg/discord-bot/internal/rewards"

// FishResult: итог рыбалки.
type FishResult struct {
	Catch     rewards.Catch
	RodLevel  int64
	FishCount int64 // рыба после улова
	Balance   int64 // монеты после улова
}

// NukeResult: итог нюка по цели.
type NukeResult struct {
	Nuke           rewards.Nuke
	ChargesLeft    int64
	ChargeConsumed bool  // привилегированный игрок заряд не тратит
	ActorFish      int64 // рыба атакующего после спасения
	ActorBalance   int64
}

// SelfNukeResult: итог самоподрыва.
type SelfNukeResult struct {
	SelfNuke  rewards.SelfNuke
	Delta     int64 // изменение баланса целиком
	FishCount int64
	Balance   int64
}

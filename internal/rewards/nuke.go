package rewards

import (
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
)

// Nuke: исход нюка по цели.
type Nuke struct {
	Pct         int   // процент уничтожения
	Destroyed   int64 // сколько рыбы уничтожено у цели
	TargetAfter int64 // рыба цели после взрыва
	Salvage     int64 // сколько рыбы получил атакующий
	CoinSalvage int64 // сколько монет получил атакующий
}

// Destroyed = max(1, floor(fish × pct / 100)), но не больше, чем есть у цели.
func Destroyed(fish int64, pct int) int64 {
	if fish <= 0 {
		return 0
	}
	d := percentOf(fish, pct)
	if d < 1 {
		d = 1
	}
	if d > fish {
		d = fish
	}
	return d
}

// Salvage = floor(destroyed × salvagePct / 100).
func Salvage(destroyed int64, salvagePct int) int64 {
	if destroyed <= 0 || salvagePct <= 0 {
		return 0
	}
	return percentOf(destroyed, salvagePct)
}

// percentOf = floor(n × pct / 100) для n >= 0 и pct в [0, 100] без переполнения.
func percentOf(n int64, pct int) int64 {
	p := int64(pct)
	return n/100*p + n%100*p/100
}

// RollNuke разыгрывает нюк по цели с targetFish рыбы.
func RollNuke(src Source, g *config.Game, targetFish int64) Nuke {
	n := Nuke{Pct: Between(src, g.NukePctMin, g.NukePctMax)}
	n.Destroyed = Destroyed(targetFish, n.Pct)
	n.TargetAfter = targetFish - n.Destroyed
	if n.TargetAfter < 0 {
		n.TargetAfter = 0
	}
	n.Salvage = Salvage(n.Destroyed, g.NukeSalvagePct)
	if n.Salvage > 0 {
		n.CoinSalvage = common.MulSat(n.Salvage, int64(Between(src, g.FishValueMin, g.FishValueMax)))
	}
	return n
}

// SelfNuke описывает исход самоподрыва (нюк без цели), это ставка на подбрасывание монеты.
type SelfNuke struct {
	Cost      int64 // цена попытки, списывается всегда
	Won       bool
	Payout    int64 // выигрыш (только при Won)
	Pct       int   // процент своей рыбы, уничтоженной при проигрыше
	Destroyed int64 // своя уничтоженная рыба
	Penalty   int64 // дополнительный штраф монетами при проигрыше
}

// RollSelfNuke разыгрывает самоподрыв для игрока с ownFish рыбы.
func RollSelfNuke(src Source, g *config.Game, ownFish int64) SelfNuke {
	s := SelfNuke{Cost: g.SelfNukeCost}
	if src.IntN(2) == 1 {
		s.Won = true
		s.Payout = common.MulSat(g.SelfNukeCost, g.SelfNukeMultiplier)
		return s
	}
	s.Pct = Between(src, g.NukePctMin, g.NukePctMax)
	s.Destroyed = Destroyed(ownFish, s.Pct)
	s.Penalty = g.SelfNukePenalty
	return s
}

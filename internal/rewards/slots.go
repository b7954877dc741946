package rewards

import (
	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
)

// SlotOutcome: тип выигрышной комбинации.
type SlotOutcome string

const (
	SlotJackpot   SlotOutcome = "jackpot"
	SlotSecondary SlotOutcome = "secondary"
	SlotTriple    SlotOutcome = "triple"
	SlotPair      SlotOutcome = "pair"
	SlotLose      SlotOutcome = "lose"
)

// Draw: три барабана.
type Draw [3]string

// Spin крутит три независимых барабана.
func Spin(src Source, symbols []string) Draw {
	var d Draw
	for i := range d {
		d[i] = symbols[src.IntN(len(symbols))]
	}
	return d
}

// ForcedJackpot: выпадение из трёх джекпот-символов.
func ForcedJackpot(g *config.Game) Draw {
	s := g.SlotsJackpotSymbol
	return Draw{s, s, s}
}

// SlotPayout считает выплату по приоритету: джекпот, вторичный символ, тройка, пара.
func SlotPayout(g *config.Game, d Draw, bet int64) (int64, SlotOutcome) {
	triple := d[0] == d[1] && d[1] == d[2]
	switch {
	case triple && d[0] == g.SlotsJackpotSymbol:
		return common.MulSat(bet, g.SlotsJackpotMult), SlotJackpot
	case triple && d[0] == g.SlotsSecondarySymbol:
		return common.MulSat(bet, g.SlotsSecondaryMult), SlotSecondary
	case triple:
		return common.MulSat(bet, g.SlotsTripleMult), SlotTriple
	case d[0] == d[1] || d[1] == d[2] || d[0] == d[2]:
		return common.MulSat(bet, g.SlotsPairMult), SlotPair
	}
	return 0, SlotLose
}

// PayoutFits: помещается ли максимальная выплата по ставке bet в int64.
func PayoutFits(g *config.Game, bet int64) bool {
	for _, mult := range []int64{g.SlotsJackpotMult, g.SlotsSecondaryMult, g.SlotsTripleMult, g.SlotsPairMult} {
		if _, ok := common.MulChecked(bet, mult); !ok {
			return false
		}
	}
	return true
}

// String склеивает барабаны для ответа: "🍒 | 🍋 | ⭐".
func (d Draw) String() string {
	return d[0] + " | " + d[1] + " | " + d[2]
}

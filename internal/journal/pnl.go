package journal

import (
	"strings"

	"trade-journal-go/internal/models"
)

// symbolMultiplier maps a futures symbol family to the currency value of one
// full point of price movement per contract.
type symbolMultiplier struct {
	Substring  string
	Multiplier float64
}

// multiplierTable is checked in order with first match winning. The micro
// contracts MNQ/MES must come before NQ/ES, which would otherwise match them
// as substrings. Unknown symbols fall through to a multiplier of 1.
var multiplierTable = []symbolMultiplier{
	{"MNQ", 2},
	{"MES", 5},
	{"NQ", 20},
	{"ES", 50},
	{"CL", 1000},
	{"GC", 100},
}

// ContractMultiplier returns the point value for one contract of the given
// symbol. Matching is case-insensitive by substring.
func ContractMultiplier(symbol string) float64 {
	upper := strings.ToUpper(symbol)
	for _, m := range multiplierTable {
		if strings.Contains(upper, m.Substring) {
			return m.Multiplier
		}
	}
	return 1
}

// NetPnl computes the net realized P&L for a single closed trade. It is the
// one shared derivation used at trade creation, trade edit and import preview,
// so re-deriving with unchanged inputs always yields the same stored value.
func NetPnl(symbol, direction string, entryPrice, exitPrice float64, quantity int, commission, fees float64) float64 {
	diff := exitPrice - entryPrice
	if direction != models.DirectionLong {
		diff = entryPrice - exitPrice
	}

	gross := diff * float64(quantity) * ContractMultiplier(symbol)
	return gross - commission - fees
}

// Package signal turns rule truth series into discrete trade events.
package signal

import (
	"time"

	"github.com/sigco3111/core-quant/internal/core"
)

// Event is a discrete buy or sell signal at a specific bar.
type Event struct {
	Index int       `json:"index"`
	Date  time.Time `json:"date"`
	Side  core.Side `json:"side"`
	Price float64   `json:"price"` // close of the signalling bar
}

// Events assembles transition-based events from the buy and sell rule
// truth series: a buy event fires on a bar where the buy rule is true and
// the position is flat, a sell event where the sell rule is true and a
// position is open. Level signals never repeat while the state is
// unchanged.
func Events(bars []core.Bar, buy, sell []bool) []Event {
	var events []Event
	inPosition := false

	for i := range bars {
		if !inPosition && i < len(buy) && buy[i] {
			events = append(events, Event{
				Index: i,
				Date:  bars[i].Date,
				Side:  core.SideBuy,
				Price: bars[i].Close,
			})
			inPosition = true
			continue
		}
		if inPosition && i < len(sell) && sell[i] {
			events = append(events, Event{
				Index: i,
				Date:  bars[i].Date,
				Side:  core.SideSell,
				Price: bars[i].Close,
			})
			inPosition = false
		}
	}

	return events
}

package core

import "time"

// PriceField selects which price component of a bar to read.
type PriceField string

const (
	FieldOpen     PriceField = "open"
	FieldHigh     PriceField = "high"
	FieldLow      PriceField = "low"
	FieldClose    PriceField = "close"
	FieldAdjClose PriceField = "adj_close"
)

// Valid reports whether the field is one of the known price components.
func (f PriceField) Valid() bool {
	switch f {
	case FieldOpen, FieldHigh, FieldLow, FieldClose, FieldAdjClose:
		return true
	}
	return false
}

// Bar represents one OHLCV observation. Bar series are ordered ascending
// by date with no duplicate dates, and are immutable once ingested.
type Bar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adjClose"`
	Volume   int64     `json:"volume"`
}

// Price returns the selected price component. Unknown fields fall back to
// close so that callers validated elsewhere never read garbage.
func (b Bar) Price(f PriceField) float64 {
	switch f {
	case FieldOpen:
		return b.Open
	case FieldHigh:
		return b.High
	case FieldLow:
		return b.Low
	case FieldAdjClose:
		return b.AdjClose
	default:
		return b.Close
	}
}

// Side is the direction a trade rule signals.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether the side is buy or sell.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Closes extracts the close price of every bar.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

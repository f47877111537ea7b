package indicator

import (
	"math"

	"github.com/sigco3111/core-quant/internal/core"
)

// Compute returns the Wilder-smoothed average true range. True range needs
// the previous close, so the first period indices are undefined.
func (a ATR) Compute(bars []core.Bar) Series {
	n := len(bars)
	if a.Period < 1 || n < a.Period+1 {
		return undefined(n)
	}

	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = trueRange(bars[i], bars[i-1].Close)
	}

	out := make([]float64, n)

	var sum float64
	for i := 1; i <= a.Period; i++ {
		sum += tr[i]
	}
	atr := sum / float64(a.Period)
	out[a.Period] = atr

	for i := a.Period + 1; i < n; i++ {
		atr = (atr*float64(a.Period-1) + tr[i]) / float64(a.Period)
		out[i] = atr
	}

	return Series{values: out, start: a.Period}
}

func trueRange(bar core.Bar, prevClose float64) float64 {
	hl := bar.High - bar.Low
	hc := math.Abs(bar.High - prevClose)
	lc := math.Abs(bar.Low - prevClose)
	return math.Max(hl, math.Max(hc, lc))
}

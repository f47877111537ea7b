package indicator

import (
	"math"

	"github.com/sigco3111/core-quant/internal/core"
)

func (b Bollinger) Compute(bars []core.Bar) Series {
	closes := core.Closes(bars)
	n := len(closes)
	if b.Period < 1 || b.Period > n {
		return undefined(n)
	}

	out := make([]float64, n)
	first := b.Period - 1

	var sum, sumSq float64
	for i := 0; i < b.Period; i++ {
		sum += closes[i]
		sumSq += closes[i] * closes[i]
	}
	out[first] = b.bandValue(sum, sumSq)

	for i := first + 1; i < n; i++ {
		old := closes[i-b.Period]
		sum += closes[i] - old
		sumSq += closes[i]*closes[i] - old*old
		out[i] = b.bandValue(sum, sumSq)
	}

	return Series{values: out, start: first}
}

// bandValue derives the selected band from the window sums. The variance
// is population variance; rounding can push it slightly negative for flat
// windows, so it is clamped at zero.
func (b Bollinger) bandValue(sum, sumSq float64) float64 {
	p := float64(b.Period)
	mean := sum / p
	variance := sumSq/p - mean*mean
	if variance < 0 {
		variance = 0
	}
	width := b.StdDevMult * math.Sqrt(variance)

	switch b.Band {
	case BandUpper:
		return mean + width
	case BandLower:
		return mean - width
	default:
		return mean
	}
}

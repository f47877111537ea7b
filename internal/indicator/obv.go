package indicator

import "github.com/sigco3111/core-quant/internal/core"

// Compute returns cumulative on-balance volume. OBV[0] = 0: the first bar
// has no previous close to compare against, and the seed only shifts
// absolute levels by a constant, never slopes.
func (OBV) Compute(bars []core.Bar) Series {
	n := len(bars)
	out := make([]float64, n)
	if n == 0 {
		return Series{values: out, start: 0}
	}

	out[0] = 0
	for i := 1; i < n; i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + float64(bars[i].Volume)
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - float64(bars[i].Volume)
		default:
			out[i] = out[i-1]
		}
	}

	return Series{values: out, start: 0}
}

package indicator

import "github.com/sigco3111/core-quant/internal/core"

func (m MA) Compute(bars []core.Bar) Series {
	return smaFrom(prices(bars, m.Field), 0, m.Period)
}

func (e EMA) Compute(bars []core.Bar) Series {
	return emaFrom(prices(bars, e.Field), 0, e.Period)
}

// smaFrom computes an SMA over values whose defined prefix starts at start.
// The result is defined from start+period-1.
func smaFrom(values []float64, start, period int) Series {
	n := len(values)
	if period < 1 || start+period > n {
		return undefined(n)
	}

	out := make([]float64, n)
	first := start + period - 1

	var sum float64
	for i := start; i <= first; i++ {
		sum += values[i]
	}
	out[first] = sum / float64(period)

	// Rolling calculation
	for i := first + 1; i < n; i++ {
		sum = sum - values[i-period] + values[i]
		out[i] = sum / float64(period)
	}

	return Series{values: out, start: first}
}

// emaFrom computes an EMA over values whose defined prefix starts at start.
// The seed index start+period-1 holds the simple average of the first
// period values; later indices recurse with multiplier 2/(period+1).
func emaFrom(values []float64, start, period int) Series {
	n := len(values)
	if period < 1 || start+period > n {
		return undefined(n)
	}

	out := make([]float64, n)
	first := start + period - 1
	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := start; i <= first; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[first] = ema

	for i := first + 1; i < n; i++ {
		ema = (values[i]-ema)*multiplier + ema
		out[i] = ema
	}

	return Series{values: out, start: first}
}

func prices(bars []core.Bar, field core.PriceField) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Price(field)
	}
	return out
}

package indicator

import "github.com/sigco3111/core-quant/internal/core"

func (r RSI) Compute(bars []core.Bar) Series {
	return rsi(core.Closes(bars), r.Period)
}

// rsi computes Wilder's RSI: the initial average gain/loss covers the
// first period changes, then gains and losses are Wilder-smoothed rather
// than re-averaged. The first period indices are undefined. A window with
// zero average loss resolves to exactly 100 so downstream comparisons stay
// well-defined.
func rsi(closes []float64, period int) Series {
	n := len(closes)
	if period < 1 || n < period+1 {
		return undefined(n)
	}

	out := make([]float64, n)

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return Series{values: out, start: period}
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

package indicator

import "github.com/sigco3111/core-quant/internal/core"

func (m MACD) Compute(bars []core.Bar) Series {
	closes := core.Closes(bars)
	n := len(closes)

	fast := emaFrom(closes, 0, m.FastPeriod)
	slow := emaFrom(closes, 0, m.SlowPeriod)

	lineStart := fast.start
	if slow.start > lineStart {
		lineStart = slow.start
	}
	if lineStart >= n {
		return undefined(n)
	}

	// MACD line = EMA(fast) - EMA(slow), defined once both EMAs are.
	line := make([]float64, n)
	for i := lineStart; i < n; i++ {
		line[i] = fast.values[i] - slow.values[i]
	}

	switch m.Component {
	case MACDSignal:
		return emaFrom(line, lineStart, m.SignalPeriod)
	case MACDHistogram:
		signal := emaFrom(line, lineStart, m.SignalPeriod)
		if signal.start >= n {
			return undefined(n)
		}
		hist := make([]float64, n)
		for i := signal.start; i < n; i++ {
			hist[i] = line[i] - signal.values[i]
		}
		return Series{values: hist, start: signal.start}
	default:
		return Series{values: line, start: lineStart}
	}
}

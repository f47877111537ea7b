package indicator

import "github.com/sigco3111/core-quant/internal/core"

func (s Stochastic) Compute(bars []core.Bar) Series {
	n := len(bars)
	if s.KPeriod < 1 || s.KPeriod > n {
		return undefined(n)
	}

	// Raw %K = 100 * (close - lowest low) / (highest high - lowest low)
	// over the trailing kPeriod. A flat window resolves to 0.
	rawStart := s.KPeriod - 1
	raw := make([]float64, n)
	for i := rawStart; i < n; i++ {
		lo := bars[i].Low
		hi := bars[i].High
		for j := i - s.KPeriod + 1; j <= i; j++ {
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		if hi == lo {
			raw[i] = 0
		} else {
			raw[i] = 100 * (bars[i].Close - lo) / (hi - lo)
		}
	}

	smoothed := smaFrom(raw, rawStart, s.Smoothing)
	if s.Component == StochasticD {
		return smaFrom(smoothed.values, smoothed.start, s.DPeriod)
	}
	return smoothed
}

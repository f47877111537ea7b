package indicator

import "github.com/sigco3111/core-quant/internal/core"

func (p Price) Compute(bars []core.Bar) Series {
	return Series{values: prices(bars, p.Field), start: 0}
}

func (Volume) Compute(bars []core.Bar) Series {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return Series{values: out, start: 0}
}

package indicator

import (
	"time"

	"github.com/sigco3111/core-quant/internal/core"
)

// closeBars builds daily bars where open/high/low/close all equal the
// given closes. Tests that care about intrabar ranges build bars directly.
func closeBars(closes ...float64) []core.Bar {
	bars := make([]core.Bar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = core.Bar{
			Date:     base.AddDate(0, 0, i),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}
	return bars
}

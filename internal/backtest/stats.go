package backtest

import "math"

// calculateStats derives performance statistics from the trade log and
// equity curve.
func calculateStats(trades []Trade, equity []EquityPoint, initialCapital float64) Stats {
	stats := Stats{TotalTrades: len(trades)}

	var closed int
	for _, t := range trades {
		if !t.Closed {
			continue
		}
		closed++
		if t.IsWin() {
			stats.WinningTrades++
		} else {
			stats.LosingTrades++
		}
	}
	if closed > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(closed) * 100
	}

	if len(equity) > 0 && initialCapital > 0 {
		final := equity[len(equity)-1].Equity
		stats.TotalReturn = (final - initialCapital) / initialCapital * 100
	}

	stats.MaxDrawdown = maxDrawdown(equity) * 100
	stats.SharpeRatio = sharpeRatio(equity)
	return stats
}

// maxDrawdown finds the largest peak-to-trough decline of the equity curve.
func maxDrawdown(equity []EquityPoint) float64 {
	var maxDD, peak float64
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// sharpeRatio computes the annualized risk-adjusted return from per-bar
// equity returns. Assumes daily bars (252 trading days) and a risk-free
// rate of 0.
func sharpeRatio(equity []EquityPoint) float64 {
	if len(equity) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	if stdDev == 0 {
		return 0
	}

	return (mean * 252) / (stdDev * math.Sqrt(252))
}

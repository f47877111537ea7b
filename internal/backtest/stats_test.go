package backtest

import (
	"math"
	"testing"
	"time"
)

func equityCurve(values ...float64) []EquityPoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]EquityPoint, len(values))
	for i, v := range values {
		out[i] = EquityPoint{Date: base.AddDate(0, 0, i), Equity: v}
	}
	return out
}

func TestCalculateStats_WinRate(t *testing.T) {
	trades := []Trade{
		{Return: 0.10, Closed: true},
		{Return: -0.05, Closed: true},
		{Return: 0.02, Closed: true},
		{Return: 0.50, Closed: false}, // open trade excluded from the rate
	}

	stats := calculateStats(trades, equityCurve(10000, 10500), 10000)

	if stats.TotalTrades != 4 {
		t.Errorf("total trades = %d, want 4", stats.TotalTrades)
	}
	if stats.WinningTrades != 2 || stats.LosingTrades != 1 {
		t.Errorf("wins/losses = %d/%d, want 2/1", stats.WinningTrades, stats.LosingTrades)
	}
	want := 2.0 / 3.0 * 100
	if math.Abs(stats.WinRate-want) > 1e-9 {
		t.Errorf("win rate = %f, want %f", stats.WinRate, want)
	}
	if math.Abs(stats.TotalReturn-5) > 1e-9 {
		t.Errorf("total return = %f, want 5", stats.TotalReturn)
	}
}

func TestCalculateStats_NoTrades(t *testing.T) {
	stats := calculateStats(nil, equityCurve(10000, 10000, 10000), 10000)

	if stats.TotalTrades != 0 || stats.WinRate != 0 {
		t.Errorf("idle run should report zero trades, got %+v", stats)
	}
	if stats.TotalReturn != 0 || stats.MaxDrawdown != 0 || stats.SharpeRatio != 0 {
		t.Errorf("idle run should report flat performance, got %+v", stats)
	}
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 12000, trough 9000: drawdown 25%.
	curve := equityCurve(10000, 12000, 9000, 11000, 11500)

	got := maxDrawdown(curve)
	if math.Abs(got-0.25) > 1e-9 {
		t.Errorf("max drawdown = %f, want 0.25", got)
	}
}

func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	if got := maxDrawdown(equityCurve(10000, 10500, 11000)); got != 0 {
		t.Errorf("rising curve should have zero drawdown, got %f", got)
	}
}

func TestSharpeRatio(t *testing.T) {
	if got := sharpeRatio(equityCurve(10000, 10000, 10000, 10000)); got != 0 {
		t.Errorf("flat curve should have zero sharpe, got %f", got)
	}
	if got := sharpeRatio(equityCurve(10000, 10100)); got != 0 {
		t.Errorf("two points are not enough for a sharpe, got %f", got)
	}

	// Steady gains with some noise: positive ratio.
	if got := sharpeRatio(equityCurve(10000, 10100, 10150, 10300, 10280, 10400)); got <= 0 {
		t.Errorf("profitable curve should have positive sharpe, got %f", got)
	}
}

package backtest

import (
	"time"

	"github.com/sigco3111/core-quant/internal/signal"
)

// ExitReason records what closed a trade.
type ExitReason string

const (
	ExitSignal       ExitReason = "signal"
	ExitStopLoss     ExitReason = "stop_loss"
	ExitTakeProfit   ExitReason = "take_profit"
	ExitTrailingStop ExitReason = "trailing_stop"
	ExitEndOfData    ExitReason = "end_of_data"
)

// Trade is one simulated position from entry to exit.
type Trade struct {
	EntryIndex int        `json:"entryIndex"`
	ExitIndex  int        `json:"exitIndex"`
	EntryDate  time.Time  `json:"entryDate"`
	ExitDate   time.Time  `json:"exitDate"`
	EntryPrice float64    `json:"entryPrice"`
	ExitPrice  float64    `json:"exitPrice"`
	Shares     float64    `json:"shares"`
	Return     float64    `json:"return"` // fractional return on the position
	Reason     ExitReason `json:"reason"`
	Closed     bool       `json:"closed"`
}

// IsWin returns true if the trade was profitable.
func (t Trade) IsWin() bool {
	return t.Return > 0
}

// EquityPoint is the portfolio value at one bar.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Stats holds performance statistics.
type Stats struct {
	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRate       float64 `json:"winRate"`     // percentage of profitable closed trades
	TotalReturn   float64 `json:"totalReturn"` // net return percentage on initial capital
	MaxDrawdown   float64 `json:"maxDrawdown"` // largest peak-to-trough equity decline, percent
	SharpeRatio   float64 `json:"sharpeRatio"` // annualized, risk-free rate 0
}

// Result holds the complete backtest output for one strategy run.
type Result struct {
	RunID        string         `json:"runId"`
	StrategyID   string         `json:"strategyId"`
	StrategyName string         `json:"strategyName"`
	Owner        string         `json:"owner"`
	Symbol       string         `json:"symbol"`
	Start        time.Time      `json:"start"`
	End          time.Time      `json:"end"`
	Events       []signal.Event `json:"events"`
	Trades       []Trade        `json:"trades"`
	Equity       []EquityPoint  `json:"equity"`
	Stats        Stats          `json:"stats"`
}

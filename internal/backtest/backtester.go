// Package backtest simulates strategies against historical bars.
package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/signal"
	"github.com/sigco3111/core-quant/internal/strategy"
	"go.uber.org/zap"
)

// HistoryProvider defines the interface for fetching historical bars.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.Bar, error)
}

// Engine runs strategy backtests. It is stateless: given the same bars
// and strategy it is deterministic, so runs may proceed in parallel.
type Engine struct {
	logger *zap.Logger
}

// New creates a backtest engine.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Run evaluates the strategy's rules over the bars, assembles signal
// events, and simulates the money management block into trades, an equity
// curve and performance statistics. Configuration errors surface before
// any evaluation; evaluation itself never fails on well-formed input.
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy, symbol string, bars []core.Bar) (*Result, error) {
	if err := strat.Validate(); err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, core.ErrNoData
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buy := strat.Buy.Eval(bars)
	sell := strat.Sell.Eval(bars)
	events := signal.Events(bars, buy, sell)

	trades, equity := simulate(bars, buy, sell, strat.Money)

	result := &Result{
		RunID:        uuid.NewString(),
		StrategyID:   strat.ID,
		StrategyName: strat.Name,
		Owner:        strat.Owner,
		Symbol:       symbol,
		Start:        bars[0].Date,
		End:          bars[len(bars)-1].Date,
		Events:       events,
		Trades:       trades,
		Equity:       equity,
		Stats:        calculateStats(trades, equity, strat.Money.InitialCapital),
	}

	e.logger.Debug("backtest finished",
		zap.String("strategy", strat.Name),
		zap.String("symbol", symbol),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(trades)),
	)
	return result, nil
}

// position is one open lot during simulation.
type position struct {
	entryIndex int
	entryPrice float64
	shares     float64
	peak       float64 // highest price seen since entry, for the trailing stop
}

// simulate walks the bars applying money management to the rule truth
// series. It keeps its own position state rather than replaying the
// assembled events: a stop exit re-opens the "flat" state, which the pure
// event stream cannot know about. One symbol means at most one open
// position, so MoneyManagement.MaxPositions is not consulted here.
func simulate(bars []core.Bar, buy, sell []bool, mm strategy.MoneyManagement) ([]Trade, []EquityPoint) {
	var trades []Trade
	var open *position

	cash := mm.InitialCapital
	equity := make([]EquityPoint, len(bars))

	closeAt := func(i int, price float64, reason ExitReason, closed bool) {
		proceeds := open.shares * price
		cash += proceeds
		trades = append(trades, Trade{
			EntryIndex: open.entryIndex,
			ExitIndex:  i,
			EntryDate:  bars[open.entryIndex].Date,
			ExitDate:   bars[i].Date,
			EntryPrice: open.entryPrice,
			ExitPrice:  price,
			Shares:     open.shares,
			Return:     (price - open.entryPrice) / open.entryPrice,
			Reason:     reason,
			Closed:     closed,
		})
		open = nil
	}

	for i, bar := range bars {
		// Intrabar risk stops fire before any close-based signal exit.
		// A stop-loss hit and a take-profit hit on the same bar resolve
		// to the stop-loss, the conservative assumption.
		if open != nil && i > open.entryIndex {
			if bar.High > open.peak {
				open.peak = bar.High
			}

			if mm.StopLossPct > 0 {
				stop := open.entryPrice * (1 - mm.StopLossPct/100)
				if bar.Low <= stop {
					closeAt(i, stop, ExitStopLoss, true)
				}
			}
			if open != nil && mm.TrailingStopPct > 0 {
				trail := open.peak * (1 - mm.TrailingStopPct/100)
				if bar.Low <= trail {
					closeAt(i, trail, ExitTrailingStop, true)
				}
			}
			if open != nil && mm.TakeProfitPct > 0 {
				target := open.entryPrice * (1 + mm.TakeProfitPct/100)
				if bar.High >= target {
					closeAt(i, target, ExitTakeProfit, true)
				}
			}
		}

		if open != nil && i < len(sell) && sell[i] {
			closeAt(i, bar.Close, ExitSignal, true)
		}

		if open == nil && i < len(buy) && buy[i] && bar.Close > 0 {
			// Flat, so current equity is all cash.
			alloc := cash * mm.PositionSizePct / 100
			if alloc > 0 {
				shares := alloc / bar.Close
				cash -= alloc
				open = &position{
					entryIndex: i,
					entryPrice: bar.Close,
					shares:     shares,
					peak:       bar.Close,
				}
			}
		}

		equity[i] = EquityPoint{
			Date:   bar.Date,
			Equity: cash + positionValue(open, bar),
		}
	}

	// Mark any position still open at the last close.
	if open != nil {
		last := len(bars) - 1
		closeAt(last, bars[last].Close, ExitEndOfData, false)
	}

	return trades, equity
}

func positionValue(p *position, bar core.Bar) float64 {
	if p == nil {
		return 0
	}
	return p.shares * bar.Close
}

package backtest

import (
	"context"
	"sync"

	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/strategy"
)

// Outcome is one strategy's result or failure from a batch run.
type Outcome struct {
	StrategyID string
	Result     *Result
	Err        error
}

// Runner evaluates many strategies against one bar series with a bounded
// worker pool. The engine is stateless, so runs need no coordination
// beyond the final join.
type Runner struct {
	engine  *Engine
	workers int
}

// NewRunner creates a runner with the given concurrency. Workers below 1
// are clamped to 1.
func NewRunner(engine *Engine, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{engine: engine, workers: workers}
}

// RunAll backtests every strategy over the same bars. Outcomes preserve
// input order. A cancelled context marks the remaining strategies failed
// rather than abandoning the batch silently.
func (r *Runner) RunAll(ctx context.Context, strats []strategy.Strategy, symbol string, bars []core.Bar) []Outcome {
	outcomes := make([]Outcome, len(strats))

	sem := make(chan struct{}, r.workers)
	var wg sync.WaitGroup

	for i, strat := range strats {
		wg.Add(1)
		go func(i int, strat strategy.Strategy) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[i] = Outcome{StrategyID: strat.ID, Err: ctx.Err()}
				return
			}

			result, err := r.engine.Run(ctx, strat, symbol, bars)
			outcomes[i] = Outcome{StrategyID: strat.ID, Result: result, Err: err}
		}(i, strat)
	}

	wg.Wait()
	return outcomes
}

package backtest

import (
	"context"
	"testing"

	"github.com/sigco3111/core-quant/internal/strategy"
)

func TestRunner_RunAll(t *testing.T) {
	mm := strategy.MoneyManagement{InitialCapital: 10000, PositionSizePct: 100, MaxPositions: 1}
	bars := closeBars(10, 10, 12, 12)

	good := thresholdStrategy(mm, 11, 11)
	good.ID = "good"
	bad := strategy.Strategy{ID: "bad", Name: "broken", Owner: "u1"}
	strats := []strategy.Strategy{good, bad, good}

	outcomes := NewRunner(New(nil), 2).RunAll(context.Background(), strats, "TEST", bars)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for i, want := range []string{"good", "bad", "good"} {
		if outcomes[i].StrategyID != want {
			t.Errorf("outcome %d for %q, want %q (order must be preserved)", i, outcomes[i].StrategyID, want)
		}
	}

	if outcomes[0].Err != nil || outcomes[0].Result == nil {
		t.Errorf("first strategy should succeed, got err=%v", outcomes[0].Err)
	}
	if outcomes[1].Err == nil {
		t.Error("invalid strategy should fail")
	}
	if outcomes[2].Err != nil {
		t.Errorf("third strategy should succeed, got err=%v", outcomes[2].Err)
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	mm := strategy.MoneyManagement{InitialCapital: 10000, PositionSizePct: 100, MaxPositions: 1}
	strats := []strategy.Strategy{thresholdStrategy(mm, 11, 11)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := NewRunner(New(nil), 1).RunAll(ctx, strats, "TEST", closeBars(10, 12))

	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Err == nil {
		t.Error("cancelled run should surface an error")
	}
}

func TestNewRunner_ClampsWorkers(t *testing.T) {
	r := NewRunner(New(nil), 0)
	if r.workers != 1 {
		t.Errorf("workers = %d, want clamp to 1", r.workers)
	}
}

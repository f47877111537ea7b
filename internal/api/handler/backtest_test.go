package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigco3111/core-quant/internal/backtest"
	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/storage/archive"
	"github.com/sigco3111/core-quant/internal/storage/document"
	"github.com/sigco3111/core-quant/internal/strategy"
)

// fakeProvider serves canned bars without a network.
type fakeProvider struct {
	bars []core.Bar
	err  error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchHistory(_ context.Context, _ string, _, _ time.Time) ([]core.Bar, error) {
	return f.bars, f.err
}

func dailyBars(closes ...float64) []core.Bar {
	bars := make([]core.Bar, len(closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = core.Bar{
			Date: base.AddDate(0, 0, i),
			Open: c, High: c, Low: c, Close: c, AdjClose: c,
			Volume: 1000,
		}
	}
	return bars
}

func backtestMux(t *testing.T, provider *fakeProvider, arch archive.Storage) (*http.ServeMux, strategy.Strategy) {
	t.Helper()

	svc := strategy.NewService(document.NewMemoryStore(), nil)
	sh := NewStrategyHandler(svc, nil)
	bh := NewBacktestHandler(svc, backtest.New(nil), 2, provider, arch, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/strategies", sh.Create)
	mux.HandleFunc("POST /api/backtest", bh.Run)
	mux.HandleFunc("POST /api/backtest/batch", bh.RunBatch)

	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var created strategy.Strategy
	decodeData(t, w, &created)
	return mux, created
}

func backtestRequest(strategyID, symbol string) string {
	body, _ := json.Marshal(BacktestRequest{
		StrategyID: strategyID,
		Symbol:     symbol,
		Start:      "2024-01-01",
		End:        "2024-03-01",
	})
	return string(body)
}

func TestBacktestHandler_Run(t *testing.T) {
	// Slide down far enough for RSI(14) to trigger a buy, then rally.
	var closes []float64
	price := 100.0
	for i := 0; i < 20; i++ {
		price -= 1
		closes = append(closes, price)
	}
	for i := 0; i < 20; i++ {
		price += 2
		closes = append(closes, price)
	}
	provider := &fakeProvider{bars: dailyBars(closes...)}

	arch, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	mux, strat := backtestMux(t, provider, arch)

	w := doJSON(t, mux, http.MethodPost, "/api/backtest", "user-1", backtestRequest(strat.ID, "AAPL"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result backtest.Result
	decodeData(t, w, &result)
	assert.Equal(t, strat.ID, result.StrategyID)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Len(t, result.Events, 2)
	assert.NotEmpty(t, result.RunID)

	// The report landed in cold storage.
	archived, err := arch.ReadReport(context.Background(), "user-1", strat.ID, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, result.RunID, archived.RunID)
	assert.Equal(t, result.Stats.TotalTrades, archived.Stats.TotalTrades)
}

func TestBacktestHandler_Rejects(t *testing.T) {
	provider := &fakeProvider{bars: dailyBars(100, 101, 102)}
	mux, strat := backtestMux(t, provider, nil)

	tests := []struct {
		name string
		user string
		body string
		want int
	}{
		{"no identity", "", backtestRequest(strat.ID, "AAPL"), http.StatusUnauthorized},
		{"malformed body", "user-1", `{"strategyId":`, http.StatusBadRequest},
		{"missing symbol", "user-1", `{"strategyId":"` + strat.ID + `","start":"2024-01-01","end":"2024-02-01"}`, http.StatusBadRequest},
		{"bad start date", "user-1", `{"strategyId":"` + strat.ID + `","symbol":"AAPL","start":"Jan 1","end":"2024-02-01"}`, http.StatusBadRequest},
		{"inverted range", "user-1", `{"strategyId":"` + strat.ID + `","symbol":"AAPL","start":"2024-02-01","end":"2024-01-01"}`, http.StatusBadRequest},
		{"unknown strategy", "user-1", backtestRequest("nope", "AAPL"), http.StatusNotFound},
		{"foreign private strategy", "user-2", backtestRequest(strat.ID, "AAPL"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/backtest", tt.user, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestBacktestHandler_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: core.WrapError(core.ErrCollectorFailed, nil)}
	mux, strat := backtestMux(t, provider, nil)

	w := doJSON(t, mux, http.MethodPost, "/api/backtest", "user-1", backtestRequest(strat.ID, "AAPL"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestBacktestHandler_NoBars(t *testing.T) {
	provider := &fakeProvider{}
	mux, strat := backtestMux(t, provider, nil)

	w := doJSON(t, mux, http.MethodPost, "/api/backtest", "user-1", backtestRequest(strat.ID, "AAPL"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func batchRequest(symbol string, ids ...string) string {
	body, _ := json.Marshal(BatchBacktestRequest{
		StrategyIDs: ids,
		Symbol:      symbol,
		Start:       "2024-01-01",
		End:         "2024-03-01",
	})
	return string(body)
}

func TestBacktestHandler_RunBatch(t *testing.T) {
	var closes []float64
	price := 100.0
	for i := 0; i < 20; i++ {
		price -= 1
		closes = append(closes, price)
	}
	for i := 0; i < 20; i++ {
		price += 2
		closes = append(closes, price)
	}
	provider := &fakeProvider{bars: dailyBars(closes...)}

	arch, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	mux, strat := backtestMux(t, provider, arch)

	// A second strategy for the same owner.
	w := doJSON(t, mux, http.MethodPost, "/api/strategies", "user-1", strategyBody)
	require.Equal(t, http.StatusCreated, w.Code)
	var second strategy.Strategy
	decodeData(t, w, &second)

	w = doJSON(t, mux, http.MethodPost, "/api/backtest/batch", "user-1",
		batchRequest("AAPL", strat.ID, second.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var outcomes []BatchOutcome
	decodeData(t, w, &outcomes)
	require.Len(t, outcomes, 2)

	assert.Equal(t, strat.ID, outcomes[0].StrategyID)
	assert.Equal(t, second.ID, outcomes[1].StrategyID)
	for _, out := range outcomes {
		assert.Empty(t, out.Error)
		assert.NotEmpty(t, out.RunID)
		require.NotNil(t, out.Stats)
		assert.Equal(t, 1, out.Stats.TotalTrades)
	}

	// Both reports landed in cold storage.
	for _, out := range outcomes {
		ok, err := arch.HasReport(context.Background(), "user-1", out.StrategyID, out.RunID)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBacktestHandler_RunBatchRejects(t *testing.T) {
	provider := &fakeProvider{bars: dailyBars(100, 101, 102)}
	mux, strat := backtestMux(t, provider, nil)

	tests := []struct {
		name string
		user string
		body string
		want int
	}{
		{"no identity", "", batchRequest("AAPL", strat.ID), http.StatusUnauthorized},
		{"no strategies", "user-1", batchRequest("AAPL"), http.StatusBadRequest},
		{"unknown strategy", "user-1", batchRequest("AAPL", strat.ID, "nope"), http.StatusNotFound},
		{"foreign private strategy", "user-2", batchRequest("AAPL", strat.ID), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, mux, http.MethodPost, "/api/backtest/batch", tt.user, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

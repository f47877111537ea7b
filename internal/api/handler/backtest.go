package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sigco3111/core-quant/internal/api/response"
	"github.com/sigco3111/core-quant/internal/backtest"
	"github.com/sigco3111/core-quant/internal/collector"
	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/metrics"
	"github.com/sigco3111/core-quant/internal/storage/archive"
	"github.com/sigco3111/core-quant/internal/strategy"
	"go.uber.org/zap"
)

// BacktestRequest is the request body for running a backtest.
type BacktestRequest struct {
	StrategyID string `json:"strategyId"`
	Symbol     string `json:"symbol"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// BatchBacktestRequest runs several stored strategies over the same
// symbol and date range.
type BatchBacktestRequest struct {
	StrategyIDs []string `json:"strategyIds"`
	Symbol      string   `json:"symbol"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
}

// BatchOutcome is one strategy's summary from a batch run. Failed runs
// carry Error and no stats.
type BatchOutcome struct {
	StrategyID string          `json:"strategyId"`
	RunID      string          `json:"runId,omitempty"`
	Stats      *backtest.Stats `json:"stats,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// BacktestHandler runs backtests for stored strategies.
type BacktestHandler struct {
	service  *strategy.Service
	engine   *backtest.Engine
	runner   *backtest.Runner
	provider collector.Provider
	archive  archive.Storage
	metrics  *metrics.Registry
	logger   *zap.Logger
}

// NewBacktestHandler creates a backtest handler. Batch requests fan out
// over workers goroutines. The archive is optional; when set, every
// report is also written to cold storage.
func NewBacktestHandler(
	service *strategy.Service,
	engine *backtest.Engine,
	workers int,
	provider collector.Provider,
	arch archive.Storage,
	reg *metrics.Registry,
	logger *zap.Logger,
) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		service:  service,
		engine:   engine,
		runner:   backtest.NewRunner(engine, workers),
		provider: provider,
		archive:  arch,
		metrics:  reg,
		logger:   logger,
	}
}

// parseDateRange validates a YYYY-MM-DD start/end pair.
func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, core.WrapError(core.ErrConfigInvalid, nil)
	}
	return start, end, nil
}

// archiveReport writes one report to cold storage. Archive failures are
// logged, never surfaced; the run already succeeded.
func (h *BacktestHandler) archiveReport(r *http.Request, result *backtest.Result) {
	if h.archive == nil {
		return
	}
	if err := h.archive.WriteReport(r.Context(), result); err != nil {
		h.logger.Warn("archiving backtest report failed",
			zap.String("runId", result.RunID),
			zap.String("strategyId", result.StrategyID),
			zap.Error(err),
		)
	}
}

// Run handles POST /api/backtest.
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	if req.StrategyID == "" || req.Symbol == "" {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	start, end, err := parseDateRange(req.Start, req.End)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	strat, err := h.service.Get(r.Context(), requester, req.StrategyID)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	bars, err := h.provider.FetchHistory(r.Context(), req.Symbol, start, end)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	began := time.Now()
	result, err := h.engine.Run(r.Context(), strat, req.Symbol, bars)
	if h.metrics != nil {
		h.metrics.RecordBacktest(err == nil, time.Since(began).Seconds())
	}
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	h.archiveReport(r, result)

	response.JSON(w, http.StatusOK, result)
}

// RunBatch handles POST /api/backtest/batch. Every named strategy must
// be readable by the requester; the runs themselves may fail per
// strategy without failing the batch.
func (h *BacktestHandler) RunBatch(w http.ResponseWriter, r *http.Request) {
	requester, ok := userID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, core.WrapError(core.ErrUnauthorized, nil))
		return
	}

	var req BatchBacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}
	if len(req.StrategyIDs) == 0 || req.Symbol == "" {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigMissing, nil))
		return
	}

	start, end, err := parseDateRange(req.Start, req.End)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	strats := make([]strategy.Strategy, 0, len(req.StrategyIDs))
	for _, id := range req.StrategyIDs {
		strat, err := h.service.Get(r.Context(), requester, id)
		if err != nil {
			response.Error(w, response.StatusFor(err), err)
			return
		}
		strats = append(strats, strat)
	}

	bars, err := h.provider.FetchHistory(r.Context(), req.Symbol, start, end)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	began := time.Now()
	outcomes := h.runner.RunAll(r.Context(), strats, req.Symbol, bars)
	duration := time.Since(began).Seconds()

	results := make([]BatchOutcome, len(outcomes))
	for i, out := range outcomes {
		if h.metrics != nil {
			h.metrics.RecordBacktest(out.Err == nil, duration)
		}
		if out.Err != nil {
			results[i] = BatchOutcome{StrategyID: out.StrategyID, Error: out.Err.Error()}
			continue
		}
		h.archiveReport(r, out.Result)
		results[i] = BatchOutcome{
			StrategyID: out.StrategyID,
			RunID:      out.Result.RunID,
			Stats:      &out.Result.Stats,
		}
	}

	response.JSON(w, http.StatusOK, results)
}

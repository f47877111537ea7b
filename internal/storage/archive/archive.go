// Package archive persists backtest reports to cold storage. Reports are
// addressed by owner, strategy and run id; backends store them as JSON
// blobs under backtests/<owner>/<strategyID>/<runID>.json.
package archive

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/sigco3111/core-quant/internal/backtest"
)

// Storage writes and reads backtest reports. WriteReport derives the
// location from the report itself; the other operations address a report
// by owner, strategy and run id.
type Storage interface {
	WriteReport(ctx context.Context, report *backtest.Result) error
	ReadReport(ctx context.Context, owner, strategyID, runID string) (*backtest.Result, error)
	ListRuns(ctx context.Context, owner, strategyID string) ([]string, error)
	DeleteReport(ctx context.Context, owner, strategyID, runID string) error
	HasReport(ctx context.Context, owner, strategyID, runID string) (bool, error)
}

// reportKey is the canonical object key for one report.
func reportKey(owner, strategyID, runID string) string {
	return fmt.Sprintf("backtests/%s/%s/%s.json", owner, strategyID, runID)
}

// runsPrefix is the listing prefix for one strategy's reports.
func runsPrefix(owner, strategyID string) string {
	return fmt.Sprintf("backtests/%s/%s/", owner, strategyID)
}

// runIDFromKey recovers the run id from an object key.
func runIDFromKey(key string) string {
	return strings.TrimSuffix(path.Base(key), ".json")
}

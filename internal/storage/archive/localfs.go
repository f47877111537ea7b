package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sigco3111/core-quant/internal/backtest"
	"github.com/sigco3111/core-quant/internal/core"
)

// LocalFS keeps reports as JSON files under a base directory, one
// directory per owner and strategy.
type LocalFS struct {
	base string
}

// NewLocalFS creates a filesystem archive rooted at base.
func NewLocalFS(base string) (*LocalFS, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("creating archive root: %w", err))
	}
	return &LocalFS{base: base}, nil
}

func (l *LocalFS) reportFile(owner, strategyID, runID string) string {
	return filepath.Join(l.base, filepath.FromSlash(reportKey(owner, strategyID, runID)))
}

func (l *LocalFS) WriteReport(ctx context.Context, report *backtest.Result) error {
	data, err := json.Marshal(report)
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}

	file := l.reportFile(report.Owner, report.StrategyID, report.RunID)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	if err := os.WriteFile(file, data, 0644); err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

func (l *LocalFS) ReadReport(ctx context.Context, owner, strategyID, runID string) (*backtest.Result, error) {
	data, err := os.ReadFile(l.reportFile(owner, strategyID, runID))
	if os.IsNotExist(err) {
		return nil, core.WrapError(core.ErrNotFound, err)
	}
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	var report backtest.Result
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}
	return &report, nil
}

// ListRuns returns the run ids archived for one strategy, in lexical
// order. A strategy with no reports yields an empty list, not an error.
func (l *LocalFS) ListRuns(ctx context.Context, owner, strategyID string) ([]string, error) {
	dir := filepath.Join(l.base, filepath.FromSlash(runsPrefix(owner, strategyID)))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, err)
	}

	runs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		runs = append(runs, runIDFromKey(e.Name()))
	}
	return runs, nil
}

func (l *LocalFS) DeleteReport(ctx context.Context, owner, strategyID, runID string) error {
	err := os.Remove(l.reportFile(owner, strategyID, runID))
	if os.IsNotExist(err) {
		return core.WrapError(core.ErrNotFound, err)
	}
	if err != nil {
		return core.WrapError(core.ErrArchiveFailed, err)
	}
	return nil
}

func (l *LocalFS) HasReport(ctx context.Context, owner, strategyID, runID string) (bool, error) {
	_, err := os.Stat(l.reportFile(owner, strategyID, runID))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, core.WrapError(core.ErrArchiveFailed, err)
	}
	return true, nil
}

// Package collector fetches historical bars from market-data providers.
package collector

import (
	"context"
	"time"

	"github.com/sigco3111/core-quant/internal/core"
)

// Config holds provider settings. BaseURL normally points at the
// rate-limited proxy in front of the public finance API; caching and
// throttling policy live there, not here.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Provider fetches bar series for a symbol. Implementations return bars
// ascending by date with no duplicates.
type Provider interface {
	Name() string
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]core.Bar, error)
}

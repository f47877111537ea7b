// Package strategy defines the strategy document and its lifecycle.
package strategy

import (
	"fmt"
	"time"

	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/rule"
)

// MoneyManagement holds the position-sizing and risk-control parameters the
// equity simulator applies. Percentages of zero disable the corresponding
// stop.
type MoneyManagement struct {
	InitialCapital  float64 `json:"initialCapital"`
	PositionSizePct float64 `json:"positionSizePct"`

	// MaxPositions is accepted and validated for forward compatibility
	// with multi-symbol portfolios. The single-symbol simulator holds at
	// most one position and does not read it.
	MaxPositions int `json:"maxPositions"`
	StopLossPct     float64 `json:"stopLossPct,omitempty"`
	TakeProfitPct   float64 `json:"takeProfitPct,omitempty"`
	TrailingStopPct float64 `json:"trailingStopPct,omitempty"`
}

// Validate checks the money management block.
func (m MoneyManagement) Validate() error {
	if m.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial capital must be positive, got %g", m.InitialCapital))
	}
	if m.PositionSizePct <= 0 || m.PositionSizePct > 100 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("position size must be in (0, 100], got %g", m.PositionSizePct))
	}
	if m.MaxPositions < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("max positions must be >= 1, got %d", m.MaxPositions))
	}
	if m.StopLossPct < 0 || m.TakeProfitPct < 0 || m.TrailingStopPct < 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("stop percentages cannot be negative"))
	}
	return nil
}

// Strategy is one user-owned strategy document: identity plus exactly one
// buy rule, one sell rule and a money management block. Rules and their
// condition trees are embedded; they are never shared across strategies.
type Strategy struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Owner       string          `json:"owner"`
	IsPublic    bool            `json:"isPublic"`
	Tags        []string        `json:"tags,omitempty"`
	Buy         rule.TradeRule  `json:"buy"`
	Sell        rule.TradeRule  `json:"sell"`
	Money       MoneyManagement `json:"moneyManagement"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Validate is the save-time check: a strategy with no valid entry or exit
// condition is a configuration error, reported before any evaluation.
func (s Strategy) Validate() error {
	if s.Name == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("strategy name is required"))
	}
	if s.Owner == "" {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("strategy owner is required"))
	}
	if s.Buy.Side != core.SideBuy {
		return core.WrapError(core.ErrStrategyInvalid,
			fmt.Errorf("buy rule is tagged %q, want %q", s.Buy.Side, core.SideBuy))
	}
	if s.Sell.Side != core.SideSell {
		return core.WrapError(core.ErrStrategyInvalid,
			fmt.Errorf("sell rule is tagged %q, want %q", s.Sell.Side, core.SideSell))
	}
	if err := s.Buy.Validate(); err != nil {
		return fmt.Errorf("buy rule: %w", err)
	}
	if err := s.Sell.Validate(); err != nil {
		return fmt.Errorf("sell rule: %w", err)
	}
	if s.Buy.ConditionCount() == 0 {
		return core.WrapError(core.ErrStrategyInvalid, fmt.Errorf("buy rule has no conditions"))
	}
	if s.Sell.ConditionCount() == 0 {
		return core.WrapError(core.ErrStrategyInvalid, fmt.Errorf("sell rule has no conditions"))
	}
	return s.Money.Validate()
}

// HasTag reports whether the strategy carries the tag.
func (s Strategy) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

package rule

import (
	"fmt"

	"github.com/sigco3111/core-quant/internal/core"
)

// Logic combines the members of a group or the groups of a rule.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Valid reports whether the logic operator is and/or.
func (l Logic) Valid() bool {
	return l == LogicAnd || l == LogicOr
}

// Group is a flat, ordered collection of conditions combined with a single
// logical operator. Groups never nest.
type Group struct {
	Logic      Logic       `json:"logic"`
	Conditions []Condition `json:"conditions"`
}

// Validate checks the group's logic operator and every member condition.
// An empty group is structurally valid; it just never fires.
func (g Group) Validate() error {
	if !g.Logic.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown group logic %q", g.Logic))
	}
	for i, c := range g.Conditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	return nil
}

// Eval folds the member conditions into one boolean per bar. An empty
// group reduces to false at every bar.
func (g Group) Eval(bars []core.Bar) []bool {
	n := len(bars)
	if len(g.Conditions) == 0 {
		return make([]bool, n)
	}

	out := g.Conditions[0].Eval(bars)
	for _, c := range g.Conditions[1:] {
		fold(out, c.Eval(bars), g.Logic)
	}
	return out
}

// TradeRule combines condition groups one level up and tags the result
// with the signal side it produces.
type TradeRule struct {
	Side   core.Side `json:"side"`
	Logic  Logic     `json:"logic"`
	Groups []Group   `json:"groups"`
}

// Validate checks the rule's side, logic and every group.
func (r TradeRule) Validate() error {
	if !r.Side.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown rule side %q", r.Side))
	}
	if !r.Logic.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown rule logic %q", r.Logic))
	}
	for i, g := range r.Groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// ConditionCount returns the number of conditions across all groups.
func (r TradeRule) ConditionCount() int {
	count := 0
	for _, g := range r.Groups {
		count += len(g.Conditions)
	}
	return count
}

// Eval yields one boolean per bar: true where the rule's signal is active.
// A rule with no groups, or only empty groups, reduces to false
// everywhere so an incompletely configured rule never fires.
func (r TradeRule) Eval(bars []core.Bar) []bool {
	n := len(bars)
	if len(r.Groups) == 0 {
		return make([]bool, n)
	}

	out := r.Groups[0].Eval(bars)
	for _, g := range r.Groups[1:] {
		fold(out, g.Eval(bars), r.Logic)
	}
	return out
}

func fold(acc, next []bool, logic Logic) {
	if logic == LogicOr {
		for i := range acc {
			acc[i] = acc[i] || next[i]
		}
		return
	}
	for i := range acc {
		acc[i] = acc[i] && next[i]
	}
}

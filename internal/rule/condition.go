// Package rule models nested boolean conditions over technical indicators
// and reduces them to per-bar buy/sell truth series.
package rule

import (
	"fmt"

	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/indicator"
)

// Operator compares the two sides of a condition.
type Operator string

const (
	OpGT  Operator = ">"
	OpGTE Operator = ">="
	OpEQ  Operator = "="
	OpLTE Operator = "<="
	OpLT  Operator = "<"
	OpNEQ Operator = "!="
)

// Valid reports whether the operator is one of the six comparison operators.
func (op Operator) Valid() bool {
	switch op {
	case OpGT, OpGTE, OpEQ, OpLTE, OpLT, OpNEQ:
		return true
	}
	return false
}

// Compare applies the operator with standard float64 semantics. Equality
// and inequality are exact comparisons with no epsilon tolerance, which is
// a known precision caveat for indicator-vs-indicator conditions.
func (op Operator) Compare(a, b float64) bool {
	switch op {
	case OpGT:
		return a > b
	case OpGTE:
		return a >= b
	case OpEQ:
		return a == b
	case OpLTE:
		return a <= b
	case OpLT:
		return a < b
	case OpNEQ:
		return a != b
	default:
		return false
	}
}

// Target is the right-hand side of a condition: a literal number or
// another indicator. The two cases are a closed union, so a condition can
// never carry both.
type Target interface {
	isTarget()
}

// Literal compares against a constant value.
type Literal struct {
	Value float64
}

// IndicatorRef compares against another indicator series.
type IndicatorRef struct {
	Spec indicator.Spec
}

func (Literal) isTarget()      {}
func (IndicatorRef) isTarget() {}

// Condition is one comparison between an indicator and a target.
// Parameters are bound at authoring time.
type Condition struct {
	Left  indicator.Spec
	Op    Operator
	Right Target
}

// Validate rejects malformed conditions before any evaluation happens.
func (c Condition) Validate() error {
	if c.Left == nil {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("condition has no left-hand indicator"))
	}
	if err := c.Left.Validate(); err != nil {
		return err
	}
	if !c.Op.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown comparison operator %q", c.Op))
	}
	switch t := c.Right.(type) {
	case Literal:
		return nil
	case IndicatorRef:
		if t.Spec == nil {
			return core.WrapError(core.ErrConfigMissing, fmt.Errorf("condition references a nil indicator target"))
		}
		return t.Spec.Validate()
	case nil:
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("condition has no comparison target"))
	default:
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown comparison target %T", c.Right))
	}
}

// Eval reduces the condition to one boolean per bar. Any bar where either
// side is still inside its warm-up window evaluates to false; this is the
// uniform warm-up policy, applied identically to literal and indicator
// targets.
func (c Condition) Eval(bars []core.Bar) []bool {
	n := len(bars)
	out := make([]bool, n)

	left := c.Left.Compute(bars)

	var right indicator.Series
	switch t := c.Right.(type) {
	case Literal:
		right = indicator.Constant(t.Value, n)
	case IndicatorRef:
		right = t.Spec.Compute(bars)
	default:
		return out
	}

	for i := 0; i < n; i++ {
		lv, ok := left.At(i)
		if !ok {
			continue
		}
		rv, ok := right.At(i)
		if !ok {
			continue
		}
		out[i] = c.Op.Compare(lv, rv)
	}

	return out
}

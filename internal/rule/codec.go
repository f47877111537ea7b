package rule

import (
	"encoding/json"
	"fmt"

	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/indicator"
)

// Wire shapes. The comparison target carries a type discriminator so the
// literal-vs-indicator exclusivity survives serialization: a document that
// mixes the two cases is rejected at decode time.

const (
	targetValue     = "value"
	targetIndicator = "indicator"
)

type specJSON struct {
	Kind   indicator.Kind  `json:"kind"`
	Params json.RawMessage `json:"params,omitempty"`
}

type targetJSON struct {
	Type   string          `json:"type"`
	Value  *float64        `json:"value,omitempty"`
	Kind   indicator.Kind  `json:"kind,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

type conditionJSON struct {
	Left  specJSON   `json:"left"`
	Op    Operator   `json:"op"`
	Right targetJSON `json:"right"`
}

func encodeSpec(spec indicator.Spec) (specJSON, error) {
	params, err := json.Marshal(spec)
	if err != nil {
		return specJSON{}, err
	}
	return specJSON{Kind: spec.Kind(), Params: params}, nil
}

// MarshalJSON implements json.Marshaler.
func (c Condition) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	left, err := encodeSpec(c.Left)
	if err != nil {
		return nil, err
	}

	var right targetJSON
	switch t := c.Right.(type) {
	case Literal:
		v := t.Value
		right = targetJSON{Type: targetValue, Value: &v}
	case IndicatorRef:
		spec, err := encodeSpec(t.Spec)
		if err != nil {
			return nil, err
		}
		right = targetJSON{Type: targetIndicator, Kind: spec.Kind, Params: spec.Params}
	}

	return json.Marshal(conditionJSON{Left: left, Op: c.Op, Right: right})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw conditionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	left, err := indicator.Decode(raw.Left.Kind, raw.Left.Params)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}

	var right Target
	switch raw.Right.Type {
	case targetValue:
		if raw.Right.Value == nil {
			return core.WrapError(core.ErrConfigMissing, fmt.Errorf("value target has no value"))
		}
		if raw.Right.Kind != "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("value target must not carry an indicator kind"))
		}
		right = Literal{Value: *raw.Right.Value}
	case targetIndicator:
		if raw.Right.Value != nil {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("indicator target must not carry a literal value"))
		}
		spec, err := indicator.Decode(raw.Right.Kind, raw.Right.Params)
		if err != nil {
			return fmt.Errorf("right: %w", err)
		}
		right = IndicatorRef{Spec: spec}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown comparison target type %q", raw.Right.Type))
	}

	parsed := Condition{Left: left, Op: raw.Op, Right: right}
	if err := parsed.Validate(); err != nil {
		return err
	}

	*c = parsed
	return nil
}

package indicator

import (
	"encoding/json"
	"fmt"

	"github.com/sigco3111/core-quant/internal/core"
)

// Kind identifies an indicator. The enumeration is closed: Decode rejects
// anything outside this set.
type Kind string

const (
	KindPrice      Kind = "PRICE"
	KindVolume     Kind = "VOLUME"
	KindMA         Kind = "MA"
	KindEMA        Kind = "EMA"
	KindRSI        Kind = "RSI"
	KindMACD       Kind = "MACD"
	KindBollinger  Kind = "BOLLINGER"
	KindStochastic Kind = "STOCHASTIC"
	KindOBV        Kind = "OBV"
	KindATR        Kind = "ATR"
)

// Spec is one indicator with its parameters bound. Specs are validated at
// authoring time; Compute never fails on well-formed input.
type Spec interface {
	Kind() Kind
	Validate() error
	Compute(bars []core.Bar) Series
}

// MACDComponent selects which line of the MACD family to read.
type MACDComponent string

const (
	MACDLine      MACDComponent = "macd"
	MACDSignal    MACDComponent = "signal"
	MACDHistogram MACDComponent = "histogram"
)

// Band selects a Bollinger band.
type Band string

const (
	BandUpper  Band = "upper"
	BandMiddle Band = "middle"
	BandLower  Band = "lower"
)

// StochasticComponent selects the smoothed %K or the %D line.
type StochasticComponent string

const (
	StochasticK StochasticComponent = "k"
	StochasticD StochasticComponent = "d"
)

// Price selects one price field per bar. No warm-up.
type Price struct {
	Field core.PriceField `json:"field"`
}

// Volume selects the volume field per bar. No warm-up.
type Volume struct{}

// MA is a simple moving average over the trailing period, current bar
// inclusive.
type MA struct {
	Period int             `json:"period"`
	Field  core.PriceField `json:"field"`
}

// EMA is an exponential moving average seeded with the simple average of
// the first period observations.
type EMA struct {
	Period int             `json:"period"`
	Field  core.PriceField `json:"field"`
}

// RSI is Wilder's relative strength index over closes.
type RSI struct {
	Period int `json:"period"`
}

// MACD is the moving average convergence/divergence family.
type MACD struct {
	FastPeriod   int           `json:"fastPeriod"`
	SlowPeriod   int           `json:"slowPeriod"`
	SignalPeriod int           `json:"signalPeriod"`
	Component    MACDComponent `json:"component"`
}

// Bollinger is a Bollinger band over closes using the population standard
// deviation.
type Bollinger struct {
	Period     int     `json:"period"`
	StdDevMult float64 `json:"stdDevMultiplier"`
	Band       Band    `json:"band"`
}

// Stochastic is the stochastic oscillator: smoothed %K or %D.
type Stochastic struct {
	KPeriod   int                 `json:"kPeriod"`
	DPeriod   int                 `json:"dPeriod"`
	Smoothing int                 `json:"smoothing"`
	Component StochasticComponent `json:"component"`
}

// OBV is on-balance volume, seeded with 0 at the first bar.
type OBV struct{}

// ATR is Wilder's average true range.
type ATR struct {
	Period int `json:"period"`
}

func (Price) Kind() Kind      { return KindPrice }
func (Volume) Kind() Kind     { return KindVolume }
func (MA) Kind() Kind         { return KindMA }
func (EMA) Kind() Kind        { return KindEMA }
func (RSI) Kind() Kind        { return KindRSI }
func (MACD) Kind() Kind       { return KindMACD }
func (Bollinger) Kind() Kind  { return KindBollinger }
func (Stochastic) Kind() Kind { return KindStochastic }
func (OBV) Kind() Kind        { return KindOBV }
func (ATR) Kind() Kind        { return KindATR }

func (p Price) Validate() error {
	if !p.Field.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown price field %q", p.Field))
	}
	return nil
}

func (Volume) Validate() error { return nil }

func (m MA) Validate() error {
	if m.Period < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("MA period must be >= 1, got %d", m.Period))
	}
	if !m.Field.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown price field %q", m.Field))
	}
	return nil
}

func (e EMA) Validate() error {
	if e.Period < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("EMA period must be >= 1, got %d", e.Period))
	}
	if !e.Field.Valid() {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown price field %q", e.Field))
	}
	return nil
}

func (r RSI) Validate() error {
	if r.Period < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("RSI period must be >= 1, got %d", r.Period))
	}
	return nil
}

func (m MACD) Validate() error {
	if m.FastPeriod < 1 || m.SlowPeriod < 1 || m.SignalPeriod < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("MACD periods must be >= 1, got %d/%d/%d", m.FastPeriod, m.SlowPeriod, m.SignalPeriod))
	}
	switch m.Component {
	case MACDLine, MACDSignal, MACDHistogram:
		return nil
	}
	return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown MACD component %q", m.Component))
}

func (b Bollinger) Validate() error {
	if b.Period < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("Bollinger period must be >= 1, got %d", b.Period))
	}
	if b.StdDevMult < 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("Bollinger multiplier must be >= 0, got %g", b.StdDevMult))
	}
	switch b.Band {
	case BandUpper, BandMiddle, BandLower:
		return nil
	}
	return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown Bollinger band %q", b.Band))
}

func (s Stochastic) Validate() error {
	if s.KPeriod < 1 || s.DPeriod < 1 || s.Smoothing < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("stochastic periods must be >= 1, got %d/%d/%d", s.KPeriod, s.DPeriod, s.Smoothing))
	}
	switch s.Component {
	case StochasticK, StochasticD:
		return nil
	}
	return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown stochastic component %q", s.Component))
}

func (OBV) Validate() error { return nil }

func (a ATR) Validate() error {
	if a.Period < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("ATR period must be >= 1, got %d", a.Period))
	}
	return nil
}

// Decode resolves a kind and raw parameter payload to a validated Spec.
// This is the single dispatch point from wire data to typed parameters.
func Decode(kind Kind, params json.RawMessage) (Spec, error) {
	var spec Spec
	switch kind {
	case KindPrice:
		var p Price
		if err := unmarshalParams(params, &p); err != nil {
			return nil, err
		}
		spec = p
	case KindVolume:
		spec = Volume{}
	case KindMA:
		var m MA
		if err := unmarshalParams(params, &m); err != nil {
			return nil, err
		}
		spec = m
	case KindEMA:
		var e EMA
		if err := unmarshalParams(params, &e); err != nil {
			return nil, err
		}
		spec = e
	case KindRSI:
		var r RSI
		if err := unmarshalParams(params, &r); err != nil {
			return nil, err
		}
		spec = r
	case KindMACD:
		var m MACD
		if err := unmarshalParams(params, &m); err != nil {
			return nil, err
		}
		spec = m
	case KindBollinger:
		var b Bollinger
		if err := unmarshalParams(params, &b); err != nil {
			return nil, err
		}
		spec = b
	case KindStochastic:
		var s Stochastic
		if err := unmarshalParams(params, &s); err != nil {
			return nil, err
		}
		spec = s
	case KindOBV:
		spec = OBV{}
	case KindATR:
		var a ATR
		if err := unmarshalParams(params, &a); err != nil {
			return nil, err
		}
		spec = a
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown indicator kind %q", kind))
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func unmarshalParams(params json.RawMessage, into any) error {
	if len(params) == 0 {
		return core.WrapError(core.ErrConfigMissing, fmt.Errorf("indicator parameters missing"))
	}
	if err := json.Unmarshal(params, into); err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}
	return nil
}

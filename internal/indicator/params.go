package indicator

// ParamBound describes one indicator parameter for condition-builder UIs:
// inclusive numeric bounds and step for numeric parameters, or the set of
// choices for enumerated ones. The evaluator itself only enforces
// "period >= 1"; everything else here is input constraint metadata.
type ParamBound struct {
	Name    string   `json:"name"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Default float64  `json:"default,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

func periodBound(name string, def float64) ParamBound {
	return ParamBound{Name: name, Min: 1, Max: 500, Step: 1, Default: def}
}

var priceFieldChoices = []string{"open", "high", "low", "close", "adj_close"}

// Params returns the parameter metadata for the kind. Unknown kinds return
// nil.
func (k Kind) Params() []ParamBound {
	switch k {
	case KindPrice:
		return []ParamBound{{Name: "field", Choices: priceFieldChoices}}
	case KindVolume, KindOBV:
		return nil
	case KindMA, KindEMA:
		return []ParamBound{
			periodBound("period", 20),
			{Name: "field", Choices: priceFieldChoices},
		}
	case KindRSI:
		return []ParamBound{periodBound("period", 14)}
	case KindMACD:
		return []ParamBound{
			periodBound("fastPeriod", 12),
			periodBound("slowPeriod", 26),
			periodBound("signalPeriod", 9),
			{Name: "component", Choices: []string{"macd", "signal", "histogram"}},
		}
	case KindBollinger:
		return []ParamBound{
			periodBound("period", 20),
			{Name: "stdDevMultiplier", Min: 0, Max: 5, Step: 0.1, Default: 2},
			{Name: "band", Choices: []string{"upper", "middle", "lower"}},
		}
	case KindStochastic:
		return []ParamBound{
			periodBound("kPeriod", 14),
			periodBound("dPeriod", 3),
			periodBound("smoothing", 3),
			{Name: "component", Choices: []string{"k", "d"}},
		}
	case KindATR:
		return []ParamBound{periodBound("period", 14)}
	}
	return nil
}

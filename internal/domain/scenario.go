package domain

// Scenario name constants.
const (
	ScenarioConservative = "conservative"
	ScenarioBase         = "base"
	ScenarioAggressive   = "aggressive"
)

// Predefined adoption scenarios. The base scenario mirrors the historical
// worked example for a fee-share token: quarterly staking periods, a 20%
// discount rate, half of fee revenue to stakers, and adoption saturating at
// 1.6B transactions/year with the inflection in year five.
var (
	ScenarioParamsConservative = Parameters{
		TimeHorizonYears:    10,
		PeriodsPerYear:      4,
		AnnualDiscountRate:  30,
		StakerFeeShare:      50,
		Curve:               CurveParams{Mid: 7, Slope: 0.6, Limit: 800_000_000},
		AvgTransactionValue: 5,
	}

	ScenarioParamsBase = Parameters{
		TimeHorizonYears:    10,
		PeriodsPerYear:      4,
		AnnualDiscountRate:  20,
		StakerFeeShare:      50,
		Curve:               CurveParams{Mid: 5, Slope: 1, Limit: 1_600_000_000},
		AvgTransactionValue: 10,
	}

	ScenarioParamsAggressive = Parameters{
		TimeHorizonYears:    10,
		PeriodsPerYear:      4,
		AnnualDiscountRate:  15,
		StakerFeeShare:      60,
		Curve:               CurveParams{Mid: 3.5, Slope: 1.5, Limit: 3_200_000_000},
		AvgTransactionValue: 12,
	}
)

// ScenarioParams returns the predefined parameter set by name, or false if
// the name is unknown.
func ScenarioParams(name string) (Parameters, bool) {
	switch name {
	case ScenarioConservative:
		return ScenarioParamsConservative, true
	case ScenarioBase:
		return ScenarioParamsBase, true
	case ScenarioAggressive:
		return ScenarioParamsAggressive, true
	default:
		return Parameters{}, false
	}
}

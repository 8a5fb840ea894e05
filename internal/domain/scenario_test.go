package domain

import "testing"

func TestScenarioParams(t *testing.T) {
	for _, name := range []string{ScenarioConservative, ScenarioBase, ScenarioAggressive} {
		params, ok := ScenarioParams(name)
		if !ok {
			t.Fatalf("scenario %q not found", name)
		}
		if err := params.Validate(); err != nil {
			t.Errorf("scenario %q has invalid parameters: %v", name, err)
		}
	}

	if _, ok := ScenarioParams("moonshot"); ok {
		t.Error("unknown scenario name should not resolve")
	}
}

func TestScenarioOrdering(t *testing.T) {
	// Scenario aggressiveness must be reflected in the inputs: higher adoption
	// ceilings and lower discount rates from conservative to aggressive.
	c, b, a := ScenarioParamsConservative, ScenarioParamsBase, ScenarioParamsAggressive

	if !(c.Curve.Limit < b.Curve.Limit && b.Curve.Limit < a.Curve.Limit) {
		t.Errorf("curve limits not increasing: %g, %g, %g", c.Curve.Limit, b.Curve.Limit, a.Curve.Limit)
	}
	if !(c.AnnualDiscountRate > b.AnnualDiscountRate && b.AnnualDiscountRate > a.AnnualDiscountRate) {
		t.Errorf("discount rates not decreasing: %g, %g, %g",
			c.AnnualDiscountRate, b.AnnualDiscountRate, a.AnnualDiscountRate)
	}
	if !(c.Curve.Mid > b.Curve.Mid && b.Curve.Mid > a.Curve.Mid) {
		t.Errorf("inflection years not decreasing: %g, %g, %g", c.Curve.Mid, b.Curve.Mid, a.Curve.Mid)
	}
}

func TestPeriodCount(t *testing.T) {
	p := Parameters{TimeHorizonYears: 10, PeriodsPerYear: 4}
	if got := p.PeriodCount(); got != 40 {
		t.Errorf("PeriodCount() = %d, want 40", got)
	}
}

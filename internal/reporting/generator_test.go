package reporting

import (
	"testing"
	"time"

	"token-dcf-lab/internal/domain"
)

func testRun(runID string, rate, fee float64) *domain.ValuationRun {
	return &domain.ValuationRun{
		RunID:               runID,
		TimeHorizonYears:    10,
		PeriodsPerYear:      4,
		AnnualDiscountRate:  rate,
		StakerFeeShare:      fee,
		CurveMid:            5,
		CurveSlope:          1,
		CurveLimit:          1_600_000_000,
		AvgTransactionValue: 10,
		PreHorizon:          11_234_402_071,
		PostHorizon:         6_567_456_634,
		Total:               17_801_858_705,
	}
}

func testClock() func() time.Time {
	t := time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestGenerate_SortsRowsAndCollectsAxes(t *testing.T) {
	verdict := domain.VerdictUndervalued
	runs := []*domain.ValuationRun{
		testRun("cccc3333", 30, 25),
		testRun("aaaa1111", 10, 50),
		testRun("bbbb2222", 10, 25),
	}
	runs[1].Verdict = &verdict

	report := NewGenerator().WithClock(testClock()).Generate(runs)

	if report.RunCount != 3 {
		t.Fatalf("RunCount = %d, want 3", report.RunCount)
	}
	if !report.GeneratedAt.Equal(testClock()()) {
		t.Errorf("GeneratedAt = %v, want injected clock value", report.GeneratedAt)
	}

	// Rate ascending, fee ascending within rate.
	wantOrder := []string{"bbbb2222", "aaaa1111", "cccc3333"}
	for i, want := range wantOrder {
		if report.Runs[i].RunID != want {
			t.Errorf("row %d: RunID = %s, want %s", i, report.Runs[i].RunID, want)
		}
	}

	if len(report.DiscountRates) != 2 || report.DiscountRates[0] != 10 || report.DiscountRates[1] != 30 {
		t.Errorf("DiscountRates = %v, want [10 30]", report.DiscountRates)
	}
	if len(report.FeeShares) != 2 || report.FeeShares[0] != 25 || report.FeeShares[1] != 50 {
		t.Errorf("FeeShares = %v, want [25 50]", report.FeeShares)
	}

	if report.Runs[1].Verdict != domain.VerdictUndervalued {
		t.Errorf("verdict not carried through: %q", report.Runs[1].Verdict)
	}
	if report.Runs[0].Verdict != "" {
		t.Errorf("expected empty verdict for row without market cap, got %q", report.Runs[0].Verdict)
	}
}

func TestGenerate_EmptyRuns(t *testing.T) {
	report := NewGenerator().WithClock(testClock()).Generate(nil)
	if report.RunCount != 0 || len(report.Runs) != 0 {
		t.Errorf("empty input produced %d rows", len(report.Runs))
	}
}

package decision

import (
	"errors"
	"math"
	"testing"

	"token-dcf-lab/internal/domain"
)

func resultWithTotal(total float64) *domain.ValuationResult {
	return &domain.ValuationResult{Total: total}
}

func TestEvaluate_Verdicts(t *testing.T) {
	cases := []struct {
		name      string
		total     float64
		marketCap float64
		want      string
	}{
		{"well above market", 2_000_000, 1_000_000, domain.VerdictUndervalued},
		{"well below market", 500_000, 1_000_000, domain.VerdictOvervalued},
		{"inside band high", 1_090_000, 1_000_000, domain.VerdictFairValue},
		{"inside band low", 910_000, 1_000_000, domain.VerdictFairValue},
		{"exactly at market", 1_000_000, 1_000_000, domain.VerdictFairValue},
		{"exactly on upper edge", 1_100_000, 1_000_000, domain.VerdictFairValue},
		{"exactly on lower edge", 900_000, 1_000_000, domain.VerdictFairValue},
	}

	ev := NewEvaluator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ev.Evaluate(resultWithTotal(tc.total), tc.marketCap)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if res.Verdict != tc.want {
				t.Errorf("verdict = %s, want %s (upside %.2f%%)", res.Verdict, tc.want, res.UpsidePct)
			}
		})
	}
}

func TestEvaluate_UpsidePct(t *testing.T) {
	res, err := NewEvaluator().Evaluate(resultWithTotal(1_500_000), 1_000_000)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if math.Abs(res.UpsidePct-50) > 1e-12 {
		t.Errorf("UpsidePct = %g, want 50", res.UpsidePct)
	}
	if res.FairValue != 1_500_000 || res.MarketCap != 1_000_000 {
		t.Errorf("unexpected echo fields: fair=%g market=%g", res.FairValue, res.MarketCap)
	}
}

func TestEvaluate_CustomBand(t *testing.T) {
	// A 25% band swallows a 20% upside that the default band would flag.
	wide := NewEvaluatorWithBand(25)
	res, err := wide.Evaluate(resultWithTotal(1_200_000), 1_000_000)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Verdict != domain.VerdictFairValue {
		t.Errorf("verdict = %s, want %s", res.Verdict, domain.VerdictFairValue)
	}

	narrow := NewEvaluatorWithBand(5)
	res, err = narrow.Evaluate(resultWithTotal(1_080_000), 1_000_000)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Verdict != domain.VerdictUndervalued {
		t.Errorf("verdict = %s, want %s", res.Verdict, domain.VerdictUndervalued)
	}
}

func TestEvaluate_InvalidMarketCap(t *testing.T) {
	for _, mc := range []float64{0, -1_000_000} {
		_, err := NewEvaluator().Evaluate(resultWithTotal(1_000_000), mc)
		if !errors.Is(err, domain.ErrInvalidParameter) {
			t.Errorf("marketCap=%g: expected ErrInvalidParameter, got %v", mc, err)
		}
	}
}

package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Valuation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Runs: %d | Discount rates: %d | Fee shares: %d\n\n",
		r.RunCount, len(r.DiscountRates), len(r.FeeShares)))

	// Sweep axes
	sb.WriteString("## Sweep Axes\n\n")
	sb.WriteString(fmt.Sprintf("- Discount rates (%%): %s\n", joinFloats(r.DiscountRates)))
	sb.WriteString(fmt.Sprintf("- Staker fee shares (%%): %s\n\n", joinFloats(r.FeeShares)))

	// Valuations
	sb.WriteString("## Valuations\n\n")
	if len(r.Runs) > 0 {
		sb.WriteString("| Run | Rate | Fee | Horizon | Periods/yr | Pre-Horizon | Post-Horizon | Total | Verdict |\n")
		sb.WriteString("|-----|------|-----|---------|------------|-------------|--------------|-------|--------|\n")
		for _, row := range r.Runs {
			verdict := row.Verdict
			if verdict == "" {
				verdict = "-"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.1f%% | %.1f%% | %dy | %d | $%s | $%s | $%s | %s |\n",
				shortID(row.RunID),
				row.AnnualDiscountRate, row.StakerFeeShare,
				row.TimeHorizonYears, row.PeriodsPerYear,
				FormatThousands(row.PreHorizon),
				FormatThousands(row.PostHorizon),
				FormatThousands(row.Total),
				verdict))
		}
	} else {
		sb.WriteString("No valuation runs available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatThousands rounds a USD amount to the nearest thousand and renders it
// with comma grouping.
func FormatThousands(v float64) string {
	rounded := int64(math.Round(v/1000) * 1000)
	return groupDigits(rounded)
}

func groupDigits(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return sign + strings.Join(parts, ",")
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

func joinFloats(values []float64) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprintf("%g", v))
	}
	return strings.Join(parts, ", ")
}

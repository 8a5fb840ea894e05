package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders valuation runs as CSV string.
func RenderCSV(rows []RunRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("run_id,time_horizon_years,periods_per_year,annual_discount_rate,staker_fee_share,")
	sb.WriteString("curve_mid,curve_slope,curve_limit,avg_transaction_value,")
	sb.WriteString("pre_horizon,post_horizon,total,verdict\n")

	// Rows
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%d,%g,%g,%g,%g,%g,%g,%.2f,%.2f,%.2f,%s\n",
			r.RunID,
			r.TimeHorizonYears,
			r.PeriodsPerYear,
			r.AnnualDiscountRate,
			r.StakerFeeShare,
			r.CurveMid,
			r.CurveSlope,
			r.CurveLimit,
			r.AvgTransactionValue,
			r.PreHorizon,
			r.PostHorizon,
			r.Total,
			r.Verdict,
		))
	}

	return sb.String()
}

package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"token-dcf-lab/internal/domain"
)

// ComputeRunID computes a deterministic run_id using SHA256 over the
// canonical parameter encoding. Identical parameters always map to the same
// ID, so duplicate runs collide in storage instead of accumulating.
// Returns hex-encoded hash (64 characters).
func ComputeRunID(p domain.Parameters) string {
	data := fmt.Sprintf("%d|%d|%g|%g|%g|%g|%g|%g",
		p.TimeHorizonYears,
		p.PeriodsPerYear,
		p.AnnualDiscountRate,
		p.StakerFeeShare,
		p.Curve.Mid,
		p.Curve.Slope,
		p.Curve.Limit,
		p.AvgTransactionValue,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

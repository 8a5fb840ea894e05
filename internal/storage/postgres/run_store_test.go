package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/storage"
)

func createTestRun(runID string, createdAtMs int64) *domain.ValuationRun {
	return &domain.ValuationRun{
		RunID:               runID,
		TimeHorizonYears:    10,
		PeriodsPerYear:      4,
		AnnualDiscountRate:  20,
		StakerFeeShare:      50,
		CurveMid:            5,
		CurveSlope:          1,
		CurveLimit:          1_600_000_000,
		AvgTransactionValue: 10,
		EffectiveRate:       1.0466351393921056,
		PreHorizon:          11_234_402_071.0,
		PostHorizon:         6_567_456_634.13,
		Total:               17_801_858_705.13,
		CreatedAtMs:         createdAtMs,
	}
}

func TestValuationRunStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewValuationRunStore(pool)

	run := createTestRun("run-insert-1", 1000)
	run.MarketCap = ptr(9_000_000_000.0)
	run.Verdict = ptr(domain.VerdictUndervalued)

	err := store.Insert(ctx, run)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "run-insert-1")
	require.NoError(t, err)

	assert.Equal(t, run.RunID, retrieved.RunID)
	assert.Equal(t, run.TimeHorizonYears, retrieved.TimeHorizonYears)
	assert.Equal(t, run.PeriodsPerYear, retrieved.PeriodsPerYear)
	assert.InDelta(t, run.AnnualDiscountRate, retrieved.AnnualDiscountRate, 1e-9)
	assert.InDelta(t, run.StakerFeeShare, retrieved.StakerFeeShare, 1e-9)
	assert.InDelta(t, run.CurveMid, retrieved.CurveMid, 1e-9)
	assert.InDelta(t, run.CurveSlope, retrieved.CurveSlope, 1e-9)
	assert.InDelta(t, run.CurveLimit, retrieved.CurveLimit, 1)
	assert.InDelta(t, run.AvgTransactionValue, retrieved.AvgTransactionValue, 1e-9)
	assert.InDelta(t, run.EffectiveRate, retrieved.EffectiveRate, 1e-12)
	assert.InDelta(t, run.PreHorizon, retrieved.PreHorizon, 1)
	assert.InDelta(t, run.PostHorizon, retrieved.PostHorizon, 1)
	assert.InDelta(t, run.Total, retrieved.Total, 1)
	require.NotNil(t, retrieved.MarketCap)
	assert.InDelta(t, *run.MarketCap, *retrieved.MarketCap, 1)
	require.NotNil(t, retrieved.Verdict)
	assert.Equal(t, domain.VerdictUndervalued, *retrieved.Verdict)
	assert.Equal(t, run.CreatedAtMs, retrieved.CreatedAtMs)
}

func TestValuationRunStore_NullableVerdict(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewValuationRunStore(pool)

	require.NoError(t, store.Insert(ctx, createTestRun("run-no-verdict", 1000)))

	retrieved, err := store.GetByID(ctx, "run-no-verdict")
	require.NoError(t, err)
	assert.Nil(t, retrieved.MarketCap)
	assert.Nil(t, retrieved.Verdict)
}

func TestValuationRunStore_DuplicateInsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewValuationRunStore(pool)

	require.NoError(t, store.Insert(ctx, createTestRun("run-dup", 1000)))

	err := store.Insert(ctx, createTestRun("run-dup", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestValuationRunStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewValuationRunStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestValuationRunStore_GetRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewValuationRunStore(pool)

	require.NoError(t, store.Insert(ctx, createTestRun("run-a", 1000)))
	require.NoError(t, store.Insert(ctx, createTestRun("run-b", 3000)))
	require.NoError(t, store.Insert(ctx, createTestRun("run-c", 2000)))

	runs, err := store.GetRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].RunID)
	assert.Equal(t, "run-c", runs[1].RunID)

	// Invalid limit
	_, err = store.GetRecent(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestValuationRunStore_GetByVerdict(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewValuationRunStore(pool)

	a := createTestRun("run-a", 1000)
	a.Verdict = ptr(domain.VerdictUndervalued)
	b := createTestRun("run-b", 2000)
	b.Verdict = ptr(domain.VerdictOvervalued)
	c := createTestRun("run-c", 3000)
	c.Verdict = ptr(domain.VerdictUndervalued)

	for _, r := range []*domain.ValuationRun{a, b, c} {
		require.NoError(t, store.Insert(ctx, r))
	}

	runs, err := store.GetByVerdict(ctx, domain.VerdictUndervalued)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].RunID)
	assert.Equal(t, "run-a", runs[1].RunID)

	runs, err = store.GetByVerdict(ctx, domain.VerdictFairValue)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"token-dcf-lab/internal/decision"
	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/reporting"
	"token-dcf-lab/internal/storage"
	chstore "token-dcf-lab/internal/storage/clickhouse"
	"token-dcf-lab/internal/storage/memory"
	"token-dcf-lab/internal/storage/migrations"
	pgstore "token-dcf-lab/internal/storage/postgres"
	"token-dcf-lab/internal/valuation"
)

func main() {
	// Parse flags
	scenarioName := flag.String("scenario", "", "Parameter preset: conservative, base, aggressive (flags below override preset values)")

	timeHorizon := flag.Int("time-horizon", 10, "Time horizon in years")
	periodsPerYear := flag.Int("periods-per-year", 4, "Staking periods per year (1, 4, 12, 52)")
	discountRate := flag.Float64("discount-rate", 20, "Annual discount rate, percent")
	stakerFee := flag.Float64("staker-fee", 50, "Staker fee share, percent of fee revenue")
	curveMid := flag.Float64("curve-mid", 5, "Adoption curve inflection point, years")
	curveSlope := flag.Float64("curve-slope", 1, "Adoption curve slope, 1/years")
	curveLimit := flag.Float64("curve-limit", 1_600_000_000, "Adoption curve saturation, transactions/year")
	avgTxValue := flag.Float64("avg-tx-value", 10, "Average transaction value, USD")

	tolerance := flag.Float64("tolerance", 0, "Quadrature tolerance (0 = default)")
	marketCap := flag.Float64("market-cap", 0, "Current market cap in USD; enables the verdict")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")

	// Output
	outputJSON := flag.Bool("json", false, "Output full result (including series) as JSON")
	persistResult := flag.Bool("persist", false, "Persist the run and its series to storage")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[valuate] ", log.LstdFlags)

	params, err := resolveParameters(*scenarioName,
		*timeHorizon, *periodsPerYear, *discountRate, *stakerFee,
		*curveMid, *curveSlope, *curveLimit, *avgTxValue)
	if err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()

	engine := valuation.NewEngine()
	if *tolerance > 0 {
		engine = valuation.NewEngineWithTolerance(*tolerance)
	}

	result, err := engine.Run(params)
	if err != nil {
		logger.Fatalf("valuation failed: %v", err)
	}

	run := valuation.RunRecord(result, time.Now().UnixMilli())

	// Verdict against market cap, when supplied
	var verdict *decision.Result
	if *marketCap > 0 {
		verdict, err = decision.NewEvaluator().Evaluate(result, *marketCap)
		if err != nil {
			logger.Fatalf("verdict failed: %v", err)
		}
		run.MarketCap = &verdict.MarketCap
		run.Verdict = &verdict.Verdict
	}

	if *persistResult {
		if err := persist(ctx, logger, run, result, *postgresDSN, *clickhouseDSN, *useMemory); err != nil {
			logger.Fatalf("persist failed: %v", err)
		}
		logger.Printf("persisted run %s", run.RunID)
	}

	// Output result
	if *outputJSON {
		payload := struct {
			Run    *domain.ValuationRun    `json:"run"`
			Result *domain.ValuationResult `json:"result"`
		}{run, result}
		output, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Println(string(output))
	} else {
		printResult(result, run, verdict)
	}
}

// resolveParameters merges a scenario preset with explicitly set flags.
// Flags the caller did not set keep the preset value.
func resolveParameters(scenarioName string,
	timeHorizon, periodsPerYear int,
	discountRate, stakerFee, curveMid, curveSlope, curveLimit, avgTxValue float64,
) (domain.Parameters, error) {
	params := domain.Parameters{
		TimeHorizonYears:    timeHorizon,
		PeriodsPerYear:      periodsPerYear,
		AnnualDiscountRate:  discountRate,
		StakerFeeShare:      stakerFee,
		Curve:               domain.CurveParams{Mid: curveMid, Slope: curveSlope, Limit: curveLimit},
		AvgTransactionValue: avgTxValue,
	}

	if scenarioName == "" {
		return params, nil
	}

	preset, ok := domain.ScenarioParams(scenarioName)
	if !ok {
		return domain.Parameters{}, fmt.Errorf("invalid scenario: %s. Must be conservative, base, or aggressive", scenarioName)
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["time-horizon"] {
		preset.TimeHorizonYears = timeHorizon
	}
	if set["periods-per-year"] {
		preset.PeriodsPerYear = periodsPerYear
	}
	if set["discount-rate"] {
		preset.AnnualDiscountRate = discountRate
	}
	if set["staker-fee"] {
		preset.StakerFeeShare = stakerFee
	}
	if set["curve-mid"] {
		preset.Curve.Mid = curveMid
	}
	if set["curve-slope"] {
		preset.Curve.Slope = curveSlope
	}
	if set["curve-limit"] {
		preset.Curve.Limit = curveLimit
	}
	if set["avg-tx-value"] {
		preset.AvgTransactionValue = avgTxValue
	}
	return preset, nil
}

// persist writes the run record and its series to the configured backends.
func persist(ctx context.Context, logger *log.Logger,
	run *domain.ValuationRun, result *domain.ValuationResult,
	postgresDSN, clickhouseDSN string, useMemory bool,
) error {
	var runStore storage.ValuationRunStore = memory.NewValuationRunStore()
	var seriesStore storage.PeriodSeriesStore = memory.NewPeriodSeriesStore()

	if !useMemory {
		if postgresDSN == "" {
			return fmt.Errorf("--postgres-dsn is required when not using --use-memory (run records)")
		}
		if clickhouseDSN == "" {
			return fmt.Errorf("--clickhouse-dsn is required when not using --use-memory (period series)")
		}

		// PostgreSQL for run records
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		runStore = pgstore.NewValuationRunStore(pool)

		// ClickHouse for the per-period series
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		defer conn.Close()

		seriesStore = chstore.NewPeriodSeriesStore(conn)
	}

	if err := runStore.Insert(ctx, run); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			logger.Printf("run %s already stored, skipping", run.RunID)
			return nil
		}
		return err
	}
	if err := seriesStore.InsertBulk(ctx, valuation.SeriesPoints(result)); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return err
	}
	return nil
}

// printResult outputs the human-readable valuation.
func printResult(res *domain.ValuationResult, run *domain.ValuationRun, verdict *decision.Result) {
	p := res.Params

	fmt.Println()
	fmt.Println("=== Token Valuation ===")
	fmt.Printf("Run ID:             %s\n", run.RunID)
	fmt.Println()

	fmt.Println("Parameters:")
	fmt.Printf("  Time Horizon:     %d years\n", p.TimeHorizonYears)
	fmt.Printf("  Periods/Year:     %d\n", p.PeriodsPerYear)
	fmt.Printf("  Discount Rate:    %.2f%%/year (%.6f/period)\n", p.AnnualDiscountRate, res.EffectiveRate)
	fmt.Printf("  Staker Fee Share: %.2f%%\n", p.StakerFeeShare)
	fmt.Printf("  Adoption Curve:   mid=%.2fy slope=%.2f limit=%s tx/year\n",
		p.Curve.Mid, p.Curve.Slope, reporting.FormatThousands(p.Curve.Limit))
	fmt.Printf("  Avg Tx Value:     $%.2f\n", p.AvgTransactionValue)
	fmt.Println()

	fmt.Println("Valuation:")
	fmt.Printf("  Pre-Horizon:      $%s\n", reporting.FormatThousands(res.PreHorizon))
	fmt.Printf("  Post-Horizon:     $%s\n", reporting.FormatThousands(res.PostHorizon))
	fmt.Printf("  Total:            $%s\n", reporting.FormatThousands(res.Total))

	if verdict != nil {
		fmt.Println()
		fmt.Println("Verdict:")
		fmt.Printf("  Market Cap:       $%s\n", reporting.FormatThousands(verdict.MarketCap))
		fmt.Printf("  Upside:           %.2f%%\n", verdict.UpsidePct)
		fmt.Printf("  Classification:   %s\n", verdict.Verdict)
	}
	fmt.Println()
}

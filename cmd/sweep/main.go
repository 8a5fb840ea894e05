package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/observability"
	"token-dcf-lab/internal/reporting"
	"token-dcf-lab/internal/storage"
	chstore "token-dcf-lab/internal/storage/clickhouse"
	"token-dcf-lab/internal/storage/memory"
	"token-dcf-lab/internal/storage/migrations"
	pgstore "token-dcf-lab/internal/storage/postgres"
	"token-dcf-lab/internal/sweep"
)

func main() {
	// Parse flags
	scenarioName := flag.String("scenario", "base", "Base parameter preset: conservative, base, aggressive")
	discountRates := flag.String("discount-rates", "", "Comma-separated annual discount rates to sweep (e.g. 10,15,20,30)")
	feeShares := flag.String("fee-shares", "", "Comma-separated staker fee shares to sweep (e.g. 25,50,75)")
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	persistRuns := flag.Bool("persist", false, "Persist each run and its series to storage")

	flag.Parse()

	logger := log.New(os.Stderr, "[sweep] ", log.LstdFlags)

	base, ok := domain.ScenarioParams(*scenarioName)
	if !ok {
		logger.Fatalf("Invalid scenario: %s. Must be conservative, base, or aggressive", *scenarioName)
	}

	rates, err := parseFloats(*discountRates)
	if err != nil {
		logger.Fatalf("parse --discount-rates: %v", err)
	}
	fees, err := parseFloats(*feeShares)
	if err != nil {
		logger.Fatalf("parse --fee-shares: %v", err)
	}

	ctx := context.Background()

	// Create stores
	var (
		runStore    storage.ValuationRunStore
		seriesStore storage.PeriodSeriesStore
	)
	if *persistRuns {
		runStore = memory.NewValuationRunStore()
		seriesStore = memory.NewPeriodSeriesStore()

		if *postgresDSN != "" || *clickhouseDSN != "" {
			if *postgresDSN == "" || *clickhouseDSN == "" {
				logger.Fatal("--postgres-dsn and --clickhouse-dsn must both be set for database persistence")
			}

			pool, err := pgstore.NewPool(ctx, *postgresDSN)
			if err != nil {
				logger.Fatalf("connect to postgres: %v", err)
			}
			defer pool.Close()
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				logger.Fatalf("postgres migrations: %v", err)
			}
			runStore = pgstore.NewValuationRunStore(pool)

			conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
			if err != nil {
				logger.Fatalf("clickhouse migrations: %v", err)
			}
			defer conn.Close()
			seriesStore = chstore.NewPeriodSeriesStore(conn)
		}
	}

	runner := sweep.NewRunner(sweep.RunnerOptions{
		RunStore:    runStore,
		SeriesStore: seriesStore,
		Metrics:     observability.NewMetrics(""),
	})

	grid := sweep.Grid{
		Base:          base,
		DiscountRates: rates,
		FeeShares:     fees,
	}

	logger.Printf("Running sweep: scenario=%s points=%d", *scenarioName, grid.Combinations())

	runs, err := runner.Run(ctx, grid)
	if err != nil {
		logger.Fatalf("sweep failed: %v", err)
	}

	// Render reports
	report := reporting.NewGenerator().Generate(runs)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("create output dir: %v", err)
	}

	mdPath := filepath.Join(*outputDir, "VALUATION_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatalf("write markdown report: %v", err)
	}

	csvPath := filepath.Join(*outputDir, "valuation_runs.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Runs)), 0o644); err != nil {
		logger.Fatalf("write csv report: %v", err)
	}

	logger.Printf("Wrote %s and %s (%d runs)", mdPath, csvPath, report.RunCount)
	fmt.Printf("Sweep complete: %d runs, report at %s\n", report.RunCount, mdPath)
}

// parseFloats parses a comma-separated float list; empty input yields nil.
func parseFloats(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", part, err)
		}
		values = append(values, v)
	}
	return values, nil
}

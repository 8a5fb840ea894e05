// Package migrations ships the storage schemas with the binary so commands
// can bootstrap a fresh database without external schema files.
package migrations

import "embed"

// PostgresFS holds the valuation_runs schema migrations.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the period_series schema migrations.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

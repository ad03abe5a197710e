// Package storage persists finished reporting runs to Postgres. Archiving is
// optional: drivers only construct an Archive when a DSN is configured, and a
// failed archive never invalidates the files already exported.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"floodctl/pkg/contracts/domain"
)

// Archive stores one reporting run per call.
type Archive interface {
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, set *domain.ReportSet, load domain.LoadReport) error
	Close() error
}

// PostgresArchive implements Archive on a Postgres database.
type PostgresArchive struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open connects to the database at dsn and verifies the connection.
func Open(dsn string, logger *slog.Logger) (*PostgresArchive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	return &PostgresArchive{db: db, logger: logger}, nil
}

// schema creates the archive tables. Statements are idempotent so Migrate can
// run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		generated_at TIMESTAMPTZ NOT NULL,
		source_file TEXT,
		total_projects INTEGER NOT NULL,
		qualified_contractors INTEGER NOT NULL,
		region_groups INTEGER NOT NULL,
		distinct_provinces INTEGER NOT NULL,
		avg_completion_delay_days DOUBLE PRECISION NOT NULL,
		total_cost_savings TEXT NOT NULL,
		rows_read INTEGER NOT NULL,
		rows_accepted INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS region_rows (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		region TEXT NOT NULL,
		main_island TEXT NOT NULL,
		total_approved_budget DOUBLE PRECISION NOT NULL,
		median_cost_savings DOUBLE PRECISION NOT NULL,
		avg_completion_delay_days DOUBLE PRECISION NOT NULL,
		delay_over_30_percent DOUBLE PRECISION NOT NULL,
		efficiency_score DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contractor_rows (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		contractor TEXT NOT NULL,
		project_count INTEGER NOT NULL,
		avg_completion_delay_days DOUBLE PRECISION NOT NULL,
		total_cost_savings DOUBLE PRECISION NOT NULL,
		total_contract_cost DOUBLE PRECISION NOT NULL,
		reliability_index DOUBLE PRECISION NOT NULL,
		risk_flag TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trend_rows (
		run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
		funding_year INTEGER NOT NULL,
		type_of_work TEXT NOT NULL,
		project_count INTEGER NOT NULL,
		avg_cost_savings DOUBLE PRECISION NOT NULL,
		overrun_rate DOUBLE PRECISION NOT NULL,
		yoy_change DOUBLE PRECISION NOT NULL
	)`,
}

// Migrate creates the archive tables if they do not exist.
func (a *PostgresArchive) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run archive migration: %w", err)
		}
	}
	return nil
}

// SaveRun stores the summary and the three report tables in one transaction.
func (a *PostgresArchive) SaveRun(ctx context.Context, set *domain.ReportSet, load domain.LoadReport) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	s := set.Summary
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, generated_at, source_file, total_projects,
			qualified_contractors, region_groups, distinct_provinces,
			avg_completion_delay_days, total_cost_savings, rows_read, rows_accepted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.RunID, s.GeneratedAt, s.SourceFile, s.TotalProjects,
		s.QualifiedContractors, s.RegionGroups, s.DistinctProvinces,
		s.AvgCompletionDelayDays, s.TotalCostSavings, load.TotalRows, load.Accepted,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, r := range set.Regions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO region_rows (run_id, region, main_island, total_approved_budget,
				median_cost_savings, avg_completion_delay_days, delay_over_30_percent,
				efficiency_score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.RunID, r.Region, r.MainIsland, r.TotalApprovedBudget,
			r.MedianCostSavings, r.AvgCompletionDelayDays, r.DelayOver30Percent,
			r.EfficiencyScore,
		); err != nil {
			return fmt.Errorf("failed to insert region row: %w", err)
		}
	}

	for _, r := range set.Contractors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contractor_rows (run_id, rank, contractor, project_count,
				avg_completion_delay_days, total_cost_savings, total_contract_cost,
				reliability_index, risk_flag)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			s.RunID, r.Rank, r.Contractor, r.ProjectCount,
			r.AvgCompletionDelayDays, r.TotalCostSavings, r.TotalContractCost,
			r.ReliabilityIndex, string(r.RiskFlag),
		); err != nil {
			return fmt.Errorf("failed to insert contractor row: %w", err)
		}
	}

	for _, r := range set.Trends {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trend_rows (run_id, funding_year, type_of_work, project_count,
				avg_cost_savings, overrun_rate, yoy_change)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.RunID, r.FundingYear, r.TypeOfWork, r.ProjectCount,
			r.AvgCostSavings, r.OverrunRate, r.YoYChange,
		); err != nil {
			return fmt.Errorf("failed to insert trend row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}

	a.logger.InfoContext(ctx, "run archived",
		slog.String("run_id", s.RunID),
		slog.Int("region_rows", len(set.Regions)),
		slog.Int("contractor_rows", len(set.Contractors)),
		slog.Int("trend_rows", len(set.Trends)))

	return nil
}

// Close releases the database connection pool.
func (a *PostgresArchive) Close() error {
	return a.db.Close()
}

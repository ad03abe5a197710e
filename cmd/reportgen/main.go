// Command reportgen runs the full reporting pipeline once: read the source
// sheet, clean it, generate the three reports plus the summary, and write
// the artifacts. Suitable for cron; all interaction happens through flags,
// FLOOD_* environment variables, and an optional config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"floodctl/internal/analytics"
	"floodctl/internal/cleaning"
	"floodctl/internal/config"
	"floodctl/internal/dataset"
	"floodctl/internal/exporter"
	"floodctl/internal/infrastructure"
	"floodctl/internal/storage"
	"floodctl/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: probe common locations)")
	input := flag.String("input", "", "source sheet path (overrides config)")
	output := flag.String("output", "", "output directory (overrides config)")
	archiveDSN := flag.String("archive-dsn", "", "Postgres DSN for the report archive (overrides config)")
	bom := flag.Bool("bom", false, "prefix CSV artifacts with a UTF-8 BOM")
	flag.Parse()

	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *output != "" {
		cfg.Output.Dir = *output
	}
	if *archiveDSN != "" {
		cfg.Archive.DSN = *archiveDSN
	}
	if *bom {
		cfg.Output.IncludeBOM = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes one pipeline pass.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	start := time.Now()
	logger.InfoContext(ctx, "starting report generation",
		slog.String("input", cfg.Input.Path),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("archive_enabled", cfg.Archive.Enabled()))

	readCtx, span := tracing.Tracer.Start(ctx, "read")
	rows, err := dataset.ReadFile(readCtx, cfg.Input.Path, logger)
	span.End()
	if err != nil {
		return fmt.Errorf("failed to read source sheet: %w", err)
	}

	cleanCtx, span := tracing.Tracer.Start(ctx, "clean")
	cleaner := cleaning.NewCleaner(cleaning.DefaultCleanerConfig(), logger)
	projects, loadReport := cleaner.Clean(cleanCtx, rows)
	span.End()

	genCtx, span := tracing.Tracer.Start(ctx, "generate")
	analyzer := analytics.NewAnalyzer(analytics.DefaultAnalyzerConfig(), logger)
	set, err := analyzer.GenerateReports(genCtx, projects)
	span.End()
	if errors.Is(err, analytics.ErrNoValidData) {
		return fmt.Errorf("no rows in %s survived cleaning (%d read, %d rejected): %w",
			cfg.Input.Path, loadReport.TotalRows, loadReport.Rejected(), err)
	}
	if err != nil {
		return fmt.Errorf("failed to generate reports: %w", err)
	}
	set.Summary.SourceFile = cfg.Input.Path

	exportCtx, span := tracing.Tracer.Start(ctx, "export")
	ex := exporter.NewReportExporter(cfg.Output.Dir, cfg.Output.IncludeBOM, logger)
	paths, err := ex.Export(exportCtx, set)
	span.End()
	if err != nil {
		return fmt.Errorf("failed to export reports: %w", err)
	}

	if cfg.Archive.Enabled() {
		if err := archiveRun(ctx, cfg.Archive.DSN, set, loadReport, logger); err != nil {
			return fmt.Errorf("failed to archive run: %w", err)
		}
	}

	logger.InfoContext(ctx, "report generation complete",
		slog.String("run_id", set.Summary.RunID),
		slog.Int("projects", set.Summary.TotalProjects),
		slog.Int("artifacts", len(paths)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

// archiveRun persists the run to the configured Postgres archive.
func archiveRun(ctx context.Context, dsn string, set *domain.ReportSet, load domain.LoadReport, logger *slog.Logger) error {
	archive, err := storage.Open(dsn, logger)
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := archive.Migrate(ctx); err != nil {
		return err
	}
	return archive.SaveRun(ctx, set, load)
}

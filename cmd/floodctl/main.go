// Command floodctl is the interactive driver for the flood-control contract
// pipeline: load a source sheet, generate the three reports plus the summary,
// preview them on the console, and write the artifacts.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
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
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		cancel()
	}()

	a := newApp(cfg, logger, os.Stdin, os.Stdout)
	a.tracing = tracing
	a.menuLoop(ctx)

	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	defer shutdownCancel()
	if err := tracing.Shutdown(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}
}

// errExit signals that the user chose to quit.
var errExit = errors.New("exit requested")

// app wires the pipeline components behind the menu. Input and output are
// injectable so the menu logic is testable.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	tracing  *infrastructure.Tracing
	data     *dataset.Dataset
	cleaner  *cleaning.Cleaner
	analyzer *analytics.Analyzer
	reports  *domain.ReportSet
	in       *bufio.Scanner
	out      io.Writer
}

func newApp(cfg *config.Config, logger *slog.Logger, in io.Reader, out io.Writer) *app {
	// no-op tracing; main swaps in the configured provider
	tracing, _ := infrastructure.InitializeTracing(config.TracingConfig{Exporter: "none"}, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		tracing:  tracing,
		data:     dataset.NewDataset(),
		cleaner:  cleaning.NewCleaner(cleaning.DefaultCleanerConfig(), logger),
		analyzer: analytics.NewAnalyzer(analytics.DefaultAnalyzerConfig(), logger),
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

func (a *app) menuLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			color.Yellow("\nShutting down...")
			return
		default:
			a.displayMenu()
			choice, ok := a.readLine()
			if !ok {
				return
			}
			if err := a.handleChoice(ctx, choice); err != nil {
				if errors.Is(err, errExit) {
					color.Green("Goodbye.")
					return
				}
				color.Red("Error: %v", err)
			}
		}
	}
}

func (a *app) displayMenu() {
	color.Cyan("\n=== Flood-Control Contract Analytics ===")
	fmt.Fprintln(a.out, "1. Load data file")
	fmt.Fprintln(a.out, "2. Generate reports")
	fmt.Fprintln(a.out, "3. Show run summary")
	fmt.Fprintln(a.out, "4. Exit")
	fmt.Fprint(a.out, "\nEnter your choice (1-4): ")
}

func (a *app) handleChoice(ctx context.Context, choice string) error {
	switch strings.TrimSpace(choice) {
	case "1":
		return a.loadFile(ctx)
	case "2":
		return a.generateReports(ctx)
	case "3":
		return a.showSummary()
	case "4":
		return errExit
	default:
		return fmt.Errorf("invalid choice %q", choice)
	}
}

// loadFile reads and cleans a source sheet, replacing the loaded dataset
// wholesale.
func (a *app) loadFile(ctx context.Context) error {
	fmt.Fprintf(a.out, "Path to data file [%s]: ", a.cfg.Input.Path)
	path, _ := a.readLine()
	path = strings.TrimSpace(path)
	if path == "" {
		path = a.cfg.Input.Path
	}

	ctx, span := a.tracing.Tracer.Start(ctx, "load")
	defer span.End()

	rows, err := dataset.ReadFile(ctx, path, a.logger)
	if err != nil {
		return err
	}
	projects, report := a.cleaner.Clean(ctx, rows)
	a.data.Replace(path, projects, report)
	a.reports = nil

	color.Green("Loaded %d of %d rows from %s", report.Accepted, report.TotalRows, path)
	fmt.Fprintf(a.out, "  rejected: %d (year %d, budget %d, cost %d)\n",
		report.Rejected(), report.RejectedYear, report.RejectedBudget, report.RejectedCost)
	fmt.Fprintf(a.out, "  imputed completion dates: %d, imputed coordinates: %d\n",
		report.ImputedCompletionDates, report.ImputedCoordinates)
	return nil
}

// generateReports runs the analyzers over the loaded dataset, writes the
// artifacts, and previews each table.
func (a *app) generateReports(ctx context.Context) error {
	projects, err := a.data.Projects()
	if errors.Is(err, dataset.ErrNoDataLoaded) {
		return fmt.Errorf("no data loaded; choose option 1 first")
	}
	if err != nil {
		return err
	}

	ctx, span := a.tracing.Tracer.Start(ctx, "generate")
	defer span.End()

	set, err := a.analyzer.GenerateReports(ctx, projects)
	if errors.Is(err, analytics.ErrNoValidData) {
		return fmt.Errorf("no valid rows in the loaded file; load a different one")
	}
	if err != nil {
		return err
	}
	set.Summary.SourceFile = a.data.Source()
	a.reports = set

	ex := exporter.NewReportExporter(a.cfg.Output.Dir, a.cfg.Output.IncludeBOM, a.logger)
	paths, err := ex.Export(ctx, set)
	if err != nil {
		return err
	}

	if a.cfg.Archive.Enabled() {
		if err := a.archiveRun(ctx, set); err != nil {
			color.Red("Archive failed (artifacts were still written): %v", err)
		}
	}

	color.Yellow("\nRegional Efficiency (top %d)", exporter.DefaultPreviewRows)
	exporter.PreviewRegions(a.out, set.Regions, exporter.DefaultPreviewRows)
	color.Yellow("\nContractor Ranking (top %d)", exporter.DefaultPreviewRows)
	exporter.PreviewContractors(a.out, set.Contractors, exporter.DefaultPreviewRows)
	color.Yellow("\nAnnual Trends (top %d)", exporter.DefaultPreviewRows)
	exporter.PreviewTrends(a.out, set.Trends, exporter.DefaultPreviewRows)

	color.Green("\nWrote %d artifacts to %s", len(paths), a.cfg.Output.Dir)
	return nil
}

// showSummary previews the most recent run's summary.
func (a *app) showSummary() error {
	if a.reports == nil {
		return fmt.Errorf("no reports generated yet; choose option 2 first")
	}
	color.Yellow("\nRun Summary (%s)", a.reports.Summary.RunID)
	exporter.PreviewSummary(a.out, a.reports.Summary)
	return nil
}

func (a *app) archiveRun(ctx context.Context, set *domain.ReportSet) error {
	archive, err := storage.Open(a.cfg.Archive.DSN, a.logger)
	if err != nil {
		return err
	}
	defer archive.Close()

	if err := archive.Migrate(ctx); err != nil {
		return err
	}
	return archive.SaveRun(ctx, set, a.data.Report())
}

func (a *app) readLine() (string, bool) {
	if !a.in.Scan() {
		return "", false
	}
	return a.in.Text(), true
}

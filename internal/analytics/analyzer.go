// Package analytics turns a cleaned project set into the three contract
// reports (regional efficiency, contractor reliability, annual cost trends)
// and the dataset-wide summary. All generators are pure with respect to I/O
// and resolve every degenerate numeric case to a defined value; NaN and
// infinities never reach an output row.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"floodctl/pkg/contracts/domain"
)

// ErrNoValidData reports that no projects survived cleaning, so there is
// nothing to analyze. Callers distinguish this from report failures with
// errors.Is.
var ErrNoValidData = errors.New("no valid data to analyze")

// AnalyzerConfig carries the analytical constants: the late-delay cutoff,
// contractor ranking bounds, the reliability formula's delay span, and the
// trend baseline year.
type AnalyzerConfig struct {
	DelayThresholdDays       int
	MinProjectsPerContractor int
	MaxContractorRows        int
	ReliabilityDelaySpan     float64
	HighRiskBelow            float64
	BaselineYear             int
}

// DefaultAnalyzerConfig returns the production report constants.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		DelayThresholdDays:       30,
		MinProjectsPerContractor: 5,
		MaxContractorRows:        15,
		ReliabilityDelaySpan:     90,
		HighRiskBelow:            50,
		BaselineYear:             2021,
	}
}

// Analyzer generates the reports of a single run over one cleaned set.
type Analyzer struct {
	config AnalyzerConfig
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer with the given configuration.
func NewAnalyzer(config AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		config: config,
		logger: logger,
	}
}

// GenerateReports runs the three report passes over the same cleaned set and
// then the summary. The passes share read-only input and write independent
// outputs, so they run concurrently; the first failure cancels the rest.
func (a *Analyzer) GenerateReports(ctx context.Context, projects []domain.CleanedProject) (*domain.ReportSet, error) {
	if len(projects) == 0 {
		return nil, ErrNoValidData
	}

	set := &domain.ReportSet{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.RegionalReport(gctx, projects)
		set.Regions = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.ContractorReport(gctx, projects)
		set.Contractors = rows
		return err
	})
	g.Go(func() error {
		rows, err := a.TrendReport(gctx, projects)
		set.Trends = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary, err := a.Summarize(ctx, projects, set.Contractors, set.Regions)
	if err != nil {
		return nil, err
	}
	summary.TrendEntries = len(set.Trends)
	set.Summary = summary

	a.logger.InfoContext(ctx, "report generation complete",
		slog.Int("projects", len(projects)),
		slog.Int("region_rows", len(set.Regions)),
		slog.Int("contractor_rows", len(set.Contractors)),
		slog.Int("trend_rows", len(set.Trends)))

	return set, nil
}

// nonNegativeFinite maps NaN, infinities, and negative values to 0. Raw
// efficiency scores pass through this before normalization.
func nonNegativeFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// resolveScore applies the uniform clamp policy for published scores:
// non-finite and negative values become 0, values above 100 are capped.
func resolveScore(v float64) float64 {
	v = nonNegativeFinite(v)
	if v > 100 {
		return 100
	}
	return v
}

package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"floodctl/pkg/contracts/domain"
)

// Output artifact file names, fixed across runs.
const (
	FileRegional   = "report1_regional_summary.csv"
	FileContractor = "report2_contractor_ranking.csv"
	FileTrends     = "report3_annual_trends.csv"
	FileSummary    = "summary.json"
)

// Column headers of the three report tables.
var (
	RegionalHeaders = []string{
		"Region", "MainIsland", "TotalApprovedBudget", "MedianCostSavings",
		"AvgCompletionDelayDays", "DelayOver30Percent", "EfficiencyScore",
	}
	ContractorHeaders = []string{
		"Rank", "Contractor", "ProjectCount", "AvgCompletionDelayDays",
		"TotalCostSavings", "TotalContractCost", "ReliabilityIndex", "RiskFlag",
	}
	TrendHeaders = []string{
		"FundingYear", "TypeOfWork", "ProjectCount", "AvgCostSavings",
		"OverrunRate", "YoYChange",
	}
)

// ReportExporter writes the artifacts of one reporting run beneath a base
// directory.
type ReportExporter struct {
	csv        *CSVWriter
	baseDir    string
	includeBOM bool
	logger     *slog.Logger
}

// NewReportExporter creates a ReportExporter rooted at baseDir. includeBOM
// prefixes each CSV with a UTF-8 BOM for spreadsheet tools.
func NewReportExporter(baseDir string, includeBOM bool, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csv:        NewCSVWriter(baseDir, logger),
		baseDir:    baseDir,
		includeBOM: includeBOM,
		logger:     logger,
	}
}

// Export writes the three report tables and the summary JSON, returning the
// paths written in a fixed order. A failed artifact aborts the export; files
// already written are left in place for inspection.
func (e *ReportExporter) Export(ctx context.Context, set *domain.ReportSet) ([]string, error) {
	paths := make([]string, 0, 4)

	regional, err := e.csv.WriteCSV(ctx, FileRegional, WriteOptions{
		Headers: RegionalHeaders,
		Records: lo.Map(set.Regions, func(r domain.RegionRow, _ int) []string {
			return r.CSVRow()
		}),
		BOMPrefix: e.includeBOM,
	})
	if err != nil {
		return paths, fmt.Errorf("failed to write regional report: %w", err)
	}
	paths = append(paths, regional)

	contractor, err := e.csv.WriteCSV(ctx, FileContractor, WriteOptions{
		Headers: ContractorHeaders,
		Records: lo.Map(set.Contractors, func(r domain.ContractorRow, _ int) []string {
			return r.CSVRow()
		}),
		BOMPrefix: e.includeBOM,
	})
	if err != nil {
		return paths, fmt.Errorf("failed to write contractor report: %w", err)
	}
	paths = append(paths, contractor)

	trends, err := e.csv.WriteCSV(ctx, FileTrends, WriteOptions{
		Headers: TrendHeaders,
		Records: lo.Map(set.Trends, func(r domain.TrendRow, _ int) []string {
			return r.CSVRow()
		}),
		BOMPrefix: e.includeBOM,
	})
	if err != nil {
		return paths, fmt.Errorf("failed to write trend report: %w", err)
	}
	paths = append(paths, trends)

	summary, err := e.writeSummary(set.Summary)
	if err != nil {
		return paths, fmt.Errorf("failed to write summary: %w", err)
	}
	paths = append(paths, summary)

	e.logger.InfoContext(ctx, "report artifacts exported",
		slog.String("dir", e.baseDir),
		slog.Int("artifacts", len(paths)))

	return paths, nil
}

// writeSummary persists the run summary as indented JSON.
func (e *ReportExporter) writeSummary(summary domain.Summary) (string, error) {
	path := filepath.Join(e.baseDir, FileSummary)
	if err := os.MkdirAll(e.baseDir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

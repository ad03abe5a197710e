package exporter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodctl/pkg/contracts/domain"
)

func sampleReportSet() *domain.ReportSet {
	return &domain.ReportSet{
		Regions: []domain.RegionRow{
			{
				Region:                 "NCR",
				MainIsland:             "Luzon",
				TotalApprovedBudget:    350,
				MedianCostSavings:      20,
				AvgCompletionDelayDays: 18.33,
				DelayOver30Percent:     33.33,
				EfficiencyScore:        100,
			},
		},
		Contractors: []domain.ContractorRow{
			{
				Rank:                   1,
				Contractor:             "Alpha Builders",
				ProjectCount:           6,
				AvgCompletionDelayDays: 12,
				TotalCostSavings:       120,
				TotalContractCost:      900,
				ReliabilityIndex:       11.56,
				RiskFlag:               domain.RiskFlagHigh,
			},
		},
		Trends: []domain.TrendRow{
			{FundingYear: 2021, TypeOfWork: "Dike", ProjectCount: 4, AvgCostSavings: 25, OverrunRate: 25, YoYChange: 0},
		},
		Summary: domain.Summary{
			RunID:                  "test-run",
			GeneratedAt:            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			TotalProjects:          7,
			QualifiedContractors:   1,
			RegionGroups:           1,
			DistinctProvinces:      2,
			AvgCompletionDelayDays: 14.5,
			TotalCostSavings:       "1,234.50",
			TrendEntries:           1,
		},
	}
}

func TestExportWritesAllArtifacts(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, false, nil)

	paths, err := ex.Export(context.Background(), sampleReportSet())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	assert.Equal(t, filepath.Join(dir, FileRegional), paths[0])
	assert.Equal(t, filepath.Join(dir, FileContractor), paths[1])
	assert.Equal(t, filepath.Join(dir, FileTrends), paths[2])
	assert.Equal(t, filepath.Join(dir, FileSummary), paths[3])
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestExportRegionalCSVContents(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, false, nil)

	_, err := ex.Export(context.Background(), sampleReportSet())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileRegional))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(RegionalHeaders, ","), lines[0])
	assert.Equal(t, "NCR,Luzon,350.00,20.00,18.33,33.33,100.00", lines[1])
}

func TestExportContractorCSVContents(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, false, nil)

	_, err := ex.Export(context.Background(), sampleReportSet())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileContractor))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1,Alpha Builders,6,12.00,120.00,900.00,11.56,High Risk", lines[1])
}

func TestExportSummaryJSONRoundTrips(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, false, nil)
	want := sampleReportSet()

	_, err := ex.Export(context.Background(), want)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileSummary))
	require.NoError(t, err)

	var got domain.Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want.Summary, got)
}

func TestExportBOMApplied(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, true, nil)

	_, err := ex.Export(context.Background(), sampleReportSet())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileTrends))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestExportEmptyTablesStillWriteHeaders(t *testing.T) {
	dir := t.TempDir()
	ex := NewReportExporter(dir, false, nil)

	set := &domain.ReportSet{Summary: domain.Summary{RunID: "empty"}}
	_, err := ex.Export(context.Background(), set)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileContractor))
	require.NoError(t, err)
	assert.Equal(t, strings.Join(ContractorHeaders, ",")+"\n", string(data))
}

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodctl/internal/config"
	"floodctl/internal/exporter"
)

const sampleCSV = `MainIsland,Region,Province,TypeOfWork,FundingYear,ApprovedBudgetForContract,ContractCost,ActualCompletionDate,Contractor,StartDate,ProjectLatitude,ProjectLongitude,ProvincialCapitalLatitude,ProvincialCapitalLongitude
Luzon,NCR,Metro Manila,Dike,2021,"1,000,000.00","900,000.00",2021-06-15,Alpha Builders,2021-05-01,14.6,121.0,14.6,121.0
Visayas,Region VII,Cebu,Drainage,2022,"500,000.00","450,000.00",2022-03-10,Beta Corp,2022-01-10,10.3,123.9,10.3,123.9
`

func testApp(t *testing.T, input string) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	out := &bytes.Buffer{}
	return newApp(cfg, slog.Default(), strings.NewReader(input), out), out
}

func writeSampleCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projects.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestHandleChoiceInvalid(t *testing.T) {
	a, _ := testApp(t, "")
	assert.Error(t, a.handleChoice(context.Background(), "9"))
}

func TestHandleChoiceExit(t *testing.T) {
	a, _ := testApp(t, "")
	assert.ErrorIs(t, a.handleChoice(context.Background(), "4"), errExit)
}

func TestGenerateBeforeLoadGivesGuidance(t *testing.T) {
	a, _ := testApp(t, "")
	err := a.handleChoice(context.Background(), "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data loaded")
}

func TestSummaryBeforeGenerateGivesGuidance(t *testing.T) {
	a, _ := testApp(t, "")
	err := a.handleChoice(context.Background(), "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reports generated")
}

func TestLoadThenGenerate(t *testing.T) {
	path := writeSampleCSV(t)
	a, out := testApp(t, path+"\n")
	ctx := context.Background()

	require.NoError(t, a.handleChoice(ctx, "1"))
	assert.True(t, a.data.Loaded())
	assert.Equal(t, 2, a.data.Report().Accepted)

	require.NoError(t, a.handleChoice(ctx, "2"))
	require.NotNil(t, a.reports)
	assert.Equal(t, 2, a.reports.Summary.TotalProjects)
	assert.Equal(t, path, a.reports.Summary.SourceFile)

	for _, name := range []string{
		exporter.FileRegional,
		exporter.FileContractor,
		exporter.FileTrends,
		exporter.FileSummary,
	} {
		assert.FileExists(t, filepath.Join(a.cfg.Output.Dir, name))
	}

	// previews land on the app writer
	assert.Contains(t, out.String(), "NCR")
}

func TestLoadEmptyPathFallsBackToConfig(t *testing.T) {
	path := writeSampleCSV(t)
	a, _ := testApp(t, "\n")
	a.cfg.Input.Path = path

	require.NoError(t, a.handleChoice(context.Background(), "1"))
	assert.Equal(t, path, a.data.Source())
}

func TestLoadMissingFile(t *testing.T) {
	a, _ := testApp(t, "/nonexistent/file.csv\n")
	assert.Error(t, a.handleChoice(context.Background(), "1"))
}

func TestLoadReplacesPreviousReports(t *testing.T) {
	path := writeSampleCSV(t)
	a, _ := testApp(t, path+"\n"+path+"\n")
	ctx := context.Background()

	require.NoError(t, a.handleChoice(ctx, "1"))
	require.NoError(t, a.handleChoice(ctx, "2"))
	require.NotNil(t, a.reports)

	require.NoError(t, a.handleChoice(ctx, "1"))
	assert.Nil(t, a.reports, "a fresh load invalidates generated reports")
}

package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodctl/pkg/contracts/domain"
)

func TestSchemaCoversAllReportTables(t *testing.T) {
	joined := strings.Join(schema, "\n")
	for _, table := range []string{"runs", "region_rows", "contractor_rows", "trend_rows"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

// TestArchiveRoundTrip needs a live database; set FLOOD_TEST_ARCHIVE_DSN to
// run it.
func TestArchiveRoundTrip(t *testing.T) {
	dsn := os.Getenv("FLOOD_TEST_ARCHIVE_DSN")
	if dsn == "" {
		t.Skip("FLOOD_TEST_ARCHIVE_DSN not set")
	}

	archive, err := Open(dsn, nil)
	require.NoError(t, err)
	defer archive.Close()

	ctx := context.Background()
	require.NoError(t, archive.Migrate(ctx))

	set := &domain.ReportSet{
		Regions: []domain.RegionRow{
			{Region: "NCR", MainIsland: "Luzon", TotalApprovedBudget: 350, MedianCostSavings: 20},
		},
		Contractors: []domain.ContractorRow{
			{Rank: 1, Contractor: "Alpha Builders", ProjectCount: 6, TotalContractCost: 900, RiskFlag: domain.RiskFlagOK},
		},
		Trends: []domain.TrendRow{
			{FundingYear: 2021, TypeOfWork: "Dike", ProjectCount: 4, AvgCostSavings: 25},
		},
		Summary: domain.Summary{
			RunID:            "test-" + time.Now().UTC().Format("20060102150405.000"),
			GeneratedAt:      time.Now().UTC(),
			TotalProjects:    7,
			TotalCostSavings: "1,234.50",
		},
	}
	require.NoError(t, archive.SaveRun(ctx, set, domain.LoadReport{TotalRows: 10, Accepted: 7}))

	var count int
	require.NoError(t, archive.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM region_rows WHERE run_id = $1", set.Summary.RunID))
	assert.Equal(t, 1, count)
}

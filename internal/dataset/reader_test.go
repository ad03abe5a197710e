package dataset

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"floodctl/pkg/contracts/domain"
)

const sampleHeader = "Region,MainIsland,Province,FundingYear,ApprovedBudgetForContract,ContractCost,Contractor,TypeOfWork,StartDate,ActualCompletionDate"

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderReadsRows(t *testing.T) {
	path := writeCSV(t, "projects.csv", sampleHeader+"\n"+
		"NCR,Luzon,Metro Manila,2022,\"1,000,000.50\",900000,Acme,Drainage,2022-01-01,2022-01-31\n"+
		"Region VII,Visayas,Cebu,2023,500,400,Coastal,Seawall,2023-02-01,\n")

	records, err := NewCSVReader(slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "NCR", records[0][domain.ColRegion])
	assert.Equal(t, "1,000,000.50", records[0][domain.ColApprovedBudgetForContract])
	assert.Equal(t, "2022-01-31", records[0][domain.ColActualCompletionDate])
	assert.Equal(t, "Region VII", records[1][domain.ColRegion])
	assert.Equal(t, "", records[1][domain.ColActualCompletionDate])
}

func TestCSVReaderStripsByteOrderMark(t *testing.T) {
	path := writeCSV(t, "bom.csv", "\ufeff"+sampleHeader+"\n"+
		"NCR,Luzon,Metro Manila,2022,100,90,Acme,Drainage,,\n")

	records, err := NewCSVReader(slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NCR", records[0][domain.ColRegion])
}

func TestCSVReaderToleratesRaggedRows(t *testing.T) {
	path := writeCSV(t, "ragged.csv", sampleHeader+"\n"+
		"NCR,Luzon,Metro Manila,2022,100,90\n"+
		"Region XI,Mindanao,Davao,2023,200,150,Acme,Dike,2023-01-01,2023-02-01,extra-cell\n")

	records, err := NewCSVReader(slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Short rows leave trailing columns absent.
	_, ok := records[0][domain.ColContractor]
	assert.False(t, ok)
	// Long rows have their surplus cells dropped.
	assert.Equal(t, "Acme", records[1][domain.ColContractor])
}

func TestCSVReaderMissingColumns(t *testing.T) {
	path := writeCSV(t, "short.csv", "Region,MainIsland\nNCR,Luzon\n")

	_, err := NewCSVReader(slog.Default()).Read(context.Background(), path)
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, ErrorTypeSchema, readErr.Type)
	assert.Contains(t, readErr.Message, domain.ColContractCost)
}

func TestCSVReaderEmptyFile(t *testing.T) {
	path := writeCSV(t, "empty.csv", "")

	_, err := NewCSVReader(slog.Default()).Read(context.Background(), path)
	assert.True(t, errors.Is(err, ErrEmptyFile))
}

func TestCSVReaderMissingFile(t *testing.T) {
	_, err := NewCSVReader(slog.Default()).Read(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFileDispatch(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadFile(context.Background(), "projects.parquet", slog.Default())
		assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	})

	t.Run("csv by extension", func(t *testing.T) {
		path := writeCSV(t, "ok.csv", sampleHeader+"\nNCR,Luzon,Metro Manila,2022,100,90,Acme,Drainage,,\n")
		records, err := ReadFile(context.Background(), path, slog.Default())
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestXLSXReaderReadsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.xlsx")

	f := excelize.NewFile()
	header := []interface{}{
		domain.ColRegion, domain.ColMainIsland, domain.ColProvince, domain.ColFundingYear,
		domain.ColApprovedBudgetForContract, domain.ColContractCost, domain.ColContractor,
		domain.ColTypeOfWork,
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{"NCR", "Luzon", "Metro Manila", "2022", "150000", "120000", "Acme", "Drainage"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	records, err := NewXLSXReader(slog.Default()).Read(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NCR", records[0][domain.ColRegion])
	assert.Equal(t, "150000", records[0][domain.ColApprovedBudgetForContract])
}

func TestXLSXReaderMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.xlsx")

	f := excelize.NewFile()
	header := []interface{}{"Region", "MainIsland"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewXLSXReader(slog.Default()).Read(context.Background(), path)
	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, ErrorTypeSchema, readErr.Type)
}

package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floodctl/pkg/contracts/domain"
)

func TestDatasetLifecycle(t *testing.T) {
	ds := NewDataset()

	assert.False(t, ds.Loaded())
	_, err := ds.Projects()
	assert.True(t, errors.Is(err, ErrNoDataLoaded))

	first := []domain.CleanedProject{{Contractor: "Acme"}}
	ds.Replace("first.csv", first, domain.LoadReport{TotalRows: 1, Accepted: 1})

	require.True(t, ds.Loaded())
	projects, err := ds.Projects()
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, "first.csv", ds.Source())
	assert.Equal(t, 1, ds.Report().Accepted)
	assert.False(t, ds.LoadedAt().IsZero())
}

func TestDatasetReplaceSwapsWholesale(t *testing.T) {
	ds := NewDataset()
	ds.Replace("first.csv", []domain.CleanedProject{{Contractor: "A"}, {Contractor: "B"}}, domain.LoadReport{Accepted: 2})
	ds.Replace("second.csv", []domain.CleanedProject{{Contractor: "C"}}, domain.LoadReport{Accepted: 1})

	projects, err := ds.Projects()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "C", projects[0].Contractor)
	assert.Equal(t, "second.csv", ds.Source())
	assert.Equal(t, 1, ds.Report().Accepted)
}

func TestDatasetEmptyLoadStillCountsAsLoaded(t *testing.T) {
	ds := NewDataset()
	ds.Replace("empty.csv", nil, domain.LoadReport{TotalRows: 3})

	assert.True(t, ds.Loaded())
	projects, err := ds.Projects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

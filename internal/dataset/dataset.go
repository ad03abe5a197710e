package dataset

import (
	"sync"
	"time"

	"floodctl/pkg/contracts/domain"
)

// Dataset holds the most recently loaded and cleaned project set. A load
// replaces the contents wholesale; there is no partial mutation. The returned
// project slice is shared and must be treated as read-only by callers.
type Dataset struct {
	mu       sync.RWMutex
	projects []domain.CleanedProject
	report   domain.LoadReport
	source   string
	loadedAt time.Time
}

// NewDataset returns an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Replace swaps in a freshly cleaned project set and its load report.
func (d *Dataset) Replace(source string, projects []domain.CleanedProject, report domain.LoadReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projects = projects
	d.report = report
	d.source = source
	d.loadedAt = time.Now()
}

// Projects returns the current cleaned set, or ErrNoDataLoaded when nothing
// has been loaded yet.
func (d *Dataset) Projects() ([]domain.CleanedProject, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.loadedAt.IsZero() {
		return nil, ErrNoDataLoaded
	}
	return d.projects, nil
}

// Loaded reports whether a load has completed.
func (d *Dataset) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.loadedAt.IsZero()
}

// Report returns the load diagnostics of the current set.
func (d *Dataset) Report() domain.LoadReport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.report
}

// Source returns the path the current set was loaded from.
func (d *Dataset) Source() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.source
}

// LoadedAt returns when the current set was loaded.
func (d *Dataset) LoadedAt() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loadedAt
}

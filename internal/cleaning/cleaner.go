// Package cleaning validates and normalizes raw contract rows into typed
// projects. Rows failing validation are dropped silently and tallied in the
// LoadReport; missing completion dates and coordinates are imputed.
package cleaning

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// CleanerConfig controls the validation window and the placeholder labels
// applied to empty string fields.
type CleanerConfig struct {
	MinFundingYear    int
	MaxFundingYear    int
	DefaultRegion     string
	DefaultProvince   string
	DefaultIsland     string
	DefaultContractor string
	DefaultTypeOfWork string
}

// DefaultCleanerConfig returns the production cleaning rules: the 2021-2023
// funding window and the standard placeholder labels.
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		MinFundingYear:    2021,
		MaxFundingYear:    2023,
		DefaultRegion:     "Unknown",
		DefaultProvince:   "Unknown",
		DefaultIsland:     "Unknown",
		DefaultContractor: "Unknown Contractor",
		DefaultTypeOfWork: "Unspecified",
	}
}

// Cleaner validates raw rows and derives per-project metrics.
type Cleaner struct {
	config CleanerConfig
	logger *slog.Logger
}

// NewCleaner creates a Cleaner with the given configuration.
func NewCleaner(config CleanerConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		config: config,
		logger: logger,
	}
}

// coordState tracks which coordinate components of a project are known,
// aligned by index with the cleaned slice during the imputation pass.
type coordState struct {
	lat, lon     float64
	latOK, lonOK bool
}

// Clean applies the validation pipeline to each row in order: funding year
// window, positive budget, positive cost, date parsing with completion-date
// imputation, label normalization, then derived metrics. Output order follows
// input order minus dropped rows. A second pass fills still-missing
// coordinates from province-level averages.
func (c *Cleaner) Clean(ctx context.Context, rows []domain.RawRecord) ([]domain.CleanedProject, domain.LoadReport) {
	report := domain.LoadReport{TotalRows: len(rows)}
	projects := make([]domain.CleanedProject, 0, len(rows))
	coords := make([]coordState, 0, len(rows))

	for _, row := range rows {
		year := int(stats.ParseNumber(row[domain.ColFundingYear]))
		if year < c.config.MinFundingYear || year > c.config.MaxFundingYear {
			report.RejectedYear++
			continue
		}

		budget := stats.ParseNumber(row[domain.ColApprovedBudgetForContract])
		if budget <= 0 {
			report.RejectedBudget++
			continue
		}

		cost := stats.ParseNumber(row[domain.ColContractCost])
		if cost <= 0 {
			report.RejectedCost++
			continue
		}

		start := stats.ParseDate(row[domain.ColStartDate])
		completion := stats.ParseDate(row[domain.ColActualCompletionDate])
		if completion == nil && start != nil {
			completion = start
			report.ImputedCompletionDates++
		}

		projects = append(projects, domain.CleanedProject{
			FundingYear:         year,
			ApprovedBudget:      budget,
			ContractCost:        cost,
			StartDate:           start,
			CompletionDate:      completion,
			Region:              normalizeLabel(row[domain.ColRegion], c.config.DefaultRegion),
			Province:            normalizeLabel(row[domain.ColProvince], c.config.DefaultProvince),
			MainIsland:          normalizeLabel(row[domain.ColMainIsland], c.config.DefaultIsland),
			Contractor:          normalizeLabel(row[domain.ColContractor], c.config.DefaultContractor),
			TypeOfWork:          normalizeLabel(row[domain.ColTypeOfWork], c.config.DefaultTypeOfWork),
			CostSavings:         budget - cost,
			CompletionDelayDays: delayDays(start, completion),
		})
		coords = append(coords, c.resolveCoordinates(row))
	}

	report.ImputedCoordinates = imputeProvinceCoordinates(projects, coords)
	for i := range projects {
		projects[i].HasCoordinates = coords[i].latOK && coords[i].lonOK
		projects[i].Latitude = coords[i].lat
		projects[i].Longitude = coords[i].lon
	}
	report.Accepted = len(projects)

	c.logger.InfoContext(ctx, "cleaning pass complete",
		slog.Int("total_rows", report.TotalRows),
		slog.Int("accepted", report.Accepted),
		slog.Int("rejected_year", report.RejectedYear),
		slog.Int("rejected_budget", report.RejectedBudget),
		slog.Int("rejected_cost", report.RejectedCost),
		slog.Int("imputed_completion_dates", report.ImputedCompletionDates),
		slog.Int("imputed_coordinates", report.ImputedCoordinates))

	return projects, report
}

// delayDays computes completion minus start in whole days. Either date
// missing yields 0 so downstream medians and averages stay finite.
func delayDays(start, completion *time.Time) int {
	if start == nil || completion == nil {
		return 0
	}
	return int(completion.Sub(*start) / (24 * time.Hour))
}

// resolveCoordinates prefers explicit project coordinates and falls back per
// component to the provincial-capital pair when it parses completely.
func (c *Cleaner) resolveCoordinates(row domain.RawRecord) coordState {
	var cs coordState
	cs.lat, cs.latOK = parseCoord(row[domain.ColProjectLatitude])
	cs.lon, cs.lonOK = parseCoord(row[domain.ColProjectLongitude])
	if cs.latOK && cs.lonOK {
		return cs
	}

	capLat, capLatOK := parseCoord(row[domain.ColProvincialCapitalLatitude])
	capLon, capLonOK := parseCoord(row[domain.ColProvincialCapitalLongitude])
	if !capLatOK || !capLonOK {
		return cs
	}
	if !cs.latOK {
		cs.lat, cs.latOK = capLat, true
	}
	if !cs.lonOK {
		cs.lon, cs.lonOK = capLon, true
	}
	return cs
}

// imputeProvinceCoordinates fills missing coordinate components from the
// average of fully-located projects in the same province and returns how many
// rows were imputed. Rows in provinces without any located project keep their
// missing components.
func imputeProvinceCoordinates(projects []domain.CleanedProject, coords []coordState) int {
	type provinceSum struct {
		lat, lon float64
		n        int
	}
	byProvince := make(map[string]*provinceSum)
	for i := range projects {
		if !coords[i].latOK || !coords[i].lonOK {
			continue
		}
		sum, ok := byProvince[projects[i].Province]
		if !ok {
			sum = &provinceSum{}
			byProvince[projects[i].Province] = sum
		}
		sum.lat += coords[i].lat
		sum.lon += coords[i].lon
		sum.n++
	}

	imputed := 0
	for i := range projects {
		if coords[i].latOK && coords[i].lonOK {
			continue
		}
		sum, ok := byProvince[projects[i].Province]
		if !ok || sum.n == 0 {
			continue
		}
		if !coords[i].latOK {
			coords[i].lat, coords[i].latOK = sum.lat/float64(sum.n), true
		}
		if !coords[i].lonOK {
			coords[i].lon, coords[i].lonOK = sum.lon/float64(sum.n), true
		}
		imputed++
	}
	return imputed
}

// normalizeLabel trims the raw value and substitutes the fallback label when
// nothing remains.
func normalizeLabel(raw, fallback string) string {
	if s := strings.TrimSpace(raw); s != "" {
		return s
	}
	return fallback
}

// parseCoord parses a coordinate cell, distinguishing a genuine zero value
// from a missing or malformed one.
func parseCoord(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

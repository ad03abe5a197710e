package domain

import (
	"fmt"
	"strconv"
	"time"
)

// RegionRow is one row of the regional efficiency report. EfficiencyScore is
// min-max normalized to [0,100] across the rows of a single run.
type RegionRow struct {
	Region                 string  `json:"region" db:"region"`
	MainIsland             string  `json:"main_island" db:"main_island"`
	TotalApprovedBudget    float64 `json:"total_approved_budget" db:"total_approved_budget"`
	MedianCostSavings      float64 `json:"median_cost_savings" db:"median_cost_savings"`
	AvgCompletionDelayDays float64 `json:"avg_completion_delay_days" db:"avg_completion_delay_days"`
	DelayOver30Percent     float64 `json:"delay_over_30_percent" db:"delay_over_30_percent"`
	EfficiencyScore        float64 `json:"efficiency_score" db:"efficiency_score"`
}

// CSVRow renders the row as display strings, numbers at 2 decimal places.
func (r RegionRow) CSVRow() []string {
	return []string{
		r.Region,
		r.MainIsland,
		fmt.Sprintf("%.2f", r.TotalApprovedBudget),
		fmt.Sprintf("%.2f", r.MedianCostSavings),
		fmt.Sprintf("%.2f", r.AvgCompletionDelayDays),
		fmt.Sprintf("%.2f", r.DelayOver30Percent),
		fmt.Sprintf("%.2f", r.EfficiencyScore),
	}
}

// RiskFlag labels a contractor's reliability band.
type RiskFlag string

const (
	RiskFlagHigh RiskFlag = "High Risk"
	RiskFlagOK   RiskFlag = "OK"
)

// ContractorRow is one row of the contractor reliability ranking. Rank is
// assigned after sorting by total contract cost and truncating to the top 15.
type ContractorRow struct {
	Rank                   int      `json:"rank" db:"rank"`
	Contractor             string   `json:"contractor" db:"contractor"`
	ProjectCount           int      `json:"project_count" db:"project_count"`
	AvgCompletionDelayDays float64  `json:"avg_completion_delay_days" db:"avg_completion_delay_days"`
	TotalCostSavings       float64  `json:"total_cost_savings" db:"total_cost_savings"`
	TotalContractCost      float64  `json:"total_contract_cost" db:"total_contract_cost"`
	ReliabilityIndex       float64  `json:"reliability_index" db:"reliability_index"`
	RiskFlag               RiskFlag `json:"risk_flag" db:"risk_flag"`
}

// CSVRow renders the row as display strings, numbers at 2 decimal places.
func (r ContractorRow) CSVRow() []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.Contractor,
		strconv.Itoa(r.ProjectCount),
		fmt.Sprintf("%.2f", r.AvgCompletionDelayDays),
		fmt.Sprintf("%.2f", r.TotalCostSavings),
		fmt.Sprintf("%.2f", r.TotalContractCost),
		fmt.Sprintf("%.2f", r.ReliabilityIndex),
		string(r.RiskFlag),
	}
}

// TrendRow is one row of the annual cost-trend report, one per
// (funding year, type of work) group. YoYChange is measured against the
// 2021 baseline and is always 0 for baseline-year rows.
type TrendRow struct {
	FundingYear    int     `json:"funding_year" db:"funding_year"`
	TypeOfWork     string  `json:"type_of_work" db:"type_of_work"`
	ProjectCount   int     `json:"project_count" db:"project_count"`
	AvgCostSavings float64 `json:"avg_cost_savings" db:"avg_cost_savings"`
	OverrunRate    float64 `json:"overrun_rate" db:"overrun_rate"`
	YoYChange      float64 `json:"yoy_change" db:"yoy_change"`
}

// CSVRow renders the row as display strings, numbers at 2 decimal places.
func (r TrendRow) CSVRow() []string {
	return []string{
		strconv.Itoa(r.FundingYear),
		r.TypeOfWork,
		strconv.Itoa(r.ProjectCount),
		fmt.Sprintf("%.2f", r.AvgCostSavings),
		fmt.Sprintf("%.2f", r.OverrunRate),
		fmt.Sprintf("%.2f", r.YoYChange),
	}
}

// Summary holds dataset-wide totals for one reporting run. TotalCostSavings
// is pre-formatted with thousands separators for display, as the report
// consumers expect.
type Summary struct {
	RunID                  string    `json:"run_id" db:"run_id"`
	GeneratedAt            time.Time `json:"generated_at" db:"generated_at"`
	SourceFile             string    `json:"source_file,omitempty" db:"source_file"`
	TotalProjects          int       `json:"total_projects" db:"total_projects"`
	QualifiedContractors   int       `json:"qualified_contractors" db:"qualified_contractors"`
	RegionGroups           int       `json:"region_groups" db:"region_groups"`
	DistinctProvinces      int       `json:"distinct_provinces" db:"distinct_provinces"`
	AvgCompletionDelayDays float64   `json:"avg_completion_delay_days" db:"avg_completion_delay_days"`
	TotalCostSavings       string    `json:"total_cost_savings" db:"total_cost_savings"`
	TrendEntries           int       `json:"trend_entries" db:"trend_entries"`
}

// ReportSet bundles the output of one full reporting run.
type ReportSet struct {
	Regions     []RegionRow     `json:"regions"`
	Contractors []ContractorRow `json:"contractors"`
	Trends      []TrendRow      `json:"trends"`
	Summary     Summary         `json:"summary"`
}

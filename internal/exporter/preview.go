package exporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// DefaultPreviewRows is how many rows of each report a console preview shows.
const DefaultPreviewRows = 3

// PreviewRegions renders the first limit regional rows as a console table.
// Money columns are thousands-grouped for readability; the CSV artifacts
// keep plain fixed-point cells.
func PreviewRegions(w io.Writer, rows []domain.RegionRow, limit int) {
	table := newPreviewTable(w, RegionalHeaders)
	for _, r := range clip(rows, limit) {
		table.Append([]string{
			r.Region,
			r.MainIsland,
			stats.FormatNumber(r.TotalApprovedBudget, 2),
			stats.FormatNumber(r.MedianCostSavings, 2),
			fmt.Sprintf("%.2f", r.AvgCompletionDelayDays),
			fmt.Sprintf("%.2f", r.DelayOver30Percent),
			fmt.Sprintf("%.2f", r.EfficiencyScore),
		})
	}
	table.Render()
}

// PreviewContractors renders the first limit contractor rows.
func PreviewContractors(w io.Writer, rows []domain.ContractorRow, limit int) {
	table := newPreviewTable(w, ContractorHeaders)
	for _, r := range clip(rows, limit) {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Contractor,
			strconv.Itoa(r.ProjectCount),
			fmt.Sprintf("%.2f", r.AvgCompletionDelayDays),
			stats.FormatNumber(r.TotalCostSavings, 2),
			stats.FormatNumber(r.TotalContractCost, 2),
			fmt.Sprintf("%.2f", r.ReliabilityIndex),
			string(r.RiskFlag),
		})
	}
	table.Render()
}

// PreviewTrends renders the first limit trend rows.
func PreviewTrends(w io.Writer, rows []domain.TrendRow, limit int) {
	table := newPreviewTable(w, TrendHeaders)
	for _, r := range clip(rows, limit) {
		table.Append([]string{
			strconv.Itoa(r.FundingYear),
			r.TypeOfWork,
			strconv.Itoa(r.ProjectCount),
			stats.FormatNumber(r.AvgCostSavings, 2),
			fmt.Sprintf("%.2f", r.OverrunRate),
			fmt.Sprintf("%.2f", r.YoYChange),
		})
	}
	table.Render()
}

// PreviewSummary renders the run summary as a two-column table.
func PreviewSummary(w io.Writer, s domain.Summary) {
	table := newPreviewTable(w, []string{"Metric", "Value"})
	table.Append([]string{"Total Projects", strconv.Itoa(s.TotalProjects)})
	table.Append([]string{"Qualified Contractors", strconv.Itoa(s.QualifiedContractors)})
	table.Append([]string{"Region Groups", strconv.Itoa(s.RegionGroups)})
	table.Append([]string{"Distinct Provinces", strconv.Itoa(s.DistinctProvinces)})
	table.Append([]string{"Avg Completion Delay (days)", fmt.Sprintf("%.2f", s.AvgCompletionDelayDays)})
	table.Append([]string{"Total Cost Savings", s.TotalCostSavings})
	table.Render()
}

// newPreviewTable applies the shared preview table style.
func newPreviewTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func clip[T any](rows []T, limit int) []T {
	if limit <= 0 || limit >= len(rows) {
		return rows
	}
	return rows[:limit]
}

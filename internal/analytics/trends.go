package analytics

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/samber/lo"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// trendKey groups projects by funding year and type of work.
type trendKey struct {
	Year       int
	TypeOfWork string
}

// TrendReport groups the cleaned set by (funding year, type of work) and
// measures each year against the baseline year's weighted average savings.
// Rows sort by year ascending, then average savings descending, then type of
// work ascending so equal-savings groups order deterministically.
func (a *Analyzer) TrendReport(ctx context.Context, projects []domain.CleanedProject) ([]domain.TrendRow, error) {
	if len(projects) == 0 {
		return nil, ErrNoValidData
	}

	groups := lo.GroupBy(projects, func(p domain.CleanedProject) trendKey {
		return trendKey{Year: p.FundingYear, TypeOfWork: p.TypeOfWork}
	})

	// The year aggregate weights by project count: total savings across the
	// year divided by the year's project count, not a mean of group means.
	yearAvg := make(map[int]float64)
	for year, members := range lo.GroupBy(projects, func(p domain.CleanedProject) int { return p.FundingYear }) {
		total := lo.SumBy(members, func(p domain.CleanedProject) float64 { return p.CostSavings })
		yearAvg[year] = total / float64(len(members))
	}
	baseline := yearAvg[a.config.BaselineYear]

	rows := make([]domain.TrendRow, 0, len(groups))
	for key, members := range groups {
		savings := lo.Map(members, func(p domain.CleanedProject, _ int) float64 { return p.CostSavings })
		overruns := lo.CountBy(members, func(p domain.CleanedProject) bool { return p.CostSavings < 0 })

		yoy := 0.0
		if key.Year != a.config.BaselineYear {
			yoy = stats.Round2((yearAvg[key.Year] - baseline) / math.Max(math.Abs(baseline), 1) * 100)
		}

		rows = append(rows, domain.TrendRow{
			FundingYear:    key.Year,
			TypeOfWork:     key.TypeOfWork,
			ProjectCount:   len(members),
			AvgCostSavings: stats.Round2(stats.Average(savings)),
			OverrunRate:    stats.Round2(100 * float64(overruns) / float64(len(members))),
			YoYChange:      yoy,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FundingYear != rows[j].FundingYear {
			return rows[i].FundingYear < rows[j].FundingYear
		}
		if rows[i].AvgCostSavings != rows[j].AvgCostSavings {
			return rows[i].AvgCostSavings > rows[j].AvgCostSavings
		}
		return rows[i].TypeOfWork < rows[j].TypeOfWork
	})

	a.logger.DebugContext(ctx, "trend report generated",
		slog.Int("groups", len(rows)),
		slog.Int("years", len(yearAvg)))

	return rows, nil
}

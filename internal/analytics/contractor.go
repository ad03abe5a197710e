package analytics

import (
	"context"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

type contractorAgg struct {
	name         string
	count        int
	delays       []float64
	totalSavings float64
	totalCost    float64
}

// ContractorReport groups the cleaned set by contractor, drops groups with
// fewer than the configured minimum of projects, scores the remainder, and
// returns the top rows by total contract cost with ranks assigned.
func (a *Analyzer) ContractorReport(ctx context.Context, projects []domain.CleanedProject) ([]domain.ContractorRow, error) {
	if len(projects) == 0 {
		return nil, ErrNoValidData
	}

	groups := make(map[string]*contractorAgg)
	order := make([]*contractorAgg, 0)
	for _, p := range projects {
		// Cleaning guarantees a non-empty contractor; skip defensively.
		if p.Contractor == "" {
			continue
		}
		agg, ok := groups[p.Contractor]
		if !ok {
			agg = &contractorAgg{name: p.Contractor}
			groups[p.Contractor] = agg
			order = append(order, agg)
		}
		agg.count++
		agg.delays = append(agg.delays, float64(p.CompletionDelayDays))
		agg.totalSavings += p.CostSavings
		agg.totalCost += p.ContractCost
	}

	qualified := lo.Filter(order, func(agg *contractorAgg, _ int) bool {
		return agg.count >= a.config.MinProjectsPerContractor
	})

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].totalCost > qualified[j].totalCost
	})
	if len(qualified) > a.config.MaxContractorRows {
		qualified = qualified[:a.config.MaxContractorRows]
	}

	rows := make([]domain.ContractorRow, 0, len(qualified))
	for i, agg := range qualified {
		avgDelay := stats.Average(agg.delays)
		index := stats.Round2(resolveScore((1 - avgDelay/a.config.ReliabilityDelaySpan) * (agg.totalSavings / agg.totalCost) * 100))

		flag := domain.RiskFlagOK
		if index < a.config.HighRiskBelow {
			flag = domain.RiskFlagHigh
		}

		rows = append(rows, domain.ContractorRow{
			Rank:                   i + 1,
			Contractor:             agg.name,
			ProjectCount:           agg.count,
			AvgCompletionDelayDays: stats.Round2(avgDelay),
			TotalCostSavings:       stats.Round2(agg.totalSavings),
			TotalContractCost:      stats.Round2(agg.totalCost),
			ReliabilityIndex:       index,
			RiskFlag:               flag,
		})
	}

	a.logger.DebugContext(ctx, "contractor report generated",
		slog.Int("contractors_seen", len(order)),
		slog.Int("qualified", len(rows)))

	return rows, nil
}

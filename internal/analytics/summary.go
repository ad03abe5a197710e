package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// Summarize computes the dataset-wide totals for one run. The contractor and
// region rows feed the post-filter counts; the remaining figures come from
// the cleaned set itself. Each summary carries a fresh run ID.
func (a *Analyzer) Summarize(ctx context.Context, projects []domain.CleanedProject, contractorRows []domain.ContractorRow, regionRows []domain.RegionRow) (domain.Summary, error) {
	if len(projects) == 0 {
		return domain.Summary{}, ErrNoValidData
	}

	delays := lo.Map(projects, func(p domain.CleanedProject, _ int) float64 {
		return float64(p.CompletionDelayDays)
	})
	totalSavings := lo.SumBy(projects, func(p domain.CleanedProject) float64 {
		return p.CostSavings
	})
	provinces := lo.Uniq(lo.Map(projects, func(p domain.CleanedProject, _ int) string {
		return p.Province
	}))

	summary := domain.Summary{
		RunID:                  uuid.NewString(),
		GeneratedAt:            time.Now().UTC(),
		TotalProjects:          len(projects),
		QualifiedContractors:   len(contractorRows),
		RegionGroups:           len(regionRows),
		DistinctProvinces:      len(provinces),
		AvgCompletionDelayDays: stats.Round2(stats.Average(delays)),
		TotalCostSavings:       stats.FormatNumber(totalSavings, 2),
	}

	a.logger.DebugContext(ctx, "summary computed",
		slog.String("run_id", summary.RunID),
		slog.Int("total_projects", summary.TotalProjects))

	return summary, nil
}

package analytics

import (
	"context"
	"log/slog"
	"sort"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// regionKey groups projects by region and main island. A struct key avoids
// the delimiter collisions a concatenated string key would invite.
type regionKey struct {
	Region     string
	MainIsland string
}

type regionAgg struct {
	totalBudget float64
	savings     []float64
	delays      []float64
	lateCount   int
	count       int
}

// RegionalReport groups the cleaned set by (region, main island), computes
// the per-group metrics, and min-max normalizes the efficiency score to
// [0,100] across the run. Rows sort by score descending; ties keep the order
// in which groups first appear in the input.
func (a *Analyzer) RegionalReport(ctx context.Context, projects []domain.CleanedProject) ([]domain.RegionRow, error) {
	if len(projects) == 0 {
		return nil, ErrNoValidData
	}

	groups := make(map[regionKey]*regionAgg)
	order := make([]regionKey, 0)
	for _, p := range projects {
		key := regionKey{Region: p.Region, MainIsland: p.MainIsland}
		agg, ok := groups[key]
		if !ok {
			agg = &regionAgg{}
			groups[key] = agg
			order = append(order, key)
		}
		agg.totalBudget += p.ApprovedBudget
		agg.savings = append(agg.savings, p.CostSavings)
		agg.delays = append(agg.delays, float64(p.CompletionDelayDays))
		if p.CompletionDelayDays > a.config.DelayThresholdDays {
			agg.lateCount++
		}
		agg.count++
	}

	rows := make([]domain.RegionRow, 0, len(order))
	raw := make([]float64, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		medianSavings := stats.Median(agg.savings)
		avgDelay := stats.Average(agg.delays)

		// Raw efficiency is undefined for non-positive average delay and
		// meaningless when negative; both collapse to 0 before scaling.
		score := 0.0
		if avgDelay > 0 {
			score = nonNegativeFinite(medianSavings / avgDelay)
		}
		raw = append(raw, score)

		rows = append(rows, domain.RegionRow{
			Region:                 key.Region,
			MainIsland:             key.MainIsland,
			TotalApprovedBudget:    stats.Round2(agg.totalBudget),
			MedianCostSavings:      medianSavings,
			AvgCompletionDelayDays: stats.Round2(avgDelay),
			DelayOver30Percent:     stats.Round2(100 * float64(agg.lateCount) / float64(agg.count)),
		})
	}

	for i, v := range normalizeToRange(raw, 100) {
		rows[i].EfficiencyScore = stats.Round2(v)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EfficiencyScore > rows[j].EfficiencyScore
	})

	a.logger.DebugContext(ctx, "regional report generated",
		slog.Int("groups", len(rows)),
		slog.Int("projects", len(projects)))

	return rows, nil
}

// normalizeToRange min-max scales values into [0, span]. A degenerate range,
// from a single value or from all values being equal, maps everything to 0.
func normalizeToRange(values []float64, span float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scaled := make([]float64, len(values))
	if max-min < 1e-9 {
		return scaled
	}
	for i, v := range values {
		scaled[i] = (v - min) / (max - min) * span
	}
	return scaled
}

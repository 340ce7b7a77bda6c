package stats

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/jengzang/wifi-coverage-backend/internal/coverage"
)

// GridSummary describes the distribution of signal values in a heatmap
type GridSummary struct {
	Cells           int     `json:"cells"`
	CoveredCells    int     `json:"coveredCells"`
	CoveredFraction float64 `json:"coveredFraction"`

	// Distribution over covered cells only; zero when nothing is covered
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	P10    float64 `json:"p10"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`

	// Bands counts every cell per quality band; uncovered cells are weak
	Bands map[coverage.Quality]int `json:"bands"`
}

// SummarizeGrid computes GridSummary. Cells without a contributing
// transmitter are excluded from the distribution.
func SummarizeGrid(grid coverage.Grid, thresholds coverage.Thresholds) GridSummary {
	summary := GridSummary{Bands: make(map[coverage.Quality]int, len(coverage.Qualities))}
	for _, q := range coverage.Qualities {
		summary.Bands[q] = 0
	}

	var covered []float64
	for r, row := range grid.Values {
		for c, v := range row {
			summary.Cells++
			if !grid.IsCovered(r, c) {
				summary.Bands[coverage.QualityWeak]++
				continue
			}
			covered = append(covered, v)
			summary.Bands[thresholds.Classify(v)]++
		}
	}

	summary.CoveredCells = len(covered)
	if summary.Cells > 0 {
		summary.CoveredFraction = float64(summary.CoveredCells) / float64(summary.Cells)
	}
	if len(covered) == 0 {
		return summary
	}

	sort.Float64s(covered)
	summary.Min = floats.Min(covered)
	summary.Max = floats.Max(covered)
	summary.Mean, summary.StdDev = stat.MeanStdDev(covered, nil)
	if len(covered) == 1 {
		summary.StdDev = 0
	}
	summary.P10 = stat.Quantile(0.1, stat.Empirical, covered, nil)
	summary.P50 = stat.Quantile(0.5, stat.Empirical, covered, nil)
	summary.P90 = stat.Quantile(0.9, stat.Empirical, covered, nil)

	return summary
}

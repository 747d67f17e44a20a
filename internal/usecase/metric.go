package usecase

import (
	"fmt"
	"strings"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
)

// Metric names a tracked box-score category. Dispatch is an explicit
// enumeration to typed accessors, never field-name reflection.
type Metric string

const (
	MetricPoints   Metric = "points"
	MetricFG3M     Metric = "fg3m"
	MetricAssists  Metric = "assists"
	MetricRebounds Metric = "rebounds"
	MetricSteals   Metric = "steals"
	MetricBlocks   Metric = "blocks"
)

// trackedMetrics is the fixed set the streak scan covers, in stable order.
var trackedMetrics = []Metric{
	MetricPoints,
	MetricFG3M,
	MetricAssists,
	MetricRebounds,
	MetricSteals,
	MetricBlocks,
}

func ParseMetric(raw string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(raw))) {
	case MetricPoints:
		return MetricPoints, nil
	case MetricFG3M:
		return MetricFG3M, nil
	case MetricAssists:
		return MetricAssists, nil
	case MetricRebounds:
		return MetricRebounds, nil
	case MetricSteals:
		return MetricSteals, nil
	case MetricBlocks:
		return MetricBlocks, nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, raw)
	}
}

// Value reads this metric from a single stat line.
func (m Metric) Value(line stat.Line) int {
	switch m {
	case MetricPoints:
		return line.Points
	case MetricFG3M:
		return line.FG3M
	case MetricAssists:
		return line.Assists
	case MetricRebounds:
		return line.Rebounds
	case MetricSteals:
		return line.Steals
	case MetricBlocks:
		return line.Blocks
	default:
		return 0
	}
}

// SeasonValue reads this metric's per-game mean from a season average row.
func (m Metric) SeasonValue(avg average.SeasonAverage) float64 {
	switch m {
	case MetricPoints:
		return avg.Points
	case MetricFG3M:
		return avg.FG3M
	case MetricAssists:
		return avg.Assists
	case MetricRebounds:
		return avg.Rebounds
	case MetricSteals:
		return avg.Steals
	case MetricBlocks:
		return avg.Blocks
	default:
		return 0
	}
}

package usecase

import (
	"errors"
	"testing"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
)

func TestParseMetric(t *testing.T) {
	for _, raw := range []string{"points", " Points ", "REBOUNDS", "fg3m", "assists", "steals", "blocks"} {
		if _, err := ParseMetric(raw); err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
	}

	if _, err := ParseMetric("dunks"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestMetricAccessors(t *testing.T) {
	line := stat.Line{Points: 30, FG3M: 5, Assists: 8, Rebounds: 11, Steals: 2, Blocks: 1}
	avg := average.SeasonAverage{Points: 27.5, FG3M: 3.1, Assists: 7.2, Rebounds: 9.9, Steals: 1.4, Blocks: 0.8}

	cases := []struct {
		metric    Metric
		lineValue int
		avgValue  float64
	}{
		{MetricPoints, 30, 27.5},
		{MetricFG3M, 5, 3.1},
		{MetricAssists, 8, 7.2},
		{MetricRebounds, 11, 9.9},
		{MetricSteals, 2, 1.4},
		{MetricBlocks, 1, 0.8},
	}
	for _, tc := range cases {
		if got := tc.metric.Value(line); got != tc.lineValue {
			t.Fatalf("%s line value = %d, want %d", tc.metric, got, tc.lineValue)
		}
		if got := tc.metric.SeasonValue(avg); got != tc.avgValue {
			t.Fatalf("%s season value = %f, want %f", tc.metric, got, tc.avgValue)
		}
	}
}

package usecase

import (
	"errors"
	"testing"

	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
)

func rollingLines(points []int) []stat.Line {
	out := make([]stat.Line, 0, len(points))
	for i, value := range points {
		opponent := int64(2)
		if i%3 == 0 {
			opponent = 3
		}
		out = append(out, stat.Line{
			PlayerID: 100, GameID: int64(i + 1), TeamID: 1,
			IsHome:   i%2 == 0,
			Points:   value,
			GameDate: gameDay(i + 1), GameSeason: 2023, OpponentTeamID: opponent,
		})
	}
	return out
}

func TestAnalyzeRollingWindows_TwoFullWindows(t *testing.T) {
	// 10 games, window 5: hits at 30,28,26 in window 1 and 27,25 in window 2
	lines := rollingLines([]int{30, 28, 10, 26, 12, 27, 11, 25, 9, 14})

	report := AnalyzeRollingWindows(lines, MetricPoints, 25, 5)
	if report.InsufficientData {
		t.Fatalf("unexpected insufficient data")
	}
	if report.WindowCount != 2 {
		t.Fatalf("unexpected window count: %d", report.WindowCount)
	}
	if report.TotalGamesInWindows != 10 {
		t.Fatalf("unexpected games in windows: %d", report.TotalGamesInWindows)
	}
	if report.TotalHits != 5 {
		t.Fatalf("unexpected hits: %d", report.TotalHits)
	}
	if report.OverallRate != 50.0 {
		t.Fatalf("unexpected overall rate: %f", report.OverallRate)
	}
	if report.Windows[0].Hits != 3 || report.Windows[1].Hits != 2 {
		t.Fatalf("unexpected per-window hits: %+v", report.Windows)
	}
	if report.Windows[0].Rate != 60.0 || report.Windows[1].Rate != 40.0 {
		t.Fatalf("unexpected per-window rates: %+v", report.Windows)
	}
}

func TestAnalyzeRollingWindows_TrailingPartialDiscarded(t *testing.T) {
	// windowSize + 3 games: exactly one window, three trailing games ignored
	lines := rollingLines([]int{30, 28, 31, 29, 10, 12, 8, 9, 20, 22, 40, 41, 42})

	report := AnalyzeRollingWindows(lines, MetricPoints, 25, 10)
	if report.WindowCount != 1 {
		t.Fatalf("unexpected window count: %d", report.WindowCount)
	}
	if report.TotalGames != 13 {
		t.Fatalf("unexpected total games: %d", report.TotalGames)
	}
	if report.TotalGamesInWindows != 10 {
		t.Fatalf("trailing games leaked into windows: %d", report.TotalGamesInWindows)
	}
	// the three 40+ games past the window boundary must not count
	if report.TotalHits != 4 {
		t.Fatalf("unexpected hits: %d", report.TotalHits)
	}
	if report.OverallRate != 40.0 {
		t.Fatalf("unexpected overall rate: %f", report.OverallRate)
	}
}

func TestAnalyzeRollingWindows_TwelveGameScenario(t *testing.T) {
	lines := rollingLines([]int{30, 28, 31, 29, 10, 12, 8, 9, 20, 22, 24, 26})

	report := AnalyzeRollingWindows(lines, MetricPoints, 25, 10)
	if report.WindowCount != 1 {
		t.Fatalf("unexpected window count: %d", report.WindowCount)
	}
	if report.TotalHits != 4 {
		t.Fatalf("unexpected hits: %d", report.TotalHits)
	}
	if report.OverallRate != 40.0 {
		t.Fatalf("unexpected overall rate: %f", report.OverallRate)
	}
}

func TestAnalyzeRollingWindows_SplitsAndOpponents(t *testing.T) {
	lines := rollingLines([]int{30, 10, 30, 10, 30, 10})

	report := AnalyzeRollingWindows(lines, MetricPoints, 25, 3)
	// even indices are home and score 30, odd are away and score 10
	if report.Home.Games != 3 || report.Home.Hits != 3 || report.Home.Rate != 100.0 {
		t.Fatalf("unexpected home split: %+v", report.Home)
	}
	if report.Away.Games != 3 || report.Away.Hits != 0 || report.Away.Rate != 0.0 {
		t.Fatalf("unexpected away split: %+v", report.Away)
	}

	if len(report.Opponents) != 2 {
		t.Fatalf("unexpected opponent count: %+v", report.Opponents)
	}
	if report.Opponents[0].OpponentTeamID != 2 || report.Opponents[1].OpponentTeamID != 3 {
		t.Fatalf("opponents not ordered: %+v", report.Opponents)
	}
	// opponent 3 faces games 1 and 4 (points 30, 10)
	if report.Opponents[1].Games != 2 || report.Opponents[1].Hits != 1 || report.Opponents[1].Rate != 50.0 {
		t.Fatalf("unexpected opponent breakdown: %+v", report.Opponents[1])
	}
}

func TestAnalyzeRollingWindows_InsufficientData(t *testing.T) {
	lines := rollingLines([]int{30, 28})

	report := AnalyzeRollingWindows(lines, MetricPoints, 25, 5)
	if !report.InsufficientData {
		t.Fatalf("expected insufficient data")
	}
	if report.WindowCount != 0 || report.TotalGamesInWindows != 0 {
		t.Fatalf("insufficient-data report not empty: %+v", report)
	}
}

func TestRollingService_AnalyzePlayer(t *testing.T) {
	stats := memory.NewStatRepository()
	for _, line := range rollingLines([]int{30, 28, 31, 29, 10, 12, 8, 9, 20, 22, 24, 26}) {
		if _, err := stats.Insert(t.Context(), line); err != nil {
			t.Fatalf("seed stat line: %v", err)
		}
	}

	svc := NewRollingService(stats, nil)
	report, err := svc.AnalyzePlayer(t.Context(), 100, 2023, MetricPoints, 25, 10)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if report.PlayerID != 100 || report.Season != 2023 {
		t.Fatalf("identifiers missing: %+v", report)
	}
	if report.OverallRate != 40.0 {
		t.Fatalf("unexpected overall rate: %f", report.OverallRate)
	}
}

func TestRollingService_AnalyzePlayer_InvalidInput(t *testing.T) {
	svc := NewRollingService(memory.NewStatRepository(), nil)

	if _, err := svc.AnalyzePlayer(t.Context(), 0, 2023, MetricPoints, 25, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for player id, got %v", err)
	}
	if _, err := svc.AnalyzePlayer(t.Context(), 100, 2023, Metric("dunks"), 25, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for metric, got %v", err)
	}
	if _, err := svc.AnalyzePlayer(t.Context(), 100, 2023, MetricPoints, 25, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for window size, got %v", err)
	}
}

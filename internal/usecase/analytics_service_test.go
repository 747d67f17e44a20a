package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
)

type analyticsFixture struct {
	stats     *memory.StatRepository
	averages  *memory.AverageRepository
	standings *memory.StandingRepository
	headhead  *memory.HeadToHeadRepository
	streaks   *memory.StreakRepository
	service   *AnalyticsService
}

func newAnalyticsFixture(cacheStore *cache.Store) *analyticsFixture {
	f := &analyticsFixture{
		stats:     memory.NewStatRepository(),
		averages:  memory.NewAverageRepository(),
		standings: memory.NewStandingRepository(),
		headhead:  memory.NewHeadToHeadRepository(),
		streaks:   memory.NewStreakRepository(),
	}
	f.service = NewAnalyticsService(f.stats, f.averages, f.standings, f.headhead, f.streaks, cacheStore)
	return f
}

func TestAnalyticsService_SeasonAverages_NotFound(t *testing.T) {
	f := newAnalyticsFixture(nil)

	if _, err := f.service.SeasonAverages(t.Context(), 100, 2023); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAnalyticsService_Standings_Cached(t *testing.T) {
	f := newAnalyticsFixture(cache.NewStore(time.Minute))

	seed := []standing.TeamStanding{{TeamID: 1, Season: 2023, Wins: 10, Losses: 2, WinPct: 10.0 / 12.0}}
	if err := f.standings.ReplaceBySeason(t.Context(), 2023, seed); err != nil {
		t.Fatalf("seed standings: %v", err)
	}

	first, err := f.service.Standings(t.Context(), 2023)
	if err != nil || len(first) != 1 {
		t.Fatalf("standings read failed: %d rows (err %v)", len(first), err)
	}

	// replace the backing rows; the cached copy should still be served
	if err := f.standings.ReplaceBySeason(t.Context(), 2023, nil); err != nil {
		t.Fatalf("clear standings: %v", err)
	}
	second, err := f.service.Standings(t.Context(), 2023)
	if err != nil || len(second) != 1 {
		t.Fatalf("cache miss on warm key: %d rows (err %v)", len(second), err)
	}
}

func TestAnalyticsService_HeadToHead_EitherOrder(t *testing.T) {
	f := newAnalyticsFixture(nil)

	seed := []headtohead.Record{{Team1ID: 3, Team2ID: 7, Season: 2023, Team1Wins: 2, Team2Wins: 1, GamesPlayed: 3}}
	if err := f.headhead.ReplaceBySeason(t.Context(), 2023, seed); err != nil {
		t.Fatalf("seed head-to-head: %v", err)
	}

	row, err := f.service.HeadToHead(t.Context(), 7, 3, 2023)
	if err != nil {
		t.Fatalf("head-to-head lookup failed: %v", err)
	}
	if row.Team1ID != 3 || row.Team2ID != 7 || row.GamesPlayed != 3 {
		t.Fatalf("unexpected record: %+v", row)
	}

	if _, err := f.service.HeadToHead(t.Context(), 7, 7, 2023); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for same team, got %v", err)
	}
}

func seedComparisonLines(t *testing.T, stats *memory.StatRepository, playerID int64, season int, points []int) {
	t.Helper()
	for i, value := range points {
		line := stat.Line{
			PlayerID: playerID, GameID: int64(season*100 + i), TeamID: 1,
			Points:   value,
			GameDate: time.Date(season+1, time.January, i+1, 0, 0, 0, 0, time.UTC),
			GameSeason: season, OpponentTeamID: 2,
		}
		if _, err := stats.Insert(t.Context(), line); err != nil {
			t.Fatalf("seed stat line: %v", err)
		}
	}
}

func TestAnalyticsService_CompareSeasons(t *testing.T) {
	f := newAnalyticsFixture(nil)
	seedComparisonLines(t, f.stats, 100, 2022, []int{20, 22, 24})
	seedComparisonLines(t, f.stats, 100, 2023, []int{26, 28, 30})

	out, err := f.service.CompareSeasons(t.Context(), 100, MetricPoints, 2022, 2023)
	if err != nil {
		t.Fatalf("compare seasons failed: %v", err)
	}

	if out.First.Average != 22 || out.First.Total != 66 || out.First.GamesPlayed != 3 {
		t.Fatalf("unexpected first summary: %+v", out.First)
	}
	if out.Second.Average != 28 {
		t.Fatalf("unexpected second summary: %+v", out.Second)
	}
	if out.Difference != 6 {
		t.Fatalf("unexpected difference: %f", out.Difference)
	}
	if out.PctChange != 27.3 {
		t.Fatalf("unexpected pct change: %f", out.PctChange)
	}
	if out.Trend != "up" {
		t.Fatalf("unexpected trend: %s", out.Trend)
	}
}

func TestAnalyticsService_CompareSeasons_MissingSeason(t *testing.T) {
	f := newAnalyticsFixture(nil)
	seedComparisonLines(t, f.stats, 100, 2022, []int{20})

	if _, err := f.service.CompareSeasons(t.Context(), 100, MetricPoints, 2022, 2023); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.service.CompareSeasons(t.Context(), 100, MetricPoints, 2022, 2022); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for same season, got %v", err)
	}
}

func TestAnalyticsService_ComparePlayers(t *testing.T) {
	f := newAnalyticsFixture(nil)

	rows := []average.SeasonAverage{
		{PlayerID: 100, Season: 2023, Points: 28, Rebounds: 8, Assists: 4, FGPct: 0.51, Turnovers: 3.1},
		{PlayerID: 200, Season: 2023, Points: 24, Rebounds: 11, Assists: 4, FGPct: 0.47, Turnovers: 2.0},
	}
	if err := f.averages.ReplaceBySeason(t.Context(), 2023, rows); err != nil {
		t.Fatalf("seed averages: %v", err)
	}

	out, err := f.service.ComparePlayers(t.Context(), 100, 200, 2023)
	if err != nil {
		t.Fatalf("compare players failed: %v", err)
	}

	if out.Winners["points"] != 100 {
		t.Fatalf("points winner wrong: %d", out.Winners["points"])
	}
	if out.Winners["rebounds"] != 200 {
		t.Fatalf("rebounds winner wrong: %d", out.Winners["rebounds"])
	}
	if out.Winners["assists"] != 0 {
		t.Fatalf("assists tie not reported: %d", out.Winners["assists"])
	}
	// fewer turnovers wins
	if out.Winners["turnovers"] != 200 {
		t.Fatalf("turnovers winner wrong: %d", out.Winners["turnovers"])
	}
}

func TestAnalyticsService_FilteredSeasonAverages(t *testing.T) {
	f := newAnalyticsFixture(nil)

	for i := 0; i < 6; i++ {
		line := stat.Line{
			PlayerID: 100, GameID: int64(i + 1), TeamID: 1,
			IsHome:   i < 3,
			Points:   10 * (i + 1),
			GameDate: gameDay(i + 1), GameSeason: 2023,
			OpponentTeamID: int64(2 + i%2),
		}
		if _, err := f.stats.Insert(t.Context(), line); err != nil {
			t.Fatalf("seed stat line: %v", err)
		}
	}

	home, err := f.service.FilteredSeasonAverages(t.Context(), 100, 2023, StatFilter{Location: "home"})
	if err != nil {
		t.Fatalf("home filter failed: %v", err)
	}
	if home.Averages.GamesPlayed != 3 || home.Averages.Points != 20 {
		t.Fatalf("unexpected home averages: %+v", home.Averages)
	}

	opponent, err := f.service.FilteredSeasonAverages(t.Context(), 100, 2023, StatFilter{OpponentTeamID: 3})
	if err != nil {
		t.Fatalf("opponent filter failed: %v", err)
	}
	if opponent.Averages.GamesPlayed != 3 {
		t.Fatalf("unexpected opponent games: %d", opponent.Averages.GamesPlayed)
	}

	if _, err := f.service.FilteredSeasonAverages(t.Context(), 100, 2023, StatFilter{Location: "court"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for location, got %v", err)
	}
	if _, err := f.service.FilteredSeasonAverages(t.Context(), 100, 2023, StatFilter{OpponentTeamID: 99}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for empty filter result, got %v", err)
	}
}

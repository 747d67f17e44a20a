package usecase

import (
	"reflect"
	"testing"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
)

func seasonLine(playerID int64, gameID int64, day int, points int) stat.Line {
	return stat.Line{
		PlayerID:       playerID,
		GameID:         gameID,
		TeamID:         1,
		IsHome:         day%2 == 0,
		Minutes:        "36:00",
		FGM:            points / 3,
		FGA:            points / 3 * 2,
		Points:         points,
		GameDate:       gameDay(day),
		GameSeason:     2023,
		OpponentTeamID: 2,
	}
}

func completedGame(id int64, day int, homeID, visitorID int64, homeScore, visitorScore int) game.Game {
	return game.Game{
		ID:            id,
		Date:          gameDay(day),
		Season:        2023,
		Status:        "Final",
		HomeTeamID:    homeID,
		VisitorTeamID: visitorID,
		HomeScore:     intPtr(homeScore),
		VisitorScore:  intPtr(visitorScore),
	}
}

func TestComputeSeasonAverages_FloorAndDerivedPcts(t *testing.T) {
	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	lines := []stat.Line{}
	for i := 0; i < 5; i++ {
		lines = append(lines, stat.Line{
			PlayerID: 100, GameID: int64(5000 + i), TeamID: 1,
			Minutes: "30:00", FGM: 10, FGA: 20, FG3M: 2, FG3A: 6, FTM: 3, FTA: 4,
			Rebounds: 8, Assists: 5, Points: 25,
			GameDate: gameDay(i + 1), GameSeason: 2023, OpponentTeamID: 2,
		})
	}
	// under the games floor, no row expected
	for i := 0; i < 4; i++ {
		lines = append(lines, seasonLine(200, int64(6000+i), i+1, 12))
	}

	out := computeSeasonAverages(lines, 2023, now)

	if _, ok := out[200]; ok {
		t.Fatalf("player under games floor got an average row")
	}
	row, ok := out[100]
	if !ok {
		t.Fatalf("player 100 missing from averages")
	}
	if row.GamesPlayed != 5 {
		t.Fatalf("unexpected games played: %d", row.GamesPlayed)
	}
	if row.Points != 25 {
		t.Fatalf("unexpected points average: %f", row.Points)
	}
	if row.FGPct != 0.5 {
		t.Fatalf("unexpected fg pct: %f", row.FGPct)
	}
	// TS% = 125 / (2 * (100 + 0.44*20)) = 125 / 217.6
	wantTS := 125.0 / 217.6
	if diff := row.TrueShootingPct - wantTS; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("unexpected ts pct: %f want %f", row.TrueShootingPct, wantTS)
	}
	// eFG% = (50 + 0.5*10) / 100
	if row.EffectiveFGPct != 0.55 {
		t.Fatalf("unexpected efg pct: %f", row.EffectiveFGPct)
	}
}

func TestComputeSeasonAverages_ZeroAttemptGuards(t *testing.T) {
	lines := make([]stat.Line, 0, 5)
	for i := 0; i < 5; i++ {
		lines = append(lines, stat.Line{
			PlayerID: 100, GameID: int64(5000 + i), TeamID: 1,
			GameDate: gameDay(i + 1), GameSeason: 2023, OpponentTeamID: 2,
		})
	}

	out := computeSeasonAverages(lines, 2023, time.Now().UTC())
	row := out[100]
	if row.FGPct != 0 || row.FG3Pct != 0 || row.FTPct != 0 || row.TrueShootingPct != 0 || row.EffectiveFGPct != 0 {
		t.Fatalf("zero-attempt guard failed: %+v", row)
	}
}

func TestComputeSeasonAverages_Deterministic(t *testing.T) {
	now := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	lines := []stat.Line{}
	for i := 0; i < 6; i++ {
		lines = append(lines, seasonLine(100, int64(5000+i), i+1, 20+i))
	}

	first := computeSeasonAverages(lines, 2023, now)
	second := computeSeasonAverages(lines, 2023, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("averages not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestComputeStandings_SplitsAndStreak(t *testing.T) {
	games := []game.Game{
		completedGame(1, 1, 1, 2, 100, 90),  // team 1 home win
		completedGame(2, 2, 2, 1, 95, 101),  // team 1 away win
		completedGame(3, 3, 1, 2, 88, 92),   // team 1 home loss
		completedGame(4, 4, 1, 2, 120, 110), // team 1 home win
		completedGame(5, 5, 2, 1, 99, 108),  // team 1 away win
		{ID: 6, Date: gameDay(6), Season: 2023, Status: "Scheduled", HomeTeamID: 1, VisitorTeamID: 2},
	}

	out := computeStandings(games, 2023, time.Now().UTC())
	if len(out) != 2 {
		t.Fatalf("unexpected standings count: %d", len(out))
	}

	top := out[0]
	if top.TeamID != 1 {
		t.Fatalf("unexpected leader: %d", top.TeamID)
	}
	if top.Wins != 4 || top.Losses != 1 {
		t.Fatalf("unexpected record: %d-%d", top.Wins, top.Losses)
	}
	if top.HomeWins != 2 || top.HomeLosses != 1 || top.AwayWins != 2 || top.AwayLosses != 0 {
		t.Fatalf("unexpected splits: %+v", top)
	}
	if top.WinPct != 0.8 {
		t.Fatalf("unexpected win pct: %f", top.WinPct)
	}
	// last two games (days 4, 5) both won
	if top.Streak != "W2" {
		t.Fatalf("unexpected streak: %s", top.Streak)
	}
	if out[1].Streak != "L2" {
		t.Fatalf("unexpected loser streak: %s", out[1].Streak)
	}
}

func TestComputeHeadToHead_CanonicalPairSingleRow(t *testing.T) {
	games := []game.Game{
		completedGame(1, 1, 7, 3, 100, 90), // team 7 hosts, wins
		completedGame(2, 5, 3, 7, 99, 95),  // team 3 hosts, wins
	}

	out := computeHeadToHead(games, 2023, time.Now().UTC())
	if len(out) != 1 {
		t.Fatalf("mirrored matchups produced %d rows, want 1", len(out))
	}

	row := out[0]
	if row.Team1ID != 3 || row.Team2ID != 7 {
		t.Fatalf("pair not canonical: (%d,%d)", row.Team1ID, row.Team2ID)
	}
	if row.GamesPlayed != 2 {
		t.Fatalf("unexpected games played: %d", row.GamesPlayed)
	}
	if row.Team1Wins != 1 || row.Team2Wins != 1 {
		t.Fatalf("unexpected series: %d-%d", row.Team1Wins, row.Team2Wins)
	}
	// team 3 scored 90 then 99; team 7 scored 100 then 95
	if row.Team1AvgScore != 94.5 || row.Team2AvgScore != 97.5 {
		t.Fatalf("unexpected averages: %f / %f", row.Team1AvgScore, row.Team2AvgScore)
	}
	if !row.LastGameDate.Equal(gameDay(5)) || row.LastWinnerID != 3 || row.LastGameScore != "99-95" {
		t.Fatalf("last game fields wrong: %+v", row)
	}
}

func recentLines(pointsNewestFirst []int) []stat.Line {
	out := make([]stat.Line, 0, len(pointsNewestFirst))
	for i, points := range pointsNewestFirst {
		out = append(out, stat.Line{
			PlayerID: 100, GameID: int64(9000 - i), TeamID: 1,
			Points:   points,
			GameDate: gameDay(28 - i), GameSeason: 2023, OpponentTeamID: 2,
		})
	}
	return out
}

func TestScanStreak_HotRunOfFour(t *testing.T) {
	// season average 20 → hot threshold 24; four most recent above, fifth not
	recent := recentLines([]int{30, 26, 25, 28, 20, 31, 30, 29, 27, 26})

	row, ok := scanStreak(recent, MetricPoints, 20)
	if !ok {
		t.Fatalf("expected a streak")
	}
	if row.Type != streak.TypeHot {
		t.Fatalf("unexpected type: %s", row.Type)
	}
	if row.Length != 4 {
		t.Fatalf("unexpected length: %d", row.Length)
	}
	if row.BestValue != 30 {
		t.Fatalf("unexpected best value: %f", row.BestValue)
	}
	if row.AvgValue != 27.25 {
		t.Fatalf("unexpected avg value: %f", row.AvgValue)
	}
	if !row.StartDate.Equal(gameDay(25)) {
		t.Fatalf("unexpected start date: %s", row.StartDate)
	}
	if !row.IsActive {
		t.Fatalf("streak not active")
	}
}

func TestScanStreak_ColdRun(t *testing.T) {
	// season average 20 → cold threshold 16; three most recent at or below
	recent := recentLines([]int{12, 16, 10, 22, 25, 24, 23, 22, 21, 20})

	row, ok := scanStreak(recent, MetricPoints, 20)
	if !ok {
		t.Fatalf("expected a cold streak")
	}
	if row.Type != streak.TypeCold {
		t.Fatalf("unexpected type: %s", row.Type)
	}
	if row.Length != 3 {
		t.Fatalf("unexpected length: %d", row.Length)
	}
	if row.BestValue != 10 {
		t.Fatalf("cold best should be the lowest value: %f", row.BestValue)
	}
}

func TestScanStreak_BelowMinLength(t *testing.T) {
	// only two most recent above the hot threshold
	recent := recentLines([]int{30, 28, 20, 30, 30, 30, 30, 30, 30, 30})

	if _, ok := scanStreak(recent, MetricPoints, 20); ok {
		t.Fatalf("two-game run should not produce a streak")
	}
}

func TestAggregationService_RebuildSeason(t *testing.T) {
	games := memory.NewGameRepository()
	stats := memory.NewStatRepository()
	averages := memory.NewAverageRepository()
	standings := memory.NewStandingRepository()
	headhead := memory.NewHeadToHeadRepository()
	streaks := memory.NewStreakRepository()

	for _, g := range []game.Game{
		completedGame(1, 1, 1, 2, 100, 90),
		completedGame(2, 2, 2, 1, 95, 101),
		completedGame(3, 3, 1, 2, 88, 92),
		completedGame(4, 4, 1, 2, 120, 110),
		completedGame(5, 5, 2, 1, 99, 108),
	} {
		if _, err := games.Upsert(t.Context(), g); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}
	for i, points := range []int{22, 24, 20, 26, 28} {
		line := seasonLine(100, int64(i+1), i+1, points)
		if _, err := stats.Insert(t.Context(), line); err != nil {
			t.Fatalf("seed stat line: %v", err)
		}
	}

	svc := NewAggregationService(games, stats, averages, standings, headhead, streaks, 2, nil)
	svc.now = func() time.Time { return gameDay(6) }

	if err := svc.RebuildSeason(t.Context(), 2023); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	avg, exists, err := averages.GetByPlayerAndSeason(t.Context(), 100, 2023)
	if err != nil || !exists {
		t.Fatalf("season average missing (err %v)", err)
	}
	if avg.Points != 24 {
		t.Fatalf("unexpected points average: %f", avg.Points)
	}

	table, err := standings.ListBySeason(t.Context(), 2023)
	if err != nil || len(table) != 2 {
		t.Fatalf("standings missing: %d rows (err %v)", len(table), err)
	}

	if _, exists, err = headhead.GetByPairAndSeason(t.Context(), 2, 1, 2023); err != nil || !exists {
		t.Fatalf("head-to-head missing (err %v)", err)
	}

	// points all within 0.8x..1.2x of a 24-point average, so no streak rows
	active, err := streaks.ListByPlayerAndSeason(t.Context(), 100, 2023, true)
	if err != nil {
		t.Fatalf("list streaks failed: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("unexpected active streaks: %+v", active)
	}
}

func TestAggregationService_RebuildSeason_DetectsHotStreak(t *testing.T) {
	games := memory.NewGameRepository()
	stats := memory.NewStatRepository()
	averages := memory.NewAverageRepository()
	standings := memory.NewStandingRepository()
	headhead := memory.NewHeadToHeadRepository()
	streaks := memory.NewStreakRepository()

	// average 20 over 8 games; last three at 30 exceed the 24-point hot bar
	points := []int{14, 14, 14, 14, 14, 30, 30, 30}
	for i, value := range points {
		line := seasonLine(100, int64(i+1), i+1, value)
		if _, err := stats.Insert(t.Context(), line); err != nil {
			t.Fatalf("seed stat line: %v", err)
		}
		if _, err := games.Upsert(t.Context(), completedGame(int64(i+1), i+1, 1, 2, 100, 90)); err != nil {
			t.Fatalf("seed game: %v", err)
		}
	}

	svc := NewAggregationService(games, stats, averages, standings, headhead, streaks, 2, nil)
	svc.now = func() time.Time { return gameDay(9) }

	if err := svc.RebuildSeason(t.Context(), 2023); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	active, err := streaks.ListByPlayerAndSeason(t.Context(), 100, 2023, true)
	if err != nil {
		t.Fatalf("list streaks failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected one active streak, got %+v", active)
	}
	if active[0].Metric != string(MetricPoints) || active[0].Type != streak.TypeHot || active[0].Length != 3 {
		t.Fatalf("unexpected streak: %+v", active[0])
	}
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/platform/logging"
)

const (
	// minGamesForAverages is the floor below which per-game means are not
	// published for a player.
	minGamesForAverages = 5

	hotThresholdFactor  = 1.2
	coldThresholdFactor = 0.8
	streakWindowGames   = 10
	minStreakLength     = 3
	activePlayerWindow  = 30 * 24 * time.Hour

	defaultStreakWorkers = 8
)

// AggregationService recomputes the four derived season tables from stat
// lines and games. It only reads the raw entities, never writes them, and
// every rebuild is wholesale: identical inputs produce identical rows.
type AggregationService struct {
	games     game.Repository
	stats     stat.Repository
	averages  average.Repository
	standings standing.Repository
	headhead  headtohead.Repository
	streaks   streak.Repository

	workerCount int
	logger      *logging.Logger
	now         func() time.Time
}

func NewAggregationService(
	games game.Repository,
	stats stat.Repository,
	averages average.Repository,
	standings standing.Repository,
	headhead headtohead.Repository,
	streaks streak.Repository,
	workerCount int,
	logger *logging.Logger,
) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	if workerCount <= 0 {
		workerCount = defaultStreakWorkers
	}
	return &AggregationService{
		games:       games,
		stats:       stats,
		averages:    averages,
		standings:   standings,
		headhead:    headhead,
		streaks:     streaks,
		workerCount: workerCount,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RebuildSeason recomputes season averages, standings, head-to-head records,
// and performance streaks for one season, in that order.
func (s *AggregationService) RebuildSeason(ctx context.Context, season int) error {
	ctx, span := startUsecaseSpan(ctx, "AggregationService.RebuildSeason")
	defer span.End()

	if season <= 0 {
		return fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	lines, err := s.stats.ListBySeason(ctx, season)
	if err != nil {
		return fmt.Errorf("list stat lines season=%d: %w", season, err)
	}

	averagesByPlayer := computeSeasonAverages(lines, season, s.now())
	averageRows := make([]average.SeasonAverage, 0, len(averagesByPlayer))
	for _, row := range averagesByPlayer {
		averageRows = append(averageRows, row)
	}
	sort.SliceStable(averageRows, func(i, j int) bool { return averageRows[i].PlayerID < averageRows[j].PlayerID })
	if err := s.averages.ReplaceBySeason(ctx, season, averageRows); err != nil {
		return fmt.Errorf("replace season averages season=%d: %w", season, err)
	}
	s.logger.InfoContext(ctx, "season averages rebuilt", "season", season, "players", len(averageRows))

	games, err := s.games.ListBySeason(ctx, season)
	if err != nil {
		return fmt.Errorf("list games season=%d: %w", season, err)
	}

	standingRows := computeStandings(games, season, s.now())
	if err := s.standings.ReplaceBySeason(ctx, season, standingRows); err != nil {
		return fmt.Errorf("replace standings season=%d: %w", season, err)
	}
	s.logger.InfoContext(ctx, "standings rebuilt", "season", season, "teams", len(standingRows))

	headToHeadRows := computeHeadToHead(games, season, s.now())
	if err := s.headhead.ReplaceBySeason(ctx, season, headToHeadRows); err != nil {
		return fmt.Errorf("replace head-to-head season=%d: %w", season, err)
	}
	s.logger.InfoContext(ctx, "head-to-head rebuilt", "season", season, "pairs", len(headToHeadRows))

	if err := s.detectStreaks(ctx, season, averagesByPlayer); err != nil {
		return fmt.Errorf("detect streaks season=%d: %w", season, err)
	}
	return nil
}

// computeSeasonAverages groups stat lines by player and derives per-game
// means. Players under the games floor are skipped: a three-game sample says
// nothing useful about shooting splits.
func computeSeasonAverages(lines []stat.Line, season int, now time.Time) map[int64]average.SeasonAverage {
	byPlayer := make(map[int64][]stat.Line, 256)
	for _, line := range lines {
		byPlayer[line.PlayerID] = append(byPlayer[line.PlayerID], line)
	}

	out := make(map[int64]average.SeasonAverage, len(byPlayer))
	for playerID, playerLines := range byPlayer {
		if len(playerLines) < minGamesForAverages {
			continue
		}
		out[playerID] = averageFromLines(playerID, season, playerLines, now)
	}
	return out
}

// averageFromLines derives one per-game mean row from a non-empty set of stat
// lines. Shooting percentages come from summed makes/attempts, not from
// averaging per-game percentages.
func averageFromLines(playerID int64, season int, lines []stat.Line, now time.Time) average.SeasonAverage {
	var minutes float64
	var fgm, fga, fg3m, fg3a, ftm, fta int
	var offReb, defReb, rebounds, assists, steals, blocks, turnovers, fouls, points int
	for _, line := range lines {
		minutes += parseMinutes(line.Minutes)
		fgm += line.FGM
		fga += line.FGA
		fg3m += line.FG3M
		fg3a += line.FG3A
		ftm += line.FTM
		fta += line.FTA
		offReb += line.OffReb
		defReb += line.DefReb
		rebounds += line.Rebounds
		assists += line.Assists
		steals += line.Steals
		blocks += line.Blocks
		turnovers += line.Turnovers
		fouls += line.Fouls
		points += line.Points
	}

	n := float64(len(lines))
	row := average.SeasonAverage{
		PlayerID:    playerID,
		Season:      season,
		GamesPlayed: len(lines),
		Minutes:     minutes / n,
		FGM:         float64(fgm) / n,
		FGA:         float64(fga) / n,
		FGPct:       safeRatio(float64(fgm), float64(fga)),
		FG3M:        float64(fg3m) / n,
		FG3A:        float64(fg3a) / n,
		FG3Pct:      safeRatio(float64(fg3m), float64(fg3a)),
		FTM:         float64(ftm) / n,
		FTA:         float64(fta) / n,
		FTPct:       safeRatio(float64(ftm), float64(fta)),
		OffReb:      float64(offReb) / n,
		DefReb:      float64(defReb) / n,
		Rebounds:    float64(rebounds) / n,
		Assists:     float64(assists) / n,
		Steals:      float64(steals) / n,
		Blocks:      float64(blocks) / n,
		Turnovers:   float64(turnovers) / n,
		Fouls:       float64(fouls) / n,
		Points:      float64(points) / n,
		UpdatedAt:   now,
	}
	row.TrueShootingPct = safeRatio(float64(points), 2*(float64(fga)+0.44*float64(fta)))
	row.EffectiveFGPct = safeRatio(float64(fgm)+0.5*float64(fg3m), float64(fga))
	return row
}

type standingAccumulator struct {
	wins, losses         int
	homeWins, homeLosses int
	awayWins, awayLosses int
	pointsScored         int
	pointsAllowed        int
	completed            []game.Game
}

// computeStandings derives the season table from completed games only. Teams
// without a completed game are omitted.
func computeStandings(games []game.Game, season int, now time.Time) []standing.TeamStanding {
	byTeam := make(map[int64]*standingAccumulator, 32)
	acc := func(teamID int64) *standingAccumulator {
		row, ok := byTeam[teamID]
		if !ok {
			row = &standingAccumulator{}
			byTeam[teamID] = row
		}
		return row
	}

	for _, g := range games {
		if !g.Completed() {
			continue
		}
		home := acc(g.HomeTeamID)
		away := acc(g.VisitorTeamID)

		home.pointsScored += *g.HomeScore
		home.pointsAllowed += *g.VisitorScore
		away.pointsScored += *g.VisitorScore
		away.pointsAllowed += *g.HomeScore
		home.completed = append(home.completed, g)
		away.completed = append(away.completed, g)

		if g.HomeWon() {
			home.wins++
			home.homeWins++
			away.losses++
			away.awayLosses++
		} else {
			away.wins++
			away.awayWins++
			home.losses++
			home.homeLosses++
		}
	}

	out := make([]standing.TeamStanding, 0, len(byTeam))
	for teamID, row := range byTeam {
		played := row.wins + row.losses
		if played == 0 {
			continue
		}
		out = append(out, standing.TeamStanding{
			TeamID:           teamID,
			Season:           season,
			Wins:             row.wins,
			Losses:           row.losses,
			WinPct:           float64(row.wins) / float64(played),
			HomeWins:         row.homeWins,
			HomeLosses:       row.homeLosses,
			AwayWins:         row.awayWins,
			AwayLosses:       row.awayLosses,
			Streak:           currentStreak(teamID, row.completed),
			AvgPointsScored:  float64(row.pointsScored) / float64(played),
			AvgPointsAllowed: float64(row.pointsAllowed) / float64(played),
			UpdatedAt:        now,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinPct != out[j].WinPct {
			return out[i].WinPct > out[j].WinPct
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out
}

// currentStreak formats the team's active run of results as "W<n>" or "L<n>":
// most recent completed game first, counting while consecutive games share
// that result.
func currentStreak(teamID int64, completed []game.Game) string {
	if len(completed) == 0 {
		return ""
	}
	sorted := make([]game.Game, len(completed))
	copy(sorted, completed)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})

	won := func(g game.Game) bool {
		if g.HomeTeamID == teamID {
			return g.HomeWon()
		}
		return !g.HomeWon()
	}

	latest := won(sorted[0])
	length := 0
	for _, g := range sorted {
		if won(g) != latest {
			break
		}
		length++
	}

	prefix := "W"
	if !latest {
		prefix = "L"
	}
	return prefix + strconv.Itoa(length)
}

// computeHeadToHead folds completed games into one record per canonical team
// pair. Mirrored matchups land on the same key regardless of venue.
func computeHeadToHead(games []game.Game, season int, now time.Time) []headtohead.Record {
	type pairKey struct{ team1, team2 int64 }
	type pairAccumulator struct {
		record   headtohead.Record
		team1Pts int
		team2Pts int
		lastGame game.Game
	}

	byPair := make(map[pairKey]*pairAccumulator, 64)
	for _, g := range games {
		if !g.Completed() {
			continue
		}
		team1, team2 := headtohead.CanonicalPair(g.HomeTeamID, g.VisitorTeamID)
		key := pairKey{team1: team1, team2: team2}
		acc, ok := byPair[key]
		if !ok {
			acc = &pairAccumulator{record: headtohead.Record{
				Team1ID: team1,
				Team2ID: team2,
				Season:  season,
			}}
			byPair[key] = acc
		}

		team1Score, team2Score := *g.HomeScore, *g.VisitorScore
		if g.HomeTeamID != team1 {
			team1Score, team2Score = team2Score, team1Score
		}
		acc.team1Pts += team1Score
		acc.team2Pts += team2Score
		acc.record.GamesPlayed++
		if team1Score > team2Score {
			acc.record.Team1Wins++
		} else {
			acc.record.Team2Wins++
		}

		if acc.record.GamesPlayed == 1 || gameIsLater(g, acc.lastGame) {
			acc.lastGame = g
		}
	}

	out := make([]headtohead.Record, 0, len(byPair))
	for _, acc := range byPair {
		played := float64(acc.record.GamesPlayed)
		acc.record.Team1AvgScore = float64(acc.team1Pts) / played
		acc.record.Team2AvgScore = float64(acc.team2Pts) / played
		acc.record.LastGameDate = acc.lastGame.Date
		acc.record.LastGameScore = fmt.Sprintf("%d-%d", *acc.lastGame.HomeScore, *acc.lastGame.VisitorScore)
		if acc.lastGame.HomeWon() {
			acc.record.LastWinnerID = acc.lastGame.HomeTeamID
		} else {
			acc.record.LastWinnerID = acc.lastGame.VisitorTeamID
		}
		acc.record.UpdatedAt = now
		out = append(out, acc.record)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Team1ID != out[j].Team1ID {
			return out[i].Team1ID < out[j].Team1ID
		}
		return out[i].Team2ID < out[j].Team2ID
	})
	return out
}

func gameIsLater(candidate, current game.Game) bool {
	if !candidate.Date.Equal(current.Date) {
		return candidate.Date.After(current.Date)
	}
	return candidate.ID > current.ID
}

// detectStreaks scans each recently active player's last games against their
// season-average thresholds. Player scans are independent, so they fan out
// over a worker pool.
func (s *AggregationService) detectStreaks(ctx context.Context, season int, averagesByPlayer map[int64]average.SeasonAverage) error {
	cutoff := s.now().Add(-activePlayerWindow)
	playerIDs, err := s.stats.ListActivePlayerIDs(ctx, season, cutoff)
	if err != nil {
		return fmt.Errorf("list active players: %w", err)
	}

	pool, err := ants.NewPool(s.workerCount)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var failed atomic.Int32
	var mu sync.Mutex
	var firstErr error

	var workers sync.WaitGroup
	for _, playerID := range playerIDs {
		avg, ok := averagesByPlayer[playerID]
		if !ok {
			continue
		}
		playerID := playerID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := s.detectPlayerStreaks(ctx, playerID, season, avg); err != nil {
				failed.Add(1)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				s.logger.WarnContext(ctx, "streak detection failed", "player_id", playerID, "season", season, "error", err)
			}
		}); err != nil {
			workers.Done()
			return fmt.Errorf("submit streak task: %w", err)
		}
	}
	workers.Wait()

	if count := failed.Load(); count > 0 {
		return fmt.Errorf("streak detection failed for %d players: %w", count, firstErr)
	}
	return nil
}

func (s *AggregationService) detectPlayerStreaks(ctx context.Context, playerID int64, season int, avg average.SeasonAverage) error {
	recent, err := s.stats.ListRecentByPlayer(ctx, playerID, season, streakWindowGames)
	if err != nil {
		return fmt.Errorf("list recent lines: %w", err)
	}
	if len(recent) < minStreakLength {
		return s.streaks.DeactivateStale(ctx, playerID, season, nil)
	}

	keep := make(map[string]streak.Type, len(trackedMetrics))
	for _, metric := range trackedMetrics {
		base := metric.SeasonValue(avg)
		if base <= 0 {
			continue
		}
		row, ok := scanStreak(recent, metric, base)
		if !ok {
			continue
		}
		row.PlayerID = playerID
		row.Season = season
		row.UpdatedAt = s.now()
		if err := s.streaks.Upsert(ctx, row); err != nil {
			return fmt.Errorf("upsert %s streak: %w", metric, err)
		}
		keep[string(metric)] = row.Type
	}

	return s.streaks.DeactivateStale(ctx, playerID, season, keep)
}

// scanStreak walks the recent lines from most recent backwards, counting the
// contiguous run above the hot threshold; when that run is empty it counts
// the run at or below the cold threshold instead. A player is hot or cold on
// a metric, never both.
func scanStreak(recent []stat.Line, metric Metric, seasonAvg float64) (streak.Streak, bool) {
	hotThreshold := seasonAvg * hotThresholdFactor
	coldThreshold := seasonAvg * coldThresholdFactor

	streakType := streak.TypeHot
	threshold := hotThreshold
	length := runLength(recent, metric, func(v float64) bool { return v > hotThreshold })
	if length == 0 {
		streakType = streak.TypeCold
		threshold = coldThreshold
		length = runLength(recent, metric, func(v float64) bool { return v <= coldThreshold })
	}
	if length < minStreakLength {
		return streak.Streak{}, false
	}

	run := recent[:length]
	best := float64(metric.Value(run[0]))
	var sum float64
	for _, line := range run {
		value := float64(metric.Value(line))
		sum += value
		if streakType == streak.TypeHot && value > best {
			best = value
		}
		if streakType == streak.TypeCold && value < best {
			best = value
		}
	}

	return streak.Streak{
		Metric:    string(metric),
		Type:      streakType,
		Length:    length,
		StartDate: run[len(run)-1].GameDate,
		BestValue: best,
		AvgValue:  sum / float64(length),
		Threshold: threshold,
		IsActive:  true,
	}, true
}

func runLength(recent []stat.Line, metric Metric, match func(float64) bool) int {
	length := 0
	for _, line := range recent {
		if !match(float64(metric.Value(line))) {
			break
		}
		length++
	}
	return length
}

func safeRatio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// parseMinutes converts the provider's "MM:SS" (or bare "MM") minutes string
// to fractional minutes.
func parseMinutes(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	parts := strings.SplitN(value, ":", 2)
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || minutes < 0 {
		return 0
	}
	if len(parts) == 1 {
		return float64(minutes)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || seconds < 0 {
		return float64(minutes)
	}
	return float64(minutes) + float64(seconds)/60
}

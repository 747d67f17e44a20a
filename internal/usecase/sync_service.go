package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/domain/syncrun"
	"github.com/courtdata/nba-analytics/internal/domain/team"
	"github.com/courtdata/nba-analytics/internal/platform/logging"
)

// StatsProvider is the outbound contract to the box-score feed.
type StatsProvider interface {
	FetchTeams(ctx context.Context) ([]ExternalTeam, error)
	FetchActivePlayers(ctx context.Context) ([]ExternalPlayer, error)
	FetchStatsByDate(ctx context.Context, date time.Time) ([]ExternalStatLine, error)
}

// SeasonAggregator rebuilds the derived season tables after ingestion.
type SeasonAggregator interface {
	RebuildSeason(ctx context.Context, season int) error
}

type ExternalTeam struct {
	ID           int64
	Abbreviation string
	City         string
	Conference   string
	Division     string
	FullName     string
	Name         string
}

type ExternalPlayer struct {
	ID        int64
	FirstName string
	LastName  string
	Position  string
	TeamID    int64
}

type ExternalGame struct {
	ID            int64
	Date          time.Time
	Season        int
	Status        string
	HomeTeamID    int64
	VisitorTeamID int64
	HomeScore     *int
	VisitorScore  *int
}

type ExternalStatLine struct {
	Player  ExternalPlayer
	Team    ExternalTeam
	Game    ExternalGame
	Minutes string

	FGM       int
	FGA       int
	FG3M      int
	FG3A      int
	FTM       int
	FTA       int
	OffReb    int
	DefReb    int
	Rebounds  int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	Fouls     int
	Points    int
}

type SyncInput struct {
	Season int
	From   time.Time
	To     time.Time
	// SkipAggregation leaves the derived season tables untouched; used by the
	// historical backfill path which aggregates once at the end.
	SkipAggregation bool
}

const defaultAbortThreshold = 25

type syncPhase string

const (
	phaseTeams       syncPhase = "teams"
	phasePlayers     syncPhase = "players"
	phaseGameStats   syncPhase = "game_stats"
	phaseAggregating syncPhase = "aggregating"
)

type SyncService struct {
	provider       StatsProvider
	teams          team.Repository
	players        player.Repository
	games          game.Repository
	stats          stat.Repository
	runs           syncrun.Repository
	aggregator     SeasonAggregator
	abortThreshold int
	logger         *logging.Logger
	now            func() time.Time
}

func NewSyncService(
	provider StatsProvider,
	teams team.Repository,
	players player.Repository,
	games game.Repository,
	stats stat.Repository,
	runs syncrun.Repository,
	aggregator SeasonAggregator,
	abortThreshold int,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if abortThreshold <= 0 {
		abortThreshold = defaultAbortThreshold
	}
	return &SyncService{
		provider:       provider,
		teams:          teams,
		players:        players,
		games:          games,
		stats:          stats,
		runs:           runs,
		aggregator:     aggregator,
		abortThreshold: abortThreshold,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// syncErrors accumulates per-record failures. The stored sync_runs row keeps
// the full count but only the first few messages.
type syncErrors struct {
	count    int
	messages []string
}

func (e *syncErrors) add(message string) {
	e.count++
	if len(e.messages) < 10 {
		e.messages = append(e.messages, message)
	}
}

func (e *syncErrors) text() string {
	return syncrun.TruncateError(strings.Join(e.messages, "; "))
}

// SyncRange runs the full ingestion pipeline for one season over an inclusive
// date range: teams, then players, then day-by-day game stats, then the
// aggregation rebuild. Record-level failures are tolerated up to the abort
// threshold; authentication failures abort immediately. The sync_runs row is
// recorded regardless of outcome.
func (s *SyncService) SyncRange(ctx context.Context, input SyncInput) (syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncRange")
	defer span.End()

	if input.Season <= 0 {
		return syncrun.Run{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	if input.From.IsZero() || input.To.IsZero() {
		return syncrun.Run{}, fmt.Errorf("%w: date range is required", ErrInvalidInput)
	}
	from := truncateToDay(input.From)
	to := truncateToDay(input.To)
	if from.After(to) {
		return syncrun.Run{}, fmt.Errorf("%w: range start must not be after range end", ErrInvalidInput)
	}

	run := syncrun.Run{
		StartedAt: s.now(),
		Season:    input.Season,
	}
	syncErrs := &syncErrors{}

	knownTeams, abortErr := s.syncTeams(ctx, syncErrs)
	if abortErr == nil {
		abortErr = s.syncPlayers(ctx, knownTeams, syncErrs)
	}
	if abortErr == nil {
		abortErr = s.syncGameStats(ctx, input.Season, from, to, &run, syncErrs)
	}
	if abortErr == nil && !input.SkipAggregation && s.aggregator != nil {
		s.logger.InfoContext(ctx, "sync phase start", "phase", string(phaseAggregating), "season", input.Season)
		if err := s.aggregator.RebuildSeason(ctx, input.Season); err != nil {
			syncErrs.add(fmt.Sprintf("aggregation: %v", err))
		}
	}

	run.ErrorCount = syncErrs.count
	run.ErrorText = syncErrs.text()
	switch {
	case abortErr != nil:
		run.Status = syncrun.StatusFailed
		if run.ErrorText == "" {
			run.ErrorText = syncrun.TruncateError(abortErr.Error())
		}
	case syncErrs.count == 0:
		run.Status = syncrun.StatusSuccess
	default:
		run.Status = syncrun.StatusPartial
	}

	if err := s.runs.Record(ctx, run); err != nil {
		s.logger.ErrorContext(ctx, "record sync run failed", "season", input.Season, "status", string(run.Status), "error", err)
	}

	s.logger.InfoContext(ctx, "sync run finished",
		"season", input.Season,
		"status", string(run.Status),
		"games_synced", run.GamesSynced,
		"stats_synced", run.StatsSynced,
		"error_count", run.ErrorCount,
	)

	if abortErr != nil {
		return run, abortErr
	}
	return run, nil
}

// SyncDaily ingests yesterday and today for the season. This is the range the
// scheduler and the fire-and-forget trigger use: late-finishing games land on
// the previous calendar day in the provider's feed.
func (s *SyncService) SyncDaily(ctx context.Context, season int) (syncrun.Run, error) {
	now := s.now()
	return s.SyncRange(ctx, SyncInput{
		Season: season,
		From:   now.AddDate(0, 0, -1),
		To:     now,
	})
}

// RecentRuns returns the latest sync log rows, newest first.
func (s *SyncService) RecentRuns(ctx context.Context, limit int) ([]syncrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.RecentRuns")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}
	items, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return items, nil
}

func (s *SyncService) syncTeams(ctx context.Context, syncErrs *syncErrors) (map[int64]struct{}, error) {
	s.logger.InfoContext(ctx, "sync phase start", "phase", string(phaseTeams))

	items, err := s.provider.FetchTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	known := make(map[int64]struct{}, len(items))
	for _, item := range items {
		row := team.Team{
			ID:           item.ID,
			Abbreviation: item.Abbreviation,
			City:         item.City,
			Conference:   item.Conference,
			Division:     item.Division,
			FullName:     item.FullName,
			Name:         item.Name,
		}
		if err := row.Validate(); err != nil {
			syncErrs.add(fmt.Sprintf("team %d: %v", item.ID, err))
			continue
		}
		if _, err := s.teams.Upsert(ctx, row); err != nil {
			syncErrs.add(fmt.Sprintf("upsert team %d: %v", item.ID, err))
			continue
		}
		known[item.ID] = struct{}{}
	}
	return known, nil
}

func (s *SyncService) syncPlayers(ctx context.Context, knownTeams map[int64]struct{}, syncErrs *syncErrors) error {
	s.logger.InfoContext(ctx, "sync phase start", "phase", string(phasePlayers))

	items, err := s.provider.FetchActivePlayers(ctx)
	if err != nil {
		return fmt.Errorf("fetch active players: %w", err)
	}

	for _, item := range items {
		row := player.Player{
			ID:        item.ID,
			FirstName: item.FirstName,
			LastName:  item.LastName,
			Position:  item.Position,
		}
		// Players traded mid-fetch can reference a team the feed never
		// returned; keep the player, drop the dangling reference.
		if _, ok := knownTeams[item.TeamID]; ok {
			teamID := item.TeamID
			row.TeamID = &teamID
		}
		if err := row.Validate(); err != nil {
			syncErrs.add(fmt.Sprintf("player %d: %v", item.ID, err))
			continue
		}
		if _, err := s.players.Upsert(ctx, row); err != nil {
			syncErrs.add(fmt.Sprintf("upsert player %d: %v", item.ID, err))
		}
	}
	return nil
}

func (s *SyncService) syncGameStats(
	ctx context.Context,
	season int,
	from, to time.Time,
	run *syncrun.Run,
	syncErrs *syncErrors,
) error {
	s.logger.InfoContext(ctx, "sync phase start",
		"phase", string(phaseGameStats),
		"season", season,
		"from", from.Format("2006-01-02"),
		"to", to.Format("2006-01-02"),
	)

	seenGames := make(map[int64]struct{}, 64)
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		lines, err := s.provider.FetchStatsByDate(ctx, day)
		if err != nil {
			if isSyncAbortErr(err) {
				return fmt.Errorf("fetch stats %s: %w", day.Format("2006-01-02"), err)
			}
			syncErrs.add(fmt.Sprintf("fetch stats %s: %v", day.Format("2006-01-02"), err))
			if syncErrs.count >= s.abortThreshold {
				return fmt.Errorf("%w: aborting after %d errors", ErrDependencyUnavailable, syncErrs.count)
			}
			continue
		}

		for _, line := range lines {
			if err := s.ingestStatLine(ctx, line, seenGames, run); err != nil {
				syncErrs.add(err.Error())
				if syncErrs.count >= s.abortThreshold {
					return fmt.Errorf("%w: aborting after %d errors", ErrDependencyUnavailable, syncErrs.count)
				}
			}
		}
	}
	return nil
}

// ingestStatLine upserts the owning game before the stat line so the
// game_stats foreign keys always land on an existing row.
func (s *SyncService) ingestStatLine(
	ctx context.Context,
	line ExternalStatLine,
	seenGames map[int64]struct{},
	run *syncrun.Run,
) error {
	g := game.Game{
		ID:            line.Game.ID,
		Date:          line.Game.Date,
		Season:        line.Game.Season,
		Status:        line.Game.Status,
		HomeTeamID:    line.Game.HomeTeamID,
		VisitorTeamID: line.Game.VisitorTeamID,
		HomeScore:     line.Game.HomeScore,
		VisitorScore:  line.Game.VisitorScore,
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("game %d: %v", line.Game.ID, err)
	}

	if _, seen := seenGames[g.ID]; !seen {
		if _, err := s.games.Upsert(ctx, g); err != nil {
			return fmt.Errorf("upsert game %d: %v", g.ID, err)
		}
		seenGames[g.ID] = struct{}{}
		run.GamesSynced++
	}

	isHome := line.Team.ID == g.HomeTeamID
	opponentID := g.HomeTeamID
	if isHome {
		opponentID = g.VisitorTeamID
	}

	row := stat.Line{
		PlayerID:       line.Player.ID,
		GameID:         g.ID,
		TeamID:         line.Team.ID,
		IsHome:         isHome,
		Minutes:        line.Minutes,
		FGM:            line.FGM,
		FGA:            line.FGA,
		FG3M:           line.FG3M,
		FG3A:           line.FG3A,
		FTM:            line.FTM,
		FTA:            line.FTA,
		OffReb:         line.OffReb,
		DefReb:         line.DefReb,
		Rebounds:       line.Rebounds,
		Assists:        line.Assists,
		Steals:         line.Steals,
		Blocks:         line.Blocks,
		Turnovers:      line.Turnovers,
		Fouls:          line.Fouls,
		Points:         line.Points,
		GameDate:       g.Date,
		GameSeason:     g.Season,
		OpponentTeamID: opponentID,
	}
	if err := row.Validate(); err != nil {
		return fmt.Errorf("stat player=%d game=%d: %v", row.PlayerID, row.GameID, err)
	}

	result, err := s.stats.Insert(ctx, row)
	if err != nil {
		return fmt.Errorf("insert stat player=%d game=%d: %v", row.PlayerID, row.GameID, err)
	}
	if result == stat.Inserted {
		run.StatsSynced++
	}
	return nil
}

// isSyncAbortErr reports whether the fetch failure is unrecoverable for the
// whole run rather than for the single day.
func isSyncAbortErr(err error) bool {
	return errors.Is(err, ErrProviderAuth)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

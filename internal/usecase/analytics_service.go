package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
)

// SeasonMetricSummary is one side of a season comparison.
type SeasonMetricSummary struct {
	Season      int     `json:"season"`
	GamesPlayed int     `json:"games_played"`
	Average     float64 `json:"average"`
	Total       int     `json:"total"`
}

type SeasonComparison struct {
	PlayerID   int64               `json:"player_id"`
	Metric     string              `json:"metric"`
	First      SeasonMetricSummary `json:"first"`
	Second     SeasonMetricSummary `json:"second"`
	Difference float64             `json:"difference"`
	PctChange  float64             `json:"pct_change"`
	Trend      string              `json:"trend"`
}

type PlayerComparison struct {
	Season  int                   `json:"season"`
	Player1 average.SeasonAverage `json:"player_1"`
	Player2 average.SeasonAverage `json:"player_2"`
	// Winners maps comparison category to the player id with the better
	// value, 0 on a tie.
	Winners map[string]int64 `json:"winners"`
}

// StatFilter narrows a player's season lines. Location is "home", "away", or
// empty for both; OpponentTeamID zero means all opponents.
type StatFilter struct {
	Location       string
	OpponentTeamID int64
}

type FilteredAverages struct {
	PlayerID       int64                 `json:"player_id"`
	Season         int                   `json:"season"`
	Location       string                `json:"location,omitempty"`
	OpponentTeamID int64                 `json:"opponent_team_id,omitempty"`
	Averages       average.SeasonAverage `json:"averages"`
}

type AnalyticsService struct {
	stats      stat.Repository
	averages   average.Repository
	standings  standing.Repository
	headhead   headtohead.Repository
	streaks    streak.Repository
	cacheStore *cache.Store
	now        func() time.Time
}

func NewAnalyticsService(
	stats stat.Repository,
	averages average.Repository,
	standings standing.Repository,
	headhead headtohead.Repository,
	streaks streak.Repository,
	cacheStore *cache.Store,
) *AnalyticsService {
	return &AnalyticsService{
		stats:      stats,
		averages:   averages,
		standings:  standings,
		headhead:   headhead,
		streaks:    streaks,
		cacheStore: cacheStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *AnalyticsService) SeasonAverages(ctx context.Context, playerID int64, season int) (average.SeasonAverage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.SeasonAverages")
	defer span.End()

	if playerID <= 0 || season <= 0 {
		return average.SeasonAverage{}, fmt.Errorf("%w: player id and season are required", ErrInvalidInput)
	}

	row, exists, err := s.averages.GetByPlayerAndSeason(ctx, playerID, season)
	if err != nil {
		return average.SeasonAverage{}, fmt.Errorf("get season averages: %w", err)
	}
	if !exists {
		return average.SeasonAverage{}, fmt.Errorf("%w: averages player=%d season=%d", ErrNotFound, playerID, season)
	}
	return row, nil
}

// Standings returns the season table ordered by win percentage, through the
// read cache.
func (s *AnalyticsService) Standings(ctx context.Context, season int) ([]standing.TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.Standings")
	defer span.End()

	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}

	if s.cacheStore == nil {
		return s.standings.ListBySeason(ctx, season)
	}

	key := "standings:" + strconv.Itoa(season)
	value, err := s.cacheStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := s.standings.ListBySeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("list standings: %w", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]standing.TeamStanding)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", value)
	}
	return items, nil
}

func (s *AnalyticsService) HeadToHead(ctx context.Context, teamA, teamB int64, season int) (headtohead.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.HeadToHead")
	defer span.End()

	if teamA <= 0 || teamB <= 0 || season <= 0 {
		return headtohead.Record{}, fmt.Errorf("%w: both team ids and season are required", ErrInvalidInput)
	}
	if teamA == teamB {
		return headtohead.Record{}, fmt.Errorf("%w: team ids must differ", ErrInvalidInput)
	}

	row, exists, err := s.headhead.GetByPairAndSeason(ctx, teamA, teamB, season)
	if err != nil {
		return headtohead.Record{}, fmt.Errorf("get head-to-head: %w", err)
	}
	if !exists {
		return headtohead.Record{}, fmt.Errorf("%w: head-to-head teams=%d,%d season=%d", ErrNotFound, teamA, teamB, season)
	}
	return row, nil
}

func (s *AnalyticsService) PlayerStreaks(ctx context.Context, playerID int64, season int, activeOnly bool) ([]streak.Streak, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.PlayerStreaks")
	defer span.End()

	if playerID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: player id and season are required", ErrInvalidInput)
	}
	items, err := s.streaks.ListByPlayerAndSeason(ctx, playerID, season, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}
	return items, nil
}

// CompareSeasons summarizes one metric for a player across two seasons,
// computed from raw stat lines so short seasons still compare.
func (s *AnalyticsService) CompareSeasons(ctx context.Context, playerID int64, metric Metric, firstSeason, secondSeason int) (SeasonComparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.CompareSeasons")
	defer span.End()

	if playerID <= 0 {
		return SeasonComparison{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if firstSeason <= 0 || secondSeason <= 0 || firstSeason == secondSeason {
		return SeasonComparison{}, fmt.Errorf("%w: two distinct seasons are required", ErrInvalidInput)
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return SeasonComparison{}, err
	}

	first, err := s.seasonMetricSummary(ctx, playerID, metric, firstSeason)
	if err != nil {
		return SeasonComparison{}, err
	}
	second, err := s.seasonMetricSummary(ctx, playerID, metric, secondSeason)
	if err != nil {
		return SeasonComparison{}, err
	}

	out := SeasonComparison{
		PlayerID:   playerID,
		Metric:     string(metric),
		First:      first,
		Second:     second,
		Difference: roundTo(second.Average-first.Average, 2),
	}
	if first.Average != 0 {
		out.PctChange = roundTo((second.Average-first.Average)/first.Average*100, 1)
	}
	switch {
	case out.Difference > 0:
		out.Trend = "up"
	case out.Difference < 0:
		out.Trend = "down"
	default:
		out.Trend = "flat"
	}
	return out, nil
}

func (s *AnalyticsService) seasonMetricSummary(ctx context.Context, playerID int64, metric Metric, season int) (SeasonMetricSummary, error) {
	lines, err := s.stats.ListByPlayerAndSeason(ctx, playerID, season)
	if err != nil {
		return SeasonMetricSummary{}, fmt.Errorf("list stat lines season=%d: %w", season, err)
	}
	if len(lines) == 0 {
		return SeasonMetricSummary{}, fmt.Errorf("%w: no stat lines player=%d season=%d", ErrNotFound, playerID, season)
	}

	total := 0
	for _, line := range lines {
		total += metric.Value(line)
	}
	return SeasonMetricSummary{
		Season:      season,
		GamesPlayed: len(lines),
		Total:       total,
		Average:     roundTo(float64(total)/float64(len(lines)), 2),
	}, nil
}

// comparisonCategories are the per-category winners reported by
// ComparePlayers. Turnovers invert: fewer is better.
var comparisonCategories = []struct {
	name          string
	value         func(average.SeasonAverage) float64
	lowerIsBetter bool
}{
	{name: "points", value: func(a average.SeasonAverage) float64 { return a.Points }},
	{name: "rebounds", value: func(a average.SeasonAverage) float64 { return a.Rebounds }},
	{name: "assists", value: func(a average.SeasonAverage) float64 { return a.Assists }},
	{name: "steals", value: func(a average.SeasonAverage) float64 { return a.Steals }},
	{name: "blocks", value: func(a average.SeasonAverage) float64 { return a.Blocks }},
	{name: "fg_pct", value: func(a average.SeasonAverage) float64 { return a.FGPct }},
	{name: "fg3_pct", value: func(a average.SeasonAverage) float64 { return a.FG3Pct }},
	{name: "ft_pct", value: func(a average.SeasonAverage) float64 { return a.FTPct }},
	{name: "turnovers", value: func(a average.SeasonAverage) float64 { return a.Turnovers }, lowerIsBetter: true},
}

func (s *AnalyticsService) ComparePlayers(ctx context.Context, player1ID, player2ID int64, season int) (PlayerComparison, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.ComparePlayers")
	defer span.End()

	if player1ID <= 0 || player2ID <= 0 || season <= 0 {
		return PlayerComparison{}, fmt.Errorf("%w: both player ids and season are required", ErrInvalidInput)
	}
	if player1ID == player2ID {
		return PlayerComparison{}, fmt.Errorf("%w: player ids must differ", ErrInvalidInput)
	}

	first, err := s.SeasonAverages(ctx, player1ID, season)
	if err != nil {
		return PlayerComparison{}, err
	}
	second, err := s.SeasonAverages(ctx, player2ID, season)
	if err != nil {
		return PlayerComparison{}, err
	}

	winners := make(map[string]int64, len(comparisonCategories))
	for _, category := range comparisonCategories {
		v1, v2 := category.value(first), category.value(second)
		if category.lowerIsBetter {
			v1, v2 = -v1, -v2
		}
		switch {
		case v1 > v2:
			winners[category.name] = player1ID
		case v2 > v1:
			winners[category.name] = player2ID
		default:
			winners[category.name] = 0
		}
	}

	return PlayerComparison{
		Season:  season,
		Player1: first,
		Player2: second,
		Winners: winners,
	}, nil
}

// FilteredSeasonAverages recomputes a player's per-game means over the subset
// of lines matching the filter.
func (s *AnalyticsService) FilteredSeasonAverages(ctx context.Context, playerID int64, season int, filter StatFilter) (FilteredAverages, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalyticsService.FilteredSeasonAverages")
	defer span.End()

	if playerID <= 0 || season <= 0 {
		return FilteredAverages{}, fmt.Errorf("%w: player id and season are required", ErrInvalidInput)
	}
	location := strings.ToLower(strings.TrimSpace(filter.Location))
	if location != "" && location != "home" && location != "away" {
		return FilteredAverages{}, fmt.Errorf("%w: location must be home or away", ErrInvalidInput)
	}

	lines, err := s.stats.ListByPlayerAndSeason(ctx, playerID, season)
	if err != nil {
		return FilteredAverages{}, fmt.Errorf("list stat lines: %w", err)
	}

	filtered := make([]stat.Line, 0, len(lines))
	for _, line := range lines {
		if location == "home" && !line.IsHome {
			continue
		}
		if location == "away" && line.IsHome {
			continue
		}
		if filter.OpponentTeamID > 0 && line.OpponentTeamID != filter.OpponentTeamID {
			continue
		}
		filtered = append(filtered, line)
	}
	if len(filtered) == 0 {
		return FilteredAverages{}, fmt.Errorf("%w: no stat lines match filter player=%d season=%d", ErrNotFound, playerID, season)
	}

	return FilteredAverages{
		PlayerID:       playerID,
		Season:         season,
		Location:       location,
		OpponentTeamID: filter.OpponentTeamID,
		Averages:       averageFromLines(playerID, season, filtered, s.now()),
	}, nil
}

func roundTo(value float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(value*factor) / factor
}

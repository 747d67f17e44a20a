package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/stat"
	"github.com/courtdata/nba-analytics/internal/platform/logging"
)

type RollingWindow struct {
	Index     int       `json:"index"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Games     int       `json:"games"`
	Hits      int       `json:"hits"`
	Rate      float64   `json:"rate"`
}

type RollingSplit struct {
	Games int     `json:"games"`
	Hits  int     `json:"hits"`
	Rate  float64 `json:"rate"`
}

type RollingOpponent struct {
	OpponentTeamID int64   `json:"opponent_team_id"`
	Games          int     `json:"games"`
	Hits           int     `json:"hits"`
	Rate           float64 `json:"rate"`
}

// RollingReport is the windowed threshold-rate analysis for one player,
// season, and metric. Rates are percentages rounded to one decimal.
type RollingReport struct {
	PlayerID   int64   `json:"player_id"`
	Season     int     `json:"season"`
	Metric     string  `json:"metric"`
	Threshold  float64 `json:"threshold"`
	WindowSize int     `json:"window_size"`

	InsufficientData bool `json:"insufficient_data"`
	TotalGames       int  `json:"total_games"`
	// TotalGamesInWindows excludes the trailing partial window; only full
	// windows feed the rates below.
	TotalGamesInWindows int               `json:"total_games_in_windows"`
	WindowCount         int               `json:"window_count"`
	TotalHits           int               `json:"total_hits"`
	OverallRate         float64           `json:"overall_rate"`
	Windows             []RollingWindow   `json:"windows,omitempty"`
	Home                RollingSplit      `json:"home"`
	Away                RollingSplit      `json:"away"`
	Opponents           []RollingOpponent `json:"opponents,omitempty"`
}

type RollingService struct {
	stats  stat.Repository
	logger *logging.Logger
}

func NewRollingService(stats stat.Repository, logger *logging.Logger) *RollingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RollingService{stats: stats, logger: logger}
}

func (s *RollingService) AnalyzePlayer(
	ctx context.Context,
	playerID int64,
	season int,
	metric Metric,
	threshold float64,
	windowSize int,
) (RollingReport, error) {
	ctx, span := startUsecaseSpan(ctx, "RollingService.AnalyzePlayer")
	defer span.End()

	if playerID <= 0 {
		return RollingReport{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}
	if season <= 0 {
		return RollingReport{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	if windowSize <= 0 {
		return RollingReport{}, fmt.Errorf("%w: window size must be greater than zero", ErrInvalidInput)
	}
	if _, err := ParseMetric(string(metric)); err != nil {
		return RollingReport{}, err
	}

	lines, err := s.stats.ListByPlayerAndSeason(ctx, playerID, season)
	if err != nil {
		return RollingReport{}, fmt.Errorf("list stat lines player=%d season=%d: %w", playerID, season, err)
	}

	report := AnalyzeRollingWindows(lines, metric, threshold, windowSize)
	report.PlayerID = playerID
	report.Season = season
	return report, nil
}

// AnalyzeRollingWindows partitions the lines, sorted ascending by game date,
// into floor(len/windowSize) non-overlapping full windows and counts games
// with metric value at or above the threshold. The trailing partial window is
// discarded; home/away and per-opponent rates cover the same full-window
// population.
func AnalyzeRollingWindows(lines []stat.Line, metric Metric, threshold float64, windowSize int) RollingReport {
	report := RollingReport{
		Metric:     string(metric),
		Threshold:  threshold,
		WindowSize: windowSize,
		TotalGames: len(lines),
	}
	if windowSize <= 0 || len(lines) < windowSize {
		report.InsufficientData = true
		return report
	}

	ordered := make([]stat.Line, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].GameDate.Equal(ordered[j].GameDate) {
			return ordered[i].GameDate.Before(ordered[j].GameDate)
		}
		return ordered[i].GameID < ordered[j].GameID
	})

	windowCount := len(ordered) / windowSize
	considered := ordered[:windowCount*windowSize]
	report.WindowCount = windowCount
	report.TotalGamesInWindows = len(considered)

	hit := func(line stat.Line) bool {
		return float64(metric.Value(line)) >= threshold
	}

	report.Windows = make([]RollingWindow, 0, windowCount)
	for i := 0; i < windowCount; i++ {
		window := considered[i*windowSize : (i+1)*windowSize]
		hits := 0
		for _, line := range window {
			if hit(line) {
				hits++
			}
		}
		report.TotalHits += hits
		report.Windows = append(report.Windows, RollingWindow{
			Index:     i + 1,
			StartDate: window[0].GameDate,
			EndDate:   window[len(window)-1].GameDate,
			Games:     len(window),
			Hits:      hits,
			Rate:      ratePct(hits, len(window)),
		})
	}
	report.OverallRate = ratePct(report.TotalHits, report.TotalGamesInWindows)

	opponents := make(map[int64]*RollingOpponent, 16)
	for _, line := range considered {
		isHit := hit(line)
		if line.IsHome {
			report.Home.Games++
			if isHit {
				report.Home.Hits++
			}
		} else {
			report.Away.Games++
			if isHit {
				report.Away.Hits++
			}
		}

		row, ok := opponents[line.OpponentTeamID]
		if !ok {
			row = &RollingOpponent{OpponentTeamID: line.OpponentTeamID}
			opponents[line.OpponentTeamID] = row
		}
		row.Games++
		if isHit {
			row.Hits++
		}
	}
	report.Home.Rate = ratePct(report.Home.Hits, report.Home.Games)
	report.Away.Rate = ratePct(report.Away.Hits, report.Away.Games)

	report.Opponents = make([]RollingOpponent, 0, len(opponents))
	for _, row := range opponents {
		row.Rate = ratePct(row.Hits, row.Games)
		report.Opponents = append(report.Opponents, *row)
	}
	sort.SliceStable(report.Opponents, func(i, j int) bool {
		return report.Opponents[i].OpponentTeamID < report.Opponents[j].OpponentTeamID
	})
	return report
}

// ratePct is hits over games as a percentage, one decimal.
func ratePct(hits, games int) float64 {
	if games == 0 {
		return 0
	}
	return math.Round(float64(hits)/float64(games)*1000) / 10
}

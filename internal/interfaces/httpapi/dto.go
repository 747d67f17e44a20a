package httpapi

import (
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/domain/syncrun"
	"github.com/courtdata/nba-analytics/internal/domain/team"
	"github.com/courtdata/nba-analytics/internal/usecase"
)

type teamDTO struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		ID:           item.ID,
		Abbreviation: item.Abbreviation,
		City:         item.City,
		Conference:   item.Conference,
		Division:     item.Division,
		FullName:     item.FullName,
		Name:         item.Name,
	}
}

type playerDTO struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Position  string `json:"position,omitempty"`
	TeamID    *int64 `json:"team_id,omitempty"`
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:        item.ID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		FullName:  item.FullName(),
		Position:  item.Position,
		TeamID:    item.TeamID,
	}
}

type seasonAverageDTO struct {
	PlayerID    int64 `json:"player_id"`
	Season      int   `json:"season"`
	GamesPlayed int   `json:"games_played"`

	Minutes   float64 `json:"minutes"`
	FGM       float64 `json:"fgm"`
	FGA       float64 `json:"fga"`
	FGPct     float64 `json:"fg_pct"`
	FG3M      float64 `json:"fg3m"`
	FG3A      float64 `json:"fg3a"`
	FG3Pct    float64 `json:"fg3_pct"`
	FTM       float64 `json:"ftm"`
	FTA       float64 `json:"fta"`
	FTPct     float64 `json:"ft_pct"`
	OffReb    float64 `json:"off_reb"`
	DefReb    float64 `json:"def_reb"`
	Rebounds  float64 `json:"rebounds"`
	Assists   float64 `json:"assists"`
	Steals    float64 `json:"steals"`
	Blocks    float64 `json:"blocks"`
	Turnovers float64 `json:"turnovers"`
	Fouls     float64 `json:"fouls"`
	Points    float64 `json:"points"`

	TrueShootingPct float64   `json:"true_shooting_pct"`
	EffectiveFGPct  float64   `json:"effective_fg_pct"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func seasonAverageToDTO(item average.SeasonAverage) seasonAverageDTO {
	return seasonAverageDTO{
		PlayerID:        item.PlayerID,
		Season:          item.Season,
		GamesPlayed:     item.GamesPlayed,
		Minutes:         item.Minutes,
		FGM:             item.FGM,
		FGA:             item.FGA,
		FGPct:           item.FGPct,
		FG3M:            item.FG3M,
		FG3A:            item.FG3A,
		FG3Pct:          item.FG3Pct,
		FTM:             item.FTM,
		FTA:             item.FTA,
		FTPct:           item.FTPct,
		OffReb:          item.OffReb,
		DefReb:          item.DefReb,
		Rebounds:        item.Rebounds,
		Assists:         item.Assists,
		Steals:          item.Steals,
		Blocks:          item.Blocks,
		Turnovers:       item.Turnovers,
		Fouls:           item.Fouls,
		Points:          item.Points,
		TrueShootingPct: item.TrueShootingPct,
		EffectiveFGPct:  item.EffectiveFGPct,
		UpdatedAt:       item.UpdatedAt,
	}
}

type standingDTO struct {
	TeamID int64 `json:"team_id"`
	Season int   `json:"season"`

	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinPct     float64 `json:"win_pct"`
	HomeWins   int     `json:"home_wins"`
	HomeLosses int     `json:"home_losses"`
	AwayWins   int     `json:"away_wins"`
	AwayLosses int     `json:"away_losses"`
	Streak     string  `json:"streak"`

	AvgPointsScored  float64 `json:"avg_points_scored"`
	AvgPointsAllowed float64 `json:"avg_points_allowed"`
}

func standingToDTO(item standing.TeamStanding) standingDTO {
	return standingDTO{
		TeamID:           item.TeamID,
		Season:           item.Season,
		Wins:             item.Wins,
		Losses:           item.Losses,
		WinPct:           item.WinPct,
		HomeWins:         item.HomeWins,
		HomeLosses:       item.HomeLosses,
		AwayWins:         item.AwayWins,
		AwayLosses:       item.AwayLosses,
		Streak:           item.Streak,
		AvgPointsScored:  item.AvgPointsScored,
		AvgPointsAllowed: item.AvgPointsAllowed,
	}
}

type headToHeadDTO struct {
	Team1ID int64 `json:"team1_id"`
	Team2ID int64 `json:"team2_id"`
	Season  int   `json:"season"`

	Team1Wins     int     `json:"team1_wins"`
	Team2Wins     int     `json:"team2_wins"`
	Team1AvgScore float64 `json:"team1_avg_score"`
	Team2AvgScore float64 `json:"team2_avg_score"`

	LastGameDate  time.Time `json:"last_game_date"`
	LastWinnerID  int64     `json:"last_winner_id"`
	LastGameScore string    `json:"last_game_score"`
	GamesPlayed   int       `json:"games_played"`
}

func headToHeadToDTO(item headtohead.Record) headToHeadDTO {
	return headToHeadDTO{
		Team1ID:       item.Team1ID,
		Team2ID:       item.Team2ID,
		Season:        item.Season,
		Team1Wins:     item.Team1Wins,
		Team2Wins:     item.Team2Wins,
		Team1AvgScore: item.Team1AvgScore,
		Team2AvgScore: item.Team2AvgScore,
		LastGameDate:  item.LastGameDate,
		LastWinnerID:  item.LastWinnerID,
		LastGameScore: item.LastGameScore,
		GamesPlayed:   item.GamesPlayed,
	}
}

type streakDTO struct {
	PlayerID int64  `json:"player_id"`
	Season   int    `json:"season"`
	Metric   string `json:"metric"`
	Type     string `json:"type"`

	Length    int       `json:"length"`
	StartDate time.Time `json:"start_date"`
	BestValue float64   `json:"best_value"`
	AvgValue  float64   `json:"avg_value"`
	Threshold float64   `json:"threshold"`
	IsActive  bool      `json:"is_active"`
}

func streakToDTO(item streak.Streak) streakDTO {
	return streakDTO{
		PlayerID:  item.PlayerID,
		Season:    item.Season,
		Metric:    item.Metric,
		Type:      string(item.Type),
		Length:    item.Length,
		StartDate: item.StartDate,
		BestValue: item.BestValue,
		AvgValue:  item.AvgValue,
		Threshold: item.Threshold,
		IsActive:  item.IsActive,
	}
}

type syncRunDTO struct {
	ID          int64     `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Season      int       `json:"season"`
	GamesSynced int       `json:"games_synced"`
	StatsSynced int       `json:"stats_synced"`
	ErrorCount  int       `json:"error_count"`
	Status      string    `json:"status"`
	ErrorText   string    `json:"error_text,omitempty"`
}

func syncRunToDTO(item syncrun.Run) syncRunDTO {
	return syncRunDTO{
		ID:          item.ID,
		StartedAt:   item.StartedAt,
		Season:      item.Season,
		GamesSynced: item.GamesSynced,
		StatsSynced: item.StatsSynced,
		ErrorCount:  item.ErrorCount,
		Status:      string(item.Status),
		ErrorText:   item.ErrorText,
	}
}

type playerComparisonDTO struct {
	Season  int              `json:"season"`
	Player1 seasonAverageDTO `json:"player_1"`
	Player2 seasonAverageDTO `json:"player_2"`
	Winners map[string]int64 `json:"winners"`
}

func playerComparisonToDTO(item usecase.PlayerComparison) playerComparisonDTO {
	return playerComparisonDTO{
		Season:  item.Season,
		Player1: seasonAverageToDTO(item.Player1),
		Player2: seasonAverageToDTO(item.Player2),
		Winners: item.Winners,
	}
}

type filteredAveragesDTO struct {
	PlayerID       int64            `json:"player_id"`
	Season         int              `json:"season"`
	Location       string           `json:"location,omitempty"`
	OpponentTeamID int64            `json:"opponent_team_id,omitempty"`
	Averages       seasonAverageDTO `json:"averages"`
}

func filteredAveragesToDTO(item usecase.FilteredAverages) filteredAveragesDTO {
	return filteredAveragesDTO{
		PlayerID:       item.PlayerID,
		Season:         item.Season,
		Location:       item.Location,
		OpponentTeamID: item.OpponentTeamID,
		Averages:       seasonAverageToDTO(item.Averages),
	}
}

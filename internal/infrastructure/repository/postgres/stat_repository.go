package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/stat"
)

type statRow struct {
	PlayerID int64  `db:"player_id"`
	GameID   int64  `db:"game_id"`
	TeamID   int64  `db:"team_id"`
	IsHome   bool   `db:"is_home"`
	Minutes  string `db:"minutes"`

	FGM       int `db:"fgm"`
	FGA       int `db:"fga"`
	FG3M      int `db:"fg3m"`
	FG3A      int `db:"fg3a"`
	FTM       int `db:"ftm"`
	FTA       int `db:"fta"`
	OffReb    int `db:"off_reb"`
	DefReb    int `db:"def_reb"`
	Rebounds  int `db:"rebounds"`
	Assists   int `db:"assists"`
	Steals    int `db:"steals"`
	Blocks    int `db:"blocks"`
	Turnovers int `db:"turnovers"`
	Fouls     int `db:"fouls"`
	Points    int `db:"points"`

	GameDate       time.Time `db:"game_date"`
	GameSeason     int       `db:"game_season"`
	OpponentTeamID int64     `db:"opponent_team_id"`
}

func (r statRow) toDomain() stat.Line {
	return stat.Line{
		PlayerID:       r.PlayerID,
		GameID:         r.GameID,
		TeamID:         r.TeamID,
		IsHome:         r.IsHome,
		Minutes:        r.Minutes,
		FGM:            r.FGM,
		FGA:            r.FGA,
		FG3M:           r.FG3M,
		FG3A:           r.FG3A,
		FTM:            r.FTM,
		FTA:            r.FTA,
		OffReb:         r.OffReb,
		DefReb:         r.DefReb,
		Rebounds:       r.Rebounds,
		Assists:        r.Assists,
		Steals:         r.Steals,
		Blocks:         r.Blocks,
		Turnovers:      r.Turnovers,
		Fouls:          r.Fouls,
		Points:         r.Points,
		GameDate:       r.GameDate.UTC(),
		GameSeason:     r.GameSeason,
		OpponentTeamID: r.OpponentTeamID,
	}
}

func statRowFromDomain(item stat.Line) statRow {
	return statRow{
		PlayerID:       item.PlayerID,
		GameID:         item.GameID,
		TeamID:         item.TeamID,
		IsHome:         item.IsHome,
		Minutes:        item.Minutes,
		FGM:            item.FGM,
		FGA:            item.FGA,
		FG3M:           item.FG3M,
		FG3A:           item.FG3A,
		FTM:            item.FTM,
		FTA:            item.FTA,
		OffReb:         item.OffReb,
		DefReb:         item.DefReb,
		Rebounds:       item.Rebounds,
		Assists:        item.Assists,
		Steals:         item.Steals,
		Blocks:         item.Blocks,
		Turnovers:      item.Turnovers,
		Fouls:          item.Fouls,
		Points:         item.Points,
		GameDate:       item.GameDate.UTC(),
		GameSeason:     item.GameSeason,
		OpponentTeamID: item.OpponentTeamID,
	}
}

const statColumns = `player_id, game_id, team_id, is_home, minutes,
fgm, fga, fg3m, fg3a, ftm, fta, off_reb, def_reb, rebounds,
assists, steals, blocks, turnovers, fouls, points,
game_date, game_season, opponent_team_id`

type StatRepository struct {
	db *sqlx.DB
}

func NewStatRepository(db *sqlx.DB) *StatRepository {
	return &StatRepository{db: db}
}

func (r *StatRepository) Insert(ctx context.Context, item stat.Line) (stat.InsertResult, error) {
	// DO NOTHING keeps the first write: box scores never change after the
	// game finishes, so a conflicting row is reported as skipped.
	const query = `
INSERT INTO game_stats (` + statColumns + `)
VALUES (:player_id, :game_id, :team_id, :is_home, :minutes,
    :fgm, :fga, :fg3m, :fg3a, :ftm, :fta, :off_reb, :def_reb, :rebounds,
    :assists, :steals, :blocks, :turnovers, :fouls, :points,
    :game_date, :game_season, :opponent_team_id)
ON CONFLICT (player_id, game_id) DO NOTHING`

	bound, args, err := sqlx.Named(query, statRowFromDomain(item))
	if err != nil {
		return stat.Skipped, fmt.Errorf("build insert stat query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(bound), args...)
	if err != nil {
		return stat.Skipped, fmt.Errorf("insert stat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return stat.Skipped, fmt.Errorf("insert stat rows affected: %w", err)
	}
	if affected == 0 {
		return stat.Skipped, nil
	}
	return stat.Inserted, nil
}

func (r *StatRepository) ListByPlayerAndSeason(ctx context.Context, playerID int64, season int) ([]stat.Line, error) {
	const query = `
SELECT ` + statColumns + `
FROM game_stats
WHERE player_id = $1
  AND game_season = $2
ORDER BY game_date, game_id`

	var rows []statRow
	if err := r.db.SelectContext(ctx, &rows, query, playerID, season); err != nil {
		return nil, fmt.Errorf("list stats by player and season: %w", err)
	}

	return linesFromRows(rows), nil
}

func (r *StatRepository) ListBySeason(ctx context.Context, season int) ([]stat.Line, error) {
	const query = `
SELECT ` + statColumns + `
FROM game_stats
WHERE game_season = $1
ORDER BY game_date, game_id`

	var rows []statRow
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list stats by season: %w", err)
	}

	return linesFromRows(rows), nil
}

func (r *StatRepository) ListRecentByPlayer(ctx context.Context, playerID int64, season int, limit int) ([]stat.Line, error) {
	const query = `
SELECT ` + statColumns + `
FROM game_stats
WHERE player_id = $1
  AND game_season = $2
ORDER BY game_date DESC, game_id DESC
LIMIT $3`

	var rows []statRow
	if err := r.db.SelectContext(ctx, &rows, query, playerID, season, limit); err != nil {
		return nil, fmt.Errorf("list recent stats by player: %w", err)
	}

	return linesFromRows(rows), nil
}

func (r *StatRepository) ListActivePlayerIDs(ctx context.Context, season int, cutoff time.Time) ([]int64, error) {
	const query = `
SELECT DISTINCT player_id
FROM game_stats
WHERE game_season = $1
  AND game_date >= $2
ORDER BY player_id`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, season, cutoff.UTC()); err != nil {
		return nil, fmt.Errorf("list active player ids: %w", err)
	}

	return ids, nil
}

func (r *StatRepository) CountByPlayerAndSeason(ctx context.Context, playerID int64, season int) (int, error) {
	const query = `
SELECT COUNT(*)
FROM game_stats
WHERE player_id = $1
  AND game_season = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, playerID, season); err != nil {
		return 0, fmt.Errorf("count stats by player and season: %w", err)
	}

	return count, nil
}

func linesFromRows(rows []statRow) []stat.Line {
	out := make([]stat.Line, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

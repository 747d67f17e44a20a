package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type gameRow struct {
	ID            int64         `db:"id"`
	Date          time.Time     `db:"game_date"`
	Season        int           `db:"season"`
	Status        string        `db:"status"`
	HomeTeamID    int64         `db:"home_team_id"`
	VisitorTeamID int64         `db:"visitor_team_id"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	VisitorScore  sql.NullInt64 `db:"visitor_score"`
}

func (r gameRow) toDomain() game.Game {
	g := game.Game{
		ID:            r.ID,
		Date:          r.Date.UTC(),
		Season:        r.Season,
		Status:        r.Status,
		HomeTeamID:    r.HomeTeamID,
		VisitorTeamID: r.VisitorTeamID,
	}
	if r.HomeScore.Valid {
		score := int(r.HomeScore.Int64)
		g.HomeScore = &score
	}
	if r.VisitorScore.Valid {
		score := int(r.VisitorScore.Int64)
		g.VisitorScore = &score
	}
	return g
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	const query = `
SELECT id, game_date, season, status, home_team_id, visitor_team_id, home_score, visitor_score
FROM games
WHERE id = $1`

	var row gameRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, season int) ([]game.Game, error) {
	const query = `
SELECT id, game_date, season, status, home_team_id, visitor_team_id, home_score, visitor_score
FROM games
WHERE season = $1
ORDER BY game_date, id`

	var rows []gameRow
	if err := r.db.SelectContext(ctx, &rows, query, season); err != nil {
		return nil, fmt.Errorf("list games by season: %w", err)
	}

	return gamesFromRows(rows), nil
}

func (r *GameRepository) ListCompletedByTeamAndSeason(ctx context.Context, teamID int64, season int) ([]game.Game, error) {
	const query = `
SELECT id, game_date, season, status, home_team_id, visitor_team_id, home_score, visitor_score
FROM games
WHERE season = $1
  AND (home_team_id = $2 OR visitor_team_id = $2)
  AND home_score IS NOT NULL
  AND visitor_score IS NOT NULL
ORDER BY game_date DESC, id DESC`

	var rows []gameRow
	if err := r.db.SelectContext(ctx, &rows, query, season, teamID); err != nil {
		return nil, fmt.Errorf("list completed games by team: %w", err)
	}

	return gamesFromRows(rows), nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) (team.UpsertResult, error) {
	const query = `
INSERT INTO games (id, game_date, season, status, home_team_id, visitor_team_id, home_score, visitor_score)
VALUES (:id, :game_date, :season, :status, :home_team_id, :visitor_team_id, :home_score, :visitor_score)
ON CONFLICT (id) DO UPDATE SET
    game_date = EXCLUDED.game_date,
    season = EXCLUDED.season,
    status = EXCLUDED.status,
    home_team_id = EXCLUDED.home_team_id,
    visitor_team_id = EXCLUDED.visitor_team_id,
    home_score = EXCLUDED.home_score,
    visitor_score = EXCLUDED.visitor_score
RETURNING (xmax = 0) AS inserted`

	row := gameRow{
		ID:            item.ID,
		Date:          item.Date.UTC(),
		Season:        item.Season,
		Status:        item.Status,
		HomeTeamID:    item.HomeTeamID,
		VisitorTeamID: item.VisitorTeamID,
	}
	if item.HomeScore != nil {
		row.HomeScore = sql.NullInt64{Int64: int64(*item.HomeScore), Valid: true}
	}
	if item.VisitorScore != nil {
		row.VisitorScore = sql.NullInt64{Int64: int64(*item.VisitorScore), Valid: true}
	}

	bound, args, err := sqlx.Named(query, row)
	if err != nil {
		return team.Created, fmt.Errorf("build upsert game query: %w", err)
	}

	var inserted bool
	if err := r.db.GetContext(ctx, &inserted, r.db.Rebind(bound), args...); err != nil {
		return team.Created, fmt.Errorf("upsert game: %w", err)
	}
	if inserted {
		return team.Created, nil
	}
	return team.Updated, nil
}

func gamesFromRows(rows []gameRow) []game.Game {
	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

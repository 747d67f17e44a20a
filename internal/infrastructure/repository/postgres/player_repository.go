package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type playerRow struct {
	ID        int64         `db:"id"`
	FirstName string        `db:"first_name"`
	LastName  string        `db:"last_name"`
	Position  string        `db:"position"`
	TeamID    sql.NullInt64 `db:"team_id"`
}

func (r playerRow) toDomain() player.Player {
	p := player.Player{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Position:  r.Position,
	}
	if r.TeamID.Valid {
		id := r.TeamID.Int64
		p.TeamID = &id
	}
	return p
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	const query = `
SELECT id, first_name, last_name, position, team_id
FROM players
WHERE id = $1`

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) SearchByName(ctx context.Context, query string, limit int) ([]player.Player, error) {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	const singleTokenQuery = `
SELECT id, first_name, last_name, position, team_id
FROM players
WHERE first_name ILIKE $1 OR last_name ILIKE $1
ORDER BY last_name, first_name, id
LIMIT $2`

	const multiTokenQuery = `
SELECT id, first_name, last_name, position, team_id
FROM players
WHERE first_name ILIKE $1 AND last_name ILIKE $2
ORDER BY last_name, first_name, id
LIMIT $3`

	var (
		rows []playerRow
		err  error
	)
	if len(tokens) == 1 {
		err = r.db.SelectContext(ctx, &rows, singleTokenQuery, likePattern(tokens[0]), limit)
	} else {
		last := strings.Join(tokens[1:], " ")
		err = r.db.SelectContext(ctx, &rows, multiTokenQuery, likePattern(tokens[0]), likePattern(last), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, item player.Player) (team.UpsertResult, error) {
	const query = `
INSERT INTO players (id, first_name, last_name, position, team_id)
VALUES (:id, :first_name, :last_name, :position, :team_id)
ON CONFLICT (id) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    position = EXCLUDED.position,
    team_id = EXCLUDED.team_id
RETURNING (xmax = 0) AS inserted`

	row := playerRow{
		ID:        item.ID,
		FirstName: item.FirstName,
		LastName:  item.LastName,
		Position:  item.Position,
	}
	if item.TeamID != nil {
		row.TeamID = sql.NullInt64{Int64: *item.TeamID, Valid: true}
	}

	bound, args, err := sqlx.Named(query, row)
	if err != nil {
		return team.Created, fmt.Errorf("build upsert player query: %w", err)
	}

	var inserted bool
	if err := r.db.GetContext(ctx, &inserted, r.db.Rebind(bound), args...); err != nil {
		return team.Created, fmt.Errorf("upsert player: %w", err)
	}
	if inserted {
		return team.Created, nil
	}
	return team.Updated, nil
}

func likePattern(token string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(token)
	return "%" + escaped + "%"
}

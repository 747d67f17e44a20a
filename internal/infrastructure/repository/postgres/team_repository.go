package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type teamRow struct {
	ID           int64  `db:"id"`
	Abbreviation string `db:"abbreviation"`
	City         string `db:"city"`
	Conference   string `db:"conference"`
	Division     string `db:"division"`
	FullName     string `db:"full_name"`
	Name         string `db:"name"`
}

func (r teamRow) toDomain() team.Team {
	return team.Team{
		ID:           r.ID,
		Abbreviation: r.Abbreviation,
		City:         r.City,
		Conference:   r.Conference,
		Division:     r.Division,
		FullName:     r.FullName,
		Name:         r.Name,
	}
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	const query = `
SELECT id, abbreviation, city, conference, division, full_name, name
FROM teams
WHERE id = $1`

	var row teamRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (team.Team, bool, error) {
	const query = `
SELECT id, abbreviation, city, conference, division, full_name, name
FROM teams
WHERE LOWER(abbreviation) = LOWER($1)
ORDER BY id
LIMIT 1`

	var row teamRow
	if err := r.db.GetContext(ctx, &row, query, abbreviation); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by abbreviation: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	const query = `
SELECT id, abbreviation, city, conference, division, full_name, name
FROM teams
ORDER BY id`

	var rows []teamRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, item team.Team) (team.UpsertResult, error) {
	// xmax = 0 only holds for a freshly inserted row, which is how we tell a
	// create from an update without a second round-trip.
	const query = `
INSERT INTO teams (id, abbreviation, city, conference, division, full_name, name)
VALUES (:id, :abbreviation, :city, :conference, :division, :full_name, :name)
ON CONFLICT (id) DO UPDATE SET
    abbreviation = EXCLUDED.abbreviation,
    city = EXCLUDED.city,
    conference = EXCLUDED.conference,
    division = EXCLUDED.division,
    full_name = EXCLUDED.full_name,
    name = EXCLUDED.name
RETURNING (xmax = 0) AS inserted`

	bound, args, err := sqlx.Named(query, teamRow{
		ID:           item.ID,
		Abbreviation: item.Abbreviation,
		City:         item.City,
		Conference:   item.Conference,
		Division:     item.Division,
		FullName:     item.FullName,
		Name:         item.Name,
	})
	if err != nil {
		return team.Created, fmt.Errorf("build upsert team query: %w", err)
	}

	var inserted bool
	if err := r.db.GetContext(ctx, &inserted, r.db.Rebind(bound), args...); err != nil {
		return team.Created, fmt.Errorf("upsert team: %w", err)
	}
	if inserted {
		return team.Created, nil
	}
	return team.Updated, nil
}

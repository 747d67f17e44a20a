package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
)

type headToHeadRow struct {
	Team1ID int64 `db:"team1_id"`
	Team2ID int64 `db:"team2_id"`
	Season  int   `db:"season"`

	Team1Wins     int     `db:"team1_wins"`
	Team2Wins     int     `db:"team2_wins"`
	Team1AvgScore float64 `db:"team1_avg_score"`
	Team2AvgScore float64 `db:"team2_avg_score"`

	LastGameDate  time.Time `db:"last_game_date"`
	LastWinnerID  int64     `db:"last_winner_id"`
	LastGameScore string    `db:"last_game_score"`
	GamesPlayed   int       `db:"games_played"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r headToHeadRow) toDomain() headtohead.Record {
	return headtohead.Record{
		Team1ID:       r.Team1ID,
		Team2ID:       r.Team2ID,
		Season:        r.Season,
		Team1Wins:     r.Team1Wins,
		Team2Wins:     r.Team2Wins,
		Team1AvgScore: r.Team1AvgScore,
		Team2AvgScore: r.Team2AvgScore,
		LastGameDate:  r.LastGameDate.UTC(),
		LastWinnerID:  r.LastWinnerID,
		LastGameScore: r.LastGameScore,
		GamesPlayed:   r.GamesPlayed,
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

const headToHeadColumns = `team1_id, team2_id, season, team1_wins, team2_wins,
team1_avg_score, team2_avg_score, last_game_date, last_winner_id,
last_game_score, games_played, updated_at`

type HeadToHeadRepository struct {
	db *sqlx.DB
}

func NewHeadToHeadRepository(db *sqlx.DB) *HeadToHeadRepository {
	return &HeadToHeadRepository{db: db}
}

func (r *HeadToHeadRepository) GetByPairAndSeason(ctx context.Context, teamA, teamB int64, season int) (headtohead.Record, bool, error) {
	const query = `
SELECT ` + headToHeadColumns + `
FROM head_to_head_records
WHERE team1_id = $1
  AND team2_id = $2
  AND season = $3`

	team1, team2 := headtohead.CanonicalPair(teamA, teamB)

	var row headToHeadRow
	if err := r.db.GetContext(ctx, &row, query, team1, team2, season); err != nil {
		if isNotFound(err) {
			return headtohead.Record{}, false, nil
		}
		return headtohead.Record{}, false, fmt.Errorf("get head to head: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *HeadToHeadRepository) ReplaceBySeason(ctx context.Context, season int, items []headtohead.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace head to head: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM head_to_head_records WHERE season = $1`, season); err != nil {
		return fmt.Errorf("clear head to head: %w", err)
	}

	const insertQuery = `
INSERT INTO head_to_head_records (` + headToHeadColumns + `)
VALUES (:team1_id, :team2_id, :season, :team1_wins, :team2_wins,
    :team1_avg_score, :team2_avg_score, :last_game_date, :last_winner_id,
    :last_game_score, :games_played, :updated_at)`

	for _, item := range items {
		row := headToHeadRow{
			Team1ID:       item.Team1ID,
			Team2ID:       item.Team2ID,
			Season:        item.Season,
			Team1Wins:     item.Team1Wins,
			Team2Wins:     item.Team2Wins,
			Team1AvgScore: item.Team1AvgScore,
			Team2AvgScore: item.Team2AvgScore,
			LastGameDate:  item.LastGameDate.UTC(),
			LastWinnerID:  item.LastWinnerID,
			LastGameScore: item.LastGameScore,
			GamesPlayed:   item.GamesPlayed,
			UpdatedAt:     item.UpdatedAt.UTC(),
		}
		bound, args, err := sqlx.Named(insertQuery, row)
		if err != nil {
			return fmt.Errorf("build insert head to head query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(bound), args...); err != nil {
			return fmt.Errorf("insert head to head pair=(%d,%d): %w", item.Team1ID, item.Team2ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace head to head tx: %w", err)
	}
	return nil
}

package game

import (
	"context"

	"github.com/courtdata/nba-analytics/internal/domain/team"
)

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Game, error)
	// ListCompletedByTeamAndSeason returns the team's completed games for the
	// season, ordered by date descending.
	ListCompletedByTeamAndSeason(ctx context.Context, teamID int64, season int) ([]Game, error)
	Upsert(ctx context.Context, item Game) (team.UpsertResult, error)
}

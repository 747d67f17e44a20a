package player

import (
	"context"

	"github.com/courtdata/nba-analytics/internal/domain/team"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	// SearchByName matches first and last name case-insensitively. A single
	// token matches either name part; two or more tokens match first name
	// against the first token and last name against the rest.
	SearchByName(ctx context.Context, query string, limit int) ([]Player, error)
	Upsert(ctx context.Context, item Player) (team.UpsertResult, error)
}

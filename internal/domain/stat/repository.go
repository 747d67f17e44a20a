package stat

import (
	"context"
	"time"
)

// InsertResult reports how the store handled a stat line.
type InsertResult int

const (
	Inserted InsertResult = iota
	Skipped
)

// Repository describes box-score persistence needs from use cases. Lines are
// insert-only: the composite (player_id, game_id) key is checked first and an
// existing row is left untouched.
type Repository interface {
	// Insert writes the line unless a row for (PlayerID, GameID) exists, in
	// which case it reports Skipped without touching the stored row.
	Insert(ctx context.Context, item Line) (InsertResult, error)
	ListByPlayerAndSeason(ctx context.Context, playerID int64, season int) ([]Line, error)
	ListBySeason(ctx context.Context, season int) ([]Line, error)
	// ListRecentByPlayer returns the player's most recent lines for the
	// season, ordered by game date descending, capped at limit.
	ListRecentByPlayer(ctx context.Context, playerID int64, season int, limit int) ([]Line, error)
	// ListActivePlayerIDs returns ids of players with at least one line dated
	// on or after the cutoff.
	ListActivePlayerIDs(ctx context.Context, season int, cutoff time.Time) ([]int64, error)
	CountByPlayerAndSeason(ctx context.Context, playerID int64, season int) (int, error)
}

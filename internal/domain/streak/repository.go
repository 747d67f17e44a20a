package streak

import "context"

// Repository describes streak persistence. Writes belong to the aggregation
// engine only.
type Repository interface {
	ListByPlayerAndSeason(ctx context.Context, playerID int64, season int, activeOnly bool) ([]Streak, error)
	// Upsert writes the streak keyed by (player, season, metric, type) and
	// deactivates the opposite type for the same metric: a player is hot or
	// cold on a metric, never both.
	Upsert(ctx context.Context, item Streak) error
	// DeactivateStale marks inactive every active streak for the player and
	// season whose (metric, type) key is absent from keep.
	DeactivateStale(ctx context.Context, playerID int64, season int, keep map[string]Type) error
}

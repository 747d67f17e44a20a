package headtohead

import "context"

// Repository describes head-to-head persistence. Writes belong to the
// aggregation engine only.
type Repository interface {
	// GetByPairAndSeason accepts the pair in either order and canonicalizes
	// before lookup.
	GetByPairAndSeason(ctx context.Context, teamA, teamB int64, season int) (Record, bool, error)
	ReplaceBySeason(ctx context.Context, season int, items []Record) error
}

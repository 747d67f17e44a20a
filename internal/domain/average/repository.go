package average

import "context"

// Repository describes season-average persistence. Writes belong to the
// aggregation engine only.
type Repository interface {
	GetByPlayerAndSeason(ctx context.Context, playerID int64, season int) (SeasonAverage, bool, error)
	// ReplaceBySeason drops all rows for the season and writes the given set
	// in one shot. Recomputation is wholesale, never additive.
	ReplaceBySeason(ctx context.Context, season int, items []SeasonAverage) error
}

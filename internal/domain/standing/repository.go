package standing

import "context"

// Repository describes standing persistence. Writes belong to the aggregation
// engine only.
type Repository interface {
	// ListBySeason returns standings ordered by win percentage descending.
	ListBySeason(ctx context.Context, season int) ([]TeamStanding, error)
	ReplaceBySeason(ctx context.Context, season int, items []TeamStanding) error
}

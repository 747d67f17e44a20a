package syncrun

import "context"

// Repository describes sync-log persistence.
type Repository interface {
	Record(ctx context.Context, run Run) error
	// ListRecent returns runs in reverse chronological order, capped at limit.
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}

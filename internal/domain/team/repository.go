package team

import "context"

// UpsertResult reports whether an upsert created a new row or updated an
// existing one.
type UpsertResult int

const (
	Created UpsertResult = iota
	Updated
)

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	GetByAbbreviation(ctx context.Context, abbreviation string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Upsert(ctx context.Context, item Team) (UpsertResult, error)
}

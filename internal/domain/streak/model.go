package streak

import "time"

type Type string

const (
	TypeHot  Type = "hot"
	TypeCold Type = "cold"
)

// Streak is an active run of above- or below-threshold performances for one
// player and metric. One row per (player, season, metric, type); the row is
// updated in place while the run continues rather than duplicated.
type Streak struct {
	PlayerID int64
	Season   int
	Metric   string
	Type     Type

	Length    int
	StartDate time.Time
	BestValue float64
	AvgValue  float64
	Threshold float64
	IsActive  bool
	UpdatedAt time.Time
}

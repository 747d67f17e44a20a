package standing

import "time"

// TeamStanding is a derived row, one per (team, season), fully recomputed per
// aggregation run.
type TeamStanding struct {
	TeamID int64
	Season int

	Wins       int
	Losses     int
	WinPct     float64
	HomeWins   int
	HomeLosses int
	AwayWins   int
	AwayLosses int

	// Streak is the current run of results formatted as "W<n>" or "L<n>",
	// taken over the team's completed games in date order.
	Streak string

	AvgPointsScored  float64
	AvgPointsAllowed float64

	UpdatedAt time.Time
}

package headtohead

import "time"

// Record is the season series between two teams. The pair key is canonical:
// the numerically smaller team id is always Team1ID, so the mirrored matchup
// never produces a second row.
type Record struct {
	Team1ID int64
	Team2ID int64
	Season  int

	Team1Wins     int
	Team2Wins     int
	Team1AvgScore float64
	Team2AvgScore float64

	LastGameDate   time.Time
	LastWinnerID   int64
	LastGameScore  string // "home-visitor", e.g. "112-104"
	GamesPlayed    int
	UpdatedAt      time.Time
}

// CanonicalPair orders two team ids into the stored (Team1ID, Team2ID) form.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

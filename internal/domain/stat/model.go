package stat

import (
	"fmt"
	"time"
)

// Line is one player's box score for one game. Rows are immutable once
// written: box scores for a finished game never change, so re-ingestion of a
// (player, game) pair that already exists is a no-op.
type Line struct {
	PlayerID int64
	GameID   int64
	TeamID   int64
	IsHome   bool
	Minutes  string // provider "MM:SS" format, kept verbatim

	FGM       int
	FGA       int
	FG3M      int
	FG3A      int
	FTM       int
	FTA       int
	OffReb    int
	DefReb    int
	Rebounds  int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	Fouls     int
	Points    int

	// GameDate and GameSeason are denormalized from the owning game so the
	// aggregation paths can order and group lines without a join round-trip.
	GameDate       time.Time
	GameSeason     int
	OpponentTeamID int64
}

func (l Line) Validate() error {
	if l.PlayerID <= 0 {
		return fmt.Errorf("stat player id must be greater than zero")
	}
	if l.GameID <= 0 {
		return fmt.Errorf("stat game id must be greater than zero")
	}

	return nil
}

package game

import (
	"fmt"
	"time"
)

// Game is a single NBA game. Scores stay nil until the game completes.
type Game struct {
	ID            int64
	Date          time.Time
	Season        int
	Status        string
	HomeTeamID    int64
	VisitorTeamID int64
	HomeScore     *int
	VisitorScore  *int
}

// Completed reports whether both final scores are recorded.
func (g Game) Completed() bool {
	return g.HomeScore != nil && g.VisitorScore != nil
}

// HomeWon reports the result for the home side. Only meaningful when
// Completed() is true.
func (g Game) HomeWon() bool {
	return g.Completed() && *g.HomeScore > *g.VisitorScore
}

func (g Game) Validate() error {
	if g.ID <= 0 {
		return fmt.Errorf("game id must be greater than zero")
	}
	if g.Date.IsZero() {
		return fmt.Errorf("game date is required")
	}
	if g.Season <= 0 {
		return fmt.Errorf("game season must be greater than zero")
	}

	return nil
}

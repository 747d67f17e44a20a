package player

import "fmt"

// Player is an NBA player. TeamID is nil for free agents and is rewritten on
// every roster sync pass.
type Player struct {
	ID        int64
	FirstName string
	LastName  string
	Position  string
	TeamID    *int64
}

func (p Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (p Player) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("player id must be greater than zero")
	}
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}

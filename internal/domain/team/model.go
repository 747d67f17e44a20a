package team

import "fmt"

// Team is an NBA franchise. The ID is issued by the upstream provider and is
// the only stable identity: abbreviations have been observed to collide
// across re-syncs, so they carry no uniqueness guarantee.
type Team struct {
	ID           int64
	Abbreviation string
	City         string
	Conference   string
	Division     string
	FullName     string
	Name         string
}

func (t Team) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("team id must be greater than zero")
	}
	if t.Abbreviation == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}

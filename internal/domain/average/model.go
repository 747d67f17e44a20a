package average

import "time"

// SeasonAverage is a derived row, fully recomputed from stat lines on every
// aggregation run. One row per (player, season).
type SeasonAverage struct {
	PlayerID    int64
	Season      int
	GamesPlayed int

	Minutes   float64
	FGM       float64
	FGA       float64
	FGPct     float64
	FG3M      float64
	FG3A      float64
	FG3Pct    float64
	FTM       float64
	FTA       float64
	FTPct     float64
	OffReb    float64
	DefReb    float64
	Rebounds  float64
	Assists   float64
	Steals    float64
	Blocks    float64
	Turnovers float64
	Fouls     float64
	Points    float64

	TrueShootingPct float64
	EffectiveFGPct  float64

	UpdatedAt time.Time
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtdata/nba-analytics/internal/domain/average"
	"github.com/courtdata/nba-analytics/internal/domain/headtohead"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/domain/streak"
	"github.com/courtdata/nba-analytics/internal/domain/syncrun"
)

type AverageRepository struct {
	mu       sync.RWMutex
	bySeason map[int][]average.SeasonAverage
}

func NewAverageRepository() *AverageRepository {
	return &AverageRepository{bySeason: make(map[int][]average.SeasonAverage)}
}

func (r *AverageRepository) GetByPlayerAndSeason(_ context.Context, playerID int64, season int) (average.SeasonAverage, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.bySeason[season] {
		if item.PlayerID == playerID {
			return item, true, nil
		}
	}
	return average.SeasonAverage{}, false, nil
}

func (r *AverageRepository) ReplaceBySeason(_ context.Context, season int, items []average.SeasonAverage) error {
	out := make([]average.SeasonAverage, len(items))
	copy(out, items)

	r.mu.Lock()
	r.bySeason[season] = out
	r.mu.Unlock()
	return nil
}

type StandingRepository struct {
	mu       sync.RWMutex
	bySeason map[int][]standing.TeamStanding
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{bySeason: make(map[int][]standing.TeamStanding)}
}

func (r *StandingRepository) ListBySeason(_ context.Context, season int) ([]standing.TeamStanding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[season]
	out := make([]standing.TeamStanding, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].WinPct != out[j].WinPct {
			return out[i].WinPct > out[j].WinPct
		}
		return out[i].TeamID < out[j].TeamID
	})
	return out, nil
}

func (r *StandingRepository) ReplaceBySeason(_ context.Context, season int, items []standing.TeamStanding) error {
	out := make([]standing.TeamStanding, len(items))
	copy(out, items)

	r.mu.Lock()
	r.bySeason[season] = out
	r.mu.Unlock()
	return nil
}

type HeadToHeadRepository struct {
	mu       sync.RWMutex
	bySeason map[int][]headtohead.Record
}

func NewHeadToHeadRepository() *HeadToHeadRepository {
	return &HeadToHeadRepository{bySeason: make(map[int][]headtohead.Record)}
}

func (r *HeadToHeadRepository) GetByPairAndSeason(_ context.Context, teamA, teamB int64, season int) (headtohead.Record, bool, error) {
	team1, team2 := headtohead.CanonicalPair(teamA, teamB)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.bySeason[season] {
		if item.Team1ID == team1 && item.Team2ID == team2 {
			return item, true, nil
		}
	}
	return headtohead.Record{}, false, nil
}

func (r *HeadToHeadRepository) ReplaceBySeason(_ context.Context, season int, items []headtohead.Record) error {
	out := make([]headtohead.Record, len(items))
	copy(out, items)

	r.mu.Lock()
	r.bySeason[season] = out
	r.mu.Unlock()
	return nil
}

type StreakRepository struct {
	mu    sync.RWMutex
	items map[string]streak.Streak
}

func NewStreakRepository() *StreakRepository {
	return &StreakRepository{items: make(map[string]streak.Streak)}
}

func streakKey(playerID int64, season int, metric string, streakType streak.Type) string {
	return fmt.Sprintf("%d:%d:%s:%s", playerID, season, metric, streakType)
}

func (r *StreakRepository) ListByPlayerAndSeason(_ context.Context, playerID int64, season int, activeOnly bool) ([]streak.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]streak.Streak, 0, 8)
	for _, item := range r.items {
		if item.PlayerID != playerID || item.Season != season {
			continue
		}
		if activeOnly && !item.IsActive {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Metric != out[j].Metric {
			return out[i].Metric < out[j].Metric
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (r *StreakRepository) Upsert(_ context.Context, item streak.Streak) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[streakKey(item.PlayerID, item.Season, item.Metric, item.Type)] = item

	opposite := streak.TypeCold
	if item.Type == streak.TypeCold {
		opposite = streak.TypeHot
	}
	key := streakKey(item.PlayerID, item.Season, item.Metric, opposite)
	if existing, ok := r.items[key]; ok && existing.IsActive {
		existing.IsActive = false
		r.items[key] = existing
	}
	return nil
}

func (r *StreakRepository) DeactivateStale(_ context.Context, playerID int64, season int, keep map[string]streak.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, item := range r.items {
		if item.PlayerID != playerID || item.Season != season || !item.IsActive {
			continue
		}
		if keepType, ok := keep[item.Metric]; ok && keepType == item.Type {
			continue
		}
		item.IsActive = false
		r.items[key] = item
	}
	return nil
}

type SyncRunRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []syncrun.Run
}

func NewSyncRunRepository() *SyncRunRepository {
	return &SyncRunRepository{nextID: 1}
}

func (r *SyncRunRepository) Record(_ context.Context, run syncrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.ID = r.nextID
	r.nextID++
	r.items = append(r.items, run)
	return nil
}

func (r *SyncRunRepository) ListRecent(_ context.Context, limit int) ([]syncrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]syncrun.Run, len(r.items))
	copy(out, r.items)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/stat"
)

type StatRepository struct {
	mu    sync.RWMutex
	items map[string]stat.Line
}

func NewStatRepository() *StatRepository {
	return &StatRepository{items: make(map[string]stat.Line)}
}

func statKey(playerID, gameID int64) string {
	return fmt.Sprintf("%d:%d", playerID, gameID)
}

func (r *StatRepository) Insert(_ context.Context, item stat.Line) (stat.InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := statKey(item.PlayerID, item.GameID)
	if _, exists := r.items[key]; exists {
		return stat.Skipped, nil
	}
	r.items[key] = item
	return stat.Inserted, nil
}

func (r *StatRepository) ListByPlayerAndSeason(_ context.Context, playerID int64, season int) ([]stat.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stat.Line, 0, 32)
	for _, item := range r.items {
		if item.PlayerID == playerID && item.GameSeason == season {
			out = append(out, item)
		}
	}
	sortLinesAscending(out)
	return out, nil
}

func (r *StatRepository) ListBySeason(_ context.Context, season int) ([]stat.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stat.Line, 0, len(r.items))
	for _, item := range r.items {
		if item.GameSeason == season {
			out = append(out, item)
		}
	}
	sortLinesAscending(out)
	return out, nil
}

func (r *StatRepository) ListRecentByPlayer(_ context.Context, playerID int64, season int, limit int) ([]stat.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stat.Line, 0, limit)
	for _, item := range r.items {
		if item.PlayerID == playerID && item.GameSeason == season {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.After(out[j].GameDate)
		}
		return out[i].GameID > out[j].GameID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *StatRepository) ListActivePlayerIDs(_ context.Context, season int, cutoff time.Time) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]struct{}, 64)
	for _, item := range r.items {
		if item.GameSeason != season || item.GameDate.Before(cutoff) {
			continue
		}
		seen[item.PlayerID] = struct{}{}
	}

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *StatRepository) CountByPlayerAndSeason(_ context.Context, playerID int64, season int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.PlayerID == playerID && item.GameSeason == season {
			count++
		}
	}
	return count, nil
}

func sortLinesAscending(items []stat.Line) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].GameDate.Equal(items[j].GameDate) {
			return items[i].GameDate.Before(items[j].GameDate)
		}
		return items[i].GameID < items[j].GameID
	})
}

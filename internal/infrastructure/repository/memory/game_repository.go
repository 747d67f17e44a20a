package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtdata/nba-analytics/internal/domain/game"
	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[int64]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{items: make(map[int64]game.Game)}
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, season int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, len(r.items))
	for _, item := range r.items {
		if item.Season == season {
			out = append(out, item)
		}
	}
	sortGamesAscending(out)
	return out, nil
}

func (r *GameRepository) ListCompletedByTeamAndSeason(_ context.Context, teamID int64, season int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, 32)
	for _, item := range r.items {
		if item.Season != season || !item.Completed() {
			continue
		}
		if item.HomeTeamID != teamID && item.VisitorTeamID != teamID {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) (team.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = item
	if exists {
		return team.Updated, nil
	}
	return team.Created, nil
}

func sortGamesAscending(items []game.Game) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date) {
			return items[i].Date.Before(items[j].Date)
		}
		return items[i].ID < items[j].ID
	})
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[int64]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[int64]team.Team)}
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *TeamRepository) GetByAbbreviation(_ context.Context, abbreviation string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if strings.EqualFold(item.Abbreviation, abbreviation) {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) (team.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = item
	if exists {
		return team.Updated, nil
	}
	return team.Created, nil
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/team"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[int64]player.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{items: make(map[int64]player.Player)}
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *PlayerRepository) SearchByName(_ context.Context, query string, limit int) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(tokens) == 0 {
		return nil, nil
	}

	matches := make([]player.Player, 0, limit)
	for _, item := range r.items {
		if matchesName(item, tokens) {
			matches = append(matches, item)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].LastName != matches[j].LastName {
			return matches[i].LastName < matches[j].LastName
		}
		if matches[i].FirstName != matches[j].FirstName {
			return matches[i].FirstName < matches[j].FirstName
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// matchesName mirrors the SQL search: one token hits either name part, two or
// more tokens pin the first token to the first name and the rest to the last
// name.
func matchesName(item player.Player, tokens []string) bool {
	first := strings.ToLower(item.FirstName)
	last := strings.ToLower(item.LastName)

	if len(tokens) == 1 {
		return strings.Contains(first, tokens[0]) || strings.Contains(last, tokens[0])
	}
	return strings.Contains(first, tokens[0]) && strings.Contains(last, strings.Join(tokens[1:], " "))
}

func (r *PlayerRepository) Upsert(_ context.Context, item player.Player) (team.UpsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.items[item.ID]
	r.items[item.ID] = item
	if exists {
		return team.Updated, nil
	}
	return team.Created, nil
}

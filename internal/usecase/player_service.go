package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
)

const defaultSearchLimit = 25

type PlayerService struct {
	playerRepo player.Repository
	cacheStore *cache.Store
}

func NewPlayerService(playerRepo player.Repository, cacheStore *cache.Store) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		cacheStore: cacheStore,
	}
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return item, nil
}

// SearchPlayers matches players by name, case-insensitively. A single token
// matches either name part; multiple tokens match first and last name
// separately. Results go through the read cache.
func (s *PlayerService) SearchPlayers(ctx context.Context, query string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SearchPlayers")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if s.cacheStore == nil {
		return s.playerRepo.SearchByName(ctx, query, limit)
	}

	key := "players:search:" + strings.ToLower(query) + ":" + strconv.Itoa(limit)
	value, err := s.cacheStore.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := s.playerRepo.SearchByName(ctx, query, limit)
		if err != nil {
			return nil, fmt.Errorf("search players: %w", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]player.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", value)
	}
	return items, nil
}

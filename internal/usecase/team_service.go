package usecase

import (
	"context"
	"fmt"

	"github.com/courtdata/nba-analytics/internal/domain/team"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
)

type TeamService struct {
	teamRepo   team.Repository
	cacheStore *cache.Store
}

func NewTeamService(teamRepo team.Repository, cacheStore *cache.Store) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		cacheStore: cacheStore,
	}
}

func (s *TeamService) GetTeam(ctx context.Context, teamID int64) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	if teamID <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id must be greater than zero", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}
	return item, nil
}

// ListTeams returns every known team ordered by id. The roster is small and
// nearly static, so the list sits in the read cache between syncs.
func (s *TeamService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	if s.cacheStore == nil {
		return s.teamRepo.List(ctx)
	}

	value, err := s.cacheStore.GetOrLoad(ctx, "teams:all", func(ctx context.Context) (any, error) {
		items, err := s.teamRepo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list teams: %w", err)
		}
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items, ok := value.([]team.Team)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", value)
	}
	return items, nil
}

package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/courtdata/nba-analytics/internal/platform/cache"
)

func seedPlayers(t *testing.T, repo *memory.PlayerRepository) {
	t.Helper()
	teamID := int64(1)
	for _, item := range []player.Player{
		{ID: 100, FirstName: "Jayson", LastName: "Tatum", Position: "F", TeamID: &teamID},
		{ID: 101, FirstName: "Jaylen", LastName: "Brown", Position: "G-F", TeamID: &teamID},
		{ID: 102, FirstName: "Stephen", LastName: "Curry", Position: "G"},
	} {
		if _, err := repo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}
}

func TestPlayerService_SearchPlayers_SingleToken(t *testing.T) {
	repo := memory.NewPlayerRepository()
	seedPlayers(t, repo)
	svc := NewPlayerService(repo, nil)

	items, err := svc.SearchPlayers(t.Context(), "jay", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected match count: %d", len(items))
	}
	// ordered by last name
	if items[0].ID != 101 || items[1].ID != 100 {
		t.Fatalf("unexpected order: %d, %d", items[0].ID, items[1].ID)
	}
}

func TestPlayerService_SearchPlayers_TwoTokens(t *testing.T) {
	repo := memory.NewPlayerRepository()
	seedPlayers(t, repo)
	svc := NewPlayerService(repo, nil)

	items, err := svc.SearchPlayers(t.Context(), "stephen curry", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != 102 {
		t.Fatalf("unexpected result: %+v", items)
	}

	// first token must hit the first name when two tokens are given
	items, err = svc.SearchPlayers(t.Context(), "curry stephen", 10)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("reversed tokens should not match: %+v", items)
	}
}

func TestPlayerService_SearchPlayers_CachedResult(t *testing.T) {
	repo := memory.NewPlayerRepository()
	seedPlayers(t, repo)
	svc := NewPlayerService(repo, cache.NewStore(time.Minute))

	first, err := svc.SearchPlayers(t.Context(), "tatum", 10)
	if err != nil || len(first) != 1 {
		t.Fatalf("search failed: %d rows (err %v)", len(first), err)
	}

	// a new player matching the query is invisible until the key expires
	if _, err := repo.Upsert(t.Context(), player.Player{ID: 103, FirstName: "Another", LastName: "Tatum"}); err != nil {
		t.Fatalf("seed player: %v", err)
	}
	second, err := svc.SearchPlayers(t.Context(), "tatum", 10)
	if err != nil || len(second) != 1 {
		t.Fatalf("cache not used: %d rows (err %v)", len(second), err)
	}
}

func TestPlayerService_SearchPlayers_EmptyQuery(t *testing.T) {
	svc := NewPlayerService(memory.NewPlayerRepository(), nil)

	if _, err := svc.SearchPlayers(t.Context(), "   ", 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPlayerService_GetPlayer(t *testing.T) {
	repo := memory.NewPlayerRepository()
	seedPlayers(t, repo)
	svc := NewPlayerService(repo, nil)

	item, err := svc.GetPlayer(t.Context(), 100)
	if err != nil {
		t.Fatalf("get player failed: %v", err)
	}
	if item.FullName() != "Jayson Tatum" {
		t.Fatalf("unexpected player: %s", item.FullName())
	}

	if _, err := svc.GetPlayer(t.Context(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtdata/nba-analytics/internal/domain/player"
	"github.com/courtdata/nba-analytics/internal/domain/standing"
	"github.com/courtdata/nba-analytics/internal/infrastructure/repository/memory"
	"github.com/courtdata/nba-analytics/internal/usecase"
)

const testJobToken = "job-token"

type routerFixture struct {
	router    http.Handler
	players   *memory.PlayerRepository
	standings *memory.StandingRepository
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	teams := memory.NewTeamRepository()
	players := memory.NewPlayerRepository()
	games := memory.NewGameRepository()
	stats := memory.NewStatRepository()
	averages := memory.NewAverageRepository()
	standings := memory.NewStandingRepository()
	headhead := memory.NewHeadToHeadRepository()
	streaks := memory.NewStreakRepository()
	runs := memory.NewSyncRunRepository()

	aggregationService := usecase.NewAggregationService(games, stats, averages, standings, headhead, streaks, 0, nil)
	syncService := usecase.NewSyncService(emptyProvider{}, teams, players, games, stats, runs, aggregationService, 0, nil)
	analyticsService := usecase.NewAnalyticsService(stats, averages, standings, headhead, streaks, nil)

	handler := NewHandler(
		usecase.NewTeamService(teams, nil),
		usecase.NewPlayerService(players, nil),
		analyticsService,
		usecase.NewRollingService(stats, nil),
		syncService,
		aggregationService,
		nil,
	)

	return &routerFixture{
		router:    NewRouter(handler, nil, nil, testJobToken),
		players:   players,
		standings: standings,
	}
}

type emptyProvider struct{}

func (emptyProvider) FetchTeams(context.Context) ([]usecase.ExternalTeam, error) {
	return nil, nil
}

func (emptyProvider) FetchActivePlayers(context.Context) ([]usecase.ExternalPlayer, error) {
	return nil, nil
}

func (emptyProvider) FetchStatsByDate(context.Context, time.Time) ([]usecase.ExternalStatLine, error) {
	return nil, nil
}

func (f *routerFixture) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return rec, body
}

func TestRouter_SearchPlayers(t *testing.T) {
	f := newRouterFixture(t)

	teamID := int64(1)
	seed := []player.Player{
		{ID: 100, FirstName: "Jayson", LastName: "Tatum", Position: "F", TeamID: &teamID},
		{ID: 101, FirstName: "Jaylen", LastName: "Brown", Position: "G", TeamID: &teamID},
	}
	for _, p := range seed {
		if _, err := f.players.Upsert(t.Context(), p); err != nil {
			t.Fatalf("seed player: %v", err)
		}
	}

	rec, body := f.do(t, httptest.NewRequest(http.MethodGet, "/v1/players/search?q=jay", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", body["data"])
	}
	if len(data) != 2 {
		t.Fatalf("expected 2 players, got %d", len(data))
	}
	first, _ := data[0].(map[string]any)
	if got, _ := first["full_name"].(string); got != "Jaylen Brown" {
		t.Fatalf("expected Jaylen Brown first, got %v", first["full_name"])
	}
}

func TestRouter_GetPlayerNotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec, body := f.do(t, httptest.NewRequest(http.MethodGet, "/v1/players/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", errorObj["status"])
	}
}

func TestRouter_ListStandings(t *testing.T) {
	f := newRouterFixture(t)

	rows := []standing.TeamStanding{
		{TeamID: 2, Season: 2023, Wins: 50, Losses: 32, WinPct: 0.61, Streak: "W3"},
		{TeamID: 1, Season: 2023, Wins: 60, Losses: 22, WinPct: 0.732, Streak: "W5"},
	}
	if err := f.standings.ReplaceBySeason(t.Context(), 2023, rows); err != nil {
		t.Fatalf("seed standings: %v", err)
	}

	rec, body := f.do(t, httptest.NewRequest(http.MethodGet, "/v1/seasons/2023/standings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	data, ok := body["data"].([]any)
	if !ok || len(data) != 2 {
		t.Fatalf("expected 2 standings, got %v", body["data"])
	}
	first, _ := data[0].(map[string]any)
	if got, _ := first["team_id"].(float64); got != 1 {
		t.Fatalf("expected team 1 on top, got %v", first["team_id"])
	}
}

func TestRouter_InvalidSeasonPath(t *testing.T) {
	f := newRouterFixture(t)

	rec, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/v1/seasons/zero/standings", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRouter_InternalSyncRequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/aggregate", strings.NewReader(`{"season":2023}`))
	rec, _ := f.do(t, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/sync/aggregate", strings.NewReader(`{"season":2023}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec, _ = f.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 with token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_BackfillValidatesBody(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/sync/backfill", strings.NewReader(`{"season":0,"from":"","to":""}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec, _ := f.do(t, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid body, got %d", rec.Code)
	}
}

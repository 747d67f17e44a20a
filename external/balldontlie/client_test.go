package balldontlie

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/courtdata/nba-analytics/internal/usecase"
)

func testClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		MaxRetries:  maxRetries,
		PerPage:     2,
		MinInterval: time.Millisecond,
	})
}

func TestClient_FetchTeams(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPerPage string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"abbreviation":"BOS","city":"Boston","conference":"East","division":"Atlantic","full_name":"Boston Celtics","name":"Celtics"},
			{"id":0,"abbreviation":"BAD"}
		]}`))
	})

	client := testClient(t, handler, 0)
	teams, err := client.FetchTeams(t.Context())
	if err != nil {
		t.Fatalf("fetch teams failed: %v", err)
	}

	if gotAuth != "test-key" {
		t.Fatalf("credential header not sent: %q", gotAuth)
	}
	if gotPerPage != "2" {
		t.Fatalf("per_page not sent: %q", gotPerPage)
	}
	if len(teams) != 1 {
		t.Fatalf("zero-id row not dropped: %d teams", len(teams))
	}
	if teams[0].ID != 1 || teams[0].Abbreviation != "BOS" || teams[0].FullName != "Boston Celtics" {
		t.Fatalf("unexpected team: %+v", teams[0])
	}
}

func TestClient_FetchActivePlayers_CursorPagination(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch calls.Add(1) {
		case 1:
			if cursor := r.URL.Query().Get("cursor"); cursor != "" {
				t.Errorf("first page should have no cursor, got %q", cursor)
			}
			_, _ = w.Write([]byte(`{"data":[
				{"id":100,"first_name":"Jayson","last_name":"Tatum","position":"F","team":{"id":1}},
				{"id":101,"first_name":"Jaylen","last_name":"Brown","position":"G-F","team":{"id":1}}
			],"meta":{"next_cursor":101,"per_page":2}}`))
		default:
			if cursor := r.URL.Query().Get("cursor"); cursor != "101" {
				t.Errorf("cursor not threaded: %q", cursor)
			}
			_, _ = w.Write([]byte(`{"data":[
				{"id":102,"first_name":"Stephen","last_name":"Curry","position":"G"}
			],"meta":{"per_page":2}}`))
		}
	})

	client := testClient(t, handler, 0)
	players, err := client.FetchActivePlayers(t.Context())
	if err != nil {
		t.Fatalf("fetch players failed: %v", err)
	}

	if calls.Load() != 2 {
		t.Fatalf("unexpected request count: %d", calls.Load())
	}
	if len(players) != 3 {
		t.Fatalf("pages not merged: %d players", len(players))
	}
	if players[0].TeamID != 1 {
		t.Fatalf("team reference lost: %+v", players[0])
	}
	if players[2].TeamID != 0 {
		t.Fatalf("free agent got a team: %+v", players[2])
	}
}

func TestClient_FetchStatsByDate(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dates[]"); got != "2024-01-10" {
			t.Errorf("date filter not sent: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":1,"min":"34:30","fgm":9,"fga":18,"fg3m":3,"fg3a":7,"pts":30,
			 "player":{"id":100,"first_name":"Jayson","last_name":"Tatum"},
			 "team":{"id":1,"abbreviation":"BOS"},
			 "game":{"id":5001,"date":"2024-01-10","season":2023,"status":"Final","home_team_id":1,"visitor_team_id":2,"home_team_score":110,"visitor_team_score":98}}
		],"meta":{"per_page":2}}`))
	})

	client := testClient(t, handler, 0)
	lines, err := client.FetchStatsByDate(t.Context(), time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch stats failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("unexpected line count: %d", len(lines))
	}

	line := lines[0]
	if line.Player.ID != 100 || line.Team.ID != 1 || line.Game.ID != 5001 {
		t.Fatalf("identifiers wrong: %+v", line)
	}
	if line.Points != 30 || line.Minutes != "34:30" {
		t.Fatalf("box score wrong: %+v", line)
	}
	if line.Game.HomeScore == nil || *line.Game.HomeScore != 110 {
		t.Fatalf("scores wrong: %+v", line.Game)
	}
	if !line.Game.Date.Equal(time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date wrong: %s", line.Game.Date)
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, usecase.ErrProviderAuth},
		{http.StatusForbidden, usecase.ErrProviderAuth},
		{http.StatusNotFound, usecase.ErrNotFound},
	}
	for _, tc := range cases {
		var calls atomic.Int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(tc.status)
		})

		client := testClient(t, handler, 2)
		_, err := client.FetchTeams(t.Context())
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: unexpected error %v", tc.status, err)
		}
		if calls.Load() != 1 {
			t.Fatalf("status %d: non-retryable error retried %d times", tc.status, calls.Load())
		}
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	client := testClient(t, handler, 1)
	if _, err := client.FetchTeams(t.Context()); err != nil {
		t.Fatalf("retry did not recover: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("unexpected request count: %d", calls.Load())
	}
}

func TestClient_ExhaustedRetriesClassifiedUnavailable(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := testClient(t, handler, 0)
	_, err := client.FetchTeams(t.Context())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("unexpected error: %v", err)
	}
}

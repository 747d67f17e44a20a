package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)

	mux.HandleFunc("GET /v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/compare", handler.ComparePlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/{season}/averages", handler.GetSeasonAverages)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/{season}/averages/filtered", handler.GetFilteredSeasonAverages)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/{season}/streaks", handler.ListPlayerStreaks)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/{season}/rolling", handler.AnalyzeRollingWindows)
	mux.HandleFunc("GET /v1/players/{playerID}/seasons/compare", handler.CompareSeasons)

	mux.HandleFunc("GET /v1/seasons/{season}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/seasons/{season}/head-to-head", handler.GetHeadToHead)

	mux.HandleFunc("GET /v1/sync/runs", handler.ListSyncRuns)
}

func registerInternalSyncRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync/daily", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDailySync)))
	mux.Handle("POST /v1/internal/sync/backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillSync)))
	mux.Handle("POST /v1/internal/sync/aggregate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunAggregation)))
}

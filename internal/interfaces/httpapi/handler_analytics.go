package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/courtdata/nba-analytics/internal/usecase"
)

func (h *Handler) GetSeasonAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonAverages")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := pathSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.analyticsService.SeasonAverages(ctx, playerID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get season averages failed", "player_id", playerID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonAverageToDTO(item))
}

func (h *Handler) GetFilteredSeasonAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFilteredSeasonAverages")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := pathSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	opponentTeamID, err := queryID(r, "opponent_team_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	filter := usecase.StatFilter{
		Location:       strings.TrimSpace(r.URL.Query().Get("location")),
		OpponentTeamID: opponentTeamID,
	}

	item, err := h.analyticsService.FilteredSeasonAverages(ctx, playerID, season, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "get filtered season averages failed",
			"player_id", playerID, "season", season, "location", filter.Location, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, filteredAveragesToDTO(item))
}

func (h *Handler) ListPlayerStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerStreaks")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := pathSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	activeOnly := !strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")

	streaks, err := h.analyticsService.PlayerStreaks(ctx, playerID, season, activeOnly)
	if err != nil {
		h.logger.WarnContext(ctx, "list player streaks failed", "player_id", playerID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]streakDTO, 0, len(streaks))
	for _, s := range streaks {
		items = append(items, streakToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CompareSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompareSeasons")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	firstSeason, err := queryInt(r, "first", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	secondSeason, err := queryInt(r, "second", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	metric, err := usecase.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	comparison, err := h.analyticsService.CompareSeasons(ctx, playerID, metric, firstSeason, secondSeason)
	if err != nil {
		h.logger.WarnContext(ctx, "compare seasons failed",
			"player_id", playerID, "first", firstSeason, "second", secondSeason, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, comparison)
}

func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComparePlayers")
	defer span.End()

	player1ID, err := queryID(r, "player1")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	player2ID, err := queryID(r, "player2")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	season, err := queryInt(r, "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	comparison, err := h.analyticsService.ComparePlayers(ctx, player1ID, player2ID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "compare players failed",
			"player1", player1ID, "player2", player2ID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerComparisonToDTO(comparison))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	season, err := pathSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.analyticsService.Standings(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	season, err := pathSeason(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team1ID, err := queryID(r, "team1")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	team2ID, err := queryID(r, "team2")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if team1ID == 0 || team2ID == 0 {
		writeError(ctx, w, fmt.Errorf("%w: team1 and team2 are required", usecase.ErrInvalidInput))
		return
	}

	record, err := h.analyticsService.HeadToHead(ctx, team1ID, team2ID, season)
	if err != nil {
		h.logger.WarnContext(ctx, "get head to head failed",
			"team1", team1ID, "team2", team2ID, "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, headToHeadToDTO(record))
}

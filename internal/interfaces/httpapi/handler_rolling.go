package httpapi

import (
	"fmt"
	"net/http"

	"github.com/courtdata/nba-analytics/internal/usecase"
)

func (h *Handler) AnalyzeRollingWindows(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AnalyzeRollingWindows")
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
	metric, err := usecase.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	threshold, hasThreshold, err := queryFloat(r, "threshold")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !hasThreshold {
		writeError(ctx, w, fmt.Errorf("%w: threshold is required", usecase.ErrInvalidInput))
		return
	}
	windowSize, err := queryInt(r, "window", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.rollingService.AnalyzePlayer(ctx, playerID, season, metric, threshold, windowSize)
	if err != nil {
		h.logger.WarnContext(ctx, "rolling window analysis failed",
			"player_id", playerID, "season", season, "metric", string(metric), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

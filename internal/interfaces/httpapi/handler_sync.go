package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/courtdata/nba-analytics/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type dailySyncRequest struct {
	Season int `json:"season" validate:"required,gt=0"`
}

type backfillSyncRequest struct {
	Season          int    `json:"season" validate:"required,gt=0"`
	From            string `json:"from" validate:"required,datetime=2006-01-02"`
	To              string `json:"to" validate:"required,datetime=2006-01-02"`
	SkipAggregation bool   `json:"skip_aggregation"`
}

type aggregateRequest struct {
	Season int `json:"season" validate:"required,gt=0"`
}

func decodeJSONBody(r *http.Request, target any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: malformed json body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// RunDailySync kicks off a daily sync in the background and returns
// immediately; the outcome lands in the sync run log.
func (h *Handler) RunDailySync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailySync")
	defer span.End()

	var req dailySyncRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	go func() {
		bgCtx := context.WithoutCancel(ctx)
		if _, err := h.syncService.SyncDaily(bgCtx, req.Season); err != nil {
			h.logger.ErrorContext(bgCtx, "daily sync failed", "season", req.Season, "error", err)
		}
	}()

	writeSuccess(ctx, w, http.StatusAccepted, map[string]any{
		"season": req.Season,
		"status": "started",
	})
}

func (h *Handler) RunBackfillSync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillSync")
	defer span.End()

	var req backfillSyncRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: from must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: to must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	run, err := h.syncService.SyncRange(ctx, usecase.SyncInput{
		Season:          req.Season,
		From:            from,
		To:              to,
		SkipAggregation: req.SkipAggregation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "backfill sync failed",
			"season", req.Season, "from", req.From, "to", req.To, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, syncRunToDTO(run))
}

func (h *Handler) RunAggregation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunAggregation")
	defer span.End()

	var req aggregateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.aggregationService.RebuildSeason(ctx, req.Season); err != nil {
		h.logger.WarnContext(ctx, "aggregation rebuild failed", "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"season": req.Season,
		"status": "aggregated",
	})
}

func (h *Handler) ListSyncRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSyncRuns")
	defer span.End()

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runs, err := h.syncService.RecentRuns(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list sync runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]syncRunDTO, 0, len(runs))
	for _, run := range runs {
		items = append(items, syncRunToDTO(run))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

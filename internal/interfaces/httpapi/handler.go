package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pickline/aggregator/internal/domain/prediction"
	"github.com/pickline/aggregator/internal/scoring"
	"github.com/pickline/aggregator/internal/usecase"
)

// Handler serves every read-only route in the API surface, delegating
// all aggregation/caching logic to the usecase layer.
type Handler struct {
	queries   *usecase.PredictionQueryService
	dashboard *usecase.DashboardService
}

func NewHandler(queries *usecase.PredictionQueryService, dashboard *usecase.DashboardService) *Handler {
	return &Handler{queries: queries, dashboard: dashboard}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Stats")
	defer span.End()

	sport := queryOr(r, "sport", "")
	rows, err := h.queries.Stats(ctx, sport)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, rows)
}

func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Matches")
	defer span.End()

	sport := queryOr(r, "sport", "")
	date := queryOr(r, "date", "")
	source := queryOr(r, "source", "")

	matches, err := h.queries.Matches(ctx, sport, date, source)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, matches)
}

func (h *Handler) TopPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TopPicks")
	defer span.End()

	sport := queryOr(r, "sport", "")
	date := queryOr(r, "date", "")
	limit := parseLimit(r, 20)

	picks, err := h.queries.TopPicks(ctx, sport, date, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, picks)
}

func (h *Handler) BestMultis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BestMultis")
	defer span.End()

	sport := queryOr(r, "sport", "")
	date := queryOr(r, "date", "")

	multis, err := h.queries.BestMultis(ctx, sport, date)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, multis)
}

func (h *Handler) Accuracy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Accuracy")
	defer span.End()

	sport := queryOr(r, "sport", "")
	pickType := prediction.PickType(queryOr(r, "pickType", string(prediction.PickMoneyline)))

	summary, err := h.queries.Accuracy(ctx, sport, pickType)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, summary)
}

func (h *Handler) AccuracyHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AccuracyHistory")
	defer span.End()

	source := queryOr(r, "source", "")
	days := parseLimit(r, 30)
	if v := queryOr(r, "days", ""); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			days = parsed
		}
	}
	limit := parseLimit(r, 90)

	history, err := h.queries.AccuracyHistory(ctx, source, days, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, history)
}

func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Predictions")
	defer span.End()

	sport := queryOr(r, "sport", "")
	date := queryOr(r, "date", "")
	source := queryOr(r, "source", "")
	limit := parseLimit(r, 100)

	picks, err := h.queries.Predictions(ctx, sport, date, source, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, picks)
}

func (h *Handler) PredictionsByMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PredictionsByMatch")
	defer span.End()

	matchID := r.PathValue("matchId")
	picks, err := h.queries.PredictionsByMatch(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, picks)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Dashboard")
	defer span.End()

	dashboard, err := h.dashboard.Get(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	respondCacheable(ctx, w, r, dashboard)
}

const cacheControlPublic5Min = "public, max-age=300"

// respondCacheable writes data as a 200 with an ETag derived from its
// serialized content, honoring If-None-Match with a bare 304 so clients
// polling top-picks/best-multis/dashboard don't repay the full payload
// every five minutes.
func respondCacheable(ctx context.Context, w http.ResponseWriter, r *http.Request, data any) {
	etag, err := scoring.ETag(data)
	if err == nil {
		w.Header().Set("ETag", `"`+etag+`"`)
		w.Header().Set("Cache-Control", cacheControlPublic5Min)
		if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	writeSuccess(ctx, w, http.StatusOK, data)
}

func parseLimit(r *http.Request, def int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

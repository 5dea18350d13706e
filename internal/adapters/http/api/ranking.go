package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/types"
)

const defaultRankingLimit = 10

// RankingDependencies defines the interface for standings.
type RankingDependencies interface {
	Ranking(ctx context.Context, year int, medal model.MedalType, limit int) ([]types.StandingEntry, error)
}

// RankingHandler handles standings requests.
type RankingHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies, maxLimit int) *RankingHandler {
	return &RankingHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRanking handles GET /ranking?year=Y&medal=M&limit=N requests.
func (h *RankingHandler) HandleGetRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ranking"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	year, err := optionalInt(q.Get("year"))
	if err != nil || year < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	medal, err := model.ParseMedalType(q.Get("medal"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	n := defaultRankingLimit
	if s := q.Get("limit"); s != "" {
		n, err = optionalInt(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := h.deps.Ranking(r.Context(), year, medal, n)
	switch {
	case errors.Is(err, service.ErrUnknownYear):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

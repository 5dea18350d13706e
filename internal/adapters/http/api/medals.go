package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/query"
)

// MedalsDependencies defines the interface for country lookups.
type MedalsDependencies interface {
	Country(ctx context.Context, country string, year int) (service.Reply, error)
}

// MedalsHandler handles country medal requests.
type MedalsHandler struct {
	deps MedalsDependencies
}

// NewMedalsHandler creates a new medals handler.
func NewMedalsHandler(deps MedalsDependencies) *MedalsHandler {
	return &MedalsHandler{deps: deps}
}

// HandleGetMedals handles GET /medals?country=X&year=Y requests. year is
// optional and defaults to the most recent Games.
func (h *MedalsHandler) HandleGetMedals(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_medals"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	country := strings.TrimSpace(q.Get("country"))
	if country == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	year, err := optionalInt(q.Get("year"))
	if err != nil || year < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	reply, err := h.deps.Country(r.Context(), country, year)
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if reply.Outcome == query.OutcomeNoData {
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, errors.New(reply.Reason)))
		return
	}
	writeJSON(w, http.StatusOK, newReplyResponse(reply))
}

// optionalInt parses s, treating an empty string as 0.
func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

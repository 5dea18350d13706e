package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/medals/internal/app"
)

// AskDependencies defines the interface for question answering.
type AskDependencies interface {
	Ask(ctx context.Context, question string) (service.Reply, error)
}

// AskHandler handles question requests.
type AskHandler struct {
	deps AskDependencies
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(deps AskDependencies) *AskHandler {
	return &AskHandler{deps: deps}
}

type askRequest struct {
	Question string `json:"question"`
}

// HandleAsk handles POST /ask requests. Unresolved and NoData replies are
// still 200; the outcome field tells them apart.
func (h *AskHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	const op = "api.ask"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, service.ErrEmptyQuestion))
		return
	}

	reply, err := h.deps.Ask(r.Context(), req.Question)
	switch {
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newReplyResponse(reply))
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/types"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Ask(ctx context.Context, question string) (service.Reply, error)
	Country(ctx context.Context, country string, year int) (service.Reply, error)
	Ranking(ctx context.Context, year int, medal model.MedalType, limit int) ([]types.StandingEntry, error)
	// RequestReload queues a dataset reload. Returns false on backpressure.
	RequestReload(ctx context.Context, reason string) bool
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	askHandler     *AskHandler
	medalsHandler  *MedalsHandler
	rankingHandler *RankingHandler
	reloadHandler  *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		askHandler:     NewAskHandler(deps),
		medalsHandler:  NewMedalsHandler(deps),
		rankingHandler: NewRankingHandler(deps, maxRankingLimit),
		reloadHandler:  NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ask", MetricsMiddleware(s.askHandler.HandleAsk, "ask"))
	mux.HandleFunc("/medals", MetricsMiddleware(s.medalsHandler.HandleGetMedals, "medals"))
	mux.HandleFunc("/ranking", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
	mux.HandleFunc("/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

// replyResponse is the JSON shape of a service.Reply.
type replyResponse struct {
	Outcome   string             `json:"outcome"`
	Text      string             `json:"text,omitempty"`
	Source    string             `json:"source"`
	Reason    string             `json:"reason,omitempty"`
	Cause     string             `json:"cause,omitempty"`
	Query     parsedQuery        `json:"query"`
	Records   []types.MedalEntry `json:"records"`
	Documents []types.Document   `json:"documents,omitempty"`
}

type parsedQuery struct {
	Intent   string `json:"intent"`
	Year     int    `json:"year,omitempty"`
	Medal    string `json:"medal,omitempty"`
	Position int    `json:"position,omitempty"`
	Country  string `json:"country,omitempty"`
}

func newReplyResponse(r service.Reply) replyResponse {
	return replyResponse{
		Outcome: string(r.Outcome),
		Text:    r.Text,
		Source:  r.Source,
		Reason:  r.Reason,
		Cause:   string(r.Cause),
		Query: parsedQuery{
			Intent:   string(r.Parsed.Intent),
			Year:     r.Parsed.Year,
			Medal:    string(r.Parsed.Medal),
			Position: r.Parsed.Position,
			Country:  r.Parsed.Country,
		},
		Records:   types.NewMedalEntries(r.Records),
		Documents: r.Documents,
	}
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/draftrank/internal/adapters/repository"
	service "github.com/okian/draftrank/internal/app"
	"github.com/okian/draftrank/internal/domain/format"
	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ReportDependencies
	SaveDependencies
	ItemDependencies
}

// ReportDependencies produces the ranked views.
type ReportDependencies interface {
	Leaderboard(ctx context.Context) ([]format.View, error)
	Generate(ctx context.Context) ([]service.TeamSample, error)
}

// SaveDependencies applies additive saves.
type SaveDependencies interface {
	Save(ctx context.Context, id string, delta model.Delta, idempotencyKey string) (service.SaveResult, error)
}

// ItemDependencies reads and patches single items.
type ItemDependencies interface {
	Item(ctx context.Context, id string) (model.Item, error)
	UpdateItem(ctx context.Context, id string, patch model.Patch) (model.Item, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	reportHandler *ReportHandler
	saveHandler   *SaveHandler
	itemHandler   *ItemHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		reportHandler: NewReportHandler(deps),
		saveHandler:   NewSaveHandler(deps, log),
		itemHandler:   NewItemHandler(deps),
		logger:        log,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestID(AccessLog(s.logger, MetricsMiddleware(h, endpoint))))
	}
	route("/health", "health", s.healthHandler.HandleHealth)
	route("/stats", "stats", s.statsHandler.HandleStats)
	route("/all", "all", s.reportHandler.HandleAll)
	route("/generate", "generate", s.reportHandler.HandleGenerate)
	route("/save", "save", s.saveHandler.HandleSave)
	route("/items/{id}", "items", s.itemHandler.HandleItem)
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())
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

// writeFailure maps err onto a status code: not found is 404, bad input is
// 400, anything else is 500.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, repository.ErrEmptyID),
		errors.Is(err, service.ErrReadOnlyField),
		errors.Is(err, model.ErrUnknownField):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

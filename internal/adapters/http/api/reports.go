package api

import (
	"net/http"

	"github.com/okian/draftrank/internal/domain/format"
)

// ReportHandler serves the leaderboard and the team samples.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

type allResponse struct {
	Items []format.View `json:"items"`
}

// HandleAll handles GET /all requests.
func (h *ReportHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.all"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	views, err := h.deps.Leaderboard(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if views == nil {
		views = []format.View{}
	}
	writeJSON(w, http.StatusOK, allResponse{Items: views})
}

// HandleGenerate handles GET /generate requests. Each configured team
// appears under the key "team" + name.
func (h *ReportHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.generate"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	samples, err := h.deps.Generate(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	out := make(map[string][]format.View, len(samples))
	for _, s := range samples {
		items := s.Items
		if items == nil {
			items = []format.View{}
		}
		out["team"+s.Team] = items
	}
	writeJSON(w, http.StatusOK, out)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
)

// IdempotencyKeyHeader names the optional header that makes /save retry-safe.
const IdempotencyKeyHeader = "Idempotency-Key"

// maxBodyBytes caps request bodies of the write endpoints.
const maxBodyBytes = 1 << 20

// saveRequest mirrors the OpenAPI schema for POST /save. Pointers tell a
// missing value from an explicit zero.
type saveRequest struct {
	ID     string   `json:"id"`
	Value1 *float64 `json:"value1"`
	Value2 *float64 `json:"value2"`
	Value3 *float64 `json:"value3"`
	Value4 *float64 `json:"value4"`
	Value5 *float64 `json:"value5"`
	Value6 *float64 `json:"value6"`
}

func (s saveRequest) delta() (model.Delta, error) {
	if strings.TrimSpace(s.ID) == "" {
		return model.Delta{}, errors.New("missing id")
	}
	vals := []*float64{s.Value1, s.Value2, s.Value3, s.Value4, s.Value5, s.Value6}
	for i, v := range vals {
		if v == nil {
			return model.Delta{}, fmt.Errorf("missing %s", model.InputFields[i])
		}
	}
	return model.Delta{
		Value1: *s.Value1, Value2: *s.Value2, Value3: *s.Value3,
		Value4: *s.Value4, Value5: *s.Value5, Value6: *s.Value6,
	}, nil
}

type saveResponse struct {
	Success   bool `json:"success"`
	Duplicate bool `json:"duplicate,omitempty"`
}

// SaveHandler handles additive saves.
type SaveHandler struct {
	deps   SaveDependencies
	logger logger.Logger
}

// NewSaveHandler creates a new save handler.
func NewSaveHandler(deps SaveDependencies, log logger.Logger) *SaveHandler {
	return &SaveHandler{deps: deps, logger: log}
}

// HandleSave handles POST /save requests.
func (h *SaveHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	const op = "api.save"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req saveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	delta, err := req.delta()
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.Save(r.Context(), req.ID, delta, strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader)))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if !res.Duplicate {
		h.logger.Info(r.Context(), "saved item",
			logger.String("id", req.ID),
			logger.Any("delta", delta),
		)
	}
	writeJSON(w, http.StatusOK, saveResponse{Success: true, Duplicate: res.Duplicate})
}

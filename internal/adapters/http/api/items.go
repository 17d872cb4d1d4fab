package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/draftrank/internal/domain/model"
)

// ItemHandler serves single stored items.
type ItemHandler struct {
	deps ItemDependencies
}

// NewItemHandler creates a new item handler.
func NewItemHandler(deps ItemDependencies) *ItemHandler {
	return &ItemHandler{deps: deps}
}

// HandleItem handles GET and PATCH /items/{id} requests.
func (h *ItemHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, NewKind("api.item", ErrBadRequest))
		return
	}
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPatch:
		h.patch(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *ItemHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	it, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap("api.get_item", err))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) patch(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.patch_item"
	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	patch, err := parsePatch(body)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	it, err := h.deps.UpdateItem(r.Context(), id, patch)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// parsePatch accepts team and value1..value6. Anything else is rejected.
func parsePatch(body map[string]json.RawMessage) (model.Patch, error) {
	var p model.Patch
	for key, raw := range body {
		if key == "team" {
			var team string
			if err := json.Unmarshal(raw, &team); err != nil {
				return model.Patch{}, fmt.Errorf("team: %w", err)
			}
			p.Team = &team
			continue
		}
		f, err := model.ParseField(key)
		if err != nil {
			return model.Patch{}, err
		}
		if f > model.Value6 {
			return model.Patch{}, fmt.Errorf("%s is derived and cannot be set", key)
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return model.Patch{}, fmt.Errorf("%s: %w", key, err)
		}
		if p.Values == nil {
			p.Values = make(map[model.Field]float64)
		}
		p.Values[f] = v
	}
	return p, nil
}

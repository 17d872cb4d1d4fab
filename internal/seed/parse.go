// Package seed bulk-loads items from a JSON document into a store.
package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/internal/domain/ranking"
)

// idWidth is the zero-padded width of integer ids.
const idWidth = 3

// Parse decodes a JSON array of items. Integer ids become zero-padded
// strings ("7" -> "007"). value1..value6 are required; value7..value10 are
// recomputed when recompute is set and required otherwise.
func Parse(data []byte, recompute bool) ([]model.Item, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidInput)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: top level must be an array", ErrInvalidInput)
	}

	required := model.InputFields
	if !recompute {
		required = append(append([]model.Field(nil), model.InputFields...), model.DerivedFields...)
	}

	var (
		items    []model.Item
		seen     = map[string]bool{}
		firstErr error
	)
	doc.ForEach(func(_, row gjson.Result) bool {
		it, err := parseItem(row, required)
		if err != nil {
			firstErr = fmt.Errorf("item %d: %w", len(items), err)
			return false
		}
		if seen[it.ID] {
			firstErr = fmt.Errorf("item %d: %w: %s", len(items), ErrDuplicateID, it.ID)
			return false
		}
		seen[it.ID] = true
		if recompute {
			it = ranking.CalculateDerived(it)
		}
		items = append(items, it)
		return true
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return items, nil
}

func parseItem(row gjson.Result, required []model.Field) (model.Item, error) {
	if !row.IsObject() {
		return model.Item{}, fmt.Errorf("%w: expected an object", ErrInvalidInput)
	}
	id, err := parseID(row.Get("id"))
	if err != nil {
		return model.Item{}, err
	}
	team := row.Get("team")
	if !team.Exists() {
		return model.Item{}, fmt.Errorf("%w: team", ErrMissingField)
	}
	if team.Type != gjson.String {
		return model.Item{}, fmt.Errorf("%w: team must be a string", ErrInvalidField)
	}

	it := model.Item{ID: id, Team: team.Str}
	for _, f := range required {
		v := row.Get(f.String())
		if !v.Exists() {
			return model.Item{}, fmt.Errorf("%w: %s on %s", ErrMissingField, f, id)
		}
		if v.Type != gjson.Number {
			return model.Item{}, fmt.Errorf("%w: %s on %s must be a number", ErrInvalidField, f, id)
		}
		it = it.WithValue(f, v.Num)
	}
	return it, nil
}

func parseID(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.Null:
		if !v.Exists() {
			return "", fmt.Errorf("%w: id", ErrMissingField)
		}
		return "", fmt.Errorf("%w: id is null", ErrInvalidField)
	case gjson.Number:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%w: id %s is not a non-negative integer", ErrInvalidField, v.Raw)
		}
		return fmt.Sprintf("%0*d", idWidth, n), nil
	case gjson.String:
		if strings.TrimSpace(v.Str) == "" {
			return "", fmt.Errorf("%w: id is empty", ErrInvalidField)
		}
		return v.Str, nil
	default:
		return "", fmt.Errorf("%w: id must be a string or integer", ErrInvalidField)
	}
}

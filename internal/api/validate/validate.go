// Package validate parses and checks request input. Failures are returned as
// model.ValidationError so handlers can map them to 400.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pa816859-hue/shiny-octo-succotash/internal/model"
	"github.com/pa816859-hue/shiny-octo-succotash/internal/tagquery"
)

// PositiveInt parses a query value that must be >= 1. Empty input yields def.
func PositiveInt(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewValidationError(field, fmt.Sprintf("%q is not an integer", raw))
	}
	if n < 1 {
		return 0, model.NewValidationError(field, fmt.Sprintf("%s must be greater than or equal to 1", field))
	}
	return n, nil
}

// IDBody is the body accepted by skip, like and unlike.
type IDBody struct {
	ID int64 `json:"id"`
}

// DecodeID reads {"id": n}. An empty body or missing id yields 0.
func DecodeID(body io.Reader) (int64, error) {
	if body == nil {
		return 0, nil
	}
	var req IDBody
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		return 0, model.NewValidationError("id", "invalid JSON body")
	}
	return req.ID, nil
}

// TagList expands repeated and comma separated tag parameters.
func TagList(values []string) []string {
	out := []string{}
	for _, part := range tagquery.SplitList(values) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return model.NewValidationError(field, fmt.Sprintf("%s is required", field))
	}
	return nil
}

package services

import (
	"strings"

	"katalog/internal/models"
)

// ValidationError is returned when a product or stock adjustment is refused
// by the validators. Results holds only the failing fields.
type ValidationError struct {
	Results []models.FieldResult
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Results))
	for _, r := range e.Results {
		msgs = append(msgs, r.Outcome.String())
	}
	return "validation failed: " + strings.Join(msgs, " ")
}

func failing(results []models.FieldResult) []models.FieldResult {
	var out []models.FieldResult
	for _, r := range results {
		if !r.Outcome.Valid() {
			out = append(out, r)
		}
	}
	return out
}

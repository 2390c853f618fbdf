package app

import (
	"errors"
	"fmt"
	"strings"

	"review_analyzer/internal/domain"
)

// mapRaw turns one imported row into a review. The returned error explains
// why the row cannot be stored; the row is then skipped.
func mapRaw(raw domain.RawReview, newID func() string) (domain.Review, error) {
	if !domain.IsValidLocation(raw.Location) {
		return domain.Review{}, fmt.Errorf("unknown location %q", raw.Location)
	}
	if raw.Body == "" {
		return domain.Review{}, errors.New("empty review body")
	}
	ts, err := domain.ParseTimestamp(raw.Timestamp)
	if err != nil {
		return domain.Review{}, err
	}
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = newID()
	}
	return domain.Review{ID: id, Location: raw.Location, Timestamp: ts, Body: raw.Body}, nil
}

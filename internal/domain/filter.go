package domain

import (
	"strings"
	"time"
)

// ReviewFilter selects reviews on the read path. Nil fields mean "no filter".
type ReviewFilter struct {
	Location *string
	Start    *time.Time // inclusive
	End      *time.Time // inclusive
}

// FilterReviews applies the location filter, then the date range, keeping
// input order. An unknown location yields an empty result. The input slice is
// never modified.
func FilterReviews(reviews []Review, f ReviewFilter) []Review {
	if f.Location != nil && !IsValidLocation(*f.Location) {
		return []Review{}
	}

	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if f.Location != nil && r.Location != *f.Location {
			continue
		}
		if f.Start != nil && r.Timestamp.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.Timestamp.After(*f.End) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Key returns a stable string form of the filter, used for cache keys.
func (f ReviewFilter) Key() string {
	var b strings.Builder
	b.WriteString("loc=")
	if f.Location != nil {
		b.WriteString("[" + *f.Location + "]")
	}
	b.WriteString("|start=")
	if f.Start != nil {
		b.WriteString(f.Start.Format(time.RFC3339Nano))
	}
	b.WriteString("|end=")
	if f.End != nil {
		b.WriteString(f.End.Format(time.RFC3339Nano))
	}
	return b.String()
}

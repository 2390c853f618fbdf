package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

type ImportService struct {
	store domain.ReviewStore
	newID func() string
}

func NewImportService(s domain.ReviewStore, newID func() string) *ImportService {
	if newID == nil {
		newID = uuid.NewString
	}
	return &ImportService{store: s, newID: newID}
}

type ImportResult struct {
	Imported int
	Skipped  int
}

// Import appends every usable row in file order. Rows that fail mapping or
// repeat an id already seen in this batch are logged and counted as skipped.
func (s *ImportService) Import(ctx context.Context, rows []domain.RawReview) ImportResult {
	var res ImportResult
	seen := make(map[string]struct{}, len(rows))
	for _, raw := range rows {
		if ctx.Err() != nil {
			break
		}
		r, err := mapRaw(raw, s.newID)
		if err != nil {
			log.Warn().Err(err).Int("line", raw.Line).Msg("skipping review row")
			res.Skipped++
			continue
		}
		if _, dup := seen[r.ID]; dup {
			log.Warn().Str("review_id", r.ID).Int("line", raw.Line).Msg("skipping duplicate review id")
			res.Skipped++
			continue
		}
		seen[r.ID] = struct{}{}
		s.store.Append(r)
		res.Imported++
	}
	return res
}

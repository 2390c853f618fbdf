package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"review_analyzer/internal/domain"
)

type ReviewService struct {
	store     domain.ReviewStore
	scorer    domain.Scorer
	publisher domain.Publisher
	clock     clockwork.Clock
	newID     func() string
}

// NewReviewService wires the write path. publisher may be nil; clock and
// newID default to the wall clock and random UUIDs.
func NewReviewService(s domain.ReviewStore, sc domain.Scorer, p domain.Publisher, clock clockwork.Clock, newID func() string) *ReviewService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &ReviewService{store: s, scorer: sc, publisher: p, clock: clock, newID: newID}
}

type CreateReviewInput struct {
	Location string
	Body     string
}

// CreateReview validates, scores and appends one review. Nothing is stored
// unless every step before the append succeeded.
func (s *ReviewService) CreateReview(ctx context.Context, in CreateReviewInput) (domain.Review, error) {
	// Whitespace counts as a value: a blank location fails the allow-list
	// instead, and a blank body is stored as given.
	switch {
	case in.Location == "":
		return domain.Review{}, domain.Validation("Location is required.")
	case in.Body == "":
		return domain.Review{}, domain.Validation("ReviewBody is required.")
	case !domain.IsValidLocation(in.Location):
		return domain.Review{}, domain.Validation("Invalid location.")
	}

	r := domain.Review{
		ID:        s.newID(),
		Location:  in.Location,
		Timestamp: s.clock.Now().Truncate(time.Second),
		Body:      in.Body,
	}
	sent, err := s.scorer.Score(ctx, r.Body)
	if err != nil {
		return domain.Review{}, domain.Unexpected("score review", err)
	}

	s.store.Append(r)
	r.Sentiment = &sent

	if s.publisher != nil {
		if err := s.publisher.PublishReviewCreated(ctx, r); err != nil {
			log.Warn().Err(err).Str("review_id", r.ID).Msg("publish review.created failed")
		}
	}
	return r, nil
}

package domain

import "context"

// ReviewStore is the append-only review collection.
type ReviewStore interface {
	Append(r Review)
	// Snapshot returns a copy of all reviews in insertion order.
	Snapshot() []Review
	Len() int
}

// Scorer computes the sentiment of a text. Implementations must be
// deterministic and safe for concurrent use.
type Scorer interface {
	Score(ctx context.Context, text string) (Sentiment, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Publisher announces newly created reviews to downstream consumers.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, r Review) error
}

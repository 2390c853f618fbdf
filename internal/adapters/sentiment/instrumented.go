package sentiment

import (
	"context"
	"time"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

type instrumented struct {
	name string
	next domain.Scorer
}

// Instrumented records latency and failures of next under the given name.
func Instrumented(name string, next domain.Scorer) domain.Scorer {
	return &instrumented{name: name, next: next}
}

func (s *instrumented) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	start := time.Now()
	out, err := s.next.Score(ctx, text)
	observability.ObserveSentiment(s.name, err, time.Since(start))
	return out, err
}

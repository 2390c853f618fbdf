// Package sentiment adapts sentiment engines to domain.Scorer.
package sentiment

import (
	"context"

	"github.com/jonreiter/govader"

	"review_analyzer/internal/domain"
)

// Vader scores text with the VADER lexicon and rule set. The analyzer only
// reads its lexicon after construction, so one instance serves all goroutines.
type Vader struct {
	a *govader.SentimentIntensityAnalyzer
}

var _ domain.Scorer = (*Vader)(nil)

func NewVader() *Vader {
	return &Vader{a: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Score(_ context.Context, text string) (domain.Sentiment, error) {
	s := v.a.PolarityScores(text)
	return domain.Sentiment{
		Negative: s.Negative,
		Neutral:  s.Neutral,
		Positive: s.Positive,
		Compound: s.Compound,
	}, nil
}

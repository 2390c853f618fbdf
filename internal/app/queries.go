package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"review_analyzer/internal/domain"
)

type QueryService struct {
	store    domain.ReviewStore
	scorer   domain.Scorer
	cache    domain.Cache
	cacheTTL time.Duration
	workers  int
	// ns scopes cache keys to this process; store lengths of two instances
	// sharing one redis say nothing about each other's data.
	ns string
}

// NewQueryService wires the read path. cache may be nil.
func NewQueryService(s domain.ReviewStore, sc domain.Scorer, c domain.Cache, ttl time.Duration, workers int) *QueryService {
	if workers <= 0 {
		workers = 1
	}
	return &QueryService{store: s, scorer: sc, cache: c, cacheTTL: ttl, workers: workers, ns: uuid.NewString()}
}

// ListReviews filters a snapshot of the store, scores every match and
// returns them ordered by compound sentiment, most positive first.
func (s *QueryService) ListReviews(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	snap := s.store.Snapshot()

	// The store only grows, so its length versions the cached result.
	key := fmt.Sprintf("reviews:%s:%d:%s", s.ns, len(snap), f.Key())
	if s.cache != nil {
		var out []domain.Review
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}

	rs := domain.FilterReviews(snap, f)
	if err := s.scoreAll(ctx, rs); err != nil {
		return nil, err
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Sentiment.Compound > rs[j].Sentiment.Compound
	})

	// A sub-second TTL would reach Redis as 0, which means no expiry.
	if s.cache != nil && len(rs) > 0 && s.cacheTTL >= time.Second {
		_ = s.cache.Set(ctx, key, rs, int(s.cacheTTL.Seconds()))
	}
	return rs, nil
}

func (s *QueryService) scoreAll(ctx context.Context, rs []domain.Review) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range rs {
		i := i
		g.Go(func() error {
			sent, err := s.scorer.Score(gctx, rs[i].Body)
			if err != nil {
				return fmt.Errorf("score review %s: %w", rs[i].ID, err)
			}
			rs[i].Sentiment = &sent
			return nil
		})
	}
	return g.Wait()
}

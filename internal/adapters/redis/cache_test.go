package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_RoundTripReviews(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	ts, err := domain.ParseTimestamp("2023-04-01 12:00:00")
	require.NoError(t, err)
	in := []domain.Review{{
		ID: "r1", Location: "Denver, Colorado", Timestamp: ts, Body: "Great service",
		Sentiment: &domain.Sentiment{Neutral: 0.2, Positive: 0.8, Compound: 0.62},
	}}

	var miss []domain.Review
	ok, err := c.Get(ctx, "k", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", in, 60))

	var out []domain.Review
	ok, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "r1", out[0].ID)
	assert.True(t, ts.Equal(out[0].Timestamp))
	assert.Equal(t, 0.62, out[0].Sentiment.Compound)
}

func TestCache_TTLAndDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []string{"x"}, 10))
	assert.Equal(t, 10*time.Second, mr.TTL("a"))

	mr.FastForward(11 * time.Second)
	var out []string
	ok, err := c.Get(ctx, "a", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "b", []string{"y"}, 10))
	require.NoError(t, c.Del(ctx, "b"))
	assert.False(t, mr.Exists("b"))
}

func TestCache_CorruptValue(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []domain.Review
	ok, err := c.Get(context.Background(), "bad", &out)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCache_PingUnavailable(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, c.Ping(context.Background()))
	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}

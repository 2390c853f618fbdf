package sentiment

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/domain"
)

// Remote scores text with an HTTP sentiment service:
//
//	POST {base}/score  {"text": "..."}  ->  {"neg":..,"neu":..,"pos":..,"compound":..}
type Remote struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

var _ domain.Scorer = (*Remote)(nil)

var (
	ErrNotFound     = errors.New("sentiment: endpoint not found")
	ErrUnauthorized = errors.New("sentiment: unauthorized")
	ErrForbidden    = errors.New("sentiment: forbidden")
)

const maxAttempts = 4

func NewRemote(base, key string, rps int) (*Remote, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("sentiment base URL is required")
	}
	if rps <= 0 {
		rps = 20
	}
	return &Remote{
		base: base,
		hc:   &http.Client{Timeout: 10 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type scoreRequest struct {
	Text string `json:"text"`
}

func (c *Remote) Score(ctx context.Context, text string) (domain.Sentiment, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return domain.Sentiment{}, err
	}
	var out domain.Sentiment
	if err := c.post(ctx, c.base+"/score", body, &out); err != nil {
		return domain.Sentiment{}, err
	}
	return out, nil
}

// post sends body with client-side rate limiting and retries, decoding the
// JSON answer into out. Retries on 429 and transient 5xx, honoring Retry-After.
func (c *Remote) post(ctx context.Context, url string, body []byte, out any) error {
	for i := 0; ; i++ {
		retry, wait, err := c.attempt(ctx, url, body, out)
		if !retry || i == maxAttempts-1 {
			return err
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if !sleepCtx(ctx, wait) {
			return ctx.Err()
		}
	}
}

var statusErrs = map[int]error{
	http.StatusNotFound:     ErrNotFound,
	http.StatusUnauthorized: ErrUnauthorized,
	http.StatusForbidden:    ErrForbidden,
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusInternalServerError,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// attempt makes one rate-limited request. retry reports whether the failure
// is transient; wait is the server's Retry-After hint, 0 if none.
func (c *Remote) attempt(ctx context.Context, url string, body []byte, out any) (retry bool, wait time.Duration, err error) {
	if err := c.rl.Wait(ctx); err != nil {
		return false, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, 0, err
	}
	if c.key != "" {
		req.Header.Set("X-API-Key", c.key)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-analyzer/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("sentiment", "score", 0, time.Since(start))
		if ctx.Err() != nil {
			return false, 0, ctx.Err()
		}
		return true, 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("sentiment", "score", resp.StatusCode, time.Since(start))

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, 0, fmt.Errorf("decode sentiment response: %w", err)
		}
		return false, 0, nil
	case statusErrs[code] != nil:
		return false, 0, statusErrs[code]
	case retryable(code):
		_, _ = io.Copy(io.Discard, resp.Body)
		return true, retryAfter(resp), fmt.Errorf("sentiment service %d", code)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, 0, fmt.Errorf("bad status %d: %s", code, strings.TrimSpace(string(b)))
	}
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 100ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

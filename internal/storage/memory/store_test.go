package memory_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/domain"
	"review_analyzer/internal/storage/memory"
)

func TestStore_AppendKeepsInsertionOrder(t *testing.T) {
	s := memory.New()
	for i := 0; i < 5; i++ {
		s.Append(domain.Review{ID: fmt.Sprintf("r%d", i), Location: "Denver, Colorado"})
	}
	require.Equal(t, 5, s.Len())

	snap := s.Snapshot()
	for i, r := range snap {
		assert.Equal(t, fmt.Sprintf("r%d", i), r.ID)
	}
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := memory.New()
	s.Append(domain.Review{ID: "a"})
	s.Append(domain.Review{ID: "b"})

	snap := s.Snapshot()
	snap[0], snap[1] = snap[1], snap[0]
	snap[0].Body = "mutated"

	again := s.Snapshot()
	assert.Equal(t, "a", again[0].ID)
	assert.Equal(t, "", again[0].Body)
	assert.Equal(t, "", again[1].Body)
}

func TestStore_DropsSentimentOnAppend(t *testing.T) {
	s := memory.New()
	s.Append(domain.Review{ID: "a", Sentiment: &domain.Sentiment{Compound: 0.9}})
	assert.Nil(t, s.Snapshot()[0].Sentiment)
}

func TestStore_EmptySnapshot(t *testing.T) {
	snap := memory.New().Snapshot()
	assert.NotNil(t, snap)
	assert.Empty(t, snap)
}

func TestStore_ConcurrentAppendAndRead(t *testing.T) {
	s := memory.New()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Append(domain.Review{ID: fmt.Sprintf("%d-%d", w, i)})
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, s.Len())
}

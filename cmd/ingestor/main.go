// Command ingestor dry-runs a review import: it loads a CSV file the way the
// API does at startup, scores every accepted review and logs a per-location
// summary without serving anything.
package main

import (
	"context"
	"flag"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_analyzer/internal/adapters/observability"
	"review_analyzer/internal/adapters/sentiment"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/csvfile"
	"review_analyzer/internal/storage/memory"
)

func main() {
	_ = godotenv.Load()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	file := flag.String("file", cfg.DataFile, "review CSV to import")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	ctx := context.Background()

	log.Info().Str("file", *file).Int("workers", cfg.ScoreWorkers).Msg("ingestor starting")

	rows, err := csvfile.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("read review file")
	}
	store := memory.New()
	res := app.NewImportService(store, nil).Import(ctx, rows)
	log.Info().Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("rows processed")

	// Locations are summarized concurrently; each one scores its own reviews.
	q := app.NewQueryService(store, sentiment.NewVader(), nil, 0, cfg.ScoreWorkers)
	sem := semaphore.NewWeighted(int64(cfg.ScoreWorkers))
	var wg sync.WaitGroup

	for _, loc := range domain.Locations() {
		loc := loc

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			rs, err := q.ListReviews(ctx, domain.ReviewFilter{Location: &loc})
			if err != nil {
				log.Warn().Str("location", loc).Err(err).Msg("summary failed")
				return
			}
			if len(rs) == 0 {
				return
			}
			s := summarize(rs)
			log.Info().
				Str("location", loc).
				Int("reviews", s.Count).
				Float64("avg_compound", s.AvgCompound).
				Str("best", s.BestID).
				Str("worst", s.WorstID).
				Msg("location summary")
		}()
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}

type summary struct {
	Count       int
	AvgCompound float64
	BestID      string
	WorstID     string
}

// summarize expects rs sorted by compound, most positive first.
func summarize(rs []domain.Review) summary {
	s := summary{Count: len(rs)}
	if len(rs) == 0 {
		return s
	}
	var total float64
	for _, r := range rs {
		if r.Sentiment != nil {
			total += r.Sentiment.Compound
		}
	}
	s.AvgCompound = total / float64(len(rs))
	s.BestID = rs[0].ID
	s.WorstID = rs[len(rs)-1].ID
	return s
}

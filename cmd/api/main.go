package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	server "review_analyzer/internal/adapters/http_server"
	kafkapub "review_analyzer/internal/adapters/kafka"
	"review_analyzer/internal/adapters/observability"
	redisad "review_analyzer/internal/adapters/redis"
	"review_analyzer/internal/adapters/sentiment"
	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/shared"
	"review_analyzer/internal/storage/csvfile"
	"review_analyzer/internal/storage/memory"
)

const shutdownGrace = 10 * time.Second

func main() {
	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// store + startup import
	store := memory.New()
	if err := loadReviews(ctx, store, cfg.DataFile); err != nil {
		log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("import reviews failed")
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("sentiment scorer")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; response cache disabled")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache enabled")
		}
	}

	var publisher domain.Publisher
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp := kafkapub.New(brokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("review events enabled")
	}

	// deps
	q := app.NewQueryService(store, scorer, cache, cfg.CacheTTL(), cfg.ScoreWorkers)
	rs := app.NewReviewService(store, scorer, publisher, nil, nil)

	var limiter *rate.Limiter
	if cfg.WriteRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.WriteRPS), cfg.WriteBurst)
	}

	// http
	reg := observability.InitRegistry()
	observability.RegisterStoreSize(reg, store.Len)

	srv := server.New(server.Config{
		Logger:         log.Logger,
		RequestTimeout: cfg.RequestTimeout(),
		CORSOrigins:    cfg.Origins(),
	})
	if cfg.MetricsAddr == "" {
		srv.Mount("/metrics", observability.MetricsHandler(reg))
	}
	srv.MountHandlers(&server.Handlers{Q: q, R: rs, WriteLimiter: limiter})

	servers := []*http.Server{{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.MetricsAddr != "" {
		servers = append(servers, observability.NewMetricsServer(cfg.MetricsAddr, reg))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, hs := range servers {
		hs := hs
		g.Go(func() error {
			log.Info().Str("addr", hs.Addr).Msg("listening")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		for _, hs := range servers {
			if err := hs.Shutdown(sctx); err != nil {
				log.Warn().Err(err).Str("addr", hs.Addr).Msg("shutdown")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server failed")
		return
	}
	log.Info().Msg("stopped")
}

// loadReviews imports the CSV at path. An empty path or a missing file
// starts the service with no reviews.
func loadReviews(ctx context.Context, store domain.ReviewStore, path string) error {
	if path == "" {
		log.Info().Msg("no data file configured; starting empty")
		return nil
	}
	rows, err := csvfile.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", path).Msg("data file not found; starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	res := app.NewImportService(store, nil).Import(ctx, rows)
	log.Info().
		Str("file", path).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("reviews imported")
	return nil
}

func newScorer(cfg shared.Config) (domain.Scorer, error) {
	if cfg.SentimentURL == "" {
		return sentiment.Instrumented("vader", sentiment.NewVader()), nil
	}
	rc, err := sentiment.NewRemote(cfg.SentimentURL, cfg.SentimentAPIKey, cfg.SentimentRPS)
	if err != nil {
		return nil, err
	}
	log.Info().Str("base", cfg.SentimentURL).Msg("remote sentiment scorer")
	return sentiment.Instrumented("remote", rc), nil
}

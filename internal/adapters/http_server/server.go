package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 15 * time.Second

type Config struct {
	Logger         zerolog.Logger
	RequestTimeout time.Duration
	// CORSOrigins lists allowed origins; empty allows any.
	CORSOrigins []string
}

type Server struct{ mux *chi.Mux }

func New(cfg Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(corsHandler(cfg.CORSOrigins).Handler)
	m.Use(Timeout(cfg.RequestTimeout))
	m.Use(Metrics)
	m.Use(Logger(cfg.Logger))

	return &Server{mux: m}
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}

// Package api serves word lookups over HTTP as JSON.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bananas-dict/bananas/internal/lexicon"
	"github.com/bananas-dict/bananas/internal/logging"
	"github.com/bananas-dict/bananas/internal/wordstore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// DefaultSampleLength is used by /random when no length is given.
const DefaultSampleLength = 2

// Dictionary is the lookup API the server exposes.
type Dictionary interface {
	Exists(name string) (bool, error)
	Lookup(name string) (lexicon.Word, error)
	Sample(length int) (lexicon.Word, error)
	Editions() []lexicon.Edition
}

// Server holds the HTTP handlers.
type Server struct {
	dict     Dictionary
	logger   *slog.Logger
	registry *prometheus.Registry
	origins  []string
	metrics  *metrics
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithAllowedOrigins sets the CORS allowed origins. Defaults to "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewServer creates a server backed by dict.
func NewServer(dict Dictionary, opts ...Option) *Server {
	s := &Server{
		dict:    dict,
		logger:  logging.NewNop(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.instrument)

	r.Get("/healthz", s.Health)
	r.Get("/editions", s.ListEditions)
	r.Get("/words/{name}", s.GetWord)
	r.Get("/words/{name}/exists", s.WordExists)
	r.Get("/random", s.RandomWord)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})
	return c.Handler(r)
}

// wordResponse is the JSON shape of a lookup result.
type wordResponse struct {
	lexicon.Word
	Found bool `json:"found"`
}

type existsResponse struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListEditions handles GET /editions.
func (s *Server) ListEditions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dict.Editions())
}

// GetWord handles GET /words/{name}. Unknown words are answered with the
// stub word and found=false, not 404.
func (s *Server) GetWord(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	word, err := s.dict.Lookup(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.metrics.observeLookup(word.Found())
	s.writeJSON(w, http.StatusOK, wordResponse{Word: word, Found: word.Found()})
}

// WordExists handles GET /words/{name}/exists.
func (s *Server) WordExists(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ok, err := s.dict.Exists(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.metrics.observeLookup(ok)
	s.writeJSON(w, http.StatusOK, existsResponse{Name: name, Exists: ok})
}

// RandomWord handles GET /random?length=n.
func (s *Server) RandomWord(w http.ResponseWriter, r *http.Request) {
	length := DefaultSampleLength
	if raw := r.URL.Query().Get("length"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "length must be an integer"})
			return
		}
		length = n
	}

	word, err := s.dict.Sample(length)
	if errors.Is(err, wordstore.ErrNoWordsOfLength) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, wordResponse{Word: word, Found: true})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("error", err),
	)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// instrument records request durations by route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// writeJSON sends v with status. The status line is already out when encoding
// fails, so the error can only be logged.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", slog.Int("status", status), slog.Any("error", err))
	}
}

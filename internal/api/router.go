// Package api serves analytics snapshots and transcripts over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xaenox/chatlog-analytics/internal/analytics"
	"github.com/xaenox/chatlog-analytics/internal/metrics"
	"github.com/xaenox/chatlog-analytics/internal/storage"
	"github.com/xaenox/chatlog-analytics/internal/transcript"
)

// Options tune request defaults.
type Options struct {
	AllowedOrigins []string
	DefaultDays    int
	QuestionsLimit int
}

// Router wires handlers to their dependencies.
type Router struct {
	assembler   *analytics.Assembler
	transcripts *transcript.Service
	store       storage.EventStore
	metrics     *metrics.Metrics
	logger      *zap.Logger
	opts        Options
	now         func() time.Time
}

func NewRouter(
	assembler *analytics.Assembler,
	transcripts *transcript.Service,
	store storage.EventStore,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) *Router {
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = 7
	}
	if opts.QuestionsLimit <= 0 {
		opts.QuestionsLimit = 50
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		assembler:   assembler,
		transcripts: transcripts,
		store:       store,
		metrics:     m,
		logger:      logger,
		opts:        opts,
		now:         time.Now,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(rt.logger))
	router.Use(Instrument(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/analytics", rt.getAnalytics)
		r.Get("/questions", rt.listQuestions)

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", rt.findConversation)
			r.Get("/{conversationID}", rt.getConversation)
		})

		r.Post("/citation-clicks", rt.recordCitationClick)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

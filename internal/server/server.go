package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/llmtext"
	"github.com/claude/liftlog/internal/llm"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// Store is the persistence surface the HTTP handlers need.
type Store interface {
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	SoftDeleteSession(ctx context.Context, id string, at time.Time) (bool, error)
	ReplaceAllSessions(ctx context.Context, sessions []models.WorkoutSession) error
	QueryIngestLogs(ctx context.Context, limit int) ([]storage.IngestLog, error)
}

// Ingester runs the free-text workout pipeline.
type Ingester interface {
	Ingest(ctx context.Context, text string, opts llmtext.NormalizeOptions) (*ingest.Result, error)
	IngestRaw(ctx context.Context, modelOutput string, opts llmtext.NormalizeOptions) (*ingest.Result, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     Store
	ingester  Ingester
	completer llm.Completer
	log       *slog.Logger
	apiKey    string
	router    chi.Router
	now       func() time.Time
}

// New creates a new Server with all routes configured.
func New(store Store, ingester Ingester, completer llm.Completer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:     store,
		ingester:  ingester,
		completer: completer,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
		now:       time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Post("/log", s.handleLog)
		r.Post("/log/raw", s.handleLogRaw)
		r.Post("/ask", s.handleAsk)
		r.Post("/plan", s.handlePlan)

		r.Get("/sessions", s.handleListSessions)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Get("/stats", s.handleStats)
		r.Get("/prs", s.handlePRs)

		r.Get("/backup", s.handleBackupExport)
		r.Post("/backup", s.handleBackupImport)

		r.Get("/ingest-logs", s.handleIngestLogs)
	})
}

package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/llmtext"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

// DataSource is the read surface MCP tools need.
type DataSource interface {
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// Ingester runs the free-text workout pipeline for the log_workout tool.
type Ingester interface {
	IngestRaw(ctx context.Context, modelOutput string, opts llmtext.NormalizeOptions) (*ingest.Result, error)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, ingester Ingester, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracking server. Log workouts from structured exercise data, query training stats, personal records, and sessions, and generate workout plans."),
	)

	h := &handlers{ds: ds, ingester: ingester, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
		server.ServerTool{Tool: toolGetPRs, Handler: h.getPRs},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolResolveExercise, Handler: h.resolveExercise},
		server.ServerTool{Tool: toolPlanWorkout, Handler: h.planWorkout},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWeeklySummary, Handler: h.weeklySummary},
		server.ServerResource{Resource: resPersonalRecords, Handler: h.personalRecords},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	ingester Ingester
	log      *slog.Logger
}

// --- Resource definitions ---

var resWeeklySummary = mcp.NewResource(
	"liftlog://weekly_summary",
	"Weekly Summary",
	mcp.WithResourceDescription("Current ISO week training stats: sets per muscle group with direct and fractional accounting, volume, and global totals"),
	mcp.WithMIMEType("application/json"),
)

var resPersonalRecords = mcp.NewResource(
	"liftlog://personal_records",
	"Personal Records",
	mcp.WithResourceDescription("Heaviest set per exercise with rep count and date, plus estimated one-rep maxes"),
	mcp.WithMIMEType("application/json"),
)

package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/ingest/llmtext"
	"github.com/claude/liftlog/internal/intent"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/resolve"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/stats"
)

// --- Tool definitions ---

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a workout from structured exercise JSON. Accepts an array of exercises, a {\"exercises\": [...]} wrapper, or a single exercise object. Each exercise has exercise, date (YYYY-MM-DD or null for today), sets, reps array, and weights array (\"bw\" for bodyweight). Exercises merge into the session for their date."),
	mcp.WithString("payload", mcp.Required(), mcp.Description("Exercise JSON. Surrounding prose and code fences are tolerated.")),
)

var toolGetStats = mcp.NewTool("get_stats",
	mcp.WithDescription("Training statistics: weekly sets per muscle group (direct, fractional, and total accounting), volume per group, workout day counts, and the most common exercise."),
)

var toolGetPRs = mcp.NewTool("get_prs",
	mcp.WithDescription("Personal records: the heaviest set per exercise with reps and date, ties broken by rep count, plus the Epley estimated one-rep max."),
	mcp.WithString("exercise", mcp.Description("Limit to one exercise (fuzzy matched against history)")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("List workout sessions newest first with their exercises and sets."),
	mcp.WithString("start", mcp.Description("Earliest date to include (YYYY-MM-DD)")),
	mcp.WithString("end", mcp.Description("Latest date to include (YYYY-MM-DD)")),
)

var toolResolveExercise = mcp.NewTool("resolve_exercise",
	mcp.WithDescription("Fuzzy-match a free-text exercise reference against the names in the training log. Returns the matched name with a score, or suggestions when nothing matches."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Exercise reference as the user typed it (e.g. 'dl', 'benched')")),
)

var toolPlanWorkout = mcp.NewTool("plan_workout",
	mcp.WithDescription("Generate a workout plan: picks exercises for a muscle group (default: least recently trained), skips anything trained in the last 48 hours, and optionally attaches PR-derived weight targets."),
	mcp.WithString("focus", mcp.Description("Muscle group to target (e.g. Chest, Back, Legs)")),
	mcp.WithString("goal", mcp.Description("Training goal"), mcp.Enum("strength", "hypertrophy", "conditioning")),
	mcp.WithNumber("duration_minutes", mcp.Description("Planned session length. Under 35 minutes gives 3 exercises, up to 60 gives 4, longer gives 5.")),
	mcp.WithBoolean("include_targets", mcp.Description("Attach weight targets derived from PR data")),
)

// --- Tool handlers ---

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := req.RequireString("payload")
	if err != nil {
		return mcp.NewToolResultError("payload parameter is required"), nil
	}

	opts := llmtext.NormalizeOptions{
		UseTemplateMuscles: true,
		Today:              time.Now().Format(models.TrainingDateLayout),
	}
	result, err := h.ingester.IngestRaw(ctx, payload, opts)
	if err != nil {
		h.log.Error("mcp log_workout", "error", err)
		return mcp.NewToolResultError("logging failed: " + err.Error()), nil
	}

	out, err := mcp.NewToolResultJSON(result)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *handlers) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	currentWeek := models.ISOWeek(time.Now().Format(models.TrainingDateLayout))
	out, err := mcp.NewToolResultJSON(stats.Aggregate(sessions, currentWeek))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *handlers) getPRs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_prs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type prEntry struct {
		stats.PersonalRecord
		EstimatedOneRepMax float64 `json:"estimatedOneRepMax"`
	}

	if query := req.GetString("exercise", ""); query != "" {
		m := resolve.Resolve(query, sessions)
		if m.MatchedExercise == "" {
			out, err := mcp.NewToolResultJSON(map[string]any{
				"matched":     nil,
				"suggestions": m.Suggestions,
			})
			if err != nil {
				return nil, err
			}
			return out, nil
		}
		rec, ok := stats.RecordFor(sessions, m.MatchedExercise)
		if !ok {
			return mcp.NewToolResultError("no recorded sets for " + m.MatchedExercise), nil
		}
		out, err := mcp.NewToolResultJSON(prEntry{
			PersonalRecord:     rec,
			EstimatedOneRepMax: stats.EstimateOneRepMax(rec.MaxWeight, rec.Reps),
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	records := stats.PersonalRecords(sessions)
	entries := make([]prEntry, len(records))
	for i, rec := range records {
		entries[i] = prEntry{
			PersonalRecord:     rec,
			EstimatedOneRepMax: stats.EstimateOneRepMax(rec.MaxWeight, rec.Reps),
		}
	}
	out, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	start := req.GetString("start", "")
	end := req.GetString("end", "")

	var out []models.WorkoutSession
	for _, s := range session.SortByDateDesc(sessions) {
		if s.DeletedAt != nil {
			continue
		}
		if start != "" && s.PerformedOn < start {
			continue
		}
		if end != "" && s.PerformedOn > end {
			continue
		}
		out = append(out, s)
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (h *handlers) resolveExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp resolve_exercise", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out, err := mcp.NewToolResultJSON(resolve.Resolve(query, sessions))
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h *handlers) planWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp plan_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	in := intent.Intent{
		Type:            intent.TypeWorkoutPlan,
		Focus:           req.GetString("focus", ""),
		Goal:            req.GetString("goal", ""),
		DurationMinutes: req.GetInt("duration_minutes", 0),
		IncludeTargets:  req.GetBool("include_targets", false),
	}

	out, err := mcp.NewToolResultJSON(intent.ExecutePlan(in, sessions, time.Now()))
	if err != nil {
		return nil, err
	}
	return out, nil
}

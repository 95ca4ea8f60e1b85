package llmtext

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/llm"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
)

// extractPrompt steers the model toward the wrapped-object payload shape.
// The extractor and normalizer tolerate the other shapes and surrounding
// chatter, so the pipeline survives models that ignore instructions.
const extractPrompt = `You turn free-text workout descriptions into JSON.
Respond with a single JSON object: {"exercises": [...]}. Each exercise has:
  exercise: the exercise name as the user wrote it
  date: YYYY-MM-DD if the user named a day, otherwise null
  sets: number of sets (default 1)
  reps: array of reps per set
  weights: array of weight strings per set, "bw" for bodyweight
Do not invent exercises, sets, or weights the user did not describe.`

// Store is the persistence surface the ingest pipeline needs.
type Store interface {
	ListSessions(ctx context.Context) ([]models.WorkoutSession, error)
	SaveSessions(ctx context.Context, sessions []models.WorkoutSession) error
	InsertIngestLog(ctx context.Context, log storage.IngestLog) (int64, error)
	UpdateIngestLog(ctx context.Context, id int64, log storage.IngestLog) error
}

// Provider runs the free-text ingest pipeline: model completion, JSON
// recovery, normalization, session merge, persistence.
type Provider struct {
	store     Store
	completer llm.Completer
	log       *slog.Logger
	factories session.Factories
}

// NewProvider creates an ingest provider.
func NewProvider(store Store, completer llm.Completer, log *slog.Logger) *Provider {
	return &Provider{store: store, completer: completer, log: log}
}

// Ingest parses a free-text workout description and merges the result into
// stored sessions. The raw model response is kept in the ingest log for
// debugging bad parses.
func (p *Provider) Ingest(ctx context.Context, text string, opts NormalizeOptions) (*ingest.Result, error) {
	started := time.Now()
	logID, err := p.store.InsertIngestLog(ctx, storage.IngestLog{Source: "text", Status: "running"})
	if err != nil {
		return nil, fmt.Errorf("opening ingest log: %w", err)
	}

	result, ingestErr := p.run(ctx, text, opts, logID)

	entry := storage.IngestLog{Source: "text", Status: "success"}
	if result != nil {
		entry.ExercisesParsed = result.ExercisesParsed
		entry.SessionsTouched = result.SessionsCreated + result.SessionsUpdated
		entry.Confidence = result.Confidence
		entry.Warnings = result.Warnings
	}
	if ingestErr != nil {
		entry.Status = "error"
		msg := ingestErr.Error()
		entry.ErrorMessage = &msg
	}
	durationMs := int(time.Since(started).Milliseconds())
	entry.DurationMs = &durationMs
	if err := p.store.UpdateIngestLog(ctx, logID, entry); err != nil {
		p.log.Warn("updating ingest log", "id", logID, "error", err)
	}

	return result, ingestErr
}

// IngestRaw runs the pipeline on model output the caller already has,
// skipping the completion step. Used by the raw-payload API route and by the
// Ingest path once the model has responded.
func (p *Provider) IngestRaw(ctx context.Context, modelOutput string, opts NormalizeOptions) (*ingest.Result, error) {
	return p.interpret(ctx, modelOutput, opts)
}

func (p *Provider) run(ctx context.Context, text string, opts NormalizeOptions, logID int64) (*ingest.Result, error) {
	modelOutput, err := p.completer.Complete(ctx, extractPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("completing workout text: %w", err)
	}
	if raw := json.RawMessage(modelOutput); json.Valid(raw) {
		entry := storage.IngestLog{Source: "text", Status: "running", RawModelResponse: &raw}
		if err := p.store.UpdateIngestLog(ctx, logID, entry); err != nil {
			p.log.Warn("recording model response", "id", logID, "error", err)
		}
	}
	return p.interpret(ctx, modelOutput, opts)
}

func (p *Provider) interpret(ctx context.Context, modelOutput string, opts NormalizeOptions) (*ingest.Result, error) {
	payload, err := ExtractJSON(modelOutput)
	if err != nil {
		return nil, fmt.Errorf("recovering payload: %w", err)
	}

	norm, err := Normalize([]byte(payload), opts)
	if err != nil {
		return nil, fmt.Errorf("normalizing exercises: %w", err)
	}

	all, err := p.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	// Soft-deleted sessions stay out of the merge so logging a workout on a
	// deleted day starts a fresh session instead of resurrecting the old one.
	var existing []models.WorkoutSession
	for _, s := range all {
		if s.DeletedAt == nil {
			existing = append(existing, s)
		}
	}

	result := &ingest.Result{
		ExercisesParsed:  len(norm.Exercises),
		Confidence:       string(norm.Confidence),
		Warnings:         norm.Warnings,
		UsedDateFallback: norm.UsedDateFallback,
	}

	existingDates := map[string]bool{}
	for _, s := range existing {
		existingDates[s.PerformedOn] = true
	}
	touched := map[string]bool{}
	for _, ex := range norm.Exercises {
		if !touched[ex.Date] {
			touched[ex.Date] = true
			result.TouchedDates = append(result.TouchedDates, ex.Date)
			if existingDates[ex.Date] {
				result.SessionsUpdated++
			} else {
				result.SessionsCreated++
			}
		}
	}

	merged := session.Merge(existing, norm.Exercises, p.factories)

	var toSave []models.WorkoutSession
	for _, s := range merged {
		if touched[s.PerformedOn] && s.DeletedAt == nil {
			toSave = append(toSave, s)
		}
	}
	if err := p.store.SaveSessions(ctx, toSave); err != nil {
		return nil, fmt.Errorf("saving sessions: %w", err)
	}

	p.log.Info("ingested workout text",
		"exercises", result.ExercisesParsed,
		"created", result.SessionsCreated,
		"updated", result.SessionsUpdated,
		"confidence", result.Confidence,
		"warnings", len(result.Warnings))

	if norm.Confidence == ConfidenceLow {
		result.Message = "Parsed with low confidence. Review the logged exercises and correct anything that looks off."
	}
	return result, nil
}

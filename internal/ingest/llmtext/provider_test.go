package llmtext

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/storage"
)

type fakeStore struct {
	sessions []models.WorkoutSession
	saved    []models.WorkoutSession
	logs     []storage.IngestLog
}

func (s *fakeStore) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	return s.sessions, nil
}

func (s *fakeStore) SaveSessions(ctx context.Context, sessions []models.WorkoutSession) error {
	s.saved = append(s.saved, sessions...)
	return nil
}

func (s *fakeStore) InsertIngestLog(ctx context.Context, log storage.IngestLog) (int64, error) {
	s.logs = append(s.logs, log)
	return int64(len(s.logs)), nil
}

func (s *fakeStore) UpdateIngestLog(ctx context.Context, id int64, log storage.IngestLog) error {
	s.logs[id-1] = log
	return nil
}

type scriptedCompleter struct {
	out string
	err error
}

func (c scriptedCompleter) Complete(ctx context.Context, prompt, input string) (string, error) {
	return c.out, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const providerToday = "2026-08-31"

// TestProviderIngestCreatesSession runs the full pipeline on a chatty model
// response and persists a new session.
func TestProviderIngestCreatesSession(t *testing.T) {
	store := &fakeStore{}
	completer := scriptedCompleter{out: "Here you go!\n```json\n" +
		`{"exercises":[{"exercise":"Bench Press","date":"2026-08-30","sets":2,"reps":[8,6],"weights":["100","105"]}]}` +
		"\n```"}
	p := NewProvider(store, completer, discardLogger())

	res, err := p.Ingest(context.Background(), "benched 100x8 and 105x6 yesterday", NormalizeOptions{Today: providerToday})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.ExercisesParsed != 1 {
		t.Errorf("ExercisesParsed = %d, want 1", res.ExercisesParsed)
	}
	if res.SessionsCreated != 1 || res.SessionsUpdated != 0 {
		t.Errorf("created/updated = %d/%d, want 1/0", res.SessionsCreated, res.SessionsUpdated)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d sessions, want 1", len(store.saved))
	}
	if got := store.saved[0].PerformedOn; got != "2026-08-30" {
		t.Errorf("PerformedOn = %q, want 2026-08-30", got)
	}
	if got := len(store.saved[0].Exercises[0].Sets); got != 2 {
		t.Errorf("sets = %d, want 2", got)
	}
}

// TestProviderIngestAppendsToExistingDate merges new exercises into the
// session already stored for that date and saves only the touched session.
func TestProviderIngestAppendsToExistingDate(t *testing.T) {
	store := &fakeStore{sessions: []models.WorkoutSession{
		{ID: "keep", PerformedOn: "2026-08-30", Exercises: []models.WorkoutExercise{
			{ID: "ex-1", SessionID: "keep", NameRaw: "Squat"},
		}},
		{ID: "other", PerformedOn: "2026-08-01"},
	}}
	completer := scriptedCompleter{out: `{"exercises":[{"exercise":"Deadlift","date":"2026-08-30","sets":1,"reps":[5],"weights":["180"]}]}`}
	p := NewProvider(store, completer, discardLogger())

	res, err := p.Ingest(context.Background(), "pulled 180x5", NormalizeOptions{Today: providerToday})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.SessionsCreated != 0 || res.SessionsUpdated != 1 {
		t.Errorf("created/updated = %d/%d, want 0/1", res.SessionsCreated, res.SessionsUpdated)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d sessions, want only the touched one", len(store.saved))
	}
	saved := store.saved[0]
	if saved.ID != "keep" {
		t.Errorf("saved session ID = %q, want keep", saved.ID)
	}
	if len(saved.Exercises) != 2 {
		t.Errorf("exercises = %d, want the original plus the new one", len(saved.Exercises))
	}
	// The stored copy is grown, the in-memory original is not.
	if len(store.sessions[0].Exercises) != 1 {
		t.Error("merge mutated the loaded session in place")
	}
}

// TestProviderIngestSkipsDeletedSession starts a fresh session rather than
// appending to a soft-deleted one on the same date.
func TestProviderIngestSkipsDeletedSession(t *testing.T) {
	gone := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{sessions: []models.WorkoutSession{
		{ID: "dead", PerformedOn: "2026-08-30", DeletedAt: &gone},
	}}
	completer := scriptedCompleter{out: `{"exercises":[{"exercise":"Squat","date":"2026-08-30","sets":1,"reps":[5],"weights":["140"]}]}`}
	p := NewProvider(store, completer, discardLogger())

	res, err := p.Ingest(context.Background(), "squatted 140x5", NormalizeOptions{Today: providerToday})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.SessionsCreated != 1 {
		t.Errorf("SessionsCreated = %d, want 1", res.SessionsCreated)
	}
	if len(store.saved) != 1 || store.saved[0].ID == "dead" {
		t.Errorf("saved = %+v, want one fresh session", store.saved)
	}
}

// TestProviderIngestLowConfidenceMessage attaches review guidance when the
// parse looks unreliable.
func TestProviderIngestLowConfidenceMessage(t *testing.T) {
	store := &fakeStore{}
	// A single exercise with almost no data scores low.
	completer := scriptedCompleter{out: `{"exercises":[{"exercise":"Bench Press"}]}`}
	p := NewProvider(store, completer, discardLogger())

	res, err := p.Ingest(context.Background(), "did some benching I think", NormalizeOptions{Today: providerToday})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if res.Confidence != "low" {
		t.Errorf("Confidence = %q, want low", res.Confidence)
	}
	if res.Message == "" {
		t.Error("Message is empty, want review guidance")
	}
}

// TestProviderIngestRecordsFailure closes the ingest log with an error status
// when the model returns no usable JSON.
func TestProviderIngestRecordsFailure(t *testing.T) {
	store := &fakeStore{}
	completer := scriptedCompleter{out: "I did not understand that workout."}
	p := NewProvider(store, completer, discardLogger())

	if _, err := p.Ingest(context.Background(), "gibberish", NormalizeOptions{Today: providerToday}); err == nil {
		t.Fatal("Ingest succeeded on a response with no JSON")
	}
	if len(store.logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(store.logs))
	}
	if store.logs[0].Status != "error" {
		t.Errorf("Status = %q, want error", store.logs[0].Status)
	}
	if store.logs[0].ErrorMessage == nil {
		t.Error("ErrorMessage = nil, want the failure recorded")
	}
}

// TestProviderIngestRawSkipsCompletion interprets caller-supplied model
// output without calling the completer.
func TestProviderIngestRawSkipsCompletion(t *testing.T) {
	store := &fakeStore{}
	completer := scriptedCompleter{err: context.DeadlineExceeded}
	p := NewProvider(store, completer, discardLogger())

	res, err := p.IngestRaw(context.Background(),
		`[{"exercise":"Squat","date":"2026-08-29","sets":1,"reps":[5],"weights":["140"]}]`,
		NormalizeOptions{Today: providerToday})
	if err != nil {
		t.Fatalf("IngestRaw: %v", err)
	}
	if res.ExercisesParsed != 1 {
		t.Errorf("ExercisesParsed = %d, want 1", res.ExercisesParsed)
	}
}

package intent

import (
	"strings"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

var askNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func sessionOn(date string, exercises ...models.WorkoutExercise) models.WorkoutSession {
	return models.WorkoutSession{
		ID:          "sess-" + date,
		PerformedOn: date,
		Exercises:   exercises,
	}
}

func exercise(name string, group string, sets ...models.WorkoutSet) models.WorkoutExercise {
	return models.WorkoutExercise{
		ID:                 "ex-" + name,
		NameRaw:            name,
		PrimaryMuscleGroup: group,
		Sets:               sets,
	}
}

func set(weight string, reps int) models.WorkoutSet {
	return models.WorkoutSet{WeightText: weight, Reps: reps}
}

func askHistory() []models.WorkoutSession {
	return []models.WorkoutSession{
		sessionOn("2026-08-10",
			exercise("Bench Press", "Chest", set("100", 8), set("105", 5)),
			exercise("Deadlift", "Back", set("180", 5)),
		),
		sessionOn("2026-08-24",
			exercise("Bench Press", "Chest", set("102.5", 8), set("110", 3)),
		),
		sessionOn("2026-08-28",
			exercise("Squat", "Legs", set("140", 5), set("150", 3)),
		),
	}
}

// TestAskLastExercise resolves an alias and reports the most recent date the
// exercise appears on.
func TestAskLastExercise(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeLastExercise, Exercise: "bench"}, askHistory(), askNow)

	want := "You last did Bench Press on 2026-08-24."
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
}

// TestAskUnknownExercise degrades to a polite miss instead of an error when
// nothing in history resembles the query.
func TestAskUnknownExercise(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeLastExercise, Exercise: "zzz quux"}, askHistory(), askNow)

	if !strings.Contains(res.Text, "couldn't find") {
		t.Errorf("text = %q, want a miss message", res.Text)
	}
}

// TestAskExerciseSets lists every set of the latest occurrence and names the
// top set by weight.
func TestAskExerciseSets(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeExerciseSets, Exercise: "bench press"}, askHistory(), askNow)

	if !strings.Contains(res.Text, "2026-08-24") {
		t.Errorf("text = %q, want the latest session date", res.Text)
	}
	if !strings.Contains(res.Text, "Top set: 110 x 3") {
		t.Errorf("text = %q, want top set 110 x 3", res.Text)
	}
}

// TestAskExercisePRWeight reports the heaviest set across all sessions.
func TestAskExercisePRWeight(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeExercisePR, Exercise: "bench press", Metric: "weight"}, askHistory(), askNow)

	want := "Your Bench Press PR is 110 x 3, set on 2026-08-24."
	if res.Text != want {
		t.Errorf("text = %q, want %q", res.Text, want)
	}
}

// TestAskExercisePRE1RM picks the set with the highest estimated 1RM, which
// is not necessarily the heaviest set.
func TestAskExercisePRE1RM(t *testing.T) {
	// 102.5 x 8 estimates to ~129.8, beating 110 x 3 at 121.
	res := ExecuteAsk(Intent{Type: TypeExercisePR, Exercise: "bench press", Metric: "e1rm"}, askHistory(), askNow)

	if !strings.Contains(res.Text, "102.5 x 8") {
		t.Errorf("text = %q, want the 102.5 x 8 set as the e1RM source", res.Text)
	}
}

// TestAskVolumeSummaryWeek counts training days, sets, and volume inside the
// trailing 7-day window only.
func TestAskVolumeSummaryWeek(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeVolumeSummary, Timeframe: "week"}, askHistory(), askNow)

	// The window is inclusive: 2026-08-24 bench and 2026-08-28 squat.
	if !strings.Contains(res.Text, "2 days") {
		t.Errorf("text = %q, want 2 training days", res.Text)
	}
	if !strings.Contains(res.Text, "4 sets") {
		t.Errorf("text = %q, want 4 sets", res.Text)
	}
}

// TestAskVolumeSummaryEmpty phrases an empty window without inventing stats.
func TestAskVolumeSummaryEmpty(t *testing.T) {
	res := ExecuteAsk(Intent{
		Type: TypeVolumeSummary, Timeframe: "custom",
		StartDate: "2020-01-01", EndDate: "2020-01-31",
	}, askHistory(), askNow)

	if !strings.Contains(res.Text, "No workouts logged") {
		t.Errorf("text = %q, want an empty-window message", res.Text)
	}
}

// TestAskLastSession summarizes the most recent non-deleted session.
func TestAskLastSession(t *testing.T) {
	history := askHistory()
	deleted := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	history = append(history, models.WorkoutSession{
		ID: "gone", PerformedOn: "2026-08-30", DeletedAt: &deleted,
		Exercises: []models.WorkoutExercise{exercise("Curl", "Arms", set("20", 10))},
	})

	res := ExecuteAsk(Intent{Type: TypeLastSession}, history, askNow)

	if !strings.Contains(res.Text, "2026-08-28") {
		t.Errorf("text = %q, want the 2026-08-28 session, not the deleted one", res.Text)
	}
}

// TestAskRecommendation suggests the least recently trained muscle group.
func TestAskRecommendation(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeRecommendation}, askHistory(), askNow)

	// Shoulders is never trained in the history and comes before the other
	// untrained groups in the deterministic walk.
	if !strings.Contains(res.Text, "Shoulders") {
		t.Errorf("text = %q, want a Shoulders recommendation", res.Text)
	}
}

// TestAskRecommendationEmptyHistory asks for some data before recommending.
func TestAskRecommendationEmptyHistory(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeRecommendation}, nil, askNow)

	if !strings.Contains(res.Text, "Log a few workouts") {
		t.Errorf("text = %q, want the empty-history message", res.Text)
	}
}

// TestAskAlternatives returns the curated substitutions for a known lift.
func TestAskAlternatives(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeExerciseAlternatives, Exercise: "bench press"}, askHistory(), askNow)

	if !strings.Contains(res.Text, "Instead of") {
		t.Errorf("text = %q, want an alternatives sentence", res.Text)
	}
}

// TestAskProgressTrend compares the oldest and newest top-set e1RM inside the
// timeframe and labels the direction.
func TestAskProgressTrend(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeProgressTrend, Exercise: "bench press", Timeframe: "month"}, askHistory(), askNow)

	// The top-set e1RM goes from 105x5 (122.5) to 110x3 (121.0), so heavier
	// weight alone does not read as progress.
	if !strings.Contains(res.Text, "declining") {
		t.Errorf("text = %q, want a declining trend", res.Text)
	}
}

// TestAskProgressTrendTooSparse needs at least two data points.
func TestAskProgressTrendTooSparse(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeProgressTrend, Exercise: "squat"}, askHistory(), askNow)

	if !strings.Contains(res.Text, "Not enough") {
		t.Errorf("text = %q, want a sparse-history message", res.Text)
	}
}

// TestAskGeneralChatDelegates hands free-form chat back to the model with a
// compact history digest instead of answering locally.
func TestAskGeneralChatDelegates(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeGeneralChat, Message: "how do I warm up?"}, askHistory(), askNow)

	if res.Delegate == nil {
		t.Fatal("Delegate = nil, want a delegation context")
	}
	if res.Delegate.Kind != TypeGeneralChat {
		t.Errorf("Kind = %q, want %q", res.Delegate.Kind, TypeGeneralChat)
	}
	if len(res.Delegate.RecentSessions) != 3 {
		t.Errorf("RecentSessions = %d, want 3", len(res.Delegate.RecentSessions))
	}
	if res.Delegate.RecentSessions[0].PerformedOn != "2026-08-28" {
		t.Errorf("first brief = %q, want newest session first", res.Delegate.RecentSessions[0].PerformedOn)
	}
}

// TestAskMuscleGroupExercisesDelegates includes the exercise table for the
// requested group in the delegation payload.
func TestAskMuscleGroupExercisesDelegates(t *testing.T) {
	res := ExecuteAsk(Intent{Type: TypeMuscleGroupExercises, MuscleGroup: "Chest"}, askHistory(), askNow)

	if res.Delegate == nil {
		t.Fatal("Delegate = nil, want a delegation context")
	}
	if len(res.Delegate.Exercises) == 0 {
		t.Error("Exercises is empty, want the Chest table")
	}
}

package session

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// testFactories returns deterministic id factories and a fixed clock.
func testFactories() Factories {
	var sessN, exN, setN int
	return Factories{
		NewSessionID:  func() string { sessN++; return fmt.Sprintf("sess-%d", sessN) },
		NewExerciseID: func() string { exN++; return fmt.Sprintf("ex-%d", exN) },
		NewSetID:      func() string { setN++; return fmt.Sprintf("set-%d", setN) },
		Now:           func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) },
	}
}

// TestMergeCreatesSession verifies that parsed exercises with a new date
// produce a fresh session with one WorkoutSet per declared set.
func TestMergeCreatesSession(t *testing.T) {
	parsed := []models.ParsedExercise{{
		ID:       "2026-08-30-1",
		Date:     "2026-08-30",
		Exercise: "Bench Press",
		Sets:     3,
		Reps:     []int{8, 8, 6},
		Weights:  []string{"100", "100", "102.5"},
	}}

	out := Merge(nil, parsed, testFactories())
	if len(out) != 1 {
		t.Fatalf("sessions = %d, want 1", len(out))
	}
	sess := out[0]
	if sess.PerformedOn != "2026-08-30" {
		t.Errorf("performedOn = %q", sess.PerformedOn)
	}
	if len(sess.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(sess.Exercises))
	}
	ex := sess.Exercises[0]
	if ex.SessionID != sess.ID {
		t.Errorf("exercise sessionId = %q, want %q", ex.SessionID, sess.ID)
	}
	if len(ex.Sets) != 3 {
		t.Fatalf("sets = %d, want 3", len(ex.Sets))
	}
	if ex.Sets[2].WeightText != "102.5" || ex.Sets[2].Reps != 6 || ex.Sets[2].SetIndex != 2 {
		t.Errorf("third set = %+v", ex.Sets[2])
	}
}

// TestMergeSameDateConcatenates verifies that two parsed exercises sharing
// a date land in one session, concatenated in input order.
func TestMergeSameDateConcatenates(t *testing.T) {
	parsed := []models.ParsedExercise{
		{Date: "2026-08-30", Exercise: "Bench Press", Sets: 3},
		{Date: "2026-08-30", Exercise: "Incline Press", Sets: 3},
	}
	out := Merge(nil, parsed, testFactories())
	if len(out) != 1 {
		t.Fatalf("sessions = %d, want 1", len(out))
	}
	ex := out[0].Exercises
	if len(ex) != 2 || ex[0].NameRaw != "Bench Press" || ex[1].NameRaw != "Incline Press" {
		t.Errorf("exercises = %+v, want input order preserved", ex)
	}
}

// TestMergeDoesNotMutateExisting verifies the merger's no-mutation
// contract: the caller's history slice and its sessions are untouched.
func TestMergeDoesNotMutateExisting(t *testing.T) {
	existing := []models.WorkoutSession{{
		ID:          "sess-old",
		PerformedOn: "2026-08-30",
		Exercises: []models.WorkoutExercise{
			{ID: "ex-old", SessionID: "sess-old", NameRaw: "Squat"},
		},
	}}
	snapshot := []models.WorkoutSession{{
		ID:          "sess-old",
		PerformedOn: "2026-08-30",
		Exercises: []models.WorkoutExercise{
			{ID: "ex-old", SessionID: "sess-old", NameRaw: "Squat"},
		},
	}}

	out := Merge(existing, []models.ParsedExercise{
		{Date: "2026-08-30", Exercise: "Leg Press", Sets: 2},
	}, testFactories())

	if !reflect.DeepEqual(existing, snapshot) {
		t.Error("Merge mutated its existing sessions argument")
	}
	if len(out) != 1 || len(out[0].Exercises) != 2 {
		t.Fatalf("merged result = %+v, want appended copy", out)
	}
	if out[0].ID != "sess-old" {
		t.Errorf("merge should reuse the existing session, got %q", out[0].ID)
	}
	if out[0].Exercises[1].SessionID != "sess-old" {
		t.Errorf("new exercise sessionId = %q", out[0].Exercises[1].SessionID)
	}
}

// TestMergeContributionsPassThrough verifies that muscle contributions pass
// through verbatim, and that absence round-trips as nil rather than an
// empty slice.
func TestMergeContributionsPassThrough(t *testing.T) {
	contribs := []models.MuscleContribution{
		{MuscleGroup: "Chest", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
	}
	parsed := []models.ParsedExercise{
		{Date: "2026-08-30", Exercise: "Bench Press", Sets: 1, MuscleContributions: contribs},
		{Date: "2026-08-30", Exercise: "Mystery Lift", Sets: 1},
	}
	out := Merge(nil, parsed, testFactories())
	got := out[0].Exercises
	if !reflect.DeepEqual(got[0].MuscleContributions, contribs) {
		t.Errorf("contributions = %+v, want verbatim pass-through", got[0].MuscleContributions)
	}
	if got[1].MuscleContributions != nil {
		t.Errorf("absent contributions = %+v, want nil", got[1].MuscleContributions)
	}
}

// TestMergeBodyweightFlag verifies the best-effort bodyweight probe on the
// created sets.
func TestMergeBodyweightFlag(t *testing.T) {
	parsed := []models.ParsedExercise{
		{Date: "2026-08-30", Exercise: "Dip", Sets: 2, Weights: []string{"bw", "bodyweight+25"}},
	}
	out := Merge(nil, parsed, testFactories())
	sets := out[0].Exercises[0].Sets
	if !sets[0].IsBodyweight || !sets[1].IsBodyweight {
		t.Errorf("sets = %+v, want both flagged bodyweight", sets)
	}
}

// TestSortByDateDesc verifies descending order and that the input slice is
// not reordered in place.
func TestSortByDateDesc(t *testing.T) {
	in := []models.WorkoutSession{
		{PerformedOn: "2026-08-01"},
		{PerformedOn: "2026-08-30"},
		{PerformedOn: "2026-08-15"},
	}
	out := SortByDateDesc(in)
	if out[0].PerformedOn != "2026-08-30" || out[2].PerformedOn != "2026-08-01" {
		t.Errorf("order = %v", []string{out[0].PerformedOn, out[1].PerformedOn, out[2].PerformedOn})
	}
	if in[0].PerformedOn != "2026-08-01" {
		t.Error("SortByDateDesc mutated its input")
	}
}

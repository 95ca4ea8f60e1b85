package llmtext

import (
	"errors"
	"testing"
)

const today = "2026-08-31"

// TestNormalizeBareArray verifies the highest-priority payload shape: a
// bare array of exercise objects.
func TestNormalizeBareArray(t *testing.T) {
	raw := `[{"exercise": "Bench Press", "sets": 3, "date": "2026-08-30",
		"reps": [8, 8, 6], "weights": ["100", "100", "102.5"]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(res.Exercises))
	}
	ex := res.Exercises[0]
	if ex.Exercise != "Bench Press" || ex.Sets != 3 || ex.Date != "2026-08-30" {
		t.Errorf("unexpected record: %+v", ex)
	}
	if len(ex.Reps) != 3 || ex.Reps[2] != 6 {
		t.Errorf("reps = %v", ex.Reps)
	}
	if len(ex.Weights) != 3 || ex.Weights[2] != "102.5" {
		t.Errorf("weights = %v", ex.Weights)
	}
	if res.Confidence != ConfidenceHigh {
		t.Errorf("confidence = %s, want high", res.Confidence)
	}
}

// TestNormalizeWrappedObject verifies the {"exercises": [...]} shape, the
// second shape in the fixed dispatch order.
func TestNormalizeWrappedObject(t *testing.T) {
	raw := `{"exercises": [{"exercise": "Squat", "sets": 5, "date": "2026-08-30",
		"reps": [5,5,5,5,5], "weights": [140,140,140,140,140]}]}`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exercises) != 1 || res.Exercises[0].Exercise != "Squat" {
		t.Fatalf("unexpected result: %+v", res.Exercises)
	}
	// Numeric weights are coerced to their literal text.
	if res.Exercises[0].Weights[0] != "140" {
		t.Errorf("weights[0] = %q, want 140", res.Exercises[0].Weights[0])
	}
}

// TestNormalizeSingleObject verifies the lowest-priority shape: one bare
// exercise object.
func TestNormalizeSingleObject(t *testing.T) {
	raw := `{"exercise": "Deadlift", "sets": 2, "date": "2026-08-29",
		"reps": [5, 5], "weights": ["180", "185"]}`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Exercises) != 1 || res.Exercises[0].Exercise != "Deadlift" {
		t.Fatalf("unexpected result: %+v", res.Exercises)
	}
}

// TestNormalizeAbsentArraysStayNil verifies that absent reps/weights remain
// nil rather than zero-filled. Only present arrays get resized: absence is
// real information ("the model did not report weights").
func TestNormalizeAbsentArraysStayNil(t *testing.T) {
	raw := `[{"exercise": "Pull Up", "sets": 4, "date": "2026-08-30", "reps": [12,12,12,12]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex := res.Exercises[0]
	if ex.Weights != nil {
		t.Errorf("weights = %v, want nil", ex.Weights)
	}
	if len(ex.Reps) != 4 {
		t.Errorf("reps = %v, want 4 entries", ex.Reps)
	}
}

// TestNormalizeResizesPresentArrays verifies that present arrays are forced
// to exactly sets elements, padding with zero values.
func TestNormalizeResizesPresentArrays(t *testing.T) {
	raw := `[{"exercise": "Row", "sets": 4, "date": "2026-08-30",
		"reps": [10, 10], "weights": ["60", "60", "60", "60", "60", "60"]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex := res.Exercises[0]
	if len(ex.Reps) != 4 || ex.Reps[2] != 0 || ex.Reps[3] != 0 {
		t.Errorf("reps = %v, want [10 10 0 0]", ex.Reps)
	}
	if len(ex.Weights) != 4 {
		t.Errorf("weights = %v, want 4 entries", ex.Weights)
	}
}

// TestNormalizeDateFallback verifies malformed dates default to today and
// record a warning, and that the fallback flag is set.
func TestNormalizeDateFallback(t *testing.T) {
	raw := `[{"exercise": "Squat", "sets": 3, "date": "yesterday", "reps": [5,5,5], "weights": ["140","140","140"]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exercises[0].Date != today {
		t.Errorf("date = %q, want %q", res.Exercises[0].Date, today)
	}
	if !res.UsedDateFallback {
		t.Error("UsedDateFallback should be set")
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one", res.Warnings)
	}
}

// TestNormalizeTemplateMuscles verifies template-derived contributions and
// that the direct contribution sets the primary muscle group.
func TestNormalizeTemplateMuscles(t *testing.T) {
	raw := `[{"exercise": "Bench Press", "sets": 3, "date": "2026-08-30",
		"reps": [8,8,8], "weights": ["100","100","100"],
		"muscleContributions": [{"muscleGroup": "Neck", "fraction": 1, "isDirect": true}]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today, UseTemplateMuscles: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex := res.Exercises[0]
	if ex.PrimaryMuscleGroup != "Chest" {
		t.Errorf("primary = %q, want Chest (model-provided groups ignored)", ex.PrimaryMuscleGroup)
	}
	if len(ex.MuscleContributions) != 3 {
		t.Errorf("contributions = %+v, want bench press template", ex.MuscleContributions)
	}
}

// TestNormalizeSanitizesModelMuscles verifies model-provided contribution
// sanitization: unknown groups dropped, fractions clamped to (0,1] with a
// default of 1, isDirect kept only when explicitly true.
func TestNormalizeSanitizesModelMuscles(t *testing.T) {
	raw := `[{"exercise": "Mystery Machine Press", "sets": 3, "date": "2026-08-30",
		"reps": [10,10,10], "weights": ["50","50","50"],
		"muscleContributions": [
			{"muscleGroup": "Chest", "fraction": 1, "isDirect": true},
			{"muscleGroup": "Neck", "fraction": 0.5},
			{"muscleGroup": "Shoulders", "fraction": 7},
			{"muscleGroup": "Arms", "fraction": 0.5, "isDirect": "yes"}
		]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today, AllowModelProvidedMuscles: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	contribs := res.Exercises[0].MuscleContributions
	if len(contribs) != 3 {
		t.Fatalf("contributions = %+v, want 3 (Neck dropped)", contribs)
	}
	if !contribs[0].IsDirect || contribs[0].MuscleGroup != "Chest" {
		t.Errorf("first contribution = %+v, want direct Chest", contribs[0])
	}
	if contribs[1].Fraction != 1 {
		t.Errorf("out-of-range fraction = %v, want clamped default 1", contribs[1].Fraction)
	}
	if contribs[2].IsDirect {
		t.Error(`isDirect "yes" must not survive sanitization`)
	}
}

// TestNormalizeIDs verifies id acceptance and regeneration: a well-formed
// model id is kept, a junk id is replaced, and ids are unique per batch.
func TestNormalizeIDs(t *testing.T) {
	raw := `[
		{"exercise": "A", "sets": 1, "date": "2026-08-30", "id": "2026-08-30-1", "reps": [5], "weights": ["100"]},
		{"exercise": "B", "sets": 1, "date": "2026-08-30", "id": "2026-08-30-1", "reps": [5], "weights": ["100"]},
		{"exercise": "C", "sets": 1, "date": "2026-08-30", "id": "garbage!", "reps": [5], "weights": ["100"]}
	]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Exercises[0].ID != "2026-08-30-1" {
		t.Errorf("first id = %q, want the accepted model id", res.Exercises[0].ID)
	}
	seen := map[string]bool{}
	for _, ex := range res.Exercises {
		if seen[ex.ID] {
			t.Errorf("duplicate id %q", ex.ID)
		}
		seen[ex.ID] = true
		if !acceptedIDRe.MatchString(ex.ID) {
			t.Errorf("generated id %q does not match the id pattern", ex.ID)
		}
	}
}

// TestNormalizeConfidenceLowOnZeroes verifies the first scoring rule: more
// than half zero/empty values means the model likely hallucinated structure.
func TestNormalizeConfidenceLowOnZeroes(t *testing.T) {
	raw := `[{"exercise": "Bench", "sets": 4, "date": "2026-08-30",
		"reps": [0, 0, 0, 8], "weights": ["0", "0", "100", "0"]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", res.Confidence)
	}
}

// TestNormalizeConfidenceLowOnSparseSingle verifies the sparse-single rule:
// one exercise with fewer than three reps/weight values scores low.
func TestNormalizeConfidenceLowOnSparseSingle(t *testing.T) {
	raw := `[{"exercise": "Bench", "sets": 1, "date": "2026-08-30", "reps": [8]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s, want low", res.Confidence)
	}
}

// TestNormalizeDefaults verifies name and set-count fallbacks for a record
// with nothing usable in those fields.
func TestNormalizeDefaults(t *testing.T) {
	raw := `[{"sets": -2, "date": "2026-08-30", "reps": [5, 5, 5], "weights": ["60", "60", "60"]}]`
	res, err := Normalize([]byte(raw), NormalizeOptions{Today: today})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex := res.Exercises[0]
	if ex.Exercise != "Unknown Exercise" {
		t.Errorf("name = %q, want Unknown Exercise", ex.Exercise)
	}
	if ex.Sets != 1 {
		t.Errorf("sets = %d, want default 1", ex.Sets)
	}
}

// TestNormalizeEmptyPayload verifies that zero extractable exercises is the
// only hard failure the normalizer produces.
func TestNormalizeEmptyPayload(t *testing.T) {
	_, err := Normalize([]byte(`{"exercises": []}`), NormalizeOptions{Today: today})
	if !errors.Is(err, ErrNoExercises) {
		t.Errorf("err = %v, want ErrNoExercises", err)
	}
	_, err = Normalize([]byte(`{"unrelated": true}`), NormalizeOptions{Today: today})
	if !errors.Is(err, ErrNoExercises) {
		t.Errorf("err = %v, want ErrNoExercises", err)
	}
}

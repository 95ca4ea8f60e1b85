// Package session owns the session/exercise/set hierarchy transforms:
// merging freshly parsed exercises into an existing history and ordering
// sessions. Every transform returns new collections; inputs are never
// mutated.
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/claude/liftlog/internal/models"
)

// Factories supplies id generation and the clock so merges are
// deterministic under test. Zero-value fields fall back to uuid ids and
// time.Now.
type Factories struct {
	NewSessionID  func() string
	NewExerciseID func() string
	NewSetID      func() string
	Now           func() time.Time
}

func (f Factories) withDefaults() Factories {
	if f.NewSessionID == nil {
		f.NewSessionID = uuid.NewString
	}
	if f.NewExerciseID == nil {
		f.NewExerciseID = uuid.NewString
	}
	if f.NewSetID == nil {
		f.NewSetID = uuid.NewString
	}
	if f.Now == nil {
		f.Now = time.Now
	}
	return f
}

// Merge groups parsed exercises by their exact date string and merges each
// group into the session history. A group whose date matches an existing
// session's PerformedOn is appended to a copy of that session; otherwise a
// new session is created. The input slice and its sessions are left
// untouched.
func Merge(existing []models.WorkoutSession, parsed []models.ParsedExercise, f Factories) []models.WorkoutSession {
	f = f.withDefaults()
	now := f.Now()

	byDate := map[string][]models.ParsedExercise{}
	var dateOrder []string
	for _, p := range parsed {
		if _, seen := byDate[p.Date]; !seen {
			dateOrder = append(dateOrder, p.Date)
		}
		byDate[p.Date] = append(byDate[p.Date], p)
	}

	// Shallow-copy the history so appends never touch the caller's slice.
	out := make([]models.WorkoutSession, len(existing))
	copy(out, existing)

	for _, date := range dateOrder {
		group := byDate[date]
		idx := -1
		for i, s := range out {
			if s.PerformedOn == date {
				idx = i
				break
			}
		}

		if idx >= 0 {
			sess := out[idx]
			exercises := make([]models.WorkoutExercise, len(sess.Exercises), len(sess.Exercises)+len(group))
			copy(exercises, sess.Exercises)
			for _, p := range group {
				exercises = append(exercises, buildExercise(p, sess.ID, f, now))
			}
			sess.Exercises = exercises
			sess.UpdatedAt = now
			out[idx] = sess
			continue
		}

		sess := models.WorkoutSession{
			ID:          f.NewSessionID(),
			PerformedOn: date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, p := range group {
			sess.Exercises = append(sess.Exercises, buildExercise(p, sess.ID, f, now))
		}
		out = append(out, sess)
	}

	return out
}

// buildExercise turns a ParsedExercise into a WorkoutExercise with one
// WorkoutSet per declared set. MuscleContributions pass through verbatim: a
// nil slice stays nil.
func buildExercise(p models.ParsedExercise, sessionID string, f Factories, now time.Time) models.WorkoutExercise {
	ex := models.WorkoutExercise{
		ID:                  f.NewExerciseID(),
		SessionID:           sessionID,
		NameRaw:             p.Exercise,
		PrimaryMuscleGroup:  p.PrimaryMuscleGroup,
		MuscleContributions: p.MuscleContributions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	for i := 0; i < p.Sets; i++ {
		reps := 0
		if p.Reps != nil && i < len(p.Reps) {
			reps = p.Reps[i]
		}
		weight := "0"
		if p.Weights != nil && i < len(p.Weights) {
			weight = p.Weights[i]
		}
		ex.Sets = append(ex.Sets, models.WorkoutSet{
			ID:           f.NewSetID(),
			ExerciseID:   ex.ID,
			SetIndex:     i,
			Reps:         reps,
			WeightText:   weight,
			IsBodyweight: models.IsBodyweightText(weight),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return ex
}

// SortByDateDesc returns a new slice ordered by PerformedOn descending.
// String comparison is correct because the date format is zero-padded ISO.
func SortByDateDesc(sessions []models.WorkoutSession) []models.WorkoutSession {
	out := make([]models.WorkoutSession, len(sessions))
	copy(out, sessions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformedOn > out[j].PerformedOn
	})
	return out
}

package intent

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/stats"
)

// PlannedExercise is one entry of a generated workout.
type PlannedExercise struct {
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	// TargetWeight is 0 when no usable PR exists for the exercise.
	TargetWeight float64 `json:"targetWeight,omitempty"`
	// TargetConfidence is high/medium/low depending on how stale the
	// underlying PR is.
	TargetConfidence string `json:"targetConfidence,omitempty"`
}

// Plan is the workout plan executor's output.
type Plan struct {
	Focus     string            `json:"focus"`
	Goal      string            `json:"goal"`
	Exercises []PlannedExercise `json:"exercises"`
	Text      string            `json:"text"`
}

// ExecutePlan builds a workout suggestion from history. Exercises trained
// within the last 48 hours are excluded by exact normalized name; the
// exercise count follows the requested duration; weight targets come from
// PR data scaled by the goal's percentage-of-1RM band.
func ExecutePlan(in Intent, history []models.WorkoutSession, now time.Time) Plan {
	goal := in.Goal
	if _, ok := goalTargetPercent[goal]; !ok {
		goal = "hypertrophy"
	}

	focus := in.Focus
	if focus == "" {
		focus = leastRecentlyTrainedGroup(history)
	}
	if focus == "" {
		focus = groupOrder[0]
	}

	count := exerciseCountFor(in.DurationMinutes)
	recent := recentlyTrainedNames(history, now)

	var picks []string
	appendPicks := func(pool []string) {
		for _, name := range pool {
			if len(picks) == count {
				return
			}
			norm := models.NormalizeExerciseName(name)
			if recent[norm] || containsName(picks, norm) {
				continue
			}
			picks = append(picks, name)
		}
	}

	appendPicks(muscleGroupExercises[focus])
	// Top up from the other groups when the focus pool runs dry.
	for _, group := range groupOrder {
		if len(picks) == count {
			break
		}
		if group != focus {
			appendPicks(muscleGroupExercises[group])
		}
	}

	prescription := goalSetsReps[goal]
	plan := Plan{Focus: focus, Goal: goal}
	for _, name := range picks {
		pe := PlannedExercise{Exercise: name, Sets: prescription.Sets, Reps: prescription.Reps}
		if in.IncludeTargets {
			if rec, ok := stats.RecordFor(history, name); ok && rec.MaxWeight > 0 {
				e1rm := stats.EstimateOneRepMax(rec.MaxWeight, rec.Reps)
				pe.TargetWeight = roundToIncrement(e1rm*goalTargetPercent[goal], 2.5)
				pe.TargetConfidence = targetConfidence(rec.Date, now)
			}
		}
		plan.Exercises = append(plan.Exercises, pe)
	}

	names := make([]string, len(plan.Exercises))
	for i, pe := range plan.Exercises {
		names[i] = fmt.Sprintf("%s %dx%d", pe.Exercise, pe.Sets, pe.Reps)
	}
	plan.Text = fmt.Sprintf("%s day (%s): %s.", focus, goal, strings.Join(names, ", "))
	return plan
}

// exerciseCountFor maps requested duration to a 3-5 exercise plan.
func exerciseCountFor(minutes int) int {
	switch {
	case minutes > 0 && minutes <= 35:
		return 3
	case minutes == 0 || minutes <= 60:
		return 4
	default:
		return 5
	}
}

// recentlyTrainedNames collects normalized exercise names trained within
// 48 hours before now.
func recentlyTrainedNames(history []models.WorkoutSession, now time.Time) map[string]bool {
	cutoff := now.Add(-48 * time.Hour).Format(models.TrainingDateLayout)
	out := map[string]bool{}
	for _, s := range history {
		if s.DeletedAt != nil || s.PerformedOn < cutoff {
			continue
		}
		for _, ex := range s.Exercises {
			out[models.NormalizeExerciseName(ex.NameRaw)] = true
		}
	}
	return out
}

func containsName(picks []string, norm string) bool {
	for _, p := range picks {
		if models.NormalizeExerciseName(p) == norm {
			return true
		}
	}
	return false
}

// roundToIncrement rounds to the nearest plate-loadable increment.
func roundToIncrement(v, inc float64) float64 {
	return math.Round(v/inc) * inc
}

// targetConfidence downgrades targets backed by stale PRs: older than 30
// days is medium, older than 90 days is low.
func targetConfidence(prDate string, now time.Time) string {
	t, err := models.ParseTrainingDate(prDate)
	if err != nil {
		return "low"
	}
	age := now.Sub(t)
	switch {
	case age > 90*24*time.Hour:
		return "low"
	case age > 30*24*time.Hour:
		return "medium"
	default:
		return "high"
	}
}

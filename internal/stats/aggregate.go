// Package stats aggregates the session history into muscle-group training
// volume statistics and personal records. All functions are pure: they walk
// the session list and return fresh structures.
package stats

import (
	"github.com/claude/liftlog/internal/models"
)

// WeeklySetBreakdown holds per-ISO-week set counts for one muscle group,
// split by accounting dimension. Direct counts sets 1:1 for the primary
// target; fractional weights every contribution by its fraction; total is
// the real set count attributed to the group, counted once per exercise
// even when several contributions hit the same group.
type WeeklySetBreakdown struct {
	Direct     map[string]float64 `json:"direct"`
	Fractional map[string]float64 `json:"fractional"`
	Total      map[string]float64 `json:"total"`
}

// MuscleGroupStats is the per-group aggregate.
type MuscleGroupStats struct {
	WeeklySets        WeeklySetBreakdown `json:"weeklySets"`
	TotalVolume       float64            `json:"totalVolume"`
	AverageVolume     float64            `json:"averageVolume"`
	ExerciseInstances int                `json:"exerciseInstances"`
}

// UncategorizedStats buckets exercises that resolve to zero muscle
// contributions. They must never fabricate an "Unknown" muscle group.
type UncategorizedStats struct {
	WeeklySets      map[string]int `json:"weeklySets"`
	WeeklyExercises map[string]int `json:"weeklyExercises"`
}

// Stats is the full aggregation output: calendar heatmap data, global
// workout stats, and per-muscle-group weekly breakdowns.
type Stats struct {
	CurrentWeek            string                       `json:"currentWeek"`
	SetsPerDay             map[string]int               `json:"setsPerDay"`
	TotalWorkoutDays       int                          `json:"totalWorkoutDays"`
	TotalExercises         int                          `json:"totalExercises"`
	TotalSets              int                          `json:"totalSets"`
	AverageExercisesPerDay float64                      `json:"averageExercisesPerDay"`
	AverageSetsPerDay      float64                      `json:"averageSetsPerDay"`
	MostCommonExercise     string                       `json:"mostCommonExercise"`
	MuscleGroups           map[string]*MuscleGroupStats `json:"muscleGroups"`
	Uncategorized          UncategorizedStats           `json:"uncategorized"`
}

// Empty returns a zero-valued Stats with initialized maps, for use before
// any data exists.
func Empty() *Stats {
	return &Stats{
		SetsPerDay:         map[string]int{},
		MostCommonExercise: "N/A",
		MuscleGroups:       map[string]*MuscleGroupStats{},
		Uncategorized: UncategorizedStats{
			WeeklySets:      map[string]int{},
			WeeklyExercises: map[string]int{},
		},
	}
}

// Aggregate walks the session history and produces the full statistics
// breakdown. currentWeek is the ISO week identifier (YYYY-Www) the caller
// considers "now"; it is carried on the output for week-relative views.
func Aggregate(sessions []models.WorkoutSession, currentWeek string) *Stats {
	out := Empty()
	out.CurrentWeek = currentWeek

	days := map[string]bool{}
	exerciseCounts := map[string]int{}
	var exerciseOrder []string

	for _, s := range sessions {
		if s.DeletedAt != nil {
			continue
		}
		days[s.PerformedOn] = true
		week := models.ISOWeek(s.PerformedOn)

		for _, ex := range s.Exercises {
			out.TotalExercises++
			setCount := len(ex.Sets)
			out.TotalSets += setCount
			out.SetsPerDay[s.PerformedOn] += setCount

			norm := models.NormalizeExerciseName(ex.NameRaw)
			if norm != "" {
				if _, seen := exerciseCounts[norm]; !seen {
					exerciseOrder = append(exerciseOrder, norm)
				}
				exerciseCounts[norm]++
			}

			contribs := resolveContributions(ex)
			if len(contribs) == 0 {
				if week != "" {
					out.Uncategorized.WeeklySets[week] += setCount
					out.Uncategorized.WeeklyExercises[week]++
				}
				continue
			}

			volume := exerciseVolume(ex)
			countedTotal := map[string]bool{}
			countedVolume := map[string]bool{}
			for _, c := range contribs {
				group := out.MuscleGroups[c.MuscleGroup]
				if group == nil {
					group = &MuscleGroupStats{WeeklySets: WeeklySetBreakdown{
						Direct:     map[string]float64{},
						Fractional: map[string]float64{},
						Total:      map[string]float64{},
					}}
					out.MuscleGroups[c.MuscleGroup] = group
				}

				if week != "" {
					if c.IsDirect {
						group.WeeklySets.Direct[week] += float64(setCount)
					}
					group.WeeklySets.Fractional[week] += float64(setCount) * c.Fraction
					// Total is attributed once per exercise per group, no
					// matter how many contributions target the group.
					if !countedTotal[c.MuscleGroup] {
						group.WeeklySets.Total[week] += float64(setCount)
						countedTotal[c.MuscleGroup] = true
					}
				}

				if !countedVolume[c.MuscleGroup] {
					group.TotalVolume += volume
					group.ExerciseInstances++
					countedVolume[c.MuscleGroup] = true
				}
			}
		}
	}

	out.TotalWorkoutDays = len(days)
	if out.TotalWorkoutDays > 0 {
		out.AverageExercisesPerDay = float64(out.TotalExercises) / float64(out.TotalWorkoutDays)
		out.AverageSetsPerDay = float64(out.TotalSets) / float64(out.TotalWorkoutDays)
	}

	for _, g := range out.MuscleGroups {
		if g.ExerciseInstances > 0 {
			g.AverageVolume = g.TotalVolume / float64(g.ExerciseInstances)
		}
	}

	best, bestCount := "", 0
	for _, name := range exerciseOrder {
		if exerciseCounts[name] > bestCount {
			best, bestCount = name, exerciseCounts[name]
		}
	}
	if best != "" {
		out.MostCommonExercise = best
	}

	return out
}

// resolveContributions returns the exercise's contribution list, falling
// back to a single direct contribution synthesized from the primary muscle
// group. A nil result means the exercise is uncategorized.
func resolveContributions(ex models.WorkoutExercise) []models.MuscleContribution {
	if len(ex.MuscleContributions) > 0 {
		return ex.MuscleContributions
	}
	if ex.PrimaryMuscleGroup != "" {
		return []models.MuscleContribution{{
			MuscleGroup: ex.PrimaryMuscleGroup,
			Fraction:    1,
			IsDirect:    true,
		}}
	}
	return nil
}

// exerciseVolume sums weight x reps across an exercise's sets.
func exerciseVolume(ex models.WorkoutExercise) float64 {
	var v float64
	for _, set := range ex.Sets {
		v += models.ParseWeightText(set.WeightText) * float64(set.Reps)
	}
	return v
}

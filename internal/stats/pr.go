package stats

import (
	"github.com/claude/liftlog/internal/models"
)

// PersonalRecord is the best set ever recorded for an exercise: highest
// parsed weight, ties broken by higher reps.
type PersonalRecord struct {
	Exercise  string  `json:"exercise"`
	MaxWeight float64 `json:"maxWeight"`
	Reps      int     `json:"reps"`
	Date      string  `json:"date"`
}

// PersonalRecords derives the PR for every distinct normalized exercise
// name across all sessions, in first-seen order. The Exercise field carries
// the first-seen raw spelling.
func PersonalRecords(sessions []models.WorkoutSession) []PersonalRecord {
	byName := map[string]*PersonalRecord{}
	var order []string

	for _, s := range sessions {
		if s.DeletedAt != nil {
			continue
		}
		for _, ex := range s.Exercises {
			norm := models.NormalizeExerciseName(ex.NameRaw)
			if norm == "" {
				continue
			}
			rec := byName[norm]
			if rec == nil {
				rec = &PersonalRecord{Exercise: ex.NameRaw}
				byName[norm] = rec
				order = append(order, norm)
			}
			for _, set := range ex.Sets {
				weight := models.ParseWeightText(set.WeightText)
				if rec.Date == "" || weight > rec.MaxWeight || (weight == rec.MaxWeight && set.Reps > rec.Reps) {
					rec.MaxWeight = weight
					rec.Reps = set.Reps
					rec.Date = s.PerformedOn
				}
			}
		}
	}

	out := make([]PersonalRecord, 0, len(order))
	for _, norm := range order {
		out = append(out, *byName[norm])
	}
	return out
}

// RecordFor returns the PR for a specific exercise name, matched by
// normalized equality.
func RecordFor(sessions []models.WorkoutSession, name string) (PersonalRecord, bool) {
	norm := models.NormalizeExerciseName(name)
	for _, rec := range PersonalRecords(sessions) {
		if models.NormalizeExerciseName(rec.Exercise) == norm {
			return rec, true
		}
	}
	return PersonalRecord{}, false
}

// EstimateOneRepMax applies the Epley formula. A single rep is already a
// true max and short-circuits to the weight itself.
func EstimateOneRepMax(weight float64, reps int) float64 {
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}

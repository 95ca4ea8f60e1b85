package llmtext

import (
	"strings"

	"github.com/claude/liftlog/internal/models"
)

// AllowedMuscleGroups is the fixed set of muscle group names accepted from
// model-provided contributions. Anything else is dropped during
// sanitization.
var AllowedMuscleGroups = map[string]bool{
	"Chest":     true,
	"Back":      true,
	"Shoulders": true,
	"Arms":      true,
	"Legs":      true,
	"Glutes":    true,
	"Core":      true,
	"Calves":    true,
	"Forearms":  true,
	"Traps":     true,
}

// TemplateLookup resolves an exercise name to its muscle contribution
// template. The boolean reports whether a template was found.
type TemplateLookup func(name string) ([]models.MuscleContribution, bool)

// muscleTemplates maps normalized exercise names to their contribution
// breakdown. Exactly one contribution per template is direct.
var muscleTemplates = map[string][]models.MuscleContribution{
	"bench press": {
		{MuscleGroup: "Chest", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
		{MuscleGroup: "Shoulders", Fraction: 0.5},
	},
	"incline bench press": {
		{MuscleGroup: "Chest", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Shoulders", Fraction: 0.5},
		{MuscleGroup: "Arms", Fraction: 0.5},
	},
	"overhead press": {
		{MuscleGroup: "Shoulders", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
		{MuscleGroup: "Core", Fraction: 0.25},
	},
	"squat": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Glutes", Fraction: 0.5},
		{MuscleGroup: "Core", Fraction: 0.25},
	},
	"front squat": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Core", Fraction: 0.5},
	},
	"deadlift": {
		{MuscleGroup: "Back", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Legs", Fraction: 0.5},
		{MuscleGroup: "Glutes", Fraction: 0.5},
	},
	"romanian deadlift": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Glutes", Fraction: 0.5},
		{MuscleGroup: "Back", Fraction: 0.25},
	},
	"barbell row": {
		{MuscleGroup: "Back", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
	},
	"pull up": {
		{MuscleGroup: "Back", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
	},
	"lat pulldown": {
		{MuscleGroup: "Back", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
	},
	"leg press": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Glutes", Fraction: 0.5},
	},
	"lunge": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Glutes", Fraction: 0.5},
	},
	"leg curl": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
	},
	"leg extension": {
		{MuscleGroup: "Legs", Fraction: 1, IsDirect: true},
	},
	"calf raise": {
		{MuscleGroup: "Calves", Fraction: 1, IsDirect: true},
	},
	"bicep curl": {
		{MuscleGroup: "Arms", Fraction: 1, IsDirect: true},
	},
	"tricep pushdown": {
		{MuscleGroup: "Arms", Fraction: 1, IsDirect: true},
	},
	"dip": {
		{MuscleGroup: "Chest", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Arms", Fraction: 0.5},
	},
	"lateral raise": {
		{MuscleGroup: "Shoulders", Fraction: 1, IsDirect: true},
	},
	"plank": {
		{MuscleGroup: "Core", Fraction: 1, IsDirect: true},
	},
	"hip thrust": {
		{MuscleGroup: "Glutes", Fraction: 1, IsDirect: true},
		{MuscleGroup: "Legs", Fraction: 0.5},
	},
}

// DefaultTemplates looks up the built-in muscle template table. Exact
// normalized match first, then the longest template key contained in (or
// containing) the name, so "incline bench press close grip" still lands on
// a bench press template.
func DefaultTemplates(name string) ([]models.MuscleContribution, bool) {
	norm := models.NormalizeExerciseName(name)
	if norm == "" {
		return nil, false
	}
	if tmpl, ok := muscleTemplates[norm]; ok {
		return cloneContributions(tmpl), true
	}

	bestKey := ""
	for key := range muscleTemplates {
		if strings.Contains(norm, key) || strings.Contains(key, norm) {
			if len(key) > len(bestKey) {
				bestKey = key
			}
		}
	}
	if bestKey == "" {
		return nil, false
	}
	return cloneContributions(muscleTemplates[bestKey]), true
}

func cloneContributions(src []models.MuscleContribution) []models.MuscleContribution {
	out := make([]models.MuscleContribution, len(src))
	copy(out, src)
	return out
}

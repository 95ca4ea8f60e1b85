// Package resolve fuzzy-matches free-text exercise references against the
// canonical names actually present in a user's training history. Every
// query path that takes an exercise name goes through Resolve so threshold
// and tie-break behavior stay identical across call sites.
package resolve

import (
	"sort"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

// Match is the outcome of resolving a query against history. A zero-length
// MatchedExercise means no candidate reached the acceptance threshold; in
// that case Suggestions carries the closest misses.
type Match struct {
	MatchedExercise string   `json:"matchedExercise"`
	Score           float64  `json:"score"`
	Suggestions     []string `json:"suggestions,omitempty"`
}

// aliasTable maps canonical exercise names to the informal shorthand users
// type for them. Immutable configuration data.
var aliasTable = map[string][]string{
	"deadlift":          {"dl", "conv dl", "deads", "dls", "conventional deadlift"},
	"bench press":       {"bench", "benched", "bp", "flat bench", "benching"},
	"squat":             {"squats", "back squat", "squatted"},
	"overhead press":    {"ohp", "press", "military press", "shoulder press"},
	"barbell row":       {"rows", "bb row", "bent over row"},
	"pull up":           {"pullups", "pull ups", "chins", "chin up"},
	"lat pulldown":      {"pulldown", "pulldowns", "lat pull"},
	"romanian deadlift": {"rdl", "rdls", "stiff leg deadlift"},
	"bicep curl":        {"curls", "bicep curls", "bb curl", "db curl"},
	"tricep pushdown":   {"pushdown", "pushdowns", "tricep extension"},
	"hip thrust":        {"hip thrusts", "glute bridge"},
	"leg press":         {"leg pressed"},
}

const (
	acceptThreshold     = 0.5
	suggestionThreshold = 0.3
	aliasHistoryMatch   = 0.8
	maxSuggestions      = 3
)

// Resolve matches a free-text exercise query against the distinct exercise
// names in history. Alias-table hits that are present in history score 1.0;
// otherwise every history name is similarity-scored and the best candidate
// at or above 0.5 wins.
func Resolve(query string, sessions []models.WorkoutSession) Match {
	norm := models.NormalizeExerciseName(query)
	names := DistinctExerciseNames(sessions)

	// Alias table first: a recognized shorthand pins the canonical name,
	// then history is searched for that canonical.
	if canonical, ok := lookupAlias(norm); ok {
		for _, name := range names {
			hn := models.NormalizeExerciseName(name)
			if hn == canonical || Similarity(hn, canonical) >= aliasHistoryMatch {
				return Match{MatchedExercise: name, Score: 1.0}
			}
		}
	}

	type candidate struct {
		name  string
		score float64
	}
	candidates := make([]candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, candidate{
			name:  name,
			score: Similarity(norm, models.NormalizeExerciseName(name)),
		})
	}
	// Stable keeps first-seen order among equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > 0 && candidates[0].score >= acceptThreshold {
		m := Match{MatchedExercise: candidates[0].name, Score: candidates[0].score}
		for _, c := range candidates[1:] {
			if c.score >= suggestionThreshold && len(m.Suggestions) < maxSuggestions {
				m.Suggestions = append(m.Suggestions, c.name)
			}
		}
		return m
	}

	m := Match{}
	for _, c := range candidates {
		if len(m.Suggestions) >= maxSuggestions {
			break
		}
		m.Suggestions = append(m.Suggestions, c.name)
	}
	return m
}

// lookupAlias reports the canonical name for a normalized query that is
// either a canonical name itself or one of its aliases.
func lookupAlias(norm string) (string, bool) {
	if _, ok := aliasTable[norm]; ok {
		return norm, true
	}
	for canonical, aliases := range aliasTable {
		for _, a := range aliases {
			if norm == a {
				return canonical, true
			}
		}
	}
	return "", false
}

// Similarity scores two normalized exercise names in [0,1]: exact 1.0,
// substring containment 0.9, word overlap scaled into [0.5, 0.85], shared
// 3-char word prefix 0.4, else 0.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.9
	}

	aWords := strings.Fields(a)
	bWords := strings.Fields(b)
	overlap := 0
	for _, w := range aWords {
		for _, u := range bWords {
			if strings.Contains(u, w) || strings.Contains(w, u) {
				overlap++
				break
			}
		}
	}
	if overlap > 0 {
		return 0.5 + 0.35*float64(overlap)/float64(len(aWords))
	}

	for _, w := range aWords {
		for _, u := range bWords {
			if len(w) >= 3 && len(u) >= 3 && w[:3] == u[:3] {
				return 0.4
			}
		}
	}
	return 0
}

// DistinctExerciseNames returns the distinct raw exercise names across all
// sessions in first-seen order, skipping soft-deleted sessions.
func DistinctExerciseNames(sessions []models.WorkoutSession) []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range sessions {
		if s.DeletedAt != nil {
			continue
		}
		for _, ex := range s.Exercises {
			key := models.NormalizeExerciseName(ex.NameRaw)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, ex.NameRaw)
		}
	}
	return names
}

// Package intent holds the discriminated intent shapes produced by the
// upstream classifier and the deterministic executors that answer them
// from session history. Executors are pure: same intent, same history,
// same clock, same answer.
package intent

import (
	"encoding/json"
	"fmt"
)

// Type discriminates the supported question and plan requests.
type Type string

const (
	TypeLastExercise         Type = "last_exercise"
	TypeExerciseSets         Type = "exercise_sets"
	TypeExercisePR           Type = "exercise_pr"
	TypeVolumeSummary        Type = "volume_summary"
	TypeLastSession          Type = "last_session"
	TypeRecommendation       Type = "recommendation"
	TypeExerciseAlternatives Type = "exercise_alternatives"
	TypeProgressTrend        Type = "progress_trend"
	TypeGeneralChat          Type = "general_chat"
	TypeMuscleGroupExercises Type = "muscle_group_exercises"
	TypeWorkoutPlan          Type = "workout_plan"
)

var knownTypes = map[Type]bool{
	TypeLastExercise:         true,
	TypeExerciseSets:         true,
	TypeExercisePR:           true,
	TypeVolumeSummary:        true,
	TypeLastSession:          true,
	TypeRecommendation:       true,
	TypeExerciseAlternatives: true,
	TypeProgressTrend:        true,
	TypeGeneralChat:          true,
	TypeMuscleGroupExercises: true,
	TypeWorkoutPlan:          true,
}

// Intent is one classified request. Which fields are meaningful depends on
// Type; Parse guarantees only that Type is a known discriminator.
type Intent struct {
	Type Type `json:"type"`

	// Exercise-scoped questions.
	Exercise string `json:"exercise,omitempty"`
	// Metric selects the PR flavor: "weight", "e1rm", or "volume".
	Metric string `json:"metric,omitempty"`

	// Timeframe is "week", "month", or "custom" with explicit dates.
	Timeframe string `json:"timeframe,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	// Recommendation / muscle group questions.
	MuscleGroup string `json:"muscleGroup,omitempty"`

	// Plan requests.
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Goal            string `json:"goal,omitempty"`
	Focus           string `json:"focus,omitempty"`
	IncludeTargets  bool   `json:"includeTargets,omitempty"`

	// Chat passthrough.
	Message string `json:"message,omitempty"`
}

// Parse decodes a classified intent, rejecting unknown type values before
// they can reach an executor.
func Parse(raw []byte) (*Intent, error) {
	var in Intent
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decoding intent: %w", err)
	}
	if !knownTypes[in.Type] {
		return nil, fmt.Errorf("unknown intent type %q", in.Type)
	}
	return &in, nil
}

// Result is an executor's answer. Text is always a natural-language
// sentence, never a raw error. For delegated intent types Text is empty
// and Delegate carries the structured context an external responder needs.
type Result struct {
	Text        string             `json:"text,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Delegate    *DelegationContext `json:"delegate,omitempty"`
}

// DelegationContext is handed to the external natural-language responder
// for intents this executor does not phrase itself.
type DelegationContext struct {
	Kind           Type           `json:"kind"`
	Message        string         `json:"message,omitempty"`
	MuscleGroup    string         `json:"muscleGroup,omitempty"`
	Exercises      []string       `json:"exercises,omitempty"`
	RecentSessions []SessionBrief `json:"recentSessions,omitempty"`
}

// SessionBrief is the compact per-session summary used in delegation
// payloads.
type SessionBrief struct {
	PerformedOn string   `json:"performedOn"`
	Exercises   []string `json:"exercises"`
	TotalSets   int      `json:"totalSets"`
}

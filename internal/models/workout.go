package models

import "time"

// WorkoutSet is a single performed set. Weight is stored as the display
// string the user (or model) produced; the numeric value is derived on
// demand via ParseWeightText.
type WorkoutSet struct {
	ID           string    `json:"id"`
	ExerciseID   string    `json:"exerciseId"`
	SetIndex     int       `json:"setIndex"`
	Reps         int       `json:"reps"`
	WeightText   string    `json:"weightText"`
	IsBodyweight bool      `json:"isBodyweight"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MuscleContribution attributes a share of an exercise's sets to a muscle
// group. Fraction is in (0,1]. The contribution marked IsDirect counts 1:1
// toward direct set totals; all others count fractionally.
type MuscleContribution struct {
	MuscleGroup string  `json:"muscleGroup"`
	Fraction    float64 `json:"fraction"`
	IsDirect    bool    `json:"isDirect,omitempty"`
}

// WorkoutExercise is one exercise performed within a session. It owns its
// sets. MuscleContributions is nil when no muscle data is known — nil and
// empty are distinct and must round-trip as such.
type WorkoutExercise struct {
	ID                  string               `json:"id"`
	SessionID           string               `json:"sessionId"`
	NameRaw             string               `json:"nameRaw"`
	PrimaryMuscleGroup  string               `json:"primaryMuscleGroup,omitempty"`
	MuscleContributions []MuscleContribution `json:"muscleContributions,omitempty"`
	Sets                []WorkoutSet         `json:"sets"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// WorkoutSession is one calendar day of training. Sessions are keyed by the
// exact PerformedOn date string (YYYY-MM-DD), never by instant. Soft-deleted
// sessions carry DeletedAt and are never physically removed by the core.
type WorkoutSession struct {
	ID          string            `json:"id"`
	PerformedOn string            `json:"performedOn"`
	Exercises   []WorkoutExercise `json:"exercises"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	DeletedAt   *time.Time        `json:"deletedAt,omitempty"`
}

// ParsedExercise is the transient record produced by the normalizer and
// consumed by the session merger. Reps and Weights are nil when the model
// did not supply them; when present their length equals Sets.
type ParsedExercise struct {
	ID                  string               `json:"id"`
	Date                string               `json:"date"`
	Exercise            string               `json:"exercise"`
	Sets                int                  `json:"sets"`
	Reps                []int                `json:"reps"`
	Weights             []string             `json:"weights"`
	PrimaryMuscleGroup  string               `json:"primaryMuscleGroup,omitempty"`
	MuscleContributions []MuscleContribution `json:"muscleContributions,omitempty"`
}

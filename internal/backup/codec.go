// Package backup serializes the full session list into a versioned,
// validated envelope. Unlike the ingest path, backup integrity is a hard
// precondition: malformed input is a typed error, never a degraded result.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// SchemaVersion is the current backup envelope version. Version 1 existed
// and has a migration story elsewhere; this codec rejects it explicitly so
// users get a pointed message instead of a generic schema error.
const SchemaVersion = 2

// Envelope is the on-disk backup format.
type Envelope struct {
	SchemaVersion   int                     `json:"schemaVersion"`
	ExportedAt      string                  `json:"exportedAt"`
	WorkoutSessions []models.WorkoutSession `json:"workoutSessions"`
}

// Error is a backup validation failure with a human-readable message.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationError(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Stringify serializes a session list into a version-2 backup envelope.
func Stringify(sessions []models.WorkoutSession, exportedAt time.Time) ([]byte, error) {
	if sessions == nil {
		sessions = []models.WorkoutSession{}
	}
	env := Envelope{
		SchemaVersion:   SchemaVersion,
		ExportedAt:      exportedAt.UTC().Format(time.RFC3339),
		WorkoutSessions: sessions,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Parse validates and decodes a backup envelope, returning the session
// list. All failures are *Error values carrying a message fit for display.
func Parse(data []byte) ([]models.WorkoutSession, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, validationError("backup is not a valid JSON object")
	}

	rawVersion, ok := probe["schemaVersion"]
	if !ok {
		return nil, validationError("backup is missing schemaVersion")
	}
	var version int
	if err := json.Unmarshal(rawVersion, &version); err != nil {
		return nil, validationError("backup schemaVersion must be an integer")
	}
	switch {
	case version == 1:
		return nil, validationError("legacy backup version 1 not supported")
	case version != SchemaVersion:
		return nil, validationError("Unsupported backup schema version: %d", version)
	}

	rawSessions, ok := probe["workoutSessions"]
	if !ok {
		return nil, validationError("backup is missing workoutSessions")
	}
	var sessions []models.WorkoutSession
	// Unmarshal accepts null silently, so catch it up front.
	if string(rawSessions) == "null" {
		return nil, validationError("backup workoutSessions must be an array of sessions")
	}
	if err := json.Unmarshal(rawSessions, &sessions); err != nil {
		return nil, validationError("backup workoutSessions must be an array of sessions")
	}

	for i, s := range sessions {
		if s.PerformedOn == "" {
			return nil, validationError("backup session %d has no performedOn date", i)
		}
	}
	return sessions, nil
}

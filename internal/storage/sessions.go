package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claude/liftlog/internal/models"
)

// ListSessions returns every workout session, soft-deleted ones included,
// ordered by performed date then creation time. Callers that need live data
// only filter on DeletedAt.
func (db *DB) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, performed_on::text, created_at, updated_at, deleted_at
		 FROM workout_sessions
		 ORDER BY performed_on, created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	index := map[string]int{}
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.PerformedOn, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		index[s.ID] = len(sessions)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	if err := db.loadExercises(ctx, sessions, index); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (db *DB) loadExercises(ctx context.Context, sessions []models.WorkoutSession, index map[string]int) error {
	rows, err := db.pool.Query(ctx,
		`SELECT id, session_id, name_raw, primary_muscle_group, muscle_contributions, created_at, updated_at
		 FROM workout_exercises
		 ORDER BY session_id, position`)
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	exIndex := map[string]*models.WorkoutExercise{}
	for rows.Next() {
		var ex models.WorkoutExercise
		var primary *string
		var contributions []byte
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.NameRaw, &primary, &contributions, &ex.CreatedAt, &ex.UpdatedAt); err != nil {
			return fmt.Errorf("scanning exercise: %w", err)
		}
		if primary != nil {
			ex.PrimaryMuscleGroup = *primary
		}
		if len(contributions) > 0 {
			if err := json.Unmarshal(contributions, &ex.MuscleContributions); err != nil {
				return fmt.Errorf("decoding contributions for exercise %s: %w", ex.ID, err)
			}
		}
		i, ok := index[ex.SessionID]
		if !ok {
			continue
		}
		sessions[i].Exercises = append(sessions[i].Exercises, ex)
		exIndex[ex.ID] = &sessions[i].Exercises[len(sessions[i].Exercises)-1]
	}
	if err := rows.Err(); err != nil {
		return err
	}

	setRows, err := db.pool.Query(ctx,
		`SELECT id, exercise_id, set_index, reps, weight_text, is_bodyweight, created_at, updated_at
		 FROM workout_sets
		 ORDER BY exercise_id, set_index`)
	if err != nil {
		return fmt.Errorf("querying sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.WorkoutSet
		if err := setRows.Scan(&set.ID, &set.ExerciseID, &set.SetIndex, &set.Reps,
			&set.WeightText, &set.IsBodyweight, &set.CreatedAt, &set.UpdatedAt); err != nil {
			return fmt.Errorf("scanning set: %w", err)
		}
		if ex, ok := exIndex[set.ExerciseID]; ok {
			ex.Sets = append(ex.Sets, set)
		}
	}
	return setRows.Err()
}

// SaveSessions upserts sessions with their exercises and sets in a single
// transaction. Each session is replaced wholesale: exercise rows belonging to
// it are deleted and re-inserted, which keeps storage in lockstep with the
// merger's copy-on-write snapshots.
func (db *DB) SaveSessions(ctx context.Context, sessions []models.WorkoutSession) error {
	if len(sessions) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range sessions {
		if err := saveSession(ctx, tx, s); err != nil {
			return fmt.Errorf("saving session %s: %w", s.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing sessions: %w", err)
	}
	return nil
}

func saveSession(ctx context.Context, tx pgx.Tx, s models.WorkoutSession) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, performed_on, created_at, updated_at, deleted_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
		   performed_on = EXCLUDED.performed_on,
		   updated_at = EXCLUDED.updated_at,
		   deleted_at = EXCLUDED.deleted_at`,
		s.ID, s.PerformedOn, s.CreatedAt, s.UpdatedAt, s.DeletedAt)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}

	// Cascade removes the old sets as well.
	if _, err := tx.Exec(ctx, `DELETE FROM workout_exercises WHERE session_id = $1`, s.ID); err != nil {
		return fmt.Errorf("clearing exercises: %w", err)
	}

	for pos, ex := range s.Exercises {
		var contributions []byte
		if ex.MuscleContributions != nil {
			contributions, err = json.Marshal(ex.MuscleContributions)
			if err != nil {
				return fmt.Errorf("encoding contributions for %s: %w", ex.NameRaw, err)
			}
		}
		var primary *string
		if ex.PrimaryMuscleGroup != "" {
			primary = &ex.PrimaryMuscleGroup
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO workout_exercises
			 (id, session_id, position, name_raw, primary_muscle_group, muscle_contributions, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			ex.ID, s.ID, pos, ex.NameRaw, primary, contributions, ex.CreatedAt, ex.UpdatedAt)
		if err != nil {
			return fmt.Errorf("inserting exercise %s: %w", ex.NameRaw, err)
		}

		for _, set := range ex.Sets {
			_, err = tx.Exec(ctx,
				`INSERT INTO workout_sets
				 (id, exercise_id, set_index, reps, weight_text, is_bodyweight, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				set.ID, ex.ID, set.SetIndex, set.Reps, set.WeightText, set.IsBodyweight,
				set.CreatedAt, set.UpdatedAt)
			if err != nil {
				return fmt.Errorf("inserting set %d of %s: %w", set.SetIndex, ex.NameRaw, err)
			}
		}
	}
	return nil
}

// SoftDeleteSession marks a session deleted without removing its rows.
// Returns false when no live session has the ID.
func (db *DB) SoftDeleteSession(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE workout_sessions SET deleted_at = $2, updated_at = $2
		 WHERE id = $1 AND deleted_at IS NULL`,
		id, at)
	if err != nil {
		return false, fmt.Errorf("soft deleting session %s: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReplaceAllSessions wipes the workout tables and writes the given sessions.
// Used by backup import.
func (db *DB) ReplaceAllSessions(ctx context.Context, sessions []models.WorkoutSession) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workout_sessions`); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	for _, s := range sessions {
		if err := saveSession(ctx, tx, s); err != nil {
			return fmt.Errorf("restoring session %s: %w", s.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing restore: %w", err)
	}
	return nil
}

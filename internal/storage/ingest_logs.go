package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// IngestLog records the outcome of one free-text ingest operation, including
// what the language model produced and how it was interpreted.
type IngestLog struct {
	ID               int64            `json:"id"`
	CreatedAt        time.Time        `json:"created_at"`
	Source           string           `json:"source"`
	Status           string           `json:"status"`
	ExercisesParsed  int              `json:"exercises_parsed"`
	SessionsTouched  int              `json:"sessions_touched"`
	Confidence       string           `json:"confidence"`
	Warnings         []string         `json:"warnings,omitempty"`
	DurationMs       *int             `json:"duration_ms"`
	ErrorMessage     *string          `json:"error_message"`
	RawModelResponse *json.RawMessage `json:"raw_model_response,omitempty"`
}

// InsertIngestLog creates a new ingest log entry and returns its ID.
func (db *DB) InsertIngestLog(ctx context.Context, log IngestLog) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO ingest_logs (source, status, exercises_parsed, sessions_touched,
		 confidence, warnings, duration_ms, error_message, raw_model_response)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING id`,
		log.Source, log.Status, log.ExercisesParsed, log.SessionsTouched,
		log.Confidence, log.Warnings, log.DurationMs, log.ErrorMessage, log.RawModelResponse,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting ingest log: %w", err)
	}
	return id, nil
}

// UpdateIngestLog updates an existing ingest log entry (typically from
// "running" to "success" or "error").
func (db *DB) UpdateIngestLog(ctx context.Context, id int64, log IngestLog) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE ingest_logs SET
		 status = $2, exercises_parsed = $3, sessions_touched = $4, confidence = $5,
		 warnings = $6, duration_ms = $7, error_message = $8, raw_model_response = $9
		 WHERE id = $1`,
		id, log.Status, log.ExercisesParsed, log.SessionsTouched, log.Confidence,
		log.Warnings, log.DurationMs, log.ErrorMessage, log.RawModelResponse,
	)
	if err != nil {
		return fmt.Errorf("updating ingest log %d: %w", id, err)
	}
	return nil
}

// QueryIngestLogs returns the most recent ingest logs.
func (db *DB) QueryIngestLogs(ctx context.Context, limit int) ([]IngestLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, created_at, source, status, exercises_parsed, sessions_touched,
		 confidence, warnings, duration_ms, error_message, raw_model_response
		 FROM ingest_logs
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest logs: %w", err)
	}
	defer rows.Close()

	var result []IngestLog
	for rows.Next() {
		var l IngestLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.Source, &l.Status,
			&l.ExercisesParsed, &l.SessionsTouched, &l.Confidence, &l.Warnings,
			&l.DurationMs, &l.ErrorMessage, &l.RawModelResponse); err != nil {
			return nil, fmt.Errorf("scanning ingest log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

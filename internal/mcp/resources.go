package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/stats"
)

func (h *handlers) weeklySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format(models.TrainingDateLayout)
	summary := stats.Aggregate(sessions, models.ISOWeek(today))

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) personalRecords(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	type prEntry struct {
		stats.PersonalRecord
		EstimatedOneRepMax float64 `json:"estimatedOneRepMax"`
	}
	records := stats.PersonalRecords(sessions)
	entries := make([]prEntry, len(records))
	for i, rec := range records {
		entries[i] = prEntry{
			PersonalRecord:     rec,
			EstimatedOneRepMax: stats.EstimateOneRepMax(rec.MaxWeight, rec.Reps),
		}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

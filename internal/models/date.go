package models

import (
	"fmt"
	"regexp"
	"time"
)

// TrainingDateLayout is the canonical session date format. Zero-padded ISO
// dates compare correctly as strings, which the merger and sorter rely on.
const TrainingDateLayout = "2006-01-02"

var trainingDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsTrainingDate reports whether s is a well-formed YYYY-MM-DD date string.
// The shape check alone is not enough: "2024-13-45" matches the pattern but
// is not a real date.
func IsTrainingDate(s string) bool {
	if !trainingDateRe.MatchString(s) {
		return false
	}
	_, err := time.Parse(TrainingDateLayout, s)
	return err == nil
}

// ParseTrainingDate parses a YYYY-MM-DD date string.
func ParseTrainingDate(s string) (time.Time, error) {
	t, err := time.Parse(TrainingDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse training date %q: %w", s, err)
	}
	return t, nil
}

// ISOWeek returns the ISO week identifier (YYYY-Www) for a date string.
// Invalid dates yield an empty identifier so callers can skip them.
func ISOWeek(date string) string {
	t, err := ParseTrainingDate(date)
	if err != nil {
		return ""
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

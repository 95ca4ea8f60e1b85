package models

import (
	"strconv"
	"strings"
)

// ParseWeightText extracts the numeric weight from a display string by
// stripping every character that is not a digit or a decimal point.
// "100kg" -> 100, "bodyweight+25" -> 25, "bw" -> 0.
func ParseWeightText(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}

// IsBodyweightText reports whether a weight display string refers to
// bodyweight. Best-effort substring probe: "bodyweight+25" is flagged even
// though it also carries a number.
func IsBodyweightText(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "bw") || strings.Contains(lower, "body")
}

// NormalizeExerciseName lowercases a name, strips everything that is not a
// word character or space, and trims. Every component that compares
// exercise names uses this one normalization.
func NormalizeExerciseName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

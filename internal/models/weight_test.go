package models

import "testing"

// TestParseWeightText verifies numeric extraction from display weight strings.
// The parser must tolerate units, prefixes, and junk characters because the
// text comes straight from model output.
func TestParseWeightText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100},
		{"102.5", 102.5},
		{"100kg", 100},
		{"225 lbs", 225},
		{"bodyweight+25", 25},
		{"bw", 0},
		{"", 0},
		{"heavy", 0},
	}
	for _, tt := range tests {
		if got := ParseWeightText(tt.in); got != tt.want {
			t.Errorf("ParseWeightText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestIsBodyweightText verifies the best-effort bodyweight probe. The flag
// is advisory: "bodyweight+25" is both bodyweight and a real number.
func TestIsBodyweightText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"bw", true},
		{"BW+10", true},
		{"bodyweight", true},
		{"bodyweight+25", true},
		{"100kg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsBodyweightText(tt.in); got != tt.want {
			t.Errorf("IsBodyweightText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestNormalizeExerciseName verifies the shared name normalization used by
// the resolver, aggregator, and PR calculator. All three must agree on it.
func TestNormalizeExerciseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bench Press", "bench press"},
		{"  Deadlift!  ", "deadlift"},
		{"T-Bar Row", "tbar row"},
		{"Incline DB Press (30°)", "incline db press 30"},
	}
	for _, tt := range tests {
		if got := NormalizeExerciseName(tt.in); got != tt.want {
			t.Errorf("NormalizeExerciseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestIsTrainingDate verifies date validation goes beyond the shape check.
// "2024-13-45" matches the regexp but is not a calendar date.
func TestIsTrainingDate(t *testing.T) {
	if !IsTrainingDate("2026-08-31") {
		t.Error("2026-08-31 should be valid")
	}
	if IsTrainingDate("2024-13-45") {
		t.Error("2024-13-45 should be invalid")
	}
	if IsTrainingDate("yesterday") {
		t.Error("non-date string should be invalid")
	}
	if IsTrainingDate("2026-8-31") {
		t.Error("unpadded date should be invalid")
	}
}

// TestISOWeek verifies the weekly bucket key format used by the aggregator.
// 2026-01-01 falls in ISO week 1 of 2026; 2024-12-30 belongs to 2025-W01.
func TestISOWeek(t *testing.T) {
	if got := ISOWeek("2026-08-31"); got != "2026-W36" {
		t.Errorf("ISOWeek(2026-08-31) = %q, want 2026-W36", got)
	}
	if got := ISOWeek("2024-12-30"); got != "2025-W01" {
		t.Errorf("ISOWeek(2024-12-30) = %q, want 2025-W01", got)
	}
	if got := ISOWeek("not-a-date"); got != "" {
		t.Errorf("ISOWeek(invalid) = %q, want empty", got)
	}
}

package llmtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

// ErrNoExercises is returned when the payload shape was recognized but zero
// exercise records could be extracted from it. Malformed individual records
// never fail the batch; only an empty batch does.
var ErrNoExercises = errors.New("no exercises found in payload")

// Confidence is the coarse quality signal attached to a normalized batch.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)

// NormalizeOptions controls muscle-group handling and supplies the
// collaborators the normalizer needs.
type NormalizeOptions struct {
	// UseTemplateMuscles derives contributions from the template lookup and
	// ignores anything the model supplied.
	UseTemplateMuscles bool
	// AllowModelProvidedMuscles sanitizes and keeps model-supplied
	// contributions. Ignored when UseTemplateMuscles is set.
	AllowModelProvidedMuscles bool
	// Today is the YYYY-MM-DD fallback for records with a missing or
	// malformed date.
	Today string
	// Templates resolves exercise names to muscle templates. Defaults to
	// the built-in table.
	Templates TemplateLookup
}

// NormalizeResult is a normalized batch of exercises plus its quality
// signals.
type NormalizeResult struct {
	Exercises        []models.ParsedExercise
	Warnings         []string
	Confidence       Confidence
	UsedDateFallback bool
}

// payloadShape names the three accepted input shapes, dispatched in fixed
// priority order: bare array, wrapped object, single exercise object.
type payloadShape int

const (
	shapeArray payloadShape = iota
	shapeWrapped
	shapeSingle
)

// detectPayloadShape probes raw JSON for its exercise payload shape.
func detectPayloadShape(raw []byte) payloadShape {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return shapeArray
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err == nil {
		if _, ok := probe["exercises"]; ok {
			return shapeWrapped
		}
	}
	return shapeSingle
}

// rawExercise holds one exercise object with every field still undecoded,
// so a single malformed field degrades to a default instead of failing the
// record.
type rawExercise struct {
	ID                  json.RawMessage `json:"id"`
	Date                json.RawMessage `json:"date"`
	Exercise            json.RawMessage `json:"exercise"`
	NameRaw             json.RawMessage `json:"nameRaw"`
	Sets                json.RawMessage `json:"sets"`
	Reps                json.RawMessage `json:"reps"`
	Weights             json.RawMessage `json:"weights"`
	PrimaryMuscleGroup  json.RawMessage `json:"primaryMuscleGroup"`
	MuscleContributions json.RawMessage `json:"muscleContributions"`
}

// acceptedIDRe matches model-supplied ids we keep: a date (or the literal
// "null") followed by an integer discriminator.
var acceptedIDRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}|null)-\d+$`)

// Normalize turns already-extracted JSON into a canonical exercise batch
// with confidence scoring. It fails only when no exercises at all could be
// recovered; anything else degrades field by field.
func Normalize(raw []byte, opts NormalizeOptions) (*NormalizeResult, error) {
	templates := opts.Templates
	if templates == nil {
		templates = DefaultTemplates
	}

	raws, err := decodeRawExercises(raw)
	if err != nil || len(raws) == 0 {
		return nil, ErrNoExercises
	}

	result := &NormalizeResult{}
	seenIDs := map[string]bool{}

	for _, re := range raws {
		ex := models.ParsedExercise{}

		// Name: exercise -> nameRaw -> literal fallback.
		if s, ok := coerceString(re.Exercise); ok && strings.TrimSpace(s) != "" {
			ex.Exercise = s
		} else if s, ok := coerceString(re.NameRaw); ok && strings.TrimSpace(s) != "" {
			ex.Exercise = s
		} else {
			ex.Exercise = "Unknown Exercise"
		}

		// Sets: any positive number, else 1.
		ex.Sets = 1
		if n, ok := coerceNumber(re.Sets); ok && n > 0 {
			if rounded := int(math.Round(n)); rounded >= 1 {
				ex.Sets = rounded
			}
		}

		// Date: strict YYYY-MM-DD or fall back to today with a warning.
		if s, ok := coerceString(re.Date); ok && models.IsTrainingDate(s) {
			ex.Date = s
		} else {
			ex.Date = opts.Today
			result.UsedDateFallback = true
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("exercise %q: missing or invalid date, using %s", ex.Exercise, opts.Today))
		}

		// Reps/weights: absent stays nil; present is resized to Sets.
		if reps, ok := coerceIntSlice(re.Reps); ok {
			ex.Reps = resizeInts(reps, ex.Sets)
		}
		if weights, ok := coerceStringSlice(re.Weights); ok {
			ex.Weights = resizeStrings(weights, ex.Sets)
		}

		applyMuscles(&ex, re, opts, templates)

		ex.ID = assignID(re.ID, ex.Date, seenIDs)
		seenIDs[ex.ID] = true

		result.Exercises = append(result.Exercises, ex)
	}

	result.Confidence = scoreConfidence(result)
	return result, nil
}

// decodeRawExercises dispatches on the detected payload shape.
func decodeRawExercises(raw []byte) ([]rawExercise, error) {
	switch detectPayloadShape(raw) {
	case shapeArray:
		var arr []rawExercise
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, err
		}
		return arr, nil
	case shapeWrapped:
		var wrapped struct {
			Exercises []rawExercise `json:"exercises"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Exercises, nil
	default:
		var single rawExercise
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		// A bare object with no recognizable fields is not an exercise.
		if single.Exercise == nil && single.NameRaw == nil && single.Sets == nil {
			return nil, ErrNoExercises
		}
		return []rawExercise{single}, nil
	}
}

// applyMuscles fills PrimaryMuscleGroup and MuscleContributions according
// to the configured policy. Template-derived and sanitized model-provided
// contributions share one representation; downstream aggregation never
// cares which source produced them.
func applyMuscles(ex *models.ParsedExercise, re rawExercise, opts NormalizeOptions, templates TemplateLookup) {
	if opts.UseTemplateMuscles {
		if contribs, ok := templates(ex.Exercise); ok {
			ex.MuscleContributions = contribs
			for _, c := range contribs {
				if c.IsDirect {
					ex.PrimaryMuscleGroup = c.MuscleGroup
					break
				}
			}
		}
		return
	}

	if !opts.AllowModelProvidedMuscles {
		return
	}

	if s, ok := coerceString(re.PrimaryMuscleGroup); ok && AllowedMuscleGroups[s] {
		ex.PrimaryMuscleGroup = s
	}

	var rawContribs []struct {
		MuscleGroup json.RawMessage `json:"muscleGroup"`
		Fraction    json.RawMessage `json:"fraction"`
		IsDirect    json.RawMessage `json:"isDirect"`
	}
	if re.MuscleContributions == nil {
		return
	}
	if err := json.Unmarshal(re.MuscleContributions, &rawContribs); err != nil {
		return
	}

	var sanitized []models.MuscleContribution
	for _, rc := range rawContribs {
		group, ok := coerceString(rc.MuscleGroup)
		if !ok || !AllowedMuscleGroups[group] {
			continue
		}
		fraction := 1.0
		if f, ok := coerceNumber(rc.Fraction); ok && f > 0 && f <= 1 {
			fraction = f
		}
		// isDirect survives only when explicitly true.
		isDirect := bytes.Equal(bytes.TrimSpace(rc.IsDirect), []byte("true"))
		sanitized = append(sanitized, models.MuscleContribution{
			MuscleGroup: group,
			Fraction:    fraction,
			IsDirect:    isDirect,
		})
	}
	if len(sanitized) > 0 {
		ex.MuscleContributions = sanitized
	}
}

// assignID keeps a well-formed model-supplied id, otherwise generates a
// fresh one; either way the id is unique within the batch.
func assignID(raw json.RawMessage, date string, seen map[string]bool) string {
	if s, ok := coerceString(raw); ok && acceptedIDRe.MatchString(s) && !seen[s] {
		return s
	}
	prefix := date
	if prefix == "" {
		prefix = "null"
	}
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !seen[id] {
			return id
		}
	}
}

// scoreConfidence applies the batch quality heuristics, in order: mostly
// zero values, too many warnings, a single sparse exercise.
func scoreConfidence(result *NormalizeResult) Confidence {
	total, zeroes := 0, 0
	for _, ex := range result.Exercises {
		for _, r := range ex.Reps {
			total++
			if r == 0 {
				zeroes++
			}
		}
		for _, w := range ex.Weights {
			total++
			if strings.TrimSpace(w) == "" || models.ParseWeightText(w) == 0 {
				zeroes++
			}
		}
	}

	if zeroes*2 > total {
		return ConfidenceLow
	}
	if len(result.Warnings) > 2 {
		return ConfidenceLow
	}
	if len(result.Exercises) == 1 && total < 3 {
		return ConfidenceLow
	}
	return ConfidenceHigh
}

// --- lenient JSON coercion helpers ---

func coerceString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}
	return "", false
}

func coerceNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// coerceIntSlice accepts an array of numbers (or numeric strings). Returns
// ok=false for absent or null input so absence is preserved.
func coerceIntSlice(raw json.RawMessage) ([]int, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	out := make([]int, 0, len(elems))
	for _, e := range elems {
		if f, ok := coerceNumber(e); ok {
			out = append(out, int(f))
		} else {
			out = append(out, 0)
		}
	}
	return out, true
}

// coerceStringSlice accepts an array of strings or numbers, coercing
// numbers to their literal text so "102.5" survives untouched.
func coerceStringSlice(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if s, ok := coerceString(e); ok {
			out = append(out, s)
		} else {
			out = append(out, "0")
		}
	}
	return out, true
}

func resizeInts(in []int, size int) []int {
	out := make([]int, size)
	copy(out, in)
	return out
}

func resizeStrings(in []string, size int) []string {
	out := make([]string, size)
	copy(out, in)
	for i := range out {
		if out[i] == "" {
			out[i] = "0"
		}
	}
	return out
}

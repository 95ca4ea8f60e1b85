package intent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/resolve"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/stats"
)

// ExecuteAsk answers a classified question against the session history.
// The result is always a sentence (or a delegation context), never an
// error: a failed fuzzy match degrades to a polite miss with suggestions.
func ExecuteAsk(in Intent, sessions []models.WorkoutSession, now time.Time) Result {
	switch in.Type {
	case TypeLastExercise:
		return askLastExercise(in, sessions)
	case TypeExerciseSets:
		return askExerciseSets(in, sessions)
	case TypeExercisePR:
		return askExercisePR(in, sessions)
	case TypeVolumeSummary:
		return askVolumeSummary(in, sessions, now)
	case TypeLastSession:
		return askLastSession(sessions)
	case TypeRecommendation:
		return askRecommendation(in, sessions)
	case TypeExerciseAlternatives:
		return askAlternatives(in, sessions)
	case TypeProgressTrend:
		return askProgressTrend(in, sessions, now)
	case TypeGeneralChat:
		return Result{Delegate: &DelegationContext{
			Kind:           TypeGeneralChat,
			Message:        in.Message,
			RecentSessions: briefSessions(sessions, 5),
		}}
	case TypeMuscleGroupExercises:
		return Result{Delegate: &DelegationContext{
			Kind:        TypeMuscleGroupExercises,
			MuscleGroup: in.MuscleGroup,
			Exercises:   append([]string(nil), muscleGroupExercises[in.MuscleGroup]...),
		}}
	default:
		return Result{Text: "I don't know how to answer that yet."}
	}
}

// resolveExercise runs the shared fuzzy resolver and phrases the miss when
// nothing in history matches.
func resolveExercise(query string, sessions []models.WorkoutSession) (resolve.Match, *Result) {
	m := resolve.Resolve(query, sessions)
	if m.MatchedExercise == "" {
		r := Result{
			Text:        fmt.Sprintf("I couldn't find %q in your training log.", query),
			Suggestions: m.Suggestions,
		}
		return m, &r
	}
	return m, nil
}

func askLastExercise(in Intent, history []models.WorkoutSession) Result {
	m, miss := resolveExercise(in.Exercise, history)
	if miss != nil {
		return *miss
	}
	sess, _ := latestSessionWith(history, m.MatchedExercise)
	return Result{
		Text:        fmt.Sprintf("You last did %s on %s.", m.MatchedExercise, sess.PerformedOn),
		Suggestions: m.Suggestions,
	}
}

func askExerciseSets(in Intent, history []models.WorkoutSession) Result {
	m, miss := resolveExercise(in.Exercise, history)
	if miss != nil {
		return *miss
	}
	sess, ex := latestSessionWith(history, m.MatchedExercise)
	if len(ex.Sets) == 0 {
		return Result{Text: fmt.Sprintf("Your last %s on %s had no recorded sets.", m.MatchedExercise, sess.PerformedOn)}
	}

	parts := make([]string, len(ex.Sets))
	for i, set := range ex.Sets {
		parts[i] = fmt.Sprintf("%s x %d", displayWeight(set.WeightText), set.Reps)
	}
	top := bestSet(ex.Sets)
	return Result{
		Text: fmt.Sprintf("Last %s (%s): %s. Top set: %s x %d.",
			m.MatchedExercise, sess.PerformedOn, strings.Join(parts, ", "),
			displayWeight(top.WeightText), top.Reps),
		Suggestions: m.Suggestions,
	}
}

func askExercisePR(in Intent, history []models.WorkoutSession) Result {
	m, miss := resolveExercise(in.Exercise, history)
	if miss != nil {
		return *miss
	}

	switch in.Metric {
	case "e1rm":
		weight, reps, date := bestBy(history, m.MatchedExercise, func(w float64, r int) float64 {
			return stats.EstimateOneRepMax(w, r)
		})
		e1rm := stats.EstimateOneRepMax(weight, reps)
		return Result{Text: fmt.Sprintf("Your estimated 1RM for %s is %.1f, based on %s x %d from %s.",
			m.MatchedExercise, e1rm, trimFloat(weight), reps, date)}
	case "volume":
		weight, reps, date := bestBy(history, m.MatchedExercise, func(w float64, r int) float64 {
			return w * float64(r)
		})
		return Result{Text: fmt.Sprintf("Your biggest %s set by volume was %s x %d (%.0f total) on %s.",
			m.MatchedExercise, trimFloat(weight), reps, weight*float64(reps), date)}
	default:
		rec, ok := stats.RecordFor(history, m.MatchedExercise)
		if !ok {
			return Result{Text: fmt.Sprintf("No recorded sets for %s yet.", m.MatchedExercise)}
		}
		return Result{Text: fmt.Sprintf("Your %s PR is %s x %d, set on %s.",
			m.MatchedExercise, trimFloat(rec.MaxWeight), rec.Reps, rec.Date)}
	}
}

func askVolumeSummary(in Intent, history []models.WorkoutSession, now time.Time) Result {
	var from, to, label string
	switch in.Timeframe {
	case "month":
		from = now.AddDate(0, 0, -30).Format(models.TrainingDateLayout)
		to = now.Format(models.TrainingDateLayout)
		label = "over the last 30 days"
	case "custom":
		from, to = in.StartDate, in.EndDate
		label = fmt.Sprintf("between %s and %s", from, to)
	default: // "week"
		from = now.AddDate(0, 0, -7).Format(models.TrainingDateLayout)
		to = now.Format(models.TrainingDateLayout)
		label = "over the last 7 days"
	}

	days := map[string]bool{}
	totalSets := 0
	var totalVolume float64
	for _, s := range history {
		if s.DeletedAt != nil || s.PerformedOn < from || s.PerformedOn > to {
			continue
		}
		days[s.PerformedOn] = true
		for _, ex := range s.Exercises {
			totalSets += len(ex.Sets)
			for _, set := range ex.Sets {
				totalVolume += models.ParseWeightText(set.WeightText) * float64(set.Reps)
			}
		}
	}

	if len(days) == 0 {
		return Result{Text: fmt.Sprintf("No workouts logged %s.", label)}
	}
	return Result{Text: fmt.Sprintf("%s you trained on %d days: %d sets, %.0f total volume.",
		strings.ToUpper(label[:1])+label[1:], len(days), totalSets, totalVolume)}
}

func askLastSession(history []models.WorkoutSession) Result {
	sorted := session.SortByDateDesc(history)
	for _, s := range sorted {
		if s.DeletedAt != nil {
			continue
		}
		names := make([]string, 0, len(s.Exercises))
		totalSets := 0
		for _, ex := range s.Exercises {
			names = append(names, fmt.Sprintf("%s (%d sets)", ex.NameRaw, len(ex.Sets)))
			totalSets += len(ex.Sets)
		}
		return Result{Text: fmt.Sprintf("Your last workout was %s: %s — %d sets total.",
			s.PerformedOn, strings.Join(names, ", "), totalSets)}
	}
	return Result{Text: "You haven't logged any workouts yet."}
}

func askRecommendation(in Intent, history []models.WorkoutSession) Result {
	group := in.MuscleGroup
	if group == "" {
		group = leastRecentlyTrainedGroup(history)
	}
	if group == "" {
		return Result{Text: "Log a few workouts first and I can recommend what to train next."}
	}

	exercises := muscleGroupExercises[group]
	if len(exercises) == 0 {
		return Result{Text: fmt.Sprintf("I don't have exercise suggestions for %s.", group)}
	}
	return Result{
		Text: fmt.Sprintf("%s hasn't been trained recently — try: %s.",
			group, strings.Join(exercises[:min(3, len(exercises))], ", ")),
	}
}

func askAlternatives(in Intent, history []models.WorkoutSession) Result {
	norm := models.NormalizeExerciseName(in.Exercise)

	// Resolution order: alias/history resolution, then similarity against
	// the table keys, then a history-based muscle-group fallback.
	if m := resolve.Resolve(in.Exercise, history); m.MatchedExercise != "" {
		if alts, ok := exerciseAlternatives[models.NormalizeExerciseName(m.MatchedExercise)]; ok {
			return alternativesResult(m.MatchedExercise, alts)
		}
		norm = models.NormalizeExerciseName(m.MatchedExercise)
	}
	if alts, ok := exerciseAlternatives[norm]; ok {
		return alternativesResult(in.Exercise, alts)
	}

	bestKey, bestScore := "", 0.0
	for key := range exerciseAlternatives {
		if s := resolve.Similarity(norm, key); s > bestScore {
			bestKey, bestScore = key, s
		}
	}
	if bestScore >= 0.5 {
		return alternativesResult(bestKey, exerciseAlternatives[bestKey])
	}

	// Fall back to other exercises from history sharing the primary group.
	if group := primaryGroupOf(history, norm); group != "" {
		var alts []string
		for _, name := range resolve.DistinctExerciseNames(history) {
			if models.NormalizeExerciseName(name) == norm {
				continue
			}
			if primaryGroupOf(history, models.NormalizeExerciseName(name)) == group {
				alts = append(alts, name)
			}
		}
		if len(alts) > 0 {
			return alternativesResult(in.Exercise, alts)
		}
	}

	return Result{Text: fmt.Sprintf("I don't have alternatives for %q.", in.Exercise)}
}

func alternativesResult(name string, alts []string) Result {
	capped := alts[:min(4, len(alts))]
	return Result{Text: fmt.Sprintf("Instead of %s you could try: %s.", name, strings.Join(capped, ", "))}
}

func askProgressTrend(in Intent, history []models.WorkoutSession, now time.Time) Result {
	m, miss := resolveExercise(in.Exercise, history)
	if miss != nil {
		return *miss
	}
	norm := models.NormalizeExerciseName(m.MatchedExercise)

	from := ""
	switch in.Timeframe {
	case "week":
		from = now.AddDate(0, 0, -7).Format(models.TrainingDateLayout)
	case "month":
		from = now.AddDate(0, 0, -30).Format(models.TrainingDateLayout)
	}

	type record struct {
		date string
		e1rm float64
	}
	var records []record
	for _, s := range history {
		if s.DeletedAt != nil || s.PerformedOn < from {
			continue
		}
		for _, ex := range s.Exercises {
			if models.NormalizeExerciseName(ex.NameRaw) != norm || len(ex.Sets) == 0 {
				continue
			}
			top := bestSet(ex.Sets)
			records = append(records, record{
				date: s.PerformedOn,
				e1rm: stats.EstimateOneRepMax(models.ParseWeightText(top.WeightText), top.Reps),
			})
		}
	}
	if len(records) < 2 {
		return Result{Text: fmt.Sprintf("Not enough %s history in that timeframe to spot a trend.", m.MatchedExercise)}
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].date < records[j].date })
	oldest, newest := records[0], records[len(records)-1]
	delta := newest.e1rm - oldest.e1rm

	verdict := "stable"
	switch {
	case delta >= 0.01:
		verdict = "improving"
	case delta <= -0.01:
		verdict = "declining"
	}
	return Result{Text: fmt.Sprintf("%s looks %s: estimated 1RM went from %.1f (%s) to %.1f (%s).",
		m.MatchedExercise, verdict, oldest.e1rm, oldest.date, newest.e1rm, newest.date)}
}

// --- shared helpers ---

// latestSessionWith returns the most recent non-deleted session containing
// the exercise, with the matching exercise record.
func latestSessionWith(history []models.WorkoutSession, name string) (models.WorkoutSession, models.WorkoutExercise) {
	norm := models.NormalizeExerciseName(name)
	sorted := session.SortByDateDesc(history)
	for _, s := range sorted {
		if s.DeletedAt != nil {
			continue
		}
		for _, ex := range s.Exercises {
			if models.NormalizeExerciseName(ex.NameRaw) == norm {
				return s, ex
			}
		}
	}
	return models.WorkoutSession{}, models.WorkoutExercise{}
}

// bestSet picks the top set: highest parsed weight, ties broken by reps.
// Identical to the PR calculator's rule.
func bestSet(sets []models.WorkoutSet) models.WorkoutSet {
	best := sets[0]
	bestWeight := models.ParseWeightText(best.WeightText)
	for _, set := range sets[1:] {
		w := models.ParseWeightText(set.WeightText)
		if w > bestWeight || (w == bestWeight && set.Reps > best.Reps) {
			best, bestWeight = set, w
		}
	}
	return best
}

// bestBy scans every set of the named exercise and keeps the one
// maximizing score(weight, reps). Returns weight, reps, date.
func bestBy(history []models.WorkoutSession, name string, score func(float64, int) float64) (float64, int, string) {
	norm := models.NormalizeExerciseName(name)
	var bw float64
	var br int
	var bd string
	best := -1.0
	for _, s := range history {
		if s.DeletedAt != nil {
			continue
		}
		for _, ex := range s.Exercises {
			if models.NormalizeExerciseName(ex.NameRaw) != norm {
				continue
			}
			for _, set := range ex.Sets {
				w := models.ParseWeightText(set.WeightText)
				if sc := score(w, set.Reps); sc > best {
					best, bw, br, bd = sc, w, set.Reps, s.PerformedOn
				}
			}
		}
	}
	return bw, br, bd
}

// leastRecentlyTrainedGroup finds the muscle group with the oldest
// last-trained date across history.
func leastRecentlyTrainedGroup(history []models.WorkoutSession) string {
	lastTrained := map[string]string{}
	for _, s := range history {
		if s.DeletedAt != nil {
			continue
		}
		for _, ex := range s.Exercises {
			for _, group := range groupsOf(ex) {
				if s.PerformedOn > lastTrained[group] {
					lastTrained[group] = s.PerformedOn
				}
			}
		}
	}
	if len(lastTrained) == 0 {
		return ""
	}

	// A group never trained at all wins outright; otherwise the oldest
	// last-trained date does. groupOrder keeps the walk deterministic.
	best, bestDate := "", ""
	for _, group := range groupOrder {
		date, trained := lastTrained[group]
		if !trained {
			return group
		}
		if best == "" || date < bestDate {
			best, bestDate = group, date
		}
	}
	return best
}

// groupsOf lists the muscle groups an exercise touches, from its
// contributions or primary group.
func groupsOf(ex models.WorkoutExercise) []string {
	if len(ex.MuscleContributions) > 0 {
		out := make([]string, 0, len(ex.MuscleContributions))
		for _, c := range ex.MuscleContributions {
			out = append(out, c.MuscleGroup)
		}
		return out
	}
	if ex.PrimaryMuscleGroup != "" {
		return []string{ex.PrimaryMuscleGroup}
	}
	return nil
}

// primaryGroupOf finds the primary muscle group recorded in history for a
// normalized exercise name.
func primaryGroupOf(history []models.WorkoutSession, norm string) string {
	for _, s := range history {
		for _, ex := range s.Exercises {
			if models.NormalizeExerciseName(ex.NameRaw) != norm {
				continue
			}
			if ex.PrimaryMuscleGroup != "" {
				return ex.PrimaryMuscleGroup
			}
			for _, c := range ex.MuscleContributions {
				if c.IsDirect {
					return c.MuscleGroup
				}
			}
		}
	}
	return ""
}

// briefSessions summarizes the n most recent sessions for delegation
// payloads.
func briefSessions(history []models.WorkoutSession, n int) []SessionBrief {
	sorted := session.SortByDateDesc(history)
	var out []SessionBrief
	for _, s := range sorted {
		if s.DeletedAt != nil {
			continue
		}
		if len(out) == n {
			break
		}
		b := SessionBrief{PerformedOn: s.PerformedOn}
		for _, ex := range s.Exercises {
			b.Exercises = append(b.Exercises, ex.NameRaw)
			b.TotalSets += len(ex.Sets)
		}
		out = append(out, b)
	}
	return out
}

func displayWeight(w string) string {
	if strings.TrimSpace(w) == "" {
		return "0"
	}
	return w
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}


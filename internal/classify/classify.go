// Package classify turns a free-text question into a structured intent by
// asking the completion model to label it.
package classify

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/ingest/llmtext"
	"github.com/claude/liftlog/internal/intent"
	"github.com/claude/liftlog/internal/llm"
)

// classifyPrompt steers the model toward a single JSON intent object. The
// extractor downstream tolerates prose and code fences around the object, so
// the prompt asks for bare JSON but does not depend on getting it.
const classifyPrompt = `You classify questions about a user's weightlifting log.
Respond with a single JSON object and nothing else. Fields:
  type: one of last_exercise, exercise_sets, exercise_pr, volume_summary,
        last_session, recommendation, exercise_alternatives, progress_trend,
        general_chat, muscle_group_exercises, workout_plan
  exercise: the exercise name mentioned, if any
  metric: for exercise_pr, one of weight, e1rm, volume
  timeframe: week, month, or custom (with startDate and endDate as YYYY-MM-DD)
  muscleGroup: capitalized muscle group name, if any
  durationMinutes, goal, focus, includeTargets: for workout_plan
  message: the original question, for general_chat
If the question does not fit any other type, use general_chat.`

// Question asks the model to label a free-text question and returns the
// parsed intent.
func Question(ctx context.Context, c llm.Completer, question string) (*intent.Intent, error) {
	out, err := c.Complete(ctx, classifyPrompt, question)
	if err != nil {
		return nil, err
	}

	raw, err := llmtext.ExtractJSON(out)
	if err != nil {
		return nil, fmt.Errorf("no intent in model response: %w", err)
	}
	in, err := intent.Parse([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing intent: %w", err)
	}
	return in, nil
}

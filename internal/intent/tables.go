package intent

// Immutable configuration tables. These never change at runtime.

// groupOrder fixes the iteration order over muscle groups so ties resolve
// the same way every run.
var groupOrder = []string{"Chest", "Back", "Shoulders", "Legs", "Arms", "Glutes", "Core", "Calves"}

// muscleGroupExercises suggests canonical exercises per muscle group, used
// by recommendations and plan building.
var muscleGroupExercises = map[string][]string{
	"Chest":     {"Bench Press", "Incline Bench Press", "Dip", "Cable Fly"},
	"Back":      {"Deadlift", "Barbell Row", "Pull Up", "Lat Pulldown"},
	"Shoulders": {"Overhead Press", "Lateral Raise", "Face Pull"},
	"Legs":      {"Squat", "Romanian Deadlift", "Leg Press", "Lunge"},
	"Arms":      {"Bicep Curl", "Tricep Pushdown", "Hammer Curl"},
	"Glutes":    {"Hip Thrust", "Romanian Deadlift", "Lunge"},
	"Core":      {"Plank", "Hanging Leg Raise", "Cable Crunch"},
	"Calves":    {"Standing Calf Raise", "Seated Calf Raise"},
}

// exerciseAlternatives maps normalized canonical names to substitution
// options targeting the same movement pattern.
var exerciseAlternatives = map[string][]string{
	"bench press":       {"Dumbbell Bench Press", "Incline Bench Press", "Dip", "Machine Chest Press"},
	"squat":             {"Front Squat", "Leg Press", "Hack Squat", "Bulgarian Split Squat"},
	"deadlift":          {"Romanian Deadlift", "Trap Bar Deadlift", "Rack Pull"},
	"overhead press":    {"Dumbbell Shoulder Press", "Machine Shoulder Press", "Landmine Press"},
	"barbell row":       {"Dumbbell Row", "Cable Row", "Chest Supported Row"},
	"pull up":           {"Lat Pulldown", "Assisted Pull Up", "Inverted Row"},
	"lat pulldown":      {"Pull Up", "Cable Row", "Straight Arm Pulldown"},
	"romanian deadlift": {"Leg Curl", "Good Morning", "Back Extension"},
	"bicep curl":        {"Hammer Curl", "Preacher Curl", "Cable Curl"},
	"tricep pushdown":   {"Overhead Tricep Extension", "Close Grip Bench Press", "Dip"},
	"hip thrust":        {"Glute Bridge", "Romanian Deadlift", "Cable Kickback"},
	"leg press":         {"Squat", "Hack Squat", "Lunge"},
}

// goalTargetPercent is the target percentage of estimated 1RM per training
// goal, used for personalized weight targets.
var goalTargetPercent = map[string]float64{
	"strength":     0.85,
	"hypertrophy":  0.72,
	"conditioning": 0.55,
}

// goalSetsReps is the default set/rep prescription per goal.
var goalSetsReps = map[string]struct {
	Sets int
	Reps int
}{
	"strength":     {Sets: 5, Reps: 3},
	"hypertrophy":  {Sets: 4, Reps: 8},
	"conditioning": {Sets: 3, Reps: 15},
}

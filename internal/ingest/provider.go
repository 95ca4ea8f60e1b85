package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	ExercisesParsed  int      `json:"exercises_parsed"`
	SessionsCreated  int      `json:"sessions_created"`
	SessionsUpdated  int      `json:"sessions_updated"`
	Confidence       string   `json:"confidence"`
	Warnings         []string `json:"warnings,omitempty"`
	UsedDateFallback bool     `json:"used_date_fallback,omitempty"`

	// TouchedDates lists the performed-on dates that gained exercises, in
	// first-seen order.
	TouchedDates []string `json:"touched_dates,omitempty"`

	Message string `json:"message,omitempty"`
}

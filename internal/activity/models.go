package activity

// Source identifies where an activity's achievement signal comes from.
type Source string

const (
	// SourceGraded activities take their signal from the grading subsystem.
	SourceGraded Source = "graded"
	// SourceCompletion ("primitive") activities take their signal from the
	// completion tracker.
	SourceCompletion Source = "completion"
)

// Valid reports whether s is a known achievement source.
func (s Source) Valid() bool {
	return s == SourceGraded || s == SourceCompletion
}

// Activity is a single learning activity inside a course.
type Activity struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title,omitempty"`
	Source   Source `json:"source"`

	// ContextID is the externally visible context reference (the final path
	// segment of an xAPI object IRI) that maps back to this activity.
	ContextID string `json:"context_id"`
}

// ScoreItem is the per-activity scoring configuration. One per activity.
type ScoreItem struct {
	ActivityID string  `json:"activity_id"`
	Min        float64 `json:"score_min"`
	Max        float64 `json:"score_max"`
}

// Grade is one grading record for an (activity, user) pair. A nil Value means
// the user has not attempted the activity yet.
type Grade struct {
	ActivityID string   `json:"activity_id"`
	UserID     string   `json:"user_id"`
	Value      *float64 `json:"grade"`
	Min        float64  `json:"grade_min"`
	Max        float64  `json:"grade_max"`
}

// CompletionState is the completion tracker's view of an (activity, user) pair.
type CompletionState string

const (
	Complete   CompletionState = "complete"
	Incomplete CompletionState = "incomplete"
)

package messages

// TimeLayoutItem is one slot of the host's daily time layout.
type TimeLayoutItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	TimeType  int    `json:"time_type"`
}

// LessonSnapshot is a read-only view of the host schedule engine, returned
// verbatim as the data payload of the get_lesson command.
type LessonSnapshot struct {
	CurrentSubject     string           `json:"current_subject"`
	NextSubject        string           `json:"next_subject"`
	State              string           `json:"state"`
	TimeLayoutItems    []TimeLayoutItem `json:"time_layout_items"`
	OnClassLeftSeconds float64          `json:"on_class_left_seconds"`
	OnBreakLeftSeconds float64          `json:"on_break_left_seconds"`
	Enabled            bool             `json:"enabled"`
	LessonsLoaded      bool             `json:"lessons_loaded"`
	PlanConfirmed      bool             `json:"plan_confirmed"`
}

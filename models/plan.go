package models

// TimeSlot is the daily availability window, "HH:MM" strings as supplied.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// PlanRequest is the payload accepted by /generate-plan and /generate-plan-pdf.
type PlanRequest struct {
	Goal        string   `json:"goal"`
	HoursPerDay string   `json:"hoursPerDay"`
	TimeSlot    TimeSlot `json:"timeSlot"`
	Days        int      `json:"days,omitempty"` // zero means the configured default
}

// PlanEntry is one scheduled activity parsed from the model's answer.
type PlanEntry struct {
	Day         string `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
}

// TimeRange renders the entry's window as "HH:MM-HH:MM".
func (e PlanEntry) TimeRange() string {
	if e.Start == "" && e.End == "" {
		return ""
	}
	return e.Start + "-" + e.End
}

// StudyPlan is the structured plan returned to the caller. It only lives
// for the duration of a request.
type StudyPlan struct {
	Goal        string      `json:"goal"`
	HoursPerDay string      `json:"hoursPerDay"`
	TimeSlot    TimeSlot    `json:"timeSlot"`
	Days        int         `json:"days"`
	Entries     []PlanEntry `json:"entries"`
	Lines       []string    `json:"lines"` // non-empty lines of the raw model answer
}

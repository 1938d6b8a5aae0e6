package planner

import (
	"fmt"
	"strings"

	"studyplanner/config"
	"studyplanner/models"
	"studyplanner/utils"
)

// Validate checks that every required field is present and that the plan
// length is in range. Days must already be defaulted.
func Validate(req models.PlanRequest) error {
	var missing []string
	if strings.TrimSpace(req.Goal) == "" {
		missing = append(missing, "goal")
	}
	if strings.TrimSpace(req.HoursPerDay) == "" {
		missing = append(missing, "hoursPerDay")
	}
	if strings.TrimSpace(req.TimeSlot.Start) == "" {
		missing = append(missing, "timeSlot.start")
	}
	if strings.TrimSpace(req.TimeSlot.End) == "" {
		missing = append(missing, "timeSlot.end")
	}
	if len(missing) > 0 {
		return utils.NewValidationError("missing required fields", missing...)
	}
	if req.Days < 1 || req.Days > config.MaxPlanDays {
		return utils.NewValidationError(fmt.Sprintf("days must be between 1 and %d", config.MaxPlanDays), "days")
	}
	return nil
}

// BuildPrompt assembles the instruction sent to the model. The output is a
// pure function of the request.
func BuildPrompt(req models.PlanRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed %d-day study plan for the goal: %s. ", req.Days, req.Goal)
	fmt.Fprintf(&b, "The user is available %s hours per day between %s and %s. ",
		req.HoursPerDay, req.TimeSlot.Start, req.TimeSlot.End)
	b.WriteString("Write one line per study session and nothing else, using exactly this layout:\n")
	b.WriteString("Day <number> | <HH:MM>-<HH:MM> | <topics to study>\n")
	fmt.Fprintf(&b, "Use 24-hour times inside the window %s-%s, number the days from 1 to %d, ",
		req.TimeSlot.Start, req.TimeSlot.End, req.Days)
	b.WriteString("and do not add headings, commentary or markdown.")
	return b.String(), nil
}

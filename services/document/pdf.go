// Package document renders study plans into downloadable documents.
package document

import (
	"bytes"
	"fmt"
	"strings"

	"studyplanner/models"
	"studyplanner/utils"

	"github.com/go-pdf/fpdf"
)

const ContentType = "application/pdf"

// Renderer writes a StudyPlan as an A4 PDF: a title, the request
// metadata, then one section per entry headed "Session i: <day>".
type Renderer struct {
	compress bool
}

func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// Render validates every entry before producing any output, so a plan with
// a missing field fails with a RenderError instead of a partial document.
func (r *Renderer) Render(plan *models.StudyPlan) ([]byte, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Structured %d-Day Study Plan", planDays(plan))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetTitle(title, true)
	pdf.SetCreator("studyplanner", true)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 8, tr("Goal: "+plan.Goal), "", "L", false)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Daily Study Time: %s hrs", plan.HoursPerDay)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Time Slot: %s - %s", plan.TimeSlot.Start, plan.TimeSlot.End)), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	for i, entry := range plan.Entries {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Session %d: %s", i+1, entry.Day)), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 7, tr(entry.TimeRange()), "", 1, "L", false, 0, "")
		pdf.MultiCell(0, 7, tr(entry.Description), "", "L", false)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &utils.RenderError{Message: "failed to write PDF", Err: err}
	}
	return buf.Bytes(), nil
}

func validatePlan(plan *models.StudyPlan) error {
	if plan == nil || len(plan.Entries) == 0 {
		return &utils.RenderError{Message: "plan has no entries"}
	}
	for i, e := range plan.Entries {
		var missing []string
		if strings.TrimSpace(e.Day) == "" {
			missing = append(missing, "day")
		}
		if strings.TrimSpace(e.Start) == "" || strings.TrimSpace(e.End) == "" {
			missing = append(missing, "time range")
		}
		if strings.TrimSpace(e.Description) == "" {
			missing = append(missing, "description")
		}
		if len(missing) > 0 {
			return &utils.RenderError{Entry: i + 1, Message: "missing " + strings.Join(missing, ", ")}
		}
	}
	return nil
}

// planDays prefers the requested length and falls back to the number of
// distinct day labels.
func planDays(plan *models.StudyPlan) int {
	if plan.Days > 0 {
		return plan.Days
	}
	seen := make(map[string]struct{})
	for _, e := range plan.Entries {
		seen[e.Day] = struct{}{}
	}
	return len(seen)
}

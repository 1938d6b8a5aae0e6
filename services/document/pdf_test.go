package document

import (
	"bytes"
	"fmt"
	"testing"

	"studyplanner/models"
	"studyplanner/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan(n int) *models.StudyPlan {
	plan := &models.StudyPlan{
		Goal:        "Learn Python",
		HoursPerDay: "2",
		TimeSlot:    models.TimeSlot{Start: "09:00", End: "11:00"},
		Days:        n,
	}
	for i := 1; i <= n; i++ {
		plan.Entries = append(plan.Entries, models.PlanEntry{
			Day:         fmt.Sprintf("Day %d", i),
			Start:       "09:00",
			End:         "11:00",
			Description: fmt.Sprintf("Topic number %d", i),
		})
	}
	return plan
}

func TestRenderer_OneSectionPerEntry(t *testing.T) {
	for _, n := range []int{1, 5, 40} {
		t.Run(fmt.Sprintf("%d entries", n), func(t *testing.T) {
			r := &Renderer{compress: false}

			out, err := r.Render(samplePlan(n))
			require.NoError(t, err)

			assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
			assert.Equal(t, n, bytes.Count(out, []byte("(Session ")))
			assert.Contains(t, string(out), fmt.Sprintf("(Session %d: Day %d)", n, n))
		})
	}
}

func TestRenderer_Metadata(t *testing.T) {
	r := &Renderer{compress: false}

	out, err := r.Render(samplePlan(3))
	require.NoError(t, err)

	body := string(out)
	assert.Contains(t, body, "(Structured 3-Day Study Plan)")
	assert.Contains(t, body, "Goal: Learn Python")
	assert.Contains(t, body, "(Daily Study Time: 2 hrs)")
	assert.Contains(t, body, "(Time Slot: 09:00 - 11:00)")
}

func TestRenderer_CompressedOutput(t *testing.T) {
	out, err := NewRenderer().Render(samplePlan(2))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/FlateDecode")
}

func TestRenderer_RejectsIncompleteEntries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.PlanEntry)
		want   string
	}{
		{"no day", func(e *models.PlanEntry) { e.Day = "" }, "missing day"},
		{"no start", func(e *models.PlanEntry) { e.Start = "" }, "missing time range"},
		{"no description", func(e *models.PlanEntry) { e.Description = "  " }, "missing description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := samplePlan(3)
			tt.mutate(&plan.Entries[1])

			out, err := NewRenderer().Render(plan)
			assert.Nil(t, out)

			var renderErr *utils.RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, 2, renderErr.Entry)
			assert.Contains(t, renderErr.Message, tt.want)
		})
	}
}

func TestRenderer_EmptyPlan(t *testing.T) {
	_, err := NewRenderer().Render(&models.StudyPlan{})

	var renderErr *utils.RenderError
	require.ErrorAs(t, err, &renderErr)

	_, err = NewRenderer().Render(nil)
	require.ErrorAs(t, err, &renderErr)
}

func TestPlanDays_FallsBackToDistinctDays(t *testing.T) {
	plan := samplePlan(4)
	plan.Days = 0
	plan.Entries = append(plan.Entries, plan.Entries[0])
	assert.Equal(t, 4, planDays(plan))
}

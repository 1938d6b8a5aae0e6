package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studyplanner/models"
	"studyplanner/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPlanner struct {
	plan *models.StudyPlan
	doc  []byte
	err  error
	got  models.PlanRequest
}

func (s *stubPlanner) Generate(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, error) {
	s.got = req
	return s.plan, s.err
}

func (s *stubPlanner) GeneratePDF(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, []byte, error) {
	s.got = req
	return s.plan, s.doc, s.err
}

func samplePlan() *models.StudyPlan {
	return &models.StudyPlan{
		Goal:        "Learn Go",
		HoursPerDay: "1",
		TimeSlot:    models.TimeSlot{Start: "18:00", End: "19:00"},
		Days:        1,
		Entries: []models.PlanEntry{
			{Day: "Day 1", Start: "18:00", End: "19:00", Description: "Tour of Go"},
		},
	}
}

func serve(h gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/", h)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

const goRequest = `{"goal":"Learn Go","hoursPerDay":"1","timeSlot":{"start":"18:00","end":"19:00"},"days":1}`

func TestGeneratePlanHandler(t *testing.T) {
	planner := &stubPlanner{plan: samplePlan()}
	h := NewPlanHandler(planner)

	rec := serve(h.GeneratePlanHandler, goRequest)
	require.Equal(t, http.StatusOK, rec.Code)

	var plan models.StudyPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.Equal(t, *samplePlan(), plan)
	assert.Equal(t, "Learn Go", planner.got.Goal)
	assert.Equal(t, "19:00", planner.got.TimeSlot.End)
	assert.Equal(t, 1, planner.got.Days)
}

func TestGeneratePlanHandler_EmptyBody(t *testing.T) {
	h := NewPlanHandler(&stubPlanner{plan: samplePlan()})

	rec := serve(h.GeneratePlanHandler, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "request body is empty", body.Details)
}

func TestGeneratePlanHandler_MapsErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", utils.NewValidationError("missing fields", "goal"), http.StatusUnprocessableEntity},
		{"parsing", &utils.ParsingError{Lines: 3, Message: "no entries"}, http.StatusBadGateway},
		{"unavailable", utils.NewExternalServiceError("gemini", utils.ExternalUnavailable, errors.New("down")), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPlanHandler(&stubPlanner{err: tt.err})

			rec := serve(h.GeneratePlanHandler, goRequest)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGeneratePlanPDFHandler(t *testing.T) {
	doc := []byte("%PDF-1.3 test")
	h := NewPlanHandler(&stubPlanner{plan: samplePlan(), doc: doc})

	rec := serve(h.GeneratePlanPDFHandler, goRequest)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="study_plan.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, doc, rec.Body.Bytes())
}

func TestGeneratePlanPDFHandler_RenderFailure(t *testing.T) {
	h := NewPlanHandler(&stubPlanner{err: &utils.RenderError{Entry: 2, Message: "entry has no description"}})

	rec := serve(h.GeneratePlanPDFHandler, goRequest)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}

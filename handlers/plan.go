package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"studyplanner/models"
	"studyplanner/services/document"
	"studyplanner/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanGenerator is the pipeline behind the plan endpoints.
type PlanGenerator interface {
	Generate(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, error)
	GeneratePDF(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, []byte, error)
}

type PlanHandler struct {
	Planner PlanGenerator
}

func NewPlanHandler(planner PlanGenerator) *PlanHandler {
	return &PlanHandler{Planner: planner}
}

// GeneratePlanHandler handles POST /generate-plan.
func (h *PlanHandler) GeneratePlanHandler(c *gin.Context) {
	logger := getLogger(c)

	req, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}

	plan, err := h.Planner.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("plan generated",
		zap.String("userID", c.GetString("userID")),
		zap.Int("entries", len(plan.Entries)),
	)
	c.JSON(http.StatusOK, plan)
}

// GeneratePlanPDFHandler handles POST /generate-plan-pdf.
func (h *PlanHandler) GeneratePlanPDFHandler(c *gin.Context) {
	logger := getLogger(c)

	req, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}

	plan, doc, err := h.Planner.GeneratePDF(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	documentID := uuid.New().String()[:8]
	logger.Info("plan pdf generated",
		zap.String("userID", c.GetString("userID")),
		zap.String("documentID", documentID),
		zap.Int("entries", len(plan.Entries)),
		zap.Int("bytes", len(doc)),
	)
	c.Header("Content-Disposition", `attachment; filename="study_plan.pdf"`)
	c.Header("X-Document-ID", documentID)
	c.Data(http.StatusOK, document.ContentType, doc)
}

// bindPlanRequest decodes the JSON body. Shape errors are reported as 422
// like every other validation failure.
func bindPlanRequest(c *gin.Context, logger *zap.Logger) (models.PlanRequest, bool) {
	var req models.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := err.Error()
		if errors.Is(err, io.EOF) {
			details = "request body is empty"
		}
		utils.JSONError(c, logger, http.StatusUnprocessableEntity, "Invalid request", details)
		return req, false
	}
	return req, true
}

// respondError logs the cause and maps the error to its status with a
// generic public message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := utils.StatusFor(err)
	message, details := utils.PublicMessage(err)

	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn(message, zap.Int("status", status), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Message: message, Details: details})
}

package planner

import (
	"context"
	"fmt"

	"studyplanner/config"
	"studyplanner/metrics"
	"studyplanner/models"
	ai "studyplanner/services/intelligence"

	"go.uber.org/zap"
)

// PlanRenderer turns a plan into document bytes.
type PlanRenderer interface {
	Render(plan *models.StudyPlan) ([]byte, error)
}

// PlanService runs prompt → model → parser (→ renderer) for one request.
// It holds no per-request state and is safe for concurrent use.
type PlanService struct {
	AI          ai.AIClient
	Renderer    PlanRenderer
	DefaultDays int
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

func NewPlanService(client ai.AIClient, renderer PlanRenderer, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	days := cfg.PlanDefaultDays
	if days == 0 {
		days = 5
	}
	return &PlanService{
		AI:          client,
		Renderer:    renderer,
		DefaultDays: days,
		Logger:      logger,
		Metrics:     m,
	}
}

// Generate builds the prompt, asks the model and parses its answer.
func (s *PlanService) Generate(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, error) {
	if req.Days == 0 {
		req.Days = s.DefaultDays
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := s.AI.Send(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	result, err := ParsePlan(text)
	if err != nil {
		s.Logger.Warn("planner: model response unusable",
			zap.Int("lines", len(result.Lines)),
			zap.Int("skipped", result.Skipped),
		)
		return nil, err
	}
	if result.Skipped > 0 {
		s.Logger.Debug("planner: skipped unparsable lines",
			zap.Int("entries", len(result.Entries)),
			zap.Int("skipped", result.Skipped),
		)
	}
	s.Metrics.ObservePlan(len(result.Entries), result.Skipped)

	return &models.StudyPlan{
		Goal:        req.Goal,
		HoursPerDay: req.HoursPerDay,
		TimeSlot:    req.TimeSlot,
		Days:        req.Days,
		Entries:     result.Entries,
		Lines:       result.Lines,
	}, nil
}

// GeneratePDF generates a plan and renders it.
func (s *PlanService) GeneratePDF(ctx context.Context, req models.PlanRequest) (*models.StudyPlan, []byte, error) {
	plan, err := s.Generate(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.Renderer.Render(plan)
	if err != nil {
		return plan, nil, err
	}
	return plan, doc, nil
}

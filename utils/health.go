package utils

import (
	"time"
)

// HealthStatus is the liveness snapshot served by GET /health. It reports
// whether the upstream integrations are configured but never calls them.
type HealthStatus struct {
	Status         string    `json:"status"`
	Message        string    `json:"message"`
	AIConfigured   bool      `json:"aiConfigured"`
	AuthConfigured bool      `json:"authConfigured"`
	Uptime         string    `json:"uptime"`
	CheckedAt      time.Time `json:"checkedAt"`
}

// HealthReporter builds health snapshots relative to the process start time.
type HealthReporter struct {
	started        time.Time
	aiConfigured   bool
	authConfigured bool
}

// NewHealthReporter records which integrations were initialized at start.
func NewHealthReporter(aiConfigured, authConfigured bool, started time.Time) *HealthReporter {
	return &HealthReporter{
		started:        started,
		aiConfigured:   aiConfigured,
		authConfigured: authConfigured,
	}
}

// GetHealthStatus returns the current snapshot.
func (h *HealthReporter) GetHealthStatus() HealthStatus {
	now := time.Now()
	return HealthStatus{
		Status:         "ok",
		Message:        "Hi, I'm the study planner",
		AIConfigured:   h.aiConfigured,
		AuthConfigured: h.authConfigured,
		Uptime:         now.Sub(h.started).Round(time.Second).String(),
		CheckedAt:      now,
	}
}

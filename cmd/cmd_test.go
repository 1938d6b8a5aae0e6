package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studyplanner/config"
	"studyplanner/metrics"
	"studyplanner/models"
	"studyplanner/services/document"
	ai "studyplanner/services/intelligence"
	"studyplanner/services/planner"
	"studyplanner/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"serve", "generate"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestGenerateCmd_FlagsBuildRequest(t *testing.T) {
	cmd := newGenerateCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--goal", "Learn Python",
		"--hours", "2",
		"--start", "09:00",
		"--end", "11:00",
		"--days", "3",
		"--pdf",
		"-o", "plan.pdf",
	}))

	goal, _ := cmd.Flags().GetString("goal")
	hours, _ := cmd.Flags().GetString("hours")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	days, _ := cmd.Flags().GetInt("days")
	out, _ := cmd.Flags().GetString("output")
	pdf, _ := cmd.Flags().GetBool("pdf")

	opts := generateOptions{goal: goal, hours: hours, start: start, end: end, days: days, pdf: pdf, out: out}
	assert.Equal(t, models.PlanRequest{
		Goal:        "Learn Python",
		HoursPerDay: "2",
		TimeSlot:    models.TimeSlot{Start: "09:00", End: "11:00"},
		Days:        3,
	}, opts.request())
	assert.True(t, opts.pdf)
	assert.Equal(t, "plan.pdf", opts.out)
}

func testRuntime(cfg *config.Config) *runtime {
	m := metrics.New()
	return &runtime{
		cfg:     cfg,
		logger:  zap.NewNop(),
		metrics: m,
		planner: planner.NewPlanService(ai.UnconfiguredClient{}, document.NewRenderer(), cfg, zap.NewNop(), m),
	}
}

func TestRouter_ServesHealthWhenFirebaseInitFails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	broken := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(broken, []byte("not json"), 0o600))

	for name, credentials := range map[string]string{
		"missing file": filepath.Join(t.TempDir(), "nonexistent.json"),
		"broken file":  broken,
	} {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Config{
				AppPort:                 "8080",
				MaxRequestsPerMin:       100,
				CORSAllowOrigins:        "*",
				PlanDefaultDays:         5,
				FirebaseCredentialsFile: credentials,
			}
			router, err := testRuntime(cfg).router(context.Background(), time.Now())
			require.NoError(t, err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var status utils.HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			assert.False(t, status.AuthConfigured)

			req := httptest.NewRequest(http.MethodPost, "/generate-plan",
				strings.NewReader(`{"goal":"Learn Go","hoursPerDay":"1","timeSlot":{"start":"18:00","end":"19:00"}}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer some.id.token")
			rec = httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		})
	}
}

func TestRouter_FailsOnInvalidTrustedProxies(t *testing.T) {
	cfg := &config.Config{MaxRequestsPerMin: 100, CORSAllowOrigins: "*", PlanDefaultDays: 5, TrustedProxies: "not-an-ip"}

	_, err := testRuntime(cfg).router(context.Background(), time.Now())
	assert.Error(t, err)
}

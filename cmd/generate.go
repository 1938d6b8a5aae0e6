package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"studyplanner/models"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type generateOptions struct {
	goal  string
	hours string
	start string
	end   string
	days  int
	pdf   bool
	out   string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan locally and print it as JSON or write a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runGenerate(ctx, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.goal, "goal", "", "What the plan should help you learn")
	cmd.Flags().StringVar(&opts.hours, "hours", "", "Study hours per day")
	cmd.Flags().StringVar(&opts.start, "start", "", "Daily window start (HH:MM)")
	cmd.Flags().StringVar(&opts.end, "end", "", "Daily window end (HH:MM)")
	cmd.Flags().IntVar(&opts.days, "days", 0, "Plan length in days (defaults to PLAN_DEFAULT_DAYS)")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "Write a PDF instead of printing JSON")
	cmd.Flags().StringVarP(&opts.out, "output", "o", "", "PDF file name (defaults to study_plan_<id>.pdf)")
	return cmd
}

func (o generateOptions) request() models.PlanRequest {
	return models.PlanRequest{
		Goal:        o.goal,
		HoursPerDay: o.hours,
		TimeSlot:    models.TimeSlot{Start: o.start, End: o.end},
		Days:        o.days,
	}
}

func runGenerate(ctx context.Context, stdout io.Writer, opts generateOptions) error {
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !opts.pdf {
		plan, err := rt.planner.Generate(ctx, opts.request())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}

	plan, doc, err := rt.planner.GeneratePDF(ctx, opts.request())
	if err != nil {
		return err
	}
	name := opts.out
	if name == "" {
		name = fmt.Sprintf("study_plan_%s.pdf", uuid.New().String()[:8])
	}
	if err := os.WriteFile(name, doc, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	rt.logger.Info("plan pdf written", zap.String("file", name), zap.Int("entries", len(plan.Entries)))
	fmt.Fprintln(stdout, name)
	return nil
}

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <month>",
		Short: "Generate the schedule of a month (YYYY-MM)",
		Long: `Generate the schedule of a month from the stored staff roster.
Overtime assignments raise consent requests. With --dry-run nothing is saved and no requests are raised.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			out, _ := cmd.Flags().GetString("out")

			app.Logger.Debug("generateSchedule command", zap.String("month", month), zap.Bool("dry_run", dryRun))

			deps, err := app.GenerateDeps(month)
			if err != nil {
				return err
			}

			result, err := services.GenerateSchedule(app.Ctx, deps, app.Cfg, app.Logger, month, services.GenerateOptions{DryRun: dryRun})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(w, "\n✓ Schedule for %s generated (dry run, not saved)\n\n", result.Schedule.Month)
			} else {
				fmt.Fprintf(w, "\n✓ Schedule for %s generated and saved\n\n", result.Schedule.Month)
			}
			fmt.Fprintf(w, "Fingerprint: %s\n", result.Fingerprint)
			fmt.Fprintf(w, "Filled:      %d of %d slots\n", len(result.Schedule.Assignments()), result.Schedule.SlotCount())
			fmt.Fprintf(w, "Overtime:    %d approved, %d awaiting consent\n\n", len(result.Overtime.Approved), len(result.Overtime.Pending))

			printSummary(w, result.Schedule)
			fmt.Fprintln(w)
			printGaps(w, result.Schedule.Gaps)

			if len(result.Overtime.Errors) > 0 {
				fmt.Fprintf(w, "\n⚠️  %d consent gateway calls failed:\n", len(result.Overtime.Errors))
				for _, e := range result.Overtime.Errors {
					fmt.Fprintf(w, "  ✗ %s\n", e.Error())
				}
			}

			if out != "" {
				data, err := result.Schedule.Encode()
				if err != nil {
					return fmt.Errorf("failed to encode schedule: %w", err)
				}
				if err := os.WriteFile(out, data, 0644); err != nil {
					return fmt.Errorf("failed to write schedule: %w", err)
				}
				fmt.Fprintf(w, "\nSchedule written to %s\n", out)
			}
			fmt.Fprintln(w)

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Generate without saving or raising consent requests")
	cmd.Flags().String("out", "", "Write the canonical schedule JSON to this file")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
)

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewSchedule <month>",
		Short: "Show the stored schedule of a month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("viewSchedule command", zap.String("month", args[0]))

			stored, err := services.ViewSchedule(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			table, err := services.RenderSchedule(app.Ctx, app.Database, app.Cfg.Catalog(), stored.Schedule)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			state := "draft"
			if stored.Record.Finalized {
				state = "finalized"
			}
			fmt.Fprintf(w, "\n📅 %s (%s)\n", table.Title, state)
			fmt.Fprintf(w, "Generated:   %s\n", stored.Record.GeneratedAt.Format(model.DateLayout+" 15:04"))
			fmt.Fprintf(w, "Fingerprint: %s\n\n", stored.Record.Fingerprint)

			printTable(w, table)
			fmt.Fprintln(w)
			printSummary(w, stored.Schedule)
			fmt.Fprintln(w)
			printGaps(w, stored.Schedule.Gaps)
			fmt.Fprintln(w)

			return nil
		},
	}

	return cmd
}

// FinalizeScheduleCmd creates the finalizeSchedule command
func FinalizeScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalizeSchedule <month>",
		Short: "Lock the stored schedule of a month against regeneration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := args[0]
			app.Logger.Debug("finalizeSchedule command", zap.String("month", month))

			if err := services.FinalizeSchedule(app.Ctx, app.Database, app.AuditSink(month), app.Logger, month); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Schedule for %s finalized\n\n", month)
			return nil
		},
	}
}

// PublishScheduleCmd creates the publishSchedule command
func PublishScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <month>",
		Short: "Publish the stored schedule of a month to Google Sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("publishSchedule command", zap.String("month", args[0]))

			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishSchedule(app.Ctx, app.Database, sheets, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n✅ Schedule Published Successfully\n\n")
			fmt.Fprintf(w, "Tab:      %s\n", published.Title)
			fmt.Fprintf(w, "Sheet ID: %s\n\n", app.Cfg.ScheduleSheetID)
			printTable(w, published)
			fmt.Fprintln(w)

			return nil
		},
	}
}

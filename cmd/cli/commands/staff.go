package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/model"
	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
)

// ListStaffCmd creates the listStaff command
func ListStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List the stored staff roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := services.ListStaff(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nFound %d staff members:\n\n", len(staff))
			for _, s := range staff {
				weekends := ""
				if s.PrefersWeekends {
					weekends = " [prefers weekends]"
				}
				fmt.Fprintf(w, "- %s (%s) - %s - %.1fh/month%s\n", s.Name, s.ID, s.Role, s.MonthlyTargetHours, weekends)
			}
			fmt.Fprintln(w)

			return nil
		},
	}
}

// ImportStaffCmd creates the importStaff command
func ImportStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importStaff [file.yaml]",
		Short: "Import the staff roster from a YAML file or the staff sheet",
		Long: `Import the staff roster. Pass a YAML file with a top-level "staff" list,
or use --from-sheet to read the staff tab of the schedule spreadsheet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSheet, _ := cmd.Flags().GetBool("from-sheet")

			var staff []model.Staff
			switch {
			case fromSheet && len(args) > 0:
				return fmt.Errorf("pass either a file or --from-sheet, not both")
			case fromSheet:
				if app.Cfg.ScheduleSheetID == "" {
					return fmt.Errorf("scheduleSheetID is not configured")
				}
				sheets, err := app.SheetsClient()
				if err != nil {
					return err
				}
				app.Logger.Debug("Reading staff sheet", zap.String("tab", app.Cfg.StaffSheetTab))
				staff, err = sheets.ListStaff(app.Ctx, app.Cfg.ScheduleSheetID, app.Cfg.StaffSheetTab)
				if err != nil {
					return err
				}
			case len(args) == 1:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read staff file: %w", err)
				}
				staff, err = services.ParseStaffYAML(data)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("pass a staff file or --from-sheet")
			}

			if err := services.ImportStaff(app.Ctx, app.Database, app.Logger, staff); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Imported %d staff members\n\n", len(staff))
			return nil
		},
	}

	cmd.Flags().Bool("from-sheet", false, "Read staff from the staff tab of the schedule spreadsheet")

	return cmd
}

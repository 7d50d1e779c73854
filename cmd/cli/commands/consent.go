package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thinkfasteu/sfscheduler-sub002/pkg/core/services"
)

// ListConsentRequestsCmd creates the listConsentRequests command
func ListConsentRequestsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listConsentRequests [month]",
		Short: "List the current overtime consent requests, optionally for one month",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month := ""
			if len(args) > 0 {
				month = args[0]
			}

			requests, err := services.ListConsentRequests(app.Ctx, app.Database, app.Logger, month)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w)
			printConsentRequests(w, requests)
			fmt.Fprintln(w)
			return nil
		},
	}
}

// RecordConsentCmd creates the recordConsent command
func RecordConsentCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recordConsent <request_id> <consented|declined|completed>",
		Short: "Record a staff member's answer to an overtime consent request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("recordConsent command", zap.String("request_id", args[0]), zap.String("status", args[1]))

			// The request date decides the audit month, so look it up first
			requests, err := services.ListConsentRequests(app.Ctx, app.Database, app.Logger, "")
			if err != nil {
				return err
			}
			month := ""
			for _, r := range requests {
				if r.ID == args[0] && len(r.Date) >= 7 {
					month = r.Date[:7]
				}
			}

			req, err := services.RecordConsent(app.Ctx, app.Gateway(), app.AuditSink(month), app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Consent request %s for %s on %s is now %s\n\n", req.ID, req.StaffID, req.Date, req.Status)
			return nil
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"vertigo-backend/config"

	"github.com/spf13/cobra"
)

func recurringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurring",
		Short: "Recurring invoice maintenance",
	}
	cmd.AddCommand(recurringRunCmd())
	return cmd
}

func recurringRunCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate invoices for every due recurring template once",
		Long: `Generate invoices for every due recurring template once.

Meant for an external daily trigger. Only one run may be active at a time.

Examples:
  vertigo recurring run
  vertigo recurring run --date 2024-03-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := time.Now()
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				today = d
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			summary := a.recurring.ProcessDueTemplates(cmd.Context(), today)
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if len(summary.Errors) > 0 {
				return fmt.Errorf("%d recurring template(s) failed", len(summary.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "process as of this date (YYYY-MM-DD)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.log.Sync()

			if err := config.Migrate(a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.log.Info("migrations applied")
			return nil
		},
	}
}

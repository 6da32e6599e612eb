package cli

import (
	"github.com/spf13/cobra"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "dashboard",
		Short:         "Show aggregate statistics across all collections",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				ctx := cmd.Context()
				if err := app.Books.Load(ctx); err != nil {
					return WrapExitError(ExitFailure, "failed to load books", err)
				}
				if err := app.Members.Load(ctx); err != nil {
					return WrapExitError(ExitFailure, "failed to load members", err)
				}
				if err := app.Loans.Load(ctx); err != nil {
					return WrapExitError(ExitFailure, "failed to load loans", err)
				}

				stats := app.Views.Dashboard(
					app.Books.Items(), app.Members.Items(), app.Loans.Items(), app.Now())
				if out.JSON() {
					return out.Emit(stats)
				}
				out.Textf("books:           %d (%d available)", stats.TotalBooks, stats.AvailableBooks)
				out.Textf("members:         %d", stats.TotalMembers)
				out.Textf("active loans:    %d", stats.ActiveLoans)
				out.Textf("overdue loans:   %d", stats.OverdueLoans)
				return nil
			})
		},
	}
}

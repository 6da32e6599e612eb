package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tourabio/library-service/internal/domain"
)

// NewLoansCommand groups the loan subcommands.
func NewLoansCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Manage the loan collection",
	}
	cmd.AddCommand(newLoansListCommand(rootOpts, factory))
	cmd.AddCommand(newLoansCheckoutCommand(rootOpts, factory))
	cmd.AddCommand(newLoansReturnCommand(rootOpts, factory))
	cmd.AddCommand(newLoansOverdueCommand(rootOpts, factory))
	return cmd
}

func newLoansListCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var filters domain.LoanFilters
	var status, order string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List loans with due-date details",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				var err error
				filters.Status, err = parseStatus(status)
				if err != nil {
					return err
				}
				filters.SortOrder, err = parseOrder(order)
				if err != nil {
					return err
				}

				if err := app.Loans.Load(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "failed to load loans", err)
				}

				view := app.Views.Loans(app.Loans.Items(), filters, app.Now())
				if out.JSON() {
					return out.Emit(view)
				}
				printLoans(out, view)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&filters.MemberID, "member", 0, "narrow to one member's loans")
	cmd.Flags().Int64Var(&filters.BookID, "book", 0, "narrow to one book's loans")
	cmd.Flags().StringVar(&status, "status", "", "status filter (ACTIVE|RETURNED|OVERDUE)")
	cmd.Flags().BoolVar(&filters.OverdueOnly, "overdue-only", false, "keep only active loans past their due date")
	cmd.Flags().StringVar(&filters.SortBy, "sort-by", "", "sort key (loanDate|dueDate|status)")
	cmd.Flags().StringVar(&order, "order", "asc", "sort direction (asc|desc)")

	return cmd
}

func newLoansCheckoutCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var req domain.LoanRequest

	cmd := &cobra.Command{
		Use:           "checkout",
		Short:         "Check a book out to a member",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				if req.BookID <= 0 || req.MemberID <= 0 {
					return NewExitError(ExitCommandError, "--book and --member are required")
				}

				if err := app.Loans.Checkout(cmd.Context(), req); err != nil {
					return WrapExitError(ExitFailure, "checkout failed", err)
				}
				if out.JSON() {
					return out.Emit(app.Loans.Items())
				}
				out.Textf("checked out book #%d to member #%d", req.BookID, req.MemberID)
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&req.BookID, "book", 0, "book id to check out")
	cmd.Flags().Int64Var(&req.MemberID, "member", 0, "member id receiving the loan")

	return cmd
}

func newLoansReturnCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "return <loan-id>",
		Short:         "Return a loaned book",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				id, err := parseID(args[0], "loan id")
				if err != nil {
					return err
				}

				if err := app.Loans.Return(cmd.Context(), id); err != nil {
					return WrapExitError(ExitFailure, "return failed", err)
				}
				if out.JSON() {
					return out.Emit(app.Loans.Items())
				}
				out.Textf("returned loan #%d", id)
				return nil
			})
		},
	}
}

func newLoansOverdueCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "overdue",
		Short:         "List the backend's overdue loans",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				if err := app.Loans.LoadOverdue(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "failed to load overdue loans", err)
				}

				view := app.Views.Loans(app.Loans.Items(), domain.LoanFilters{}, app.Now())
				if out.JSON() {
					return out.Emit(view)
				}
				printLoans(out, view)
				return nil
			})
		},
	}
}

func printLoans(out *OutputFormatter, loans []domain.LoanWithDetails) {
	for _, l := range loans {
		marker := ""
		if l.IsOverdue {
			marker = " OVERDUE"
		}
		out.Textf("#%-4d %-35s -> %-25s due %s (%+d days) %s%s",
			l.ID, l.Book.Title, l.Member.Name, l.DueDate, l.DaysUntilDue, l.Status, marker)
	}
	out.Textf("%d loan(s)", len(loans))
}

func parseStatus(s string) (domain.LoanStatus, error) {
	if s == "" {
		return "", nil
	}
	switch status := domain.LoanStatus(strings.ToUpper(s)); status {
	case domain.LoanActive, domain.LoanReturned, domain.LoanOverdue:
		return status, nil
	default:
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("invalid status %q: must be ACTIVE, RETURNED or OVERDUE", s))
	}
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tourabio/library-service/internal/domain"
	"github.com/tourabio/library-service/internal/views"
)

// NewMembersCommand groups the member subcommands.
func NewMembersCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the member collection",
	}
	cmd.AddCommand(newMembersListCommand(rootOpts, factory))
	cmd.AddCommand(newMembersAddCommand(rootOpts, factory))
	cmd.AddCommand(newMembersUpdateCommand(rootOpts, factory))
	cmd.AddCommand(newMembersRemoveCommand(rootOpts, factory))
	return cmd
}

func newMembersListCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var filters domain.MemberFilters
	var order string
	var withLoans bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Long: `List members.

With --with-loans the loan collection is fetched too and each member is
annotated with active, overdue and total loan counts. Without it the counts
are absent, not zero.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				var err error
				filters.SortOrder, err = parseOrder(order)
				if err != nil {
					return err
				}

				if err := app.Members.Load(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "failed to load members", err)
				}
				if withLoans {
					if err := app.Loans.Load(cmd.Context()); err != nil {
						return WrapExitError(ExitFailure, "failed to load loans", err)
					}
				}

				source := views.LoanSource{Loans: app.Loans.Items(), Loaded: app.Loans.Loaded()}
				view := app.Views.Members(app.Members.Items(), filters, source, app.Now())
				if out.JSON() {
					return out.Emit(view)
				}
				for _, m := range view {
					if m.TotalLoans != nil {
						out.Textf("#%-4d %-25s %-30s active=%d overdue=%d total=%d",
							m.ID, m.Name, m.Email, *m.ActiveLoans, *m.OverdueLoans, *m.TotalLoans)
						continue
					}
					out.Textf("#%-4d %-25s %-30s", m.ID, m.Name, m.Email)
				}
				out.Textf("%d member(s)", len(view))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filters.Query, "query", "", "substring match against name and email")
	cmd.Flags().StringVar(&filters.Name, "name", "", "substring match against name")
	cmd.Flags().StringVar(&filters.Email, "email", "", "substring match against email")
	cmd.Flags().StringVar(&filters.SortBy, "sort-by", "", "sort key (name|email)")
	cmd.Flags().StringVar(&order, "order", "asc", "sort direction (asc|desc)")
	cmd.Flags().BoolVar(&withLoans, "with-loans", false, "annotate members with loan statistics")

	return cmd
}

func newMembersAddCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var member domain.Member

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Register a new member",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				if member.Name == "" || member.Email == "" {
					return NewExitError(ExitCommandError, "--name and --email are required")
				}

				if err := app.Members.Add(cmd.Context(), member); err != nil {
					return WrapExitError(ExitFailure, "failed to add member", err)
				}
				if out.JSON() {
					return out.Emit(app.Members.Items())
				}
				out.Textf("added %s <%s>", member.Name, member.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&member.Name, "name", "", "member name")
	cmd.Flags().StringVar(&member.Email, "email", "", "member email")

	return cmd
}

func newMembersUpdateCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var patch domain.Member

	cmd := &cobra.Command{
		Use:           "update <member-id>",
		Short:         "Update a member by id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				id, err := parseID(args[0], "member id")
				if err != nil {
					return err
				}

				member, found, err := memberByID(cmd, app, id)
				if err != nil {
					return err
				}
				if !found {
					return NewExitError(ExitFailure, fmt.Sprintf("no member with id %d", id))
				}

				if cmd.Flags().Changed("name") {
					member.Name = patch.Name
				}
				if cmd.Flags().Changed("email") {
					member.Email = patch.Email
				}

				if err := app.Members.Update(cmd.Context(), id, member); err != nil {
					return WrapExitError(ExitFailure, "failed to update member", err)
				}
				if out.JSON() {
					return out.Emit(app.Members.Items())
				}
				out.Textf("updated member #%d", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&patch.Name, "name", "", "member name")
	cmd.Flags().StringVar(&patch.Email, "email", "", "member email")

	return cmd
}

func newMembersRemoveCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <member-id>",
		Short:         "Remove a member by id",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				id, err := parseID(args[0], "member id")
				if err != nil {
					return err
				}

				if err := app.Members.Remove(cmd.Context(), id); err != nil {
					return WrapExitError(ExitFailure, "failed to remove member", err)
				}
				if out.JSON() {
					return out.Emit(app.Members.Items())
				}
				out.Textf("removed member #%d", id)
				return nil
			})
		},
	}
}

// memberByID loads the collection and looks a member up by backend id.
func memberByID(cmd *cobra.Command, app *App, id int64) (domain.Member, bool, error) {
	if err := app.Members.Load(cmd.Context()); err != nil {
		return domain.Member{}, false, WrapExitError(ExitFailure, "failed to load members", err)
	}
	for _, m := range app.Members.Items() {
		if m.ID == id {
			return m, true, nil
		}
	}
	return domain.Member{}, false, nil
}

// parseID parses a positive numeric command argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q", what, arg))
	}
	return id, nil
}

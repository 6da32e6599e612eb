package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tourabio/library-service/internal/session"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "login <name> <email>",
		Short: "Authenticate against the backend and persist the session",
		Long: `Authenticate against the backend and persist the session.

The session is written to the configured storage scope ("durable" survives
restarts, "session" does not) and stays valid until logout.

Example:
  libraryctl login "John Doe" john.doe@email.com`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				result, err := app.Session.Login(cmd.Context(), args[0], args[1])
				if err != nil {
					return WrapExitError(ExitFailure, "login failed", err)
				}
				if out.JSON() {
					return out.Emit(result)
				}
				out.Textf("logged in as %s <%s>", result.Member.Name, result.Member.Email)
				return nil
			})
		},
	}
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "End the session and clear persisted state",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				app.Session.Logout()
				if out.JSON() {
					return out.Emit(app.Session.AuthState())
				}
				out.Textf("logged out")
				return nil
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:           "whoami",
		Short:         "Show the current session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if verify {
					if _, err := app.Session.VerifyAuthentication(cmd.Context()); err != nil {
						if errors.Is(err, session.ErrNoAuthenticatedMember) {
							return NewExitError(ExitFailure, "not logged in")
						}
						return WrapExitError(ExitFailure, "session is no longer valid", err)
					}
				}

				state := app.Session.AuthState()
				if !state.IsAuthenticated {
					return NewExitError(ExitFailure, "not logged in")
				}
				if out.JSON() {
					return out.Emit(state)
				}
				out.Textf("%s <%s> (member #%d)", state.Member.Name, state.Member.Email, state.Member.ID)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "re-validate the session against the backend")

	return cmd
}

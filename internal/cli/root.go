// Package cli implements the libraryctl command tree.
//
// Commands are thin: they parse flags, build an App through the injected
// factory, call into the stores and the view engine, and render the result.
// All state logic lives in the session, collection and views packages.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the libraryctl CLI.
//
// The factory builds the App for each invocation; tests inject a factory
// wired to a fake backend and in-memory storage.
func NewRootCommand(factory AppFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "libraryctl",
		Short: "libraryctl - library administration client",
		Long:  "Command-line client for the library backend: session, books, members and loans.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to libraryctl.yaml")

	// Add subcommands
	cmd.AddCommand(NewLoginCommand(opts, factory))
	cmd.AddCommand(NewLogoutCommand(opts, factory))
	cmd.AddCommand(NewWhoamiCommand(opts, factory))
	cmd.AddCommand(NewBooksCommand(opts, factory))
	cmd.AddCommand(NewMembersCommand(opts, factory))
	cmd.AddCommand(NewLoansCommand(opts, factory))
	cmd.AddCommand(NewDashboardCommand(opts, factory))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// runWithApp builds the App, runs fn against it, and releases its resources.
func runWithApp(rootOpts *RootOptions, factory AppFactory, cmd *cobra.Command, fn func(app *App, out *OutputFormatter) error) error {
	app, cleanup, err := factory(rootOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	return fn(app, out)
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tourabio/library-service/internal/collection"
	"github.com/tourabio/library-service/internal/domain"
)

// NewBooksCommand groups the book subcommands.
func NewBooksCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage the book collection",
	}
	cmd.AddCommand(newBooksListCommand(rootOpts, factory))
	cmd.AddCommand(newBooksAddCommand(rootOpts, factory))
	cmd.AddCommand(newBooksUpdateCommand(rootOpts, factory))
	cmd.AddCommand(newBooksRemoveCommand(rootOpts, factory))
	return cmd
}

func newBooksListCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var filters domain.BookFilters
	var availability, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books with availability",
		Long: `List books with computed availability.

Positions printed by an unfiltered listing are the ones 'books update' and
'books remove' accept.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				var err error
				filters.Availability, err = parseAvailability(availability)
				if err != nil {
					return err
				}
				filters.SortOrder, err = parseOrder(order)
				if err != nil {
					return err
				}

				if err := app.Books.Load(cmd.Context()); err != nil {
					return WrapExitError(ExitFailure, "failed to load books", err)
				}

				view := app.Views.Books(app.Books.Items(), filters)
				if out.JSON() {
					return out.Emit(view)
				}
				for i, b := range view {
					out.Textf("%3d. %-35s %-25s %d/%d %s",
						i+1, b.Title, b.Author, b.AvailableCopies, b.TotalCopies, b.AvailabilityStatus)
				}
				out.Textf("%d book(s)", len(view))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filters.Query, "query", "", "substring match against title and author")
	cmd.Flags().StringVar(&filters.Author, "author", "", "substring match against author")
	cmd.Flags().StringVar(&availability, "availability", "all", "availability filter (all|available|unavailable)")
	cmd.Flags().StringVar(&filters.SortBy, "sort-by", "", "sort key (title|author|availability)")
	cmd.Flags().StringVar(&order, "order", "asc", "sort direction (asc|desc)")

	return cmd
}

func newBooksAddCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var book domain.Book

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Register a new book",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				if book.Title == "" || book.Author == "" {
					return NewExitError(ExitCommandError, "--title and --author are required")
				}
				if !cmd.Flags().Changed("available") {
					book.AvailableCopies = book.TotalCopies
				}

				if err := app.Books.Add(cmd.Context(), book); err != nil {
					return WrapExitError(ExitFailure, "failed to add book", err)
				}
				if out.JSON() {
					return out.Emit(app.Views.Books(app.Books.Items(), domain.BookFilters{}))
				}
				out.Textf("added %q by %s", book.Title, book.Author)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&book.Title, "title", "", "book title")
	cmd.Flags().StringVar(&book.Author, "author", "", "book author")
	cmd.Flags().IntVar(&book.TotalCopies, "copies", 1, "total number of copies")
	cmd.Flags().IntVar(&book.AvailableCopies, "available", 0, "available copies (defaults to --copies)")

	return cmd
}

func newBooksUpdateCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	var patch domain.Book

	cmd := &cobra.Command{
		Use:           "update <position>",
		Short:         "Update the book at a listing position",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				book, handle, err := bookAtPosition(cmd.Context(), app, args[0])
				if err != nil {
					return err
				}

				if cmd.Flags().Changed("title") {
					book.Title = patch.Title
				}
				if cmd.Flags().Changed("author") {
					book.Author = patch.Author
				}
				if cmd.Flags().Changed("copies") {
					book.TotalCopies = patch.TotalCopies
				}
				if cmd.Flags().Changed("available") {
					book.AvailableCopies = patch.AvailableCopies
				}

				if err := app.Books.Update(cmd.Context(), handle, book); err != nil {
					return WrapExitError(ExitFailure, "failed to update book", err)
				}
				if out.JSON() {
					return out.Emit(app.Views.Books(app.Books.Items(), domain.BookFilters{}))
				}
				out.Textf("updated %q", book.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&patch.Title, "title", "", "book title")
	cmd.Flags().StringVar(&patch.Author, "author", "", "book author")
	cmd.Flags().IntVar(&patch.TotalCopies, "copies", 0, "total number of copies")
	cmd.Flags().IntVar(&patch.AvailableCopies, "available", 0, "available copies")

	return cmd
}

func newBooksRemoveCommand(rootOpts *RootOptions, factory AppFactory) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <position>",
		Short:         "Remove the book at a listing position",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(rootOpts, factory, cmd, func(app *App, out *OutputFormatter) error {
				if err := requireAuth(app); err != nil {
					return err
				}
				book, handle, err := bookAtPosition(cmd.Context(), app, args[0])
				if err != nil {
					return err
				}

				if err := app.Books.Remove(cmd.Context(), handle); err != nil {
					return WrapExitError(ExitFailure, "failed to remove book", err)
				}
				if out.JSON() {
					return out.Emit(app.Views.Books(app.Books.Items(), domain.BookFilters{}))
				}
				out.Textf("removed %q", book.Title)
				return nil
			})
		},
	}
}

// bookAtPosition loads the collection and resolves a 1-based listing position
// to the book and the handle addressing it in the fresh snapshot.
func bookAtPosition(ctx context.Context, app *App, arg string) (domain.Book, collection.Handle, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		return domain.Book{}, 0, NewExitError(ExitCommandError, fmt.Sprintf("invalid position %q", arg))
	}
	if err := app.Books.Load(ctx); err != nil {
		return domain.Book{}, 0, WrapExitError(ExitFailure, "failed to load books", err)
	}

	handles := app.Books.Handles()
	if pos < 1 || pos > len(handles) {
		return domain.Book{}, 0, NewExitError(ExitFailure,
			fmt.Sprintf("no book at position %d (collection has %d)", pos, len(handles)))
	}
	handle := handles[pos-1]

	book, err := app.Books.Resolve(handle)
	if err != nil {
		return domain.Book{}, 0, WrapExitError(ExitFailure, "book selection is stale", err)
	}
	return book, handle, nil
}

func parseAvailability(s string) (domain.AvailabilityFilter, error) {
	switch domain.AvailabilityFilter(s) {
	case domain.FilterAll, domain.FilterAvailable, domain.FilterUnavailable:
		return domain.AvailabilityFilter(s), nil
	default:
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("invalid availability %q: must be all, available or unavailable", s))
	}
}

func parseOrder(s string) (domain.SortOrder, error) {
	switch domain.SortOrder(s) {
	case domain.SortAsc, domain.SortDesc:
		return domain.SortOrder(s), nil
	default:
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("invalid order %q: must be asc or desc", s))
	}
}

package cli

import (
	"log/slog"
	"os"
	"time"

	"github.com/tourabio/library-service/internal/api"
	"github.com/tourabio/library-service/internal/collection"
	"github.com/tourabio/library-service/internal/config"
	"github.com/tourabio/library-service/internal/domain"
	"github.com/tourabio/library-service/internal/session"
	"github.com/tourabio/library-service/internal/views"
)

// App bundles the stores constructed at startup.
//
// Everything is wired here, once, and passed explicitly to the commands -
// there is no global store registry.
type App struct {
	Config  config.Config
	Client  *api.Client
	Session *session.Store
	Books   *collection.Books
	Members *collection.Members
	Loans   *collection.Loans
	Views   *views.Engine

	// Now supplies the derivation instant; tests pin it.
	Now func() time.Time
}

// AppFactory builds the App for a command invocation. The returned cleanup
// func releases resources (the durable storage handle) and is always called.
type AppFactory func(opts *RootOptions) (*App, func(), error)

// DefaultFactory wires the production App from configuration.
func DefaultFactory(opts *RootOptions) (*App, func(), error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	logger := newLogger(opts.Verbose)

	clientOpts := []api.Option{api.WithLogger(logger)}
	if timeout, _ := cfg.Timeout(); timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(timeout))
	}
	client := api.New(cfg.APIURL, clientOpts...)

	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to resolve auth database path", err)
	}
	durable, err := session.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open auth database", err)
	}

	scope := session.ScopeDurable
	if cfg.StorageScope == "session" {
		scope = session.ScopeSession
	}

	app := &App{
		Config: cfg,
		Client: client,
		Session: session.NewStore(client,
			session.WithDurableStorage(durable),
			session.WithScope(scope),
			session.WithLogger(logger)),
		Books:   collection.NewBooks(client, collection.WithLogger[domain.Book](logger)),
		Members: collection.NewMembers(client, collection.WithLogger[domain.Member](logger)),
		Loans:   collection.NewLoans(client, collection.WithLogger[domain.Loan](logger)),
		Views:   views.NewEngine(views.WithLogger(logger)),
		Now:     time.Now,
	}
	cleanup := func() { durable.Close() }
	return app, cleanup, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// requireAuth gates data commands on an authenticated session.
func requireAuth(app *App) error {
	if !app.Session.IsAuthenticated() {
		return NewExitError(ExitFailure, "not logged in; run 'libraryctl login' first")
	}
	return nil
}

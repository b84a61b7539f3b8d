// Package app wires the eventctl command tree to the client-side catalog core.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"eventcatalog/config"
	"eventcatalog/internal/adapters/eventstore"
	"eventcatalog/internal/catalog"
	"eventcatalog/internal/services"
)

// App holds the per-invocation client core. It is built in setupCommand so that
// flags are parsed before the store URL is known.
type App struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// loadConfig is replaced in tests.
	loadConfig func() (*config.Config, error)

	storeURL string
	format   string

	cfg        *config.Config
	logger     *slog.Logger
	entities   *catalog.EntityStore
	notices    *services.Notices
	controller *services.EventLifecycleController
}

// New returns an App reading confirmations from in, printing results to out
// and logs to errOut.
func New(in io.Reader, out, errOut io.Writer) *App {
	return &App{
		in:         in,
		out:        out,
		errOut:     errOut,
		loadConfig: config.Load,
	}
}

// Execute runs the command tree with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eventctl",
		Short: "Browse and manage the event catalog",
		Long: `eventctl talks to the event catalog record store. It lists and searches
events, shows a single event with its categories and creator, and creates,
edits or deletes events under an optional author name.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.storeURL, "store", "", "record store base URL (default from EVENTS_STORE_URL)")
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "o", "table", "output format for list: table, json")

	rootCmd.AddCommand(
		a.newListCommand(),
		a.newShowCommand(),
		a.newAddCommand(),
		a.newEditCommand(),
		a.newDeleteCommand(),
	)
	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.storeURL != "" {
		cfg.EventsStoreURL = a.storeURL
	}
	if a.format != formatTable && a.format != formatJSON {
		return fmt.Errorf("unknown format %q", a.format)
	}
	a.cfg = cfg
	a.logger = config.NewLoggerTo(a.errOut, cfg)

	// A zero timeout leaves requests unbounded.
	client := &http.Client{Timeout: cfg.EventsStoreTimeout}
	remote := eventstore.NewHTTPStore(client, cfg.EventsStoreURL)

	a.entities = catalog.NewEntityStore(remote, a.logger)
	a.notices = services.NewNotices(cfg.NoticeTTL, nil)
	identity := services.NewIdentityResolver(remote, a.entities, a.logger)
	a.controller = services.NewEventLifecycleController(remote, a.entities, identity, a.notices, services.NewMutationGuard(), a.logger)
	return nil
}

// printNotice writes the current notice, if any.
func (a *App) printNotice() {
	if n, ok := a.notices.Current(); ok {
		fmt.Fprintf(a.out, "[%s] %s\n", n.Kind, n.Message)
	}
}

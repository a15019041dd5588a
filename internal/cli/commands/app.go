package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	appconfig "github.com/nutribattle/nutribattle/internal/config"
	"github.com/nutribattle/nutribattle/internal/cli/client"
	"github.com/nutribattle/nutribattle/internal/cli/config"
	"github.com/nutribattle/nutribattle/internal/cli/guard"
	"github.com/nutribattle/nutribattle/internal/cli/output"
	"github.com/nutribattle/nutribattle/internal/cli/serverselect"
	"github.com/nutribattle/nutribattle/internal/cli/session"
	"github.com/nutribattle/nutribattle/internal/cli/userconfig"
	"github.com/nutribattle/nutribattle/internal/logger"
)

// RouteAnnotation is the cobra annotation naming the route a command renders
const RouteAnnotation = "nutribattle/route"

// Options holds the global flags and lazily builds the App
type Options struct {
	ServerAlias string
	Output      string
	Verbose     bool
	Version     string

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Build creates the App; tests replace it
	Build func(*Options) (*App, error)

	app *App
}

// NewOptions returns options wired to the process's standard streams
func NewOptions(version string) *Options {
	return &Options{
		Version: version,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Build:   BuildApp,
	}
}

// App returns the App for this invocation, building it on first use
func (o *Options) App() (*App, error) {
	if o.app != nil {
		return o.app, nil
	}
	app, err := o.Build(o)
	if err != nil {
		return nil, err
	}
	o.app = app
	return app, nil
}

// Close releases the App's resources if it was built
func (o *Options) Close() error {
	if o.app == nil {
		return nil
	}
	return o.app.Close()
}

// App holds everything a command needs to talk to the backend
type App struct {
	Server   config.Server
	Project  *config.Config
	Store    *session.Store
	Client   *client.Client
	History  *guard.History
	Gate     *guard.Gate
	Printer  *output.Printer
	Logger   zerolog.Logger
	In       io.Reader
	Err      io.Writer
	Decision guard.Decision

	closers []func() error
}

// Close releases storage handles
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnClose registers a function to run when the App is closed
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// BuildApp wires the session store, HTTP client and gate from the
// environment, nutribattle.json and the user config
func BuildApp(opts *Options) (*App, error) {
	cfg, err := appconfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.InitWithWriter(cliLogLevel(cfg, opts.Verbose), cliLogFormat(cfg), opts.Err)

	format, err := output.ParseFormat(opts.Output)
	if err != nil {
		return nil, err
	}

	paths := userconfig.Paths{Home: cfg.Client.Home}
	server, project, err := resolveServer(cfg, opts.ServerAlias, paths)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("server", server.URL).Str("session_backend", cfg.Client.SessionBackend).Msg("Resolved backend")

	app := &App{}
	storage, err := openStorage(app, cfg.Client.SessionBackend, paths, server.Scope())
	if err != nil {
		return nil, err
	}

	app.Project = project
	app.assemble(opts, *server, storage, log,
		client.WithTimeout(cfg.Client.Timeout),
		client.WithLogger(log),
		client.WithUserAgent("nutribattle-cli/"+opts.Version),
	)
	app.Printer = output.New(opts.Out, format)
	return app, nil
}

// assemble wires the store, client, history and gate around storage
func (a *App) assemble(opts *Options, server config.Server, storage session.Storage, log zerolog.Logger, clientOpts ...client.Option) {
	a.Server = server
	a.Logger = log
	a.In = opts.In
	a.Err = opts.Err

	a.Store = session.Open(storage, session.WithLogger(log))
	a.History = guard.NewHistory(opts.Err)
	a.Client = client.New(server.URL, a.Store, a.History, clientOpts...)
	a.Store.Bind(a.Client)
	a.Gate = guard.NewGate(a.Store, a.History)
}

func cliLogLevel(cfg *appconfig.Config, verbose bool) string {
	if verbose {
		return "debug"
	}
	// Keep command output clean unless a level was asked for
	if os.Getenv("LOG_LEVEL") != "" {
		return cfg.Logging.Level
	}
	return "warn"
}

func cliLogFormat(cfg *appconfig.Config) string {
	if os.Getenv("LOG_FORMAT") != "" {
		return cfg.Logging.Format
	}
	return "console"
}

// resolveServer picks the backend: NUTRIBATTLE_API_URL, then
// nutribattle.json, then the local default
func resolveServer(cfg *appconfig.Config, alias string, paths userconfig.Paths) (*config.Server, *config.Config, error) {
	if cfg.Client.APIURL != "" && alias == "" {
		if err := config.ValidateServerURL(cfg.Client.APIURL); err != nil {
			return nil, nil, fmt.Errorf("NUTRIBATTLE_API_URL: %w", err)
		}
		return &config.Server{URL: cfg.Client.APIURL, Alias: "env"}, nil, nil
	}

	project, err := config.LoadFromCurrentDir()
	if err != nil {
		if alias != "" {
			return nil, nil, fmt.Errorf("failed to load config: %w\nRun 'nutribattle init' to create a configuration file", err)
		}
		if !errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil, err
		}
		return &config.Server{URL: appconfig.DefaultAPIURL, Alias: "default"}, nil, nil
	}

	server, err := serverselect.ResolveServer(project, alias, paths)
	if err != nil {
		return nil, nil, err
	}
	return server, project, nil
}

func openStorage(app *App, backend string, paths userconfig.Paths, scope string) (session.Storage, error) {
	switch backend {
	case appconfig.SessionBackendKeyring:
		return session.NewKeyringStorage(scope), nil
	case appconfig.SessionBackendSQLite:
		path, err := paths.StateDB()
		if err != nil {
			return nil, err
		}
		storage, err := session.OpenSQLiteStorage(path, scope)
		if err != nil {
			return nil, err
		}
		app.OnClose(storage.Close)
		return storage, nil
	default:
		path, err := paths.SessionFile(scope)
		if err != nil {
			return nil, err
		}
		return session.NewFileStorage(path), nil
	}
}

// routeOf returns the route of cmd or its nearest annotated parent
func routeOf(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if route, ok := c.Annotations[RouteAnnotation]; ok {
			return route, true
		}
	}
	return "", false
}

// withRoute annotates cmd with the route it renders
func withRoute(cmd *cobra.Command, route string) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[RouteAnnotation] = route
	return cmd
}

// CheckRoute runs the authorization gate for the command's route before it
// executes. Commands without a route skip the gate.
func CheckRoute(opts *Options, cmd *cobra.Command) error {
	route, ok := routeOf(cmd)
	if !ok {
		return nil
	}

	app, err := opts.App()
	if err != nil {
		return err
	}

	app.Decision = app.Gate.Enter(route)
	if app.Decision.Outcome == guard.RedirectLogin {
		return guard.ErrLoginRequired
	}
	return nil
}

// runner is the body of a gated command
type runner func(ctx context.Context, app *App, args []string) error

// run adapts a runner to cobra. When the gate redirected an admin route to
// the dashboard, the dashboard renders instead.
func run(opts *Options, fn runner) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := opts.App()
		if err != nil {
			return err
		}
		if app.Decision.Outcome == guard.RedirectDashboard {
			return runDashboardOverview(cmd.Context(), app, nil)
		}
		return fn(cmd.Context(), app, args)
	}
}

// Describe turns an error into the message shown to the user
func Describe(err error) string {
	switch client.KindOf(err) {
	case client.KindNetwork:
		var netErr *client.NetworkError
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Sprintf("%v\nThe backend took too long to answer. Please try again.", err)
		}
		return fmt.Sprintf("%v\nCheck that the backend is running and try again.", err)
	case client.KindUnauthorized:
		return "your session has expired. Please run 'nutribattle login' again"
	case client.KindSchema:
		return fmt.Sprintf("%v\nThe backend may be running an incompatible version.", err)
	default:
		return err.Error()
	}
}

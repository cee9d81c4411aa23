package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/paulmbaike/movie-database-app/cache"
	"github.com/paulmbaike/movie-database-app/config"
	"github.com/paulmbaike/movie-database-app/filter"
	"github.com/paulmbaike/movie-database-app/moviedb"
	"github.com/paulmbaike/movie-database-app/session"
	"github.com/paulmbaike/movie-database-app/store"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger

	client   *moviedb.Client
	creds    *store.Store
	data     *cache.Store
	sessions *session.Manager
	filters  *filter.Manager

	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata stamped in by the linker.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, t)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviedb",
	Short: "A command line client for the movie catalog service",
	Long: `moviedb browses and manages a movie catalog service from the command line:
movies, actors, directors, genres and people, with an offline-aware read
cache and a persistent login session.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: teardownApp,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Commands run under a signal-bounded context so an
// interrupt cancels in-flight requests and parked mutations.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp loads the configuration and wires the store, client, cache
// and session together
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Open the credential store
	storePath, err := store.DefaultPath()
	if err != nil {
		return fmt.Errorf("failed to resolve store path: %w", err)
	}
	creds, err = store.Open(storePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}

	// Create the catalog client
	client, err = moviedb.New(cfg.Server.URL,
		moviedb.WithTimeout(cfg.Server.Timeout),
		moviedb.WithPlatform(cfg.Server.Platform),
		moviedb.WithTokenStore(creds),
		moviedb.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	// Query cache in front of the client, watching the client's own
	// reachability probe so parked mutations resume on reconnect
	data = cache.New(
		cache.WithFreshWindow(cfg.Cache.FreshWindow),
		cache.WithEvictWindow(cfg.Cache.EvictWindow),
		cache.WithReadRetries(cfg.Cache.ReadRetries),
		cache.WithMutationRetries(cfg.Cache.MutationRetries),
		cache.WithConnectivity(client.Connectivity()),
		cache.WithLogger(logger),
	)

	// Restore the session and let the client report expiry
	sessions = session.NewManager(client.Auth(), creds, logger)
	client.OnUnauthorized(sessions.SessionExpired)
	sessions.Hydrate()

	// Filter presets from config
	filters = filter.NewManager()
	if err := filters.RegisterAll(cfg.Filters); err != nil {
		return fmt.Errorf("failed to load filter presets: %w", err)
	}

	return nil
}

// teardownApp closes the cache and the credential store
func teardownApp(cmd *cobra.Command, args []string) error {
	if data != nil {
		data.Close()
	}
	if creds != nil {
		return creds.Close()
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, plain when stderr is not a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// requireAuth rejects commands that need a signed-in session
func requireAuth() error {
	if !sessions.State().Authenticated {
		return fmt.Errorf("not signed in, run 'moviedb auth login' first")
	}
	return nil
}

// confirm asks a yes/no question on stdin
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	var response string
	fmt.Scanln(&response)
	return strings.ToLower(strings.TrimSpace(response)) == "y"
}

// pageKeyParams builds the canonical paging parameters used in cache keys.
// They mirror the query the client sends so a key identifies exactly one
// request shape.
func pageKeyParams(page, pageSize int) url.Values {
	params := url.Values{}
	params.Set("pageNumber", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	return params
}

// Typed wrappers around the cache's untyped Fetch.

func fetchMoviePage(ctx context.Context, key cache.Key, fn cache.FetchFunc) (*moviedb.MoviePage, error) {
	v, err := data.Fetch(ctx, key, fn)
	if err != nil {
		return nil, err
	}
	return v.(*moviedb.MoviePage), nil
}

func fetchPersonPage(ctx context.Context, key cache.Key, fn cache.FetchFunc) (*moviedb.PersonPage, error) {
	v, err := data.Fetch(ctx, key, fn)
	if err != nil {
		return nil, err
	}
	return v.(*moviedb.PersonPage), nil
}

func fetchGenrePage(ctx context.Context, key cache.Key, fn cache.FetchFunc) (*moviedb.GenrePage, error) {
	v, err := data.Fetch(ctx, key, fn)
	if err != nil {
		return nil, err
	}
	return v.(*moviedb.GenrePage), nil
}

func fetchMovie(ctx context.Context, id int) (*moviedb.Movie, error) {
	v, err := data.Fetch(ctx, cache.DetailKey("movies", id), func(ctx context.Context) (any, error) {
		return client.Movies().Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*moviedb.Movie), nil
}

func fetchGenre(ctx context.Context, id int) (*moviedb.Genre, error) {
	v, err := data.Fetch(ctx, cache.DetailKey("genres", id), func(ctx context.Context) (any, error) {
		return client.Genres().Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*moviedb.Genre), nil
}

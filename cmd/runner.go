package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/m3ux/internal/library"
	"github.com/desertthunder/m3ux/internal/repositories"
	"github.com/desertthunder/m3ux/internal/services"
	"github.com/desertthunder/m3ux/internal/shared"
	"github.com/desertthunder/m3ux/internal/tags"
	"github.com/desertthunder/m3ux/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	reader     library.TagReader
	httpClient *http.Client
	logger     *log.Logger
	input      *bufio.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog  // built from config credentials when nil
	Reader     library.TagReader // defaults to [tags.FileReader]
	HTTPClient *http.Client
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Reader == nil {
		opts.Reader = tags.NewFileReader()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		reader:     opts.Reader,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		input:      bufio.NewReader(opts.Input),
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		convertCommand, tuiCommand, indexCommand, spotifyCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config (or found on the lookup path),
// applies environment overrides and builds the catalog client when credentials are present.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	explicit := cmd.String("config")
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, explicit)
		}
	}

	if path := shared.FindConfig(explicit); path != "" {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config, r.configPath = config, path
		r.logger.Debug("loaded config", "path", path)
	}

	r.config.ApplyEnv()
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	if r.catalog == nil && r.config.HasSpotifyCredentials() {
		svc, err := r.newSpotifyService()
		if err != nil {
			return ctx, err
		}
		r.catalog = svc
	}
	return ctx, nil
}

func (r *Runner) newSpotifyService() (*services.SpotifyService, error) {
	c := r.config.Catalog
	return services.NewSpotifyService(services.SpotifyOpts{
		ClientID:     r.config.Credentials.Spotify.ClientID,
		ClientSecret: r.config.Credentials.Spotify.ClientSecret,
		BaseURL:      c.BaseURL,
		TokenURL:     c.TokenURL,
		PageSize:     c.PageSize,
		RateLimit:    c.RateLimit,
		HTTPClient:   r.httpClient,
		Logger:       r.logger,
	})
}

func (r *Runner) requireCatalog() (services.Catalog, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("%w: set credentials.spotify in %s or SPOTIPY_CLIENT_ID/SPOTIPY_CLIENT_SECRET",
			shared.ErrMissingCredentials, shared.ConfigFileName)
	}
	return r.catalog, nil
}

func (r *Runner) newMatcher() *library.Matcher {
	return library.NewMatcher(r.reader, r.logger, library.ThresholdsFromConfig(r.config.Library.Thresholds))
}

// openHistory opens the configured database with migrations applied.
func (r *Runner) openHistory() (*sql.DB, *repositories.ConversionRepository, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, err
	}
	return db, repositories.NewConversionRepository(db), nil
}

// newEngine builds the conversion engine. History is recorded unless disabled or the database cannot be opened.
func (r *Runner) newEngine(record bool) (*tasks.PlaylistEngine, func(), error) {
	catalog, err := r.requireCatalog()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var recorder tasks.RunRecorder
	if record {
		db, repo, err := r.openHistory()
		if err != nil {
			r.logger.Warn("conversion history disabled", "error", err)
		} else {
			recorder = repositories.NewRunRecorder(repo)
			cleanup = func() { db.Close() }
		}
	}

	return tasks.NewPlaylistEngine(catalog, r.newMatcher(), r.logger, recorder), cleanup, nil
}

// prompt writes label and returns the trimmed line read from the input.
func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: no input for %q", shared.ErrMissingArgument, strings.TrimSpace(label))
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/client"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/repositories"
	"github.com/desertthunder/ytblog/internal/services"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/desertthunder/ytblog/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	progress   io.Writer
	pipeline   product.Pipeline
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Progress   io.Writer        // progress bar destination, defaults to stderr
	Pipeline   product.Pipeline // overrides the engine built from config
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Progress == nil {
		opts.Progress = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		progress:   opts.Progress,
		pipeline:   opts.Pipeline,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, generateCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config, falling back to defaults when the file is missing.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		r.config.ApplyEnv(os.LookupEnv)
	}

	level := r.config.Log.ParsedLevel()
	if lvl := cmd.String("log-level"); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		level = parsed
	}
	shared.SetLogLevel(r.logger, level)

	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// engine returns the pipeline used for in-process generation.
func (r *Runner) engine() (product.Pipeline, error) {
	if r.pipeline != nil {
		return r.pipeline, nil
	}

	llm, err := services.NewOpenAICompleter(r.config.LLM, r.httpClient)
	if err != nil {
		return nil, err
	}

	transcripts := services.NewYouTubeTranscripts(services.YouTubeTranscriptsOpts{
		Languages:  r.config.YouTube.Languages,
		Cookies:    r.config.YouTube.Cookies,
		UserAgent:  r.config.YouTube.UserAgent,
		HTTPClient: r.httpClient,
	})

	search := services.NewDuckDuckGoSearcher(services.DuckDuckGoSearcherOpts{
		Endpoint:   r.config.Search.Endpoint,
		MaxResults: r.config.Search.MaxResults,
		RateLimit:  r.config.Search.RateLimit,
		UserAgent:  r.config.YouTube.UserAgent,
		HTTPClient: r.httpClient,
	})

	r.pipeline = tasks.NewEngine(tasks.EngineOpts{
		Transcripts:        transcripts,
		LLM:                llm,
		Search:             search,
		MaxTranscriptChars: r.config.YouTube.MaxTranscriptChars,
		Workers:            r.config.Search.Workers,
		Logger:             r.logger,
	})
	return r.pipeline, nil
}

// backend picks how a [product.Controller] reaches the pipeline from the --local, --stream and --server flags.
func (r *Runner) backend(ctx context.Context, cmd *cli.Command) (product.Backend, error) {
	if cmd.Bool("local") {
		pipeline, err := r.engine()
		if err != nil {
			return nil, err
		}
		posts, closeDB, err := r.openPosts()
		if err != nil {
			r.logger.Warn("posts will not be archived", "error", err)
			return product.LocalBackend{Pipeline: pipeline}, nil
		}
		return product.LocalBackend{Pipeline: &archivingPipeline{
			Pipeline: pipeline,
			archive:  repositories.NewPostArchive(posts),
			closer:   closeDB,
			logger:   r.logger,
		}}, nil
	}

	serverURL := cmd.String("server")
	if serverURL == "" {
		serverURL = r.config.Client.ServerURL
	}

	hc := *r.httpClient
	if t := r.config.Client.Timeout(); t > 0 {
		hc.Timeout = t
	}
	api := client.NewAnalyzeClient(serverURL, &hc).WithAuthToken(ctx, r.config.Client.AuthToken)

	if cmd.Bool("stream") || r.config.Client.Progress == shared.ProgressStream {
		return product.StreamBackend{Client: api}, nil
	}
	return product.HTTPBackend{Client: api}, nil
}

// openPosts opens the configured database, applies migrations, and returns the post repository.
func (r *Runner) openPosts() (*repositories.PostRepository, func() error, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return repositories.NewPostRepository(db), db.Close, nil
}

// archivingPipeline stores successful in-process runs.
type archivingPipeline struct {
	product.Pipeline
	archive *repositories.PostArchive
	closer  func() error
	logger  *log.Logger
}

func (p *archivingPipeline) Run(ctx context.Context, videoURL string, progress chan<- tasks.ProgressUpdate) (*tasks.Result, error) {
	res, err := p.Pipeline.Run(ctx, videoURL, progress)
	if err != nil {
		return nil, err
	}
	if id, err := p.archive.SavePost(res.VideoURL, res.BlogPost, res.Analysis, res.Research); err != nil {
		p.logger.Warn("failed to archive post", "error", err)
	} else {
		p.logger.Debug("post archived", "id", id)
	}
	return res, nil
}

func (p *archivingPipeline) Close() error {
	return p.closer()
}

// closeBackend releases resources held by a backend from [Runner.backend].
func closeBackend(b product.Backend) {
	if lb, ok := b.(product.LocalBackend); ok {
		if c, ok := lb.Pipeline.(io.Closer); ok {
			c.Close()
		}
	}
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
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

func requireArg(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return value, nil
}

// package tasks implements the video → analysis → research → blog post pipeline.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/services"
	"github.com/desertthunder/ytblog/internal/shared"
)

const (
	DefaultMaxTranscriptChars = 15000
	DefaultWorkers            = 3
	maxWorkers                = 10
)

// Stage names the pipeline stage a [PipelineError] came from.
type Stage string

const (
	StageAnalyzer   Stage = "Analyzer"
	StageResearcher Stage = "Researcher"
	StageBlogger    Stage = "Blogger"
)

// ErrNoAnalysis is reported when the analyzer finished without producing text. The message is user-facing.
var ErrNoAnalysis = errors.New("Failed to generate video analysis")

// PipelineError is a failed run. Its message is safe to return to clients.
type PipelineError struct {
	Stage Stage // empty for failures reported without a stage prefix
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s Error: %s", e.Stage, e.Err.Error())
}

func (e *PipelineError) Unwrap() []error {
	return []error{shared.ErrPipeline, e.Err}
}

func stageError(stage Stage, err error) error {
	return &PipelineError{Stage: stage, Err: err}
}

// Result contains everything a successful run produced.
type Result struct {
	VideoURL   string
	Transcript string
	Analysis   string
	Queries    []string
	Research   string
	BlogPost   string
}

// EngineOpts configures an [Engine].
type EngineOpts struct {
	Transcripts        services.TranscriptSource
	LLM                services.Completer
	Search             services.Searcher
	MaxTranscriptChars int // default: 15000
	Workers            int // concurrent searches (default: 3, max: 10)
	Logger             *log.Logger
}

// Engine orchestrates the three pipeline stages.
type Engine struct {
	transcripts services.TranscriptSource
	llm         services.Completer
	search      services.Searcher
	maxChars    int
	workers     int
	logger      *log.Logger
}

// NewEngine creates a new Engine.
func NewEngine(opts EngineOpts) *Engine {
	if opts.MaxTranscriptChars <= 0 {
		opts.MaxTranscriptChars = DefaultMaxTranscriptChars
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Workers > maxWorkers {
		opts.Workers = maxWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Engine{
		transcripts: opts.Transcripts,
		llm:         opts.LLM,
		search:      opts.Search,
		maxChars:    opts.MaxTranscriptChars,
		workers:     opts.Workers,
		logger:      opts.Logger,
	}
}

// Run executes the full pipeline for videoURL.
//
// Progress updates are sent without blocking; progress may be nil.
func (e *Engine) Run(ctx context.Context, videoURL string, progress chan<- ProgressUpdate) (*Result, error) {
	if e.transcripts == nil || e.llm == nil || e.search == nil {
		return nil, fmt.Errorf("%w: pipeline services not initialized", shared.ErrServiceUnavailable)
	}

	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, shared.ErrEmptyInput
	}

	result := &Result{VideoURL: videoURL}
	logger := e.logger.With("video_url", videoURL)

	e.sendProgress(progress, stageUpdate(AnalyzeVideo))
	if err := e.analyze(ctx, result, progress); err != nil {
		logger.Error("analyzer failed", "error", err)
		return nil, err
	}
	logger.Debug("analysis complete", "chars", len(result.Analysis))

	e.sendProgress(progress, stageUpdate(ResearchWeb))
	if err := e.research(ctx, result, progress); err != nil {
		logger.Error("researcher failed", "error", err)
		return nil, err
	}
	logger.Debug("research complete", "queries", len(result.Queries))

	e.sendProgress(progress, stageUpdate(DraftPost))
	if err := e.draft(ctx, result); err != nil {
		logger.Error("blogger failed", "error", err)
		return nil, err
	}

	logger.Info("pipeline finished", "chars", len(result.BlogPost))
	e.sendProgress(progress, doneUpdate(result))
	return result, nil
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

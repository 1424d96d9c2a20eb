package product

import (
	"context"
	"net/http"

	"github.com/desertthunder/ytblog/internal/client"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/tasks"
)

// Backend issues the single outbound request for a submission and returns the markdown post.
//
// onPhase may be called with status labels while the request is outstanding.
type Backend interface {
	Generate(ctx context.Context, videoURL string, onPhase func(label string)) (string, error)
}

// ProgressReporter is implemented by backends that emit real phase changes.
type ProgressReporter interface {
	ReportsProgress() bool
}

// BackendFunc adapts a plain function to [Backend].
type BackendFunc func(ctx context.Context, videoURL string, onPhase func(string)) (string, error)

func (f BackendFunc) Generate(ctx context.Context, videoURL string, onPhase func(string)) (string, error) {
	return f(ctx, videoURL, onPhase)
}

// HTTPBackend calls POST /analyze once and never reports progress.
type HTTPBackend struct {
	Client *client.AnalyzeClient
}

func (b HTTPBackend) Generate(ctx context.Context, videoURL string, _ func(string)) (string, error) {
	resp, err := b.Client.Analyze(ctx, videoURL)
	if err != nil {
		return "", err
	}
	return resp.BlogPost, nil
}

// StreamBackend runs the generation over /ws/analyze and forwards real phase labels.
type StreamBackend struct {
	Client *client.AnalyzeClient
}

func (b StreamBackend) Generate(ctx context.Context, videoURL string, onPhase func(string)) (string, error) {
	resp, err := b.Client.Stream(ctx, videoURL, func(e models.StreamEvent) {
		label := PhaseLabel(e.Step)
		if label == "" {
			label = e.Message
		}
		if onPhase != nil && label != "" {
			onPhase(label)
		}
	})
	if err != nil {
		return "", err
	}
	return resp.BlogPost, nil
}

func (StreamBackend) ReportsProgress() bool { return true }

// Pipeline is an in-process generation engine such as [tasks.Engine].
type Pipeline interface {
	Run(ctx context.Context, videoURL string, progress chan<- tasks.ProgressUpdate) (*tasks.Result, error)
}

// LocalBackend runs the pipeline in-process and forwards its stage labels.
//
// Pipeline failures are reported as [*client.APIError] so they display exactly like a server error.
type LocalBackend struct {
	Pipeline Pipeline
}

func (b LocalBackend) Generate(ctx context.Context, videoURL string, onPhase func(string)) (string, error) {
	progress := make(chan tasks.ProgressUpdate, 32)
	forwarded := make(chan struct{})

	go func() {
		defer close(forwarded)
		for u := range progress {
			if onPhase != nil && u.Phase != tasks.Done && u.Message == u.Phase.Label() {
				onPhase(u.Message)
			}
		}
	}()

	result, err := b.Pipeline.Run(ctx, videoURL, progress)
	close(progress)
	<-forwarded

	if err != nil {
		return "", &client.APIError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	return result.BlogPost, nil
}

func (LocalBackend) ReportsProgress() bool { return true }

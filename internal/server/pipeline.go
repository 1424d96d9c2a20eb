package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/tasks"
)

// Archive persists successful runs.
type Archive interface {
	SavePost(videoURL, blogPost, analysis, research string) (string, error)
}

// pipeline decorates the engine with caching, archiving and a run timeout.
type pipeline struct {
	engine  product.Pipeline
	cache   *ResultCache
	archive Archive
	timeout time.Duration
	logger  *log.Logger
}

func newPipeline(engine product.Pipeline, cache *ResultCache, archive Archive, timeout time.Duration, logger *log.Logger) *pipeline {
	return &pipeline{engine: engine, cache: cache, archive: archive, timeout: timeout, logger: logger}
}

// Run implements [product.Pipeline].
func (p *pipeline) Run(ctx context.Context, videoURL string, progress chan<- tasks.ProgressUpdate) (*tasks.Result, error) {
	if res, ok := p.cache.Get(videoURL); ok {
		p.logger.Debug("serving cached result", "video_url", videoURL)
		sendDone(progress, res)
		return res, nil
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	res, err := p.engine.Run(ctx, videoURL, progress)
	if err != nil {
		return nil, err
	}

	p.cache.Set(videoURL, res)

	if p.archive != nil {
		id, err := p.archive.SavePost(res.VideoURL, res.BlogPost, res.Analysis, res.Research)
		if err != nil {
			p.logger.Warn("failed to archive post", "video_url", videoURL, "error", err)
		} else {
			p.logger.Info("post archived", "id", id, "video_url", videoURL)
		}
	}

	return res, nil
}

func sendDone(progress chan<- tasks.ProgressUpdate, res *tasks.Result) {
	if progress == nil {
		return
	}
	select {
	case progress <- tasks.ProgressUpdate{Phase: tasks.Done, Step: 3, Total: 3, Message: tasks.Done.Label(), Data: res}:
	default:
	}
}

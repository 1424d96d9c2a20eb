package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/desertthunder/ytblog/internal/formatter"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// Generate runs one submission through a [product.Controller] and prints or saves the post.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	backend, err := r.backend(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeBackend(backend)

	ctrl := product.NewController(product.Options{Backend: backend, Logger: r.logger})

	var bar *phaseBar
	if !cmd.Bool("quiet") {
		bar = newPhaseBar(r.progress, len(product.DefaultSchedule))
	}

	views, unsubscribe := ctrl.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := range views {
			bar.Update(v)
		}
	}()

	view, err := ctrl.Submit(ctx, cmd.StringArg("url"))
	unsubscribe()
	wg.Wait()

	if errors.Is(err, shared.ErrEmptyInput) {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, product.EmptyInputNotice)
	}
	if err != nil {
		return err
	}

	if view.State == product.Error {
		bar.Fail()
		return fmt.Errorf("%s: %s", product.StatusFailed, view.Message)
	}
	bar.Finish()

	export := formatter.FromMarkdown(view.VideoURL, view.Markdown)
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(export, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("post saved", "path", written)
		return r.writePlain("✓ %s\n", written)
	}

	data, err := formatter.Render(export, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// phaseBar shows the controller's status line as a stepped progress bar.
//
// A nil *phaseBar is valid and draws nothing.
type phaseBar struct {
	bar *progressbar.ProgressBar
}

func newPhaseBar(w io.Writer, steps int) *phaseBar {
	return &phaseBar{bar: progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Starting..."),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)}
}

// Update moves the bar to the phase named by v's status line.
func (p *phaseBar) Update(v product.View) {
	if p == nil || v.State != product.Loading {
		return
	}
	p.bar.Describe(v.Status)
	for i, phase := range product.DefaultSchedule {
		if phase.Label == v.Status {
			_ = p.bar.Set(i)
			return
		}
	}
}

func (p *phaseBar) Finish() {
	if p == nil {
		return
	}
	p.bar.Describe(product.StatusFinished)
	_ = p.bar.Finish()
}

func (p *phaseBar) Fail() {
	if p == nil {
		return
	}
	p.bar.Describe(product.StatusFailed)
	_ = p.bar.Exit()
}

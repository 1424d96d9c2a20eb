package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/desertthunder/ytblog/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.ParsedLevel())
	r.SetLogger(fileLogger)

	backend, err := r.backend(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeBackend(backend)

	var history ui.HistorySource
	if posts, closeDB, err := r.openPosts(); err != nil {
		r.logger.Warn("history unavailable", "error", err)
	} else {
		defer closeDB()
		history = posts
	}

	ctrl := product.NewController(product.Options{Backend: backend, Logger: r.logger})
	model := ui.NewModel(ctx, ctrl, history)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

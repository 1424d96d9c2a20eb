package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/ytblog/internal/repositories"
	"github.com/desertthunder/ytblog/internal/server"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the web app and API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	pipeline, err := r.engine()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	opts := server.Options{
		Pipeline:        pipeline,
		AuthToken:       cfg.AuthToken,
		AllowedOrigins:  cfg.AllowedOrigins,
		CacheTTL:        cfg.CacheTTL(),
		PipelineTimeout: time.Duration(cfg.PipelineTimeout) * time.Second,
		Logger:          r.logger,
	}

	if !cmd.Bool("no-archive") {
		posts, closeDB, err := r.openPosts()
		if err != nil {
			r.logger.Warn("archive disabled", "error", err)
		} else {
			defer closeDB()
			opts.Archive = repositories.NewPostArchive(posts)
			r.logger.Info("archiving posts", "database", r.config.Database.Path)
		}
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Addr()
	if cmd.Bool("open") {
		go r.openWhenReady(ctx, addr)
	}

	return srv.ListenAndServe(ctx, addr)
}

// openWhenReady waits for the listener to accept connections and opens the landing page.
func (r *Runner) openWhenReady(ctx context.Context, addr string) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	target := net.JoinHostPort(host, port)

	for range 50 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
		conn, err := net.DialTimeout("tcp", target, 200*time.Millisecond)
		if err != nil {
			continue
		}
		conn.Close()

		url := "http://" + target + "/"
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
			r.writePlain("Open %s in your browser\n", url)
		}
		return
	}
	r.logger.Warn("server did not become ready, not opening browser", "addr", target)
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config := r.config.Database
	r.logger.Info("initializing database", "path", config.Path)

	db, err := shared.OpenDatabase(config)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back latest migration on %s\n", config.Path)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Path)
	return r.writePlain("✓ Database ready at %s\n", config.Path)
}

// SetupConfig writes the default configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if cmd.Bool("force") {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to replace config file: %w", err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	r.writePlain("✓ Configuration written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Export GROQ_API_KEY (or set llm.api_key)\n")
	r.writePlain("2. Run 'ytblog setup database'\n")
	r.writePlain("3. Run 'ytblog serve --open'\n")
	return nil
}

// SetupYouTube stores the cookie (and user agent) from a browser "Copy as cURL" command in the config file.
//
// Signed-in cookies let the caption fetch through when YouTube asks anonymous clients to confirm they are not a bot.
func (r *Runner) SetupYouTube(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for YouTube cookies")

	var curlHeaders *shared.CurlHeaders
	var err error

	if curlFile != "" {
		curlHeaders, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		curlHeaders, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	if curlHeaders.Cookie == "" {
		return fmt.Errorf("%w: no cookie found in cURL command", shared.ErrInvalidInput)
	}

	config := r.config
	if _, err := os.Stat(r.configPath); err == nil {
		if config, err = shared.LoadConfig(r.configPath); err != nil {
			return err
		}
	}

	config.YouTube.Cookies = curlHeaders.Cookie
	if ua := curlHeaders.Get("User-Agent"); ua != "" {
		config.YouTube.UserAgent = ua
	}

	if err := shared.WriteConfigFile(r.configPath, config); err != nil {
		return err
	}
	r.config = config

	r.logger.Debug("stored youtube cookie", "length", len(curlHeaders.Cookie))
	r.writePlain("✓ YouTube cookies saved to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("Run 'ytblog generate --local <url>' to test caption access\n")
	return nil
}

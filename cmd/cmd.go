// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand runs the HTTP backend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web app and the /analyze API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (default: server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the landing page in a browser once listening",
			},
			&cli.BoolFlag{
				Name:  "no-archive",
				Usage: "Do not store generated posts in the database",
			},
		},
		Action: r.Serve,
	}
}

// generateCommand drives one generation from the terminal
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Generate a blog post for a YouTube video",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "url",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "ytblog server base URL (default: client.server_url)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: md, html, txt or json",
				Value:   "md",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file or directory instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "Follow real pipeline progress over /ws/analyze",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Run the pipeline in-process instead of calling a server",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Hide the progress bar",
			},
		},
		Action: r.Generate,
	}
}

// historyCommand browses stored posts
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Browse previously generated posts",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored posts, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of posts to return",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Only posts for this video URL",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Print or export a stored post",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: md, html, txt or json",
						Value:   "md",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to this file or directory instead of stdout",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Remove a stored post",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}

// setupCommand handles setup operations for database, config and YouTube cookies.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Store YouTube cookies from a browser request so captions can be fetched",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SetupYouTube,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "ytblog server base URL (default: client.server_url)",
			},
			&cli.BoolFlag{
				Name:  "stream",
				Usage: "Follow real pipeline progress over /ws/analyze",
			},
			&cli.BoolFlag{
				Name:  "local",
				Usage: "Run the pipeline in-process instead of calling a server",
			},
		},
		Action: r.TUI,
	}
}

package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytblog/internal/formatter"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints stored posts, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	posts, closeDB, err := r.openPosts()
	if err != nil {
		return err
	}
	defer closeDB()

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if url := cmd.String("url"); url != "" {
		criteria["video_url"] = url
	}

	list, err := posts.List(criteria)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		exports := make([]formatter.Export, len(list))
		for i, p := range list {
			exports[i] = formatter.FromPost(p)
		}
		return r.writeJSON(exports, true)
	case cmd.Bool("csv"):
		data, err := formatter.ExportListToCSV(list)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	if len(list) == 0 {
		return r.writePlain("No posts yet. Run 'ytblog generate <url>' to create one.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Posts (%d)", len(list)))
	for _, p := range list {
		r.writePlain("%3d. %s\n", p.Sequence(), shared.Truncate(p.Title(), 70))
		r.writePlain("     %s • %s • %s\n", p.ID(), p.CreatedAt().Local().Format("2006-01-02 15:04"), p.VideoURL())
	}
	return nil
}

// HistoryShow prints or exports one stored post.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg("id", cmd.StringArg("id"))
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	posts, closeDB, err := r.openPosts()
	if err != nil {
		return err
	}
	defer closeDB()

	post, err := posts.Get(id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, id)
	}

	export := formatter.FromPost(post)
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(export, format, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ %s\n", written)
	}

	data, err := formatter.Render(export, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// HistoryDelete soft-deletes a stored post.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg("id", cmd.StringArg("id"))
	if err != nil {
		return err
	}

	posts, closeDB, err := r.openPosts()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := posts.Delete(id); err != nil {
		return err
	}
	r.logger.Info("post deleted", "id", id)
	return r.writePlain("✓ Deleted %s\n", id)
}

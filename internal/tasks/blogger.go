package tasks

import (
	"context"
	"errors"
	"strings"
)

// Blogger messages are shown to users verbatim, so they keep sentence form.
var (
	errMissingContext = errors.New("Missing video analysis or research findings.")
	errEmptyPost      = errors.New("Model returned an empty blog post.")
)

func (e *Engine) draft(ctx context.Context, result *Result) error {
	if strings.TrimSpace(result.Analysis) == "" || strings.TrimSpace(result.Research) == "" {
		return stageError(StageBlogger, errMissingContext)
	}

	post, err := e.llm.Complete(ctx, bloggerSystemPrompt, blogPrompt(result.Analysis, result.Research))
	if err != nil {
		return stageError(StageBlogger, err)
	}

	result.BlogPost = strings.TrimSpace(post)
	if result.BlogPost == "" {
		return stageError(StageBlogger, errEmptyPost)
	}
	return nil
}

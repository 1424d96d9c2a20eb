package tasks

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/ytblog/internal/shared"
)

// Shown to users verbatim.
var errNoTranscript = errors.New("No transcript available for analysis.")

func (e *Engine) analyze(ctx context.Context, result *Result, progress chan<- ProgressUpdate) error {
	transcript, err := e.transcripts.Transcript(ctx, result.VideoURL)
	if err != nil {
		return stageError(StageAnalyzer, err)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return stageError(StageAnalyzer, errNoTranscript)
	}

	chars := utf8.RuneCountInString(transcript)
	result.Transcript = shared.Truncate(transcript, e.maxChars)
	e.sendProgress(progress, transcriptUpdate(chars, chars > e.maxChars))

	analysis, err := e.llm.Complete(ctx, analystSystemPrompt, analysisPrompt(result.Transcript))
	if err != nil {
		return stageError(StageAnalyzer, err)
	}

	result.Analysis = strings.TrimSpace(analysis)
	if result.Analysis == "" {
		return &PipelineError{Err: ErrNoAnalysis}
	}
	return nil
}

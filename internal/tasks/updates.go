package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a generation run.
//
// Used to send real-time updates to the CLI, TUI or websocket layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline stage
	Step    int    // Stage number, 1-based
	Total   int    // Number of stages
	Message string // Human-readable message for display
	Data    any    // Optional stage-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	AnalyzeVideo Phase = iota
	ResearchWeb
	DraftPost
	Done
)

const totalStages = 3

func (p Phase) String() string {
	switch p {
	case AnalyzeVideo:
		return "analyze_video"
	case ResearchWeb:
		return "research_web"
	case DraftPost:
		return "draft_post"
	case Done:
		return "done"
	default:
		return ""
	}
}

// Label returns the status line text for the phase.
func (p Phase) Label() string {
	switch p {
	case AnalyzeVideo:
		return "Agent 1/3: Analyzing Video Transcript..."
	case ResearchWeb:
		return "Agent 2/3: Researching Web Context..."
	case DraftPost:
		return "Agent 3/3: Drafting Blog Post..."
	case Done:
		return "Agents Finished!"
	default:
		return ""
	}
}

func stageUpdate(p Phase) ProgressUpdate {
	step := int(p) + 1
	if p == Done {
		step = totalStages
	}
	return ProgressUpdate{
		Phase:   p,
		Step:    step,
		Total:   totalStages,
		Message: p.Label(),
	}
}

func transcriptUpdate(chars int, truncated bool) ProgressUpdate {
	msg := fmt.Sprintf("Transcript fetched (%d characters)", chars)
	if truncated {
		msg += ", truncated for analysis"
	}
	return ProgressUpdate{
		Phase:   AnalyzeVideo,
		Step:    1,
		Total:   totalStages,
		Message: msg,
	}
}

func queriesUpdate(queries []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResearchWeb,
		Step:    2,
		Total:   totalStages,
		Message: fmt.Sprintf("Generated %d search queries", len(queries)),
		Data:    queries,
	}
}

func searchUpdate(done, total int, query string, err error) ProgressUpdate {
	msg := fmt.Sprintf("[%d/%d] ✓ %s", done, total, query)
	if err != nil {
		msg = fmt.Sprintf("[%d/%d] ✗ %s: %v", done, total, query, err)
	}
	return ProgressUpdate{
		Phase:   ResearchWeb,
		Step:    2,
		Total:   totalStages,
		Message: msg,
	}
}

func doneUpdate(result *Result) ProgressUpdate {
	u := stageUpdate(Done)
	u.Data = result
	return u
}

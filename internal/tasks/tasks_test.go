package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/services"
	"github.com/desertthunder/ytblog/internal/shared"
	tu "github.com/desertthunder/ytblog/internal/testing"
)

func newTestEngine(transcripts *tu.MockTranscriptSource, llm *tu.MockCompleter, search *tu.MockSearcher) *Engine {
	return NewEngine(EngineOpts{Transcripts: transcripts, LLM: llm, Search: search})
}

func happyMocks() (*tu.MockTranscriptSource, *tu.MockCompleter, *tu.MockSearcher) {
	return &tu.MockTranscriptSource{Text: "so today we talk about go generics"},
		&tu.MockCompleter{Replies: []string{
			"Main Topic: Go generics",
			`["go generics 2025", "go 1.24 release", "ok"]`,
			"# Generics Are Here\n\nIntro.",
		}},
		&tu.MockSearcher{Results: map[string][]models.SearchResult{
			"go generics 2025": {{Title: "A", URL: "https://a.dev", Snippet: "Generics landed."}},
			"go 1.24 release":  {{Title: "B", URL: "https://b.dev", Snippet: "1.24 is out."}},
		}}
}

func drain(ch chan ProgressUpdate) []ProgressUpdate {
	close(ch)
	var updates []ProgressUpdate
	for u := range ch {
		updates = append(updates, u)
	}
	return updates
}

func TestEngineRun(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		transcripts, llm, search := happyMocks()
		engine := newTestEngine(transcripts, llm, search)
		progress := make(chan ProgressUpdate, 32)

		result, err := engine.Run(context.Background(), "  https://youtu.be/abc  ", progress)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}

		if result.BlogPost != "# Generics Are Here\n\nIntro." {
			t.Errorf("unexpected blog post %q", result.BlogPost)
		}
		if result.Analysis != "Main Topic: Go generics" {
			t.Errorf("unexpected analysis %q", result.Analysis)
		}
		if !strings.HasPrefix(result.Research, "External Research Findings:\n\n--- Results for: go generics 2025 ---\n") {
			t.Errorf("unexpected research summary %q", result.Research)
		}
		if strings.Contains(result.Research, "Results for: ok") {
			t.Error("queries of two characters or fewer should be skipped")
		}
		if got := transcripts.Calls(); len(got) != 1 || got[0] != "https://youtu.be/abc" {
			t.Errorf("expected trimmed URL to reach transcript source, got %v", got)
		}

		prompts := llm.Prompts()
		if len(prompts) != 3 {
			t.Fatalf("expected 3 LLM calls, got %d", len(prompts))
		}
		if !strings.Contains(prompts[0], "so today we talk about go generics") {
			t.Error("analysis prompt should include the transcript")
		}
		if !strings.Contains(prompts[2], "1.24 is out.") {
			t.Error("blog prompt should include research findings")
		}

		var phases []Phase
		for _, u := range drain(progress) {
			if len(phases) == 0 || phases[len(phases)-1] != u.Phase {
				phases = append(phases, u.Phase)
			}
		}
		want := []Phase{AnalyzeVideo, ResearchWeb, DraftPost, Done}
		if len(phases) != len(want) {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("phase %d: expected %s, got %s", i, want[i], phases[i])
			}
		}
	})

	t.Run("Truncates Transcript", func(t *testing.T) {
		transcripts, llm, search := happyMocks()
		transcripts.Text = strings.Repeat("a", 50)
		engine := NewEngine(EngineOpts{Transcripts: transcripts, LLM: llm, Search: search, MaxTranscriptChars: 10})

		result, err := engine.Run(context.Background(), "x", nil)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(result.Transcript) != 10 {
			t.Errorf("expected transcript truncated to 10 chars, got %d", len(result.Transcript))
		}
	})

	t.Run("Analyzer Error", func(t *testing.T) {
		_, llm, search := happyMocks()
		transcripts := &tu.MockTranscriptSource{
			Err: &services.TranscriptError{Kind: shared.ErrNoSubtitles, Reason: "No subtitles found in video metadata."},
		}

		_, err := newTestEngine(transcripts, llm, search).Run(context.Background(), "x", nil)
		if err == nil || err.Error() != "Analyzer Error: No subtitles found in video metadata." {
			t.Errorf("unexpected error %v", err)
		}
		if !errors.Is(err, shared.ErrPipeline) || !errors.Is(err, shared.ErrNoSubtitles) {
			t.Error("expected error to match ErrPipeline and ErrNoSubtitles")
		}
		if len(llm.Prompts()) != 0 {
			t.Error("LLM should not be called without a transcript")
		}
	})

	t.Run("Empty Transcript", func(t *testing.T) {
		_, llm, search := happyMocks()
		_, err := newTestEngine(&tu.MockTranscriptSource{Text: "  "}, llm, search).Run(context.Background(), "x", nil)
		if err == nil || err.Error() != "Analyzer Error: No transcript available for analysis." {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("Empty Analysis", func(t *testing.T) {
		transcripts, _, search := happyMocks()
		llm := &tu.MockCompleter{Replies: []string{"   "}}

		_, err := newTestEngine(transcripts, llm, search).Run(context.Background(), "x", nil)
		if err == nil || err.Error() != "Failed to generate video analysis" {
			t.Errorf("unexpected error %v", err)
		}
		if !errors.Is(err, ErrNoAnalysis) {
			t.Error("expected ErrNoAnalysis")
		}
	})

	t.Run("Unparseable Queries", func(t *testing.T) {
		transcripts, _, search := happyMocks()
		llm := &tu.MockCompleter{Replies: []string{"analysis", `{"queries": 3}`}}

		_, err := newTestEngine(transcripts, llm, search).Run(context.Background(), "x", nil)
		if err == nil || err.Error() != "Researcher Error: Could not parse valid search queries from LLM response." {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("All Searches Fail", func(t *testing.T) {
		transcripts, llm, _ := happyMocks()
		search := &tu.MockSearcher{Err: errors.New("blocked")}

		_, err := newTestEngine(transcripts, llm, search).Run(context.Background(), "x", nil)
		if err == nil || !strings.HasPrefix(err.Error(), "Researcher Error: ") {
			t.Errorf("expected researcher error, got %v", err)
		}
	})

	t.Run("Some Searches Fail", func(t *testing.T) {
		transcripts, llm, search := happyMocks()
		search.FailFor = map[string]error{"go generics 2025": errors.New("blocked")}

		result, err := newTestEngine(transcripts, llm, search).Run(context.Background(), "x", nil)
		if err != nil {
			t.Fatalf("expected run to survive one failed search, got %v", err)
		}
		if !strings.Contains(result.Research, "--- Results for: go generics 2025 ---\nNo good search result was found") {
			t.Errorf("expected empty group for failed query, got %q", result.Research)
		}
		if !strings.Contains(result.Research, "1.24 is out.") {
			t.Errorf("expected surviving results, got %q", result.Research)
		}
	})

	t.Run("LLM Error In Blogger", func(t *testing.T) {
		transcripts, _, search := happyMocks()
		llm := &failingOnCall{fail: 3, replies: []string{"analysis", `["go generics 2025"]`}}

		_, err := NewEngine(EngineOpts{Transcripts: transcripts, LLM: llm, Search: search}).Run(context.Background(), "x", nil)
		if err == nil || !strings.HasPrefix(err.Error(), "Blogger Error: ") {
			t.Errorf("expected blogger error, got %v", err)
		}
	})

	t.Run("Missing Services", func(t *testing.T) {
		if _, err := NewEngine(EngineOpts{}).Run(context.Background(), "x", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		transcripts, llm, search := happyMocks()
		if _, err := newTestEngine(transcripts, llm, search).Run(context.Background(), " ", nil); !errors.Is(err, shared.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})
}

// failingOnCall returns replies in order and fails on the given 1-based call.
type failingOnCall struct {
	fail    int
	calls   int
	replies []string
}

func (f *failingOnCall) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	if f.calls == f.fail {
		return "", errors.New("rate limited")
	}
	return f.replies[f.calls-1], nil
}

func TestParseQueries(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"raw json", `["a b c", "d e f"]`, []string{"a b c", "d e f"}},
		{"fenced json", "```json\n[\"golang news\"]\n```", []string{"golang news"}},
		{"non string items dropped", `["ok query", 3, null]`, []string{"ok query"}},
		{"json object", `{"q": "x"}`, nil},
		{"numbered lines", "Here you go:\n1. \"first query here\"\n2. second query here\nok", []string{"Here you go:", "first query here", "second query here"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseQueries(tt.reply)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("ParseQueries() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummarizeResearch(t *testing.T) {
	got := SummarizeResearch([]models.SearchResults{
		{Query: "q1", Results: []models.SearchResult{{Snippet: "one", URL: "https://1"}, {Snippet: "two"}}},
		{Query: "q2"},
	})

	want := "External Research Findings:\n\n" +
		"--- Results for: q1 ---\none (https://1) two\n\n" +
		"--- Results for: q2 ---\nNo good search result was found\n\n"
	if got != want {
		t.Errorf("SummarizeResearch() =\n%q\nwant\n%q", got, want)
	}
}

func TestPhase(t *testing.T) {
	if AnalyzeVideo.String() != "analyze_video" || Done.String() != "done" {
		t.Error("unexpected phase names")
	}
	if ResearchWeb.Label() != "Agent 2/3: Researching Web Context..." {
		t.Errorf("unexpected label %q", ResearchWeb.Label())
	}

	u := stageUpdate(DraftPost)
	if u.Step != 3 || u.Total != 3 {
		t.Errorf("expected step 3/3, got %d/%d", u.Step, u.Total)
	}
	if stageUpdate(Done).Step != 3 {
		t.Error("done update should not exceed total")
	}
}

func TestSendProgressNeverBlocks(t *testing.T) {
	e := NewEngine(EngineOpts{})
	full := make(chan ProgressUpdate)

	done := make(chan struct{})
	go func() {
		e.sendProgress(full, stageUpdate(AnalyzeVideo))
		e.sendProgress(nil, stageUpdate(AnalyzeVideo))
		close(done)
	}()
	<-done
}

package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/desertthunder/ytblog/internal/models"
)

const researchHeader = "External Research Findings:\n\n"

// Researcher messages are shown to users verbatim, so they keep sentence form.
var (
	errNoQueries = errors.New("Could not parse valid search queries from LLM response.")
	errNoSearch  = errors.New("No queries to search.")
)

// searchJob is one query handed to a research worker.
type searchJob struct {
	index int
	query string
}

// searchResult is the outcome of one searchJob.
type searchResult struct {
	index   int
	query   string
	results []models.SearchResult
	err     error
}

func (e *Engine) research(ctx context.Context, result *Result, progress chan<- ProgressUpdate) error {
	reply, err := e.llm.Complete(ctx, researcherSystemPrompt, queryPrompt(result.Analysis))
	if err != nil {
		return stageError(StageResearcher, err)
	}

	queries := ParseQueries(reply)
	if len(queries) == 0 {
		return stageError(StageResearcher, errNoQueries)
	}
	result.Queries = queries
	e.sendProgress(progress, queriesUpdate(queries))

	var searchable []string
	for _, q := range queries {
		if utf8.RuneCountInString(q) > 2 {
			searchable = append(searchable, q)
		}
	}
	if len(searchable) == 0 {
		return stageError(StageResearcher, errNoSearch)
	}

	found, err := e.searchAll(ctx, searchable, progress)
	if err != nil {
		return stageError(StageResearcher, err)
	}

	result.Research = SummarizeResearch(found)
	return nil
}

// searchAll runs queries on a worker pool and returns results in query order.
//
// Individual search failures are tolerated; the run fails only when every search failed.
func (e *Engine) searchAll(ctx context.Context, queries []string, progress chan<- ProgressUpdate) ([]models.SearchResults, error) {
	workers := min(e.workers, len(queries))

	jobs := make(chan searchJob, len(queries))
	results := make(chan searchResult, len(queries))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go e.searchWorker(ctx, &wg, jobs, results)
	}

	for i, q := range queries {
		jobs <- searchJob{index: i, query: q}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]models.SearchResults, len(queries))
	var (
		firstErr  error
		failures  int
		completed int
	)
	for res := range results {
		completed++
		ordered[res.index] = models.SearchResults{Query: res.query, Results: res.results}
		if res.err != nil {
			failures++
			if firstErr == nil {
				firstErr = res.err
			}
			e.logger.Warn("search failed", "query", res.query, "error", res.err)
		}
		e.sendProgress(progress, searchUpdate(completed, len(queries), res.query, res.err))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failures == len(queries) {
		return nil, fmt.Errorf("all searches failed: %w", firstErr)
	}
	return ordered, nil
}

// searchWorker is a worker goroutine that runs queries from the jobs channel.
func (e *Engine) searchWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan searchJob, results chan<- searchResult) {
	defer wg.Done()

	for job := range jobs {
		res := searchResult{index: job.index, query: job.query}

		select {
		case <-ctx.Done():
			res.err = ctx.Err()
		default:
			res.results, res.err = e.search.Search(ctx, job.query)
		}

		results <- res
	}
}

// ParseQueries extracts search queries from an LLM reply.
//
// The reply should be a JSON list of strings, possibly wrapped in a fenced block. Replies that are
// not JSON fall back to one query per line with list numbering and quotes stripped.
func ParseQueries(reply string) []string {
	clean := strings.ReplaceAll(reply, "```json", "")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, "```", ""))

	var decoded any
	if err := json.Unmarshal([]byte(clean), &decoded); err == nil {
		list, ok := decoded.([]any)
		if !ok {
			return nil
		}
		var queries []string
		for _, item := range list {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				queries = append(queries, strings.TrimSpace(s))
			}
		}
		return queries
	}

	var queries []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.TrimSpace(line) == "" || len(line) <= 5 {
			continue
		}
		q := strings.TrimLeft(strings.TrimSpace(line), `1234567890. -"`)
		q = strings.TrimRight(q, `",`)
		if q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// SummarizeResearch formats search results as the findings block given to the blogger.
func SummarizeResearch(found []models.SearchResults) string {
	var b strings.Builder
	b.WriteString(researchHeader)

	for _, group := range found {
		fmt.Fprintf(&b, "--- Results for: %s ---\n", group.Query)
		if len(group.Results) == 0 {
			b.WriteString("No good search result was found")
		}
		for i, r := range group.Results {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(r.Snippet)
			if r.URL != "" {
				fmt.Fprintf(&b, " (%s)", r.URL)
			}
		}
		b.WriteString("\n\n")
	}

	return b.String()
}

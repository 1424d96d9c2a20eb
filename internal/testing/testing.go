// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/ytblog/internal/models"
)

// MockTranscriptSource is a test double for [services.TranscriptSource]
type MockTranscriptSource struct {
	Text string
	Err  error

	mu    sync.Mutex
	calls []string
}

func (m *MockTranscriptSource) Transcript(ctx context.Context, videoURL string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, videoURL)
	m.mu.Unlock()
	return m.Text, m.Err
}

// Calls returns the video URLs requested so far
func (m *MockTranscriptSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockCompleter is a test double for [services.Completer].
//
// Replies are returned in order; the last reply repeats once the list is exhausted.
type MockCompleter struct {
	Replies []string
	Err     error

	mu      sync.Mutex
	prompts []string
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}

	idx := min(len(m.prompts)-1, len(m.Replies)-1)
	return m.Replies[idx], nil
}

// Prompts returns the user prompts received so far
func (m *MockCompleter) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// MockSearcher is a test double for [services.Searcher]
type MockSearcher struct {
	Results map[string][]models.SearchResult
	Err     error
	FailFor map[string]error // per-query failures, checked after Err

	mu      sync.Mutex
	queries []string
}

func (m *MockSearcher) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.FailFor[query]; ok {
		return nil, err
	}
	return m.Results[query], nil
}

// Queries returns the search queries received so far, in arrival order
func (m *MockSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// NewJSONResponse builds an [http.Response] with a JSON body for use with [MockRoundTripper]
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

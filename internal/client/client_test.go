package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/shared"
	tu "github.com/desertthunder/ytblog/internal/testing"
	"github.com/gorilla/websocket"
)

func TestAnalyzeClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("Defaults", func(t *testing.T) {
			c := NewAnalyzeClient("", nil)
			if c.BaseURL() != DefaultBaseURL {
				t.Errorf("expected default base URL %s, got %s", DefaultBaseURL, c.BaseURL())
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			c := NewAnalyzeClient("http://example.com/", nil)
			if c.BaseURL() != "http://example.com" {
				t.Errorf("expected trimmed base URL, got %s", c.BaseURL())
			}
		})
	})

	t.Run("Analyze", func(t *testing.T) {
		t.Run("Sends Contract Body", func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.URL.Path != "/analyze" {
					t.Errorf("expected path /analyze, got %s", r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("expected JSON content type, got %s", ct)
				}

				var body models.AnalyzeRequest
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if body.VideoURL != "https://youtu.be/abc" {
					t.Errorf("expected video_url to be forwarded, got %q", body.VideoURL)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"status":"success","blog_post":"# Hello"}`))
			}))
			defer server.Close()

			resp, err := NewAnalyzeClient(server.URL, nil).Analyze(context.Background(), "https://youtu.be/abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.BlogPost != "# Hello" {
				t.Errorf("expected blog post '# Hello', got %q", resp.BlogPost)
			}
			if hits.Load() != 1 {
				t.Errorf("expected exactly one request, got %d", hits.Load())
			}
		})

		t.Run("Server Error Message", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"bad video id"}`))
			}))
			defer server.Close()

			_, err := NewAnalyzeClient(server.URL, nil).Analyze(context.Background(), "x")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Error() != "bad video id" {
				t.Errorf("expected message 'bad video id', got %q", apiErr.Error())
			}
			if apiErr.StatusCode != http.StatusInternalServerError {
				t.Errorf("expected status 500, got %d", apiErr.StatusCode)
			}
			if !errors.Is(err, shared.ErrApplication) {
				t.Error("expected error to match ErrApplication")
			}
		})

		t.Run("Server Error Without Message", func(t *testing.T) {
			for _, body := range []string{`{}`, `not json`, ``} {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(body))
				}))

				_, err := NewAnalyzeClient(server.URL, nil).Analyze(context.Background(), "x")
				server.Close()

				if err == nil || err.Error() != FallbackMessage {
					t.Errorf("body %q: expected fallback message, got %v", body, err)
				}
			}
		})

		t.Run("Transport Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}

			_, err := NewAnalyzeClient("http://example.com", client).Analyze(context.Background(), "x")
			if !errors.Is(err, shared.ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			if !strings.Contains(err.Error(), "connection refused") {
				t.Errorf("expected underlying message, got %q", err.Error())
			}
		})

		t.Run("Unreadable Body", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
			}, nil)}

			_, err := NewAnalyzeClient("http://example.com", client).Analyze(context.Background(), "x")
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Malformed Success Body", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(tu.NewJSONResponse(http.StatusOK, `{"blog_post":`), nil)}

			_, err := NewAnalyzeClient("http://example.com", client).Analyze(context.Background(), "x")
			if !errors.Is(err, shared.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		})

		t.Run("Bearer Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
					t.Errorf("expected bearer token header, got %q", got)
				}
				w.Write([]byte(`{"blog_post":"ok"}`))
			}))
			defer server.Close()

			c := NewAnalyzeClient(server.URL, nil).WithAuthToken(context.Background(), "s3cret")
			if _, err := c.Analyze(context.Background(), "x"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}

func streamServer(t *testing.T, frames []models.StreamEvent) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/analyze" {
			http.NotFound(w, r)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var req models.AnalyzeRequest
		if err := conn.ReadJSON(&req); err != nil {
			t.Errorf("failed to read request: %v", err)
			return
		}
		if req.VideoURL == "" {
			t.Error("expected video_url in stream request")
		}

		for _, f := range frames {
			if err := conn.WriteJSON(f); err != nil {
				return
			}
		}
	}))
}

func TestAnalyzeClientStream(t *testing.T) {
	t.Run("Progress Then Result", func(t *testing.T) {
		server := streamServer(t, []models.StreamEvent{
			{Type: models.EventProgress, Phase: "analyze_video", Step: 1, Total: 3, Message: "Agent 1/3"},
			{Type: models.EventProgress, Phase: "research_web", Step: 2, Total: 3, Message: "Agent 2/3"},
			{Type: models.EventResult, BlogPost: "# Streamed"},
		})
		defer server.Close()

		var seen []string
		resp, err := NewAnalyzeClient(server.URL, nil).Stream(context.Background(), "https://youtu.be/abc", func(e models.StreamEvent) {
			seen = append(seen, e.Message)
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.BlogPost != "# Streamed" {
			t.Errorf("expected streamed post, got %q", resp.BlogPost)
		}
		if len(seen) != 2 || seen[1] != "Agent 2/3" {
			t.Errorf("expected two progress frames, got %v", seen)
		}
	})

	t.Run("Error Frame", func(t *testing.T) {
		server := streamServer(t, []models.StreamEvent{{Type: models.EventError, Error: "Analyzer Error: boom"}})
		defer server.Close()

		_, err := NewAnalyzeClient(server.URL, nil).Stream(context.Background(), "x", nil)
		if !errors.Is(err, shared.ErrApplication) {
			t.Fatalf("expected ErrApplication, got %v", err)
		}
		if err.Error() != "Analyzer Error: boom" {
			t.Errorf("expected server message, got %q", err.Error())
		}
	})

	t.Run("Closed Without Result", func(t *testing.T) {
		server := streamServer(t, nil)
		defer server.Close()

		_, err := NewAnalyzeClient(server.URL, nil).Stream(context.Background(), "x", nil)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})

	t.Run("Rejected Handshake", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"unauthorized"}`)
		}))
		defer server.Close()

		_, err := NewAnalyzeClient(server.URL, nil).Stream(context.Background(), "x", nil)
		if err == nil || err.Error() != "unauthorized" {
			t.Errorf("expected unauthorized APIError, got %v", err)
		}
	})

	t.Run("Unsupported Scheme", func(t *testing.T) {
		_, err := NewAnalyzeClient("ftp://example.com", nil).Stream(context.Background(), "x", nil)
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected ErrTransport, got %v", err)
		}
	})
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api error", &APIError{StatusCode: 500, Message: "bad video id"}, "bad video id"},
		{"api error without message", &APIError{StatusCode: 500}, FallbackMessage},
		{"transport", &TransportError{Err: errors.New("dial tcp: refused")}, "dial tcp: refused"},
		{"empty", errors.New(""), FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

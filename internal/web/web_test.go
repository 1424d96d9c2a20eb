package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/desertthunder/ytblog/internal/client"
	"github.com/desertthunder/ytblog/internal/product"
)

func newPages(t *testing.T, backend product.Backend) *Pages {
	t.Helper()
	pages, err := NewPages(backend, nil)
	if err != nil {
		t.Fatalf("NewPages() error = %v", err)
	}
	return pages
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	if err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, doc
}

func postForm(videoURL string) *http.Request {
	form := url.Values{"video_url": {videoURL}}
	req := httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestPages(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		routes := newPages(t, nil).Routes()
		if len(routes) != 3 || routes[0] != "/{$}" {
			t.Errorf("unexpected routes: %v", routes)
		}
	})

	t.Run("Landing Page Has Glow Button", func(t *testing.T) {
		rec, doc := serve(t, newPages(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		btn := doc.Find("#getStartedBtn")
		if strings.TrimSpace(btn.Text()) != "Get Started" {
			t.Errorf("expected Get Started button, got %q", btn.Text())
		}
		if href, _ := btn.Attr("href"); href != "/product" {
			t.Errorf("expected link to /product, got %q", href)
		}
		if !strings.Contains(doc.Find("style").Text(), "#getStartedBtn:hover { box-shadow: 0 0 20px rgba(59,130,246,.6); }") {
			t.Error("expected hover glow rule in stylesheet")
		}
	})

	t.Run("Product Page Starts Idle", func(t *testing.T) {
		_, doc := serve(t, newPages(t, nil), httptest.NewRequest(http.MethodGet, "/product", nil))

		if doc.Find("#welcomeMessage").Length() != 1 {
			t.Error("expected welcome panel")
		}
		if doc.Find("#resultContainer, #errorContainer").Length() != 0 {
			t.Error("expected result and error panels to be absent")
		}
		if _, disabled := doc.Find("#generateBtn").Attr("disabled"); disabled {
			t.Error("expected trigger to be enabled")
		}
		if !doc.Find("#btnLoader").HasClass("hidden") {
			t.Error("expected busy indicator to be hidden")
		}
		if strings.TrimSpace(doc.Find("#btnText").Text()) != product.TriggerLabel {
			t.Errorf("unexpected button label %q", doc.Find("#btnText").Text())
		}
	})

	t.Run("Blank Input Shows Notice Without Calling Backend", func(t *testing.T) {
		var calls atomic.Int32
		backend := product.BackendFunc(func(context.Context, string, func(string)) (string, error) {
			calls.Add(1)
			return "", nil
		})

		rec, doc := serve(t, newPages(t, backend), postForm("   "))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if calls.Load() != 0 {
			t.Errorf("expected no backend call, got %d", calls.Load())
		}
		if got := doc.Find("#notice").Text(); got != product.EmptyInputNotice {
			t.Errorf("expected notice %q, got %q", product.EmptyInputNotice, got)
		}
		if doc.Find("#welcomeMessage").Length() != 1 {
			t.Error("expected page to stay on the welcome panel")
		}
	})

	t.Run("Success Renders Blog Post", func(t *testing.T) {
		backend := product.BackendFunc(func(_ context.Context, videoURL string, _ func(string)) (string, error) {
			if videoURL != "https://youtu.be/abc123" {
				t.Errorf("expected trimmed URL, got %q", videoURL)
			}
			return "# Hello\n\n<script>alert(1)</script>", nil
		})

		rec, doc := serve(t, newPages(t, backend), postForm("  https://youtu.be/abc123  "))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got := doc.Find("#blogContent h1").Text(); got != "Hello" {
			t.Errorf("expected h1 Hello, got %q", got)
		}
		if doc.Find("#blogContent script").Length() != 0 {
			t.Error("expected script to be stripped")
		}
		if doc.Find("#errorContainer, #welcomeMessage").Length() != 0 {
			t.Error("expected only the result panel")
		}
		if got := doc.Find("#status").Text(); got != product.StatusFinished {
			t.Errorf("expected status %q, got %q", product.StatusFinished, got)
		}
		if _, disabled := doc.Find("#generateBtn").Attr("disabled"); disabled {
			t.Error("expected trigger to be re-enabled")
		}
	})

	t.Run("Backend Error Message Is Shown Exactly", func(t *testing.T) {
		backend := product.BackendFunc(func(context.Context, string, func(string)) (string, error) {
			return "", &client.APIError{StatusCode: http.StatusInternalServerError, Message: "bad video id"}
		})

		_, doc := serve(t, newPages(t, backend), postForm("https://youtu.be/x"))

		if got := doc.Find("#errorMessage").Text(); got != "bad video id" {
			t.Errorf("expected error message %q, got %q", "bad video id", got)
		}
		if doc.Find("#resultContainer").Length() != 0 {
			t.Error("expected result panel to be absent")
		}
		if got := doc.Find("#status").Text(); got != product.StatusFailed {
			t.Errorf("expected status %q, got %q", product.StatusFailed, got)
		}
	})

	t.Run("Transport Error Shows Exception Message", func(t *testing.T) {
		backend := product.BackendFunc(func(context.Context, string, func(string)) (string, error) {
			return "", &client.TransportError{Err: errors.New("connection refused")}
		})

		_, doc := serve(t, newPages(t, backend), postForm("https://youtu.be/x"))

		if got := doc.Find("#errorMessage").Text(); got != "connection refused" {
			t.Errorf("expected %q, got %q", "connection refused", got)
		}
	})

	t.Run("Stylesheet", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newPages(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/highlight.css", nil))

		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
			t.Errorf("expected text/css, got %q", ct)
		}
		if rec.Body.Len() == 0 {
			t.Error("expected non-empty stylesheet")
		}
	})

	t.Run("Wrong Method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newPages(t, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/product", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})
}

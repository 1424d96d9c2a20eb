// Raw HTTP fetching shared by the scraping services
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxBodyBytes     = 8 << 20
)

// APIResponse represents a raw response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// fetcher performs browser-like requests with optional cookies.
type fetcher struct {
	httpClient *http.Client
	userAgent  string
	cookies    string
}

func newFetcher(client *http.Client, userAgent, cookies string) fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return fetcher{httpClient: client, userAgent: userAgent, cookies: strings.TrimSpace(cookies)}
}

// get performs a GET request and returns the raw response; non-2xx statuses are not errors.
func (f fetcher) get(ctx context.Context, rawURL string) (*APIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if f.cookies != "" {
		req.Header.Set("Cookie", f.cookies)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

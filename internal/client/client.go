package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/shared"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "http://127.0.0.1:5000"
	// FallbackMessage is shown when the server fails without saying why.
	FallbackMessage = "Failed to generate blog"

	analyzePath = "/analyze"
	streamPath  = "/ws/analyze"
)

// APIError is a non-2xx answer from the server.
//
// Error returns the server's message verbatim so it can be shown to the user as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

func (e *APIError) Unwrap() error { return shared.ErrApplication }

// TransportError is a failure to obtain a usable response at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == shared.ErrTransport }

// ProgressFunc receives progress frames from [AnalyzeClient.Stream].
type ProgressFunc func(models.StreamEvent)

// AnalyzeClient calls the generation endpoints of a ytblog server.
type AnalyzeClient struct {
	baseURL    string
	httpClient *http.Client
	dialer     *websocket.Dialer
	token      string
}

// NewAnalyzeClient creates a client for the server at baseURL.
func NewAnalyzeClient(baseURL string, client *http.Client) *AnalyzeClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &AnalyzeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		dialer:     websocket.DefaultDialer,
	}
}

// WithAuthToken returns a copy of c that sends token as a bearer credential.
//
// HTTP calls go through an [oauth2.Transport] backed by a static token source.
func (c *AnalyzeClient) WithAuthToken(ctx context.Context, token string) *AnalyzeClient {
	if token == "" {
		return c
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
	authed.Timeout = c.httpClient.Timeout

	return &AnalyzeClient{
		baseURL:    c.baseURL,
		httpClient: authed,
		dialer:     c.dialer,
		token:      token,
	}
}

// BaseURL returns the server base URL.
func (c *AnalyzeClient) BaseURL() string {
	return c.baseURL
}

// Analyze posts videoURL to /analyze and returns the decoded success body.
func (c *AnalyzeClient) Analyze(ctx context.Context, videoURL string) (*models.AnalyzeResponse, error) {
	payload, err := json.Marshal(models.AnalyzeRequest{VideoURL: videoURL})
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+analyzePath, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}

	var result models.AnalyzeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return &result, nil
}

// Stream runs a generation over /ws/analyze, calling onProgress for every progress frame.
//
// It returns once the server sends a terminal frame or ctx is done.
func (c *AnalyzeClient) Stream(ctx context.Context, videoURL string, onProgress ProgressFunc) (*models.AnalyzeResponse, error) {
	wsURL, err := c.streamURL()
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return nil, decodeAPIError(resp.StatusCode, body)
		}
		return nil, &TransportError{Err: err}
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.WriteJSON(models.AnalyzeRequest{VideoURL: videoURL}); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to send request: %w", err)}
	}

	for {
		var event models.StreamEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, &TransportError{Err: ctxErr}
			}
			return nil, &TransportError{Err: fmt.Errorf("stream closed before a result arrived: %w", err)}
		}

		switch event.Type {
		case models.EventProgress:
			if onProgress != nil {
				onProgress(event)
			}
		case models.EventResult:
			return &models.AnalyzeResponse{Status: "success", BlogPost: event.BlogPost}, nil
		case models.EventError:
			return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: event.Error}
		}
	}
}

func (c *AnalyzeClient) streamURL() (string, error) {
	u, err := url.Parse(c.baseURL + streamPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", shared.ErrInvalidConfig, u.Scheme)
	}

	return u.String(), nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var errResp models.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &APIError{StatusCode: status, Message: FallbackMessage}
	}

	msg := errResp.Error
	if msg == "" {
		msg = FallbackMessage
	}
	return &APIError{StatusCode: status, Message: msg}
}

// Message returns the user-facing text for a failed generation.
//
// Server messages are preferred, then the generic fallback, then the raw error text.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

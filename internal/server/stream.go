package server

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/tasks"
	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	requestWait   = 30 * time.Second
	progressQueue = 32
)

// StreamHandler serves GET /ws/analyze.
//
// The client sends one [models.AnalyzeRequest]; the server answers with progress frames and a
// single terminal result or error frame, then closes the connection.
type StreamHandler struct {
	pipeline product.Pipeline
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewStreamHandler creates a websocket handler accepting the given browser origins.
func NewStreamHandler(p product.Pipeline, origins []string, logger *log.Logger) *StreamHandler {
	return &StreamHandler{
		pipeline: p,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(origins),
		},
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *StreamHandler) Routes() []string {
	return []string{"/ws/analyze"}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var req models.AnalyzeRequest
	conn.SetReadDeadline(time.Now().Add(requestWait))
	if err := conn.ReadJSON(&req); err != nil {
		h.finish(conn, models.StreamEvent{Type: models.EventError, Error: msgInvalidBody})
		return
	}
	conn.SetReadDeadline(time.Time{})

	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		h.finish(conn, models.StreamEvent{Type: models.EventError, Error: msgNoVideoURL})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends again; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	type outcome struct {
		res *tasks.Result
		err error
	}

	progress := make(chan tasks.ProgressUpdate, progressQueue)
	done := make(chan outcome, 1)
	go func() {
		res, err := h.pipeline.Run(ctx, videoURL, progress)
		done <- outcome{res: res, err: err}
	}()

	for {
		select {
		case u := <-progress:
			if u.Phase == tasks.Done {
				continue
			}
			if err := h.write(conn, progressEvent(u)); err != nil {
				h.logger.Warn("stream write failed", "error", err)
				cancel()
			}
		case out := <-done:
			h.drain(conn, progress)
			if out.err != nil {
				h.logger.Error("stream analyze failed", "video_url", videoURL, "error", out.err)
				h.finish(conn, models.StreamEvent{Type: models.EventError, Error: out.err.Error()})
				return
			}
			h.finish(conn, models.StreamEvent{Type: models.EventResult, BlogPost: out.res.BlogPost})
			return
		}
	}
}

// drain flushes progress updates that were queued before the run returned.
func (h *StreamHandler) drain(conn *websocket.Conn, progress <-chan tasks.ProgressUpdate) {
	for {
		select {
		case u := <-progress:
			if u.Phase != tasks.Done {
				h.write(conn, progressEvent(u))
			}
		default:
			return
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, e models.StreamEvent) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(e)
}

func (h *StreamHandler) finish(conn *websocket.Conn, e models.StreamEvent) {
	if err := h.write(conn, e); err != nil {
		h.logger.Warn("stream write failed", "error", err)
		return
	}
	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

func progressEvent(u tasks.ProgressUpdate) models.StreamEvent {
	return models.StreamEvent{
		Type:    models.EventProgress,
		Phase:   u.Phase.String(),
		Step:    u.Step,
		Total:   u.Total,
		Message: u.Message,
	}
}

// originChecker accepts non-browser clients, same-host pages, and the configured origins.
func originChecker(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

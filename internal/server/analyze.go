package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/models"
	"github.com/desertthunder/ytblog/internal/product"
)

const (
	msgInvalidBody = "invalid request body"
	msgNoVideoURL  = "No video URL provided"
	maxRequestBody = 1 << 16
)

// AnalyzeHandler serves POST /analyze.
type AnalyzeHandler struct {
	pipeline product.Pipeline
	logger   *log.Logger
}

// NewAnalyzeHandler creates a handler that runs p for each request.
func NewAnalyzeHandler(p product.Pipeline, logger *log.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{pipeline: p, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AnalyzeHandler) Routes() []string {
	return []string{"/analyze"}
}

// ServeHTTP runs the full pipeline and responds with the blog post or an error message.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgInvalidBody})
		return
	}

	videoURL := strings.TrimSpace(req.VideoURL)
	if videoURL == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: msgNoVideoURL})
		return
	}

	res, err := h.pipeline.Run(r.Context(), videoURL, nil)
	if err != nil {
		h.logger.Error("analyze failed", "video_url", videoURL, "error", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Status:        "success",
		BlogPost:      res.BlogPost,
		DebugAnalysis: res.Analysis,
		DebugResearch: res.Research,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

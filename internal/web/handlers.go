package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moodcanvas/moodcanvas/internal/canvas"
	"github.com/moodcanvas/moodcanvas/internal/catalog"
	"github.com/moodcanvas/moodcanvas/internal/mood"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	service *canvas.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *canvas.Service) *Handlers {
	return &Handlers{service: service}
}

// analyzeRequest is the body of POST /api/analyze.
type analyzeRequest struct {
	MoodText string `json:"mood_text"`
}

// canvasRequest is the body of POST /api/canvas.
type canvasRequest struct {
	MoodText      string `json:"mood_text"`
	TrackLimit    int    `json:"track_limit,omitempty"`
	IncludeVideo  bool   `json:"include_video,omitempty"`
	VideoDuration int    `json:"video_duration,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Analyze handles POST /api/analyze: mood text in, mood profile out.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	profile, err := h.service.Analyze(r.Context(), req.MoodText)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// CreateCanvas handles POST /api/canvas: the full pipeline for one mood.
func (h *Handlers) CreateCanvas(w http.ResponseWriter, r *http.Request) {
	var req canvasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.service.Create(r.Context(), req.MoodText, canvas.Options{
		TrackLimit:    req.TrackLimit,
		IncludeVideo:  req.IncludeVideo,
		VideoDuration: req.VideoDuration,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mood.ErrEmptyMoodText):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrPlaylistCreate):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

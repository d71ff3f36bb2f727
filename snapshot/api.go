// CLAUDE:SUMMARY HTTP surface: POST /screenshot, GET /screenshots/{filename}, GET /api/captures. Maps sentinels to 400/404/500.
package snapshot

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/websnap/shield"
)

// RegisterRoutes mounts the capture API on r.
func (s *Service) RegisterRoutes(r chi.Router) {
	r.Post("/screenshot", s.handleCapture)
	r.Get("/screenshots/{filename}", s.handleRetrieve)
	r.Get("/api/captures", s.handleList)
}

func (s *Service) handleCapture(w http.ResponseWriter, r *http.Request) {
	log := shield.GetLogger(r.Context())

	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := s.Capture(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Render failures of every flavour collapse into one generic
		// server error; no stored file exists at this point.
		log.Error("capture failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to capture screenshot")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"screenshot_url": c.ScreenshotURL(),
	})
}

func (s *Service) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	f, info, err := s.OpenScreenshot(filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "screenshot not found")
			return
		}
		shield.GetLogger(r.Context()).Error("retrieve failed", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read screenshot")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypePNG)
	http.ServeContent(w, r, "", info.ModTime(), f)
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := s.ListCaptures(r.Context(), limit)
	if err != nil {
		shield.GetLogger(r.Context()).Error("list captures failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list captures")
		return
	}
	if list == nil {
		list = []*Capture{}
	}
	writeJSON(w, http.StatusOK, list)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/homehub/internal/camera"
	"github.com/go-chi/chi/v5"
)

// CameraHandler proxies the optional camera integration. Failures here
// never affect other endpoints.
type CameraHandler struct {
	Provider camera.Provider
}

// Status handles GET /api/unifi/status.
func (h *CameraHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Provider.Status(r.Context()))
}

// Cameras handles GET /api/unifi/cameras.
func (h *CameraHandler) Cameras(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Provider.Cameras(r.Context()))
}

// Snapshot handles GET /api/unifi/cameras/{id}/snapshot.
func (h *CameraHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	img, err := h.Provider.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, camera.ErrNotConfigured) {
		writeError(w, http.StatusNotFound, "Camera integration not configured")
		return
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Camera system unreachable")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

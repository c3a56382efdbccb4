package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/atinyakov/homehub/internal/service"
	"go.uber.org/zap"
)

// CalendarService defines the operations required by CalendarHandler.
type CalendarService interface {
	Import(ctx context.Context, url string) (service.ImportResult, error)
	Export(ctx context.Context, w io.Writer) error
}

// CalendarHandler imports and exports kids events as iCalendar.
type CalendarHandler struct {
	Service CalendarService
	Log     *zap.Logger
}

// Export handles GET /api/kids-events/calendar.ics.
func (h *CalendarHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), &buf); err != nil {
		nopIfNil(h.Log).Error("Failed to export kids events", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to export kids events")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kids-events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Import handles POST /api/kids-events/import with a {"url": "..."} body.
func (h *CalendarHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, err)
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.Service.Import(r.Context(), url)
	if errors.Is(err, service.ErrFeedUnavailable) {
		nopIfNil(h.Log).Warn("calendar feed unavailable", zap.String("url", url), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if err != nil {
		nopIfNil(h.Log).Error("Failed to import kids events", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to import kids events")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

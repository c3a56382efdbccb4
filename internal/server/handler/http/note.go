package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/atinyakov/homehub/internal/models"
	"go.uber.org/zap"
)

// NoteService defines the operations required by NoteHandler.
type NoteService interface {
	Get(ctx context.Context) (models.Note, error)
	Update(ctx context.Context, content string) (models.Note, error)
}

// NoteHandler serves the shared scratch pad.
type NoteHandler struct {
	Service NoteService
	Log     *zap.Logger
}

// Get handles GET /api/note.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.Service.Get(r.Context())
	if err != nil {
		nopIfNil(h.Log).Error("Failed to fetch note", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Update handles PUT /api/note with a {"content": "..."} body.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content json.RawMessage `json:"content"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, err)
		return
	}
	var content string
	if len(req.Content) == 0 || json.Unmarshal(req.Content, &content) != nil || string(req.Content) == "null" {
		writeError(w, http.StatusBadRequest, "Content must be a string")
		return
	}

	note, err := h.Service.Update(r.Context(), content)
	if err != nil {
		nopIfNil(h.Log).Error("Failed to update note", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

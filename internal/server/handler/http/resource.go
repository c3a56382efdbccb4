package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ResourceService defines the CRUD operations required by ResourceHandler.
type ResourceService[E any, I any, P any] interface {
	List(ctx context.Context) ([]E, error)
	// Get returns nil when the row does not exist.
	Get(ctx context.Context, id int64) (*E, error)
	// Create returns *models.ValidationError for invalid input.
	Create(ctx context.Context, in I) (E, error)
	// Update returns nil when the row does not exist.
	Update(ctx context.Context, id int64, p P) (*E, error)
	Delete(ctx context.Context, id int64) error
}

// ResourceHandler serves list/get/create/update/delete for one entity.
type ResourceHandler[E any, I any, P any] struct {
	Service ResourceService[E, I, P]
	// Name is the singular entity name used in messages, e.g. "kids event".
	Name string
	Log  *zap.Logger
}

// NewResourceHandler constructs a ResourceHandler.
func NewResourceHandler[E any, I any, P any](name string, svc ResourceService[E, I, P], log *zap.Logger) *ResourceHandler[E, I, P] {
	return &ResourceHandler[E, I, P]{Service: svc, Name: name, Log: nopIfNil(log)}
}

// Mount registers the handler's routes on r.
func (h *ResourceHandler[E, I, P]) Mount(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List handles GET /api/{resource}.
func (h *ResourceHandler[E, I, P]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		h.fail(w, "fetch", plural(h.Name), err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/{resource}/{id}.
func (h *ResourceHandler[E, I, P]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "fetch", h.Name, err)
		return
	}
	if item == nil {
		h.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Create handles POST /api/{resource}.
func (h *ResourceHandler[E, I, P]) Create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decodeJSON(r, &in); err != nil {
		writeInvalid(w, err)
		return
	}
	item, err := h.Service.Create(r.Context(), in)
	if isValidation(err) {
		writeInvalid(w, err)
		return
	}
	if err != nil {
		h.fail(w, "create", h.Name, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// Update handles PATCH /api/{resource}/{id}. Only fields present in the
// body are changed.
func (h *ResourceHandler[E, I, P]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var p P
	if err := decodeJSON(r, &p); err != nil {
		writeInvalid(w, err)
		return
	}
	item, err := h.Service.Update(r.Context(), id, p)
	if isValidation(err) {
		writeInvalid(w, err)
		return
	}
	if err != nil {
		h.fail(w, "update", h.Name, err)
		return
	}
	if item == nil {
		h.notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/{resource}/{id}. Deleting a missing row
// still answers 204.
func (h *ResourceHandler[E, I, P]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete", h.Name, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResourceHandler[E, I, P]) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, capitalize(h.Name)+" not found")
}

func (h *ResourceHandler[E, I, P]) fail(w http.ResponseWriter, verb, what string, err error) {
	msg := "Failed to " + verb + " " + what
	h.Log.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

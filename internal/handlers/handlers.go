package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/UnaiDv/Rutin/internal/flash"
	"github.com/UnaiDv/Rutin/internal/models"
	"github.com/UnaiDv/Rutin/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies. The same store
// backs both the server-rendered UI and the JSON API.
type Handlers struct {
	store     store.Store
	templates *template.Template
	flash     *flash.Store
	log       *logrus.Logger
}

// New creates a new Handlers instance.
func New(s store.Store, tmpl *template.Template, f *flash.Store, log *logrus.Logger) *Handlers {
	if log == nil {
		log = logrus.New()
	}
	return &Handlers{
		store:     s,
		templates: tmpl,
		flash:     f,
		log:       log,
	}
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// parseDate parses an optional date string in YYYY-MM-DD format. An empty
// string means no date; anything else must parse.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// parseCategoryID parses an optional category reference. An empty string
// means uncategorized.
func parseCategoryID(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid categoria_id %q", s)
	}
	return &id, nil
}

// checkCategory verifies that a supplied category reference points at an
// existing category, so tasks never link to a dangling id.
func (h *Handlers) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := h.store.GetCategory(ctx, *id); err != nil {
		return err
	}
	return nil
}

// redirect sends the 303 used after every UI mutation.
func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (h *Handlers) render(w http.ResponseWriter, name string, data interface{}) {
	if h.templates == nil {
		// For testing without templates
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.WithError(err).WithField("template", name).Error("failed to render template")
	}
}

// setFlash stores a one-shot message for the next rendered page.
func (h *Handlers) setFlash(w http.ResponseWriter, message string) {
	if h.flash != nil {
		h.flash.Put(w, message)
	}
}

// popFlash returns and clears the pending one-shot message, if any.
func (h *Handlers) popFlash(w http.ResponseWriter, r *http.Request) string {
	if h.flash == nil {
		return ""
	}
	return h.flash.Pop(w, r)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondStoreError maps unexpected store failures to a logged 500.
func (h *Handlers) respondStoreError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("store operation failed")
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}

// serverError is the UI counterpart of respondStoreError.
func (h *Handlers) serverError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("store operation failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// taskFilter reads the list filter query parameters shared by the UI listing
// and GET /api/tareas.
func taskFilter(r *http.Request) models.TaskFilter {
	q := r.URL.Query()
	return models.TaskFilter{
		Search:   q.Get("search"),
		Priority: q.Get("priority"),
		Status:   q.Get("status"),
	}
}

// isNotFound reports whether err is one of the store's not-found sentinels.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrTaskNotFound) || errors.Is(err, store.ErrCategoryNotFound)
}

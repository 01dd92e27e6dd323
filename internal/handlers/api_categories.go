package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UnaiDv/Rutin/internal/models"
	"github.com/UnaiDv/Rutin/internal/store"
)

type categoryPayload struct {
	Nombre string `json:"nombre"`
}

// APIListCategories returns every category.
func (h *Handlers) APIListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}

// APIGetCategory returns a single category.
func (h *Handlers) APIGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	category, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

// APICreateCategory creates a category and returns it with its assigned id.
func (h *Handlers) APICreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	category := &models.Category{Name: payload.Nombre}
	if err := category.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, category)
}

// APIUpdateCategory renames a category and returns the result.
func (h *Handlers) APIUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	var payload categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	category := &models.Category{ID: id, Name: payload.Nombre}
	if err := category.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.store.UpdateCategory(r.Context(), category); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, category)
}

// APIDeleteCategory deletes a category. Deleting a category that still has
// tasks attached is rejected with 400.
func (h *Handlers) APIDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryInUse):
			respondWithError(w, http.StatusBadRequest, "category has tasks attached")
		case errors.Is(err, store.ErrCategoryNotFound):
			respondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.respondStoreError(w, err)
		}
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

// APIAllCategoryStats returns completion counts for every category.
func (h *Handlers) APIAllCategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.AllCategoryStats(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// APICategoryStats returns completion counts for one category.
func (h *Handlers) APICategoryStats(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "category not found")
		return
	}

	stats, err := h.store.CategoryStats(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// APIGlobalStats returns the global completion statistics.
func (h *Handlers) APIGlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.TaskStats(r.Context())
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/UnaiDv/Rutin/internal/models"
	"github.com/UnaiDv/Rutin/internal/store"
)

// UI category handlers, same conventions as the task handlers: redirect
// after post, flash on outcomes, silent redirect on a missing id.

// CategoriesData holds data for the category list template.
type CategoriesData struct {
	Title      string
	Categories []models.Category
	Flash      string
}

// ListCategories renders the category list with per-category task counts.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "categorias.html", CategoriesData{
		Title:      "Categorías",
		Categories: categories,
		Flash:      h.popFlash(w, r),
	})
}

// CreateCategory creates a category from the form on the category list.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.setFlash(w, "invalid form data")
		redirect(w, r, "/categorias")
		return
	}

	category := &models.Category{Name: r.FormValue("nombre")}
	if err := category.Validate(); err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, "/categorias")
		return
	}

	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Categoría creada")
	redirect(w, r, "/categorias")
}

// DeleteCategory deletes a category. The delete is rejected while tasks
// still reference it; a missing id is a silent no-op.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/categorias")
		return
	}

	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryInUse):
			h.setFlash(w, "La categoría tiene tareas asociadas")
		case isNotFound(err):
			// silent no-op
		default:
			h.serverError(w, err)
			return
		}
		redirect(w, r, "/categorias")
		return
	}

	h.setFlash(w, "Categoría eliminada")
	redirect(w, r, "/categorias")
}

// EditCategoryData holds data for the category edit template.
type EditCategoryData struct {
	Title    string
	Category *models.Category
	Flash    string
}

// EditCategoryForm renders the category edit form. A missing id redirects to
// the category list.
func (h *Handlers) EditCategoryForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/categorias")
		return
	}

	category, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			redirect(w, r, "/categorias")
			return
		}
		h.serverError(w, err)
		return
	}

	h.render(w, "categoria_editar.html", EditCategoryData{
		Title:    "Editar categoría",
		Category: category,
		Flash:    h.popFlash(w, r),
	})
}

// EditCategory applies the category edit form. A missing id is a silent
// no-op.
func (h *Handlers) EditCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/categorias")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.setFlash(w, "invalid form data")
		redirect(w, r, r.URL.Path)
		return
	}

	category := &models.Category{ID: id, Name: r.FormValue("nombre")}
	if err := category.Validate(); err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, r.URL.Path)
		return
	}

	if err := h.store.UpdateCategory(r.Context(), category); err != nil {
		if isNotFound(err) {
			redirect(w, r, "/categorias")
			return
		}
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Categoría actualizada")
	redirect(w, r, "/categorias")
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/UnaiDv/Rutin/internal/models"
	"github.com/UnaiDv/Rutin/internal/store"
)

// UI task handlers. Mutations follow redirect-after-post: outcomes are
// reported through a one-shot flash message on the next page. A mutation
// against an id that no longer exists redirects silently, without a flash.

// HomeData holds data for the task list template.
type HomeData struct {
	Title      string
	Tasks      []models.Task
	Categories []models.Category
	Filter     models.TaskFilter
	Flash      string
}

// Home renders the task list, narrowed by the search/priority/status query
// parameters.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := taskFilter(r)

	tasks, err := h.store.ListTasks(ctx, filter)
	if err != nil {
		h.serverError(w, err)
		return
	}

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "index.html", HomeData{
		Title:      "Rutin",
		Tasks:      tasks,
		Categories: categories,
		Filter:     filter,
		Flash:      h.popFlash(w, r),
	})
}

// taskFromForm builds an update record from the create/edit form fields.
func taskFromForm(r *http.Request) (models.TaskUpdate, error) {
	dueDate, err := parseDate(r.FormValue("fecha_limite"))
	if err != nil {
		return models.TaskUpdate{}, err
	}

	categoryID, err := parseCategoryID(r.FormValue("categoria_id"))
	if err != nil {
		return models.TaskUpdate{}, err
	}

	return models.TaskUpdate{
		Title:       r.FormValue("titulo"),
		Description: r.FormValue("descripcion"),
		Priority:    r.FormValue("prioridad"),
		DueDate:     dueDate,
		CategoryID:  categoryID,
	}, nil
}

// CreateTask creates a task from the form on the list page.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		h.setFlash(w, "invalid form data")
		redirect(w, r, "/")
		return
	}

	fields, err := taskFromForm(r)
	if err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, "/")
		return
	}

	if err := fields.Validate(); err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, "/")
		return
	}
	fields.SetDefaults()

	if err := h.checkCategory(ctx, fields.CategoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.setFlash(w, "categoria does not exist")
			redirect(w, r, "/")
			return
		}
		h.serverError(w, err)
		return
	}

	if err := h.store.CreateTask(ctx, fields.NewTask()); err != nil {
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Tarea creada")
	redirect(w, r, "/")
}

// DeleteTask deletes a task. A missing id is a silent no-op.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/")
		return
	}

	if err := h.store.DeleteTask(ctx, id); err != nil {
		if isNotFound(err) {
			redirect(w, r, "/")
			return
		}
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Tarea eliminada")
	redirect(w, r, "/")
}

// ToggleTask flips the completion flag of a task. A missing id is a silent
// no-op.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/")
		return
	}

	if err := h.store.ToggleTaskCompleted(ctx, id); err != nil && !isNotFound(err) {
		h.serverError(w, err)
		return
	}

	redirect(w, r, "/")
}

// EditTaskData holds data for the edit form template.
type EditTaskData struct {
	Title      string
	Task       *models.Task
	Categories []models.Category
	Flash      string
}

// EditTaskForm renders the edit form. A missing id redirects to the list.
func (h *Handlers) EditTaskForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/")
		return
	}

	task, err := h.store.GetTask(ctx, id)
	if err != nil {
		if isNotFound(err) {
			redirect(w, r, "/")
			return
		}
		h.serverError(w, err)
		return
	}

	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "edit.html", EditTaskData{
		Title:      "Editar tarea",
		Task:       task,
		Categories: categories,
		Flash:      h.popFlash(w, r),
	})
}

// EditTask applies the edit form, overwriting every mutable field. A missing
// id is a silent no-op.
func (h *Handlers) EditTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.setFlash(w, "invalid form data")
		redirect(w, r, r.URL.Path)
		return
	}

	fields, err := taskFromForm(r)
	if err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, r.URL.Path)
		return
	}

	if err := fields.Validate(); err != nil {
		h.setFlash(w, err.Error())
		redirect(w, r, r.URL.Path)
		return
	}
	fields.SetDefaults()

	if err := h.checkCategory(ctx, fields.CategoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.setFlash(w, "categoria does not exist")
			redirect(w, r, r.URL.Path)
			return
		}
		h.serverError(w, err)
		return
	}

	if err := h.store.UpdateTask(ctx, id, fields); err != nil {
		if isNotFound(err) {
			redirect(w, r, "/")
			return
		}
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Tarea actualizada")
	redirect(w, r, "/")
}

// DuplicateTask creates a copy of a task. A missing id is a silent no-op.
func (h *Handlers) DuplicateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		redirect(w, r, "/")
		return
	}

	if _, err := h.store.DuplicateTask(ctx, id); err != nil {
		if isNotFound(err) {
			redirect(w, r, "/")
			return
		}
		h.serverError(w, err)
		return
	}

	h.setFlash(w, "Tarea duplicada")
	redirect(w, r, "/")
}

// StatsData holds data for the statistics template.
type StatsData struct {
	Title      string
	Stats      models.TaskStats
	ByCategory []models.CategoryStats
	Flash      string
}

// Stats renders global completion statistics with a per-category breakdown.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.store.TaskStats(ctx)
	if err != nil {
		h.serverError(w, err)
		return
	}

	byCategory, err := h.store.AllCategoryStats(ctx)
	if err != nil {
		h.serverError(w, err)
		return
	}

	h.render(w, "estadisticas.html", StatsData{
		Title:      "Estadísticas",
		Stats:      stats,
		ByCategory: byCategory,
		Flash:      h.popFlash(w, r),
	})
}

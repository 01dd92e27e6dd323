package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/UnaiDv/Rutin/internal/models"
	"github.com/UnaiDv/Rutin/internal/store"
)

// JSON API task handlers. Unlike the UI surface, the API signals failures
// explicitly: 422 for validation errors, 404 for unknown ids.

// taskPayload is the request body for creating or replacing a task.
// fecha_limite travels as a YYYY-MM-DD string so an unparseable date is a
// validation error rather than a decode failure.
type taskPayload struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Prioridad   string `json:"prioridad"`
	FechaLimite string `json:"fecha_limite"`
	CategoriaID *int64 `json:"categoria_id"`
}

func (p taskPayload) toUpdate() (models.TaskUpdate, error) {
	dueDate, err := parseDate(p.FechaLimite)
	if err != nil {
		return models.TaskUpdate{}, err
	}

	return models.TaskUpdate{
		Title:       p.Titulo,
		Description: p.Descripcion,
		Priority:    p.Prioridad,
		DueDate:     dueDate,
		CategoryID:  p.CategoriaID,
	}, nil
}

// decodeTaskPayload parses the body and resolves it into an update record,
// reporting any decode or validation failure itself. The bool result tells
// the caller whether to proceed.
func (h *Handlers) decodeTaskPayload(w http.ResponseWriter, r *http.Request) (models.TaskUpdate, bool) {
	var payload taskPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return models.TaskUpdate{}, false
	}

	fields, err := payload.toUpdate()
	if err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return models.TaskUpdate{}, false
	}

	if err := fields.Validate(); err != nil {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return models.TaskUpdate{}, false
	}
	fields.SetDefaults()

	if err := h.checkCategory(r.Context(), fields.CategoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			respondWithError(w, http.StatusUnprocessableEntity, "categoria does not exist")
		} else {
			h.respondStoreError(w, err)
		}
		return models.TaskUpdate{}, false
	}

	return fields, true
}

// APIListTasks returns tasks matching the search/priority/status query
// parameters, newest first.
func (h *Handlers) APIListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.store.ListTasks(r.Context(), taskFilter(r))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

// APICreateTask creates a task and returns it with its assigned id.
func (h *Handlers) APICreateTask(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeTaskPayload(w, r)
	if !ok {
		return
	}

	task := fields.NewTask()
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, task)
}

// APIGetTask returns a single task.
func (h *Handlers) APIGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "task not found")
		return
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			respondWithError(w, http.StatusNotFound, "task not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

// APIUpdateTask replaces every mutable field of a task and returns the
// result.
func (h *Handlers) APIUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "task not found")
		return
	}

	fields, ok := h.decodeTaskPayload(w, r)
	if !ok {
		return
	}

	if err := h.store.UpdateTask(r.Context(), id, fields); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			respondWithError(w, http.StatusNotFound, "task not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	task, err := h.store.GetTask(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, task)
}

// APIDeleteTask deletes a task.
func (h *Handlers) APIDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusNotFound, "task not found")
		return
	}

	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			respondWithError(w, http.StatusNotFound, "task not found")
			return
		}
		h.respondStoreError(w, err)
		return
	}

	respondWithJSON(w, http.StatusNoContent, nil)
}

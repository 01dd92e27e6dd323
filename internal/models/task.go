package models

import (
	"errors"
	"strings"
	"time"
)

// DefaultPriority is assigned when a task is created without an explicit
// priority. Priorities are conventionally "low", "medium" or "high" but are
// stored as free text and never validated against the set.
const DefaultPriority = "medium"

// DuplicatePrefix marks the title of a task created by duplication.
const DuplicatePrefix = "Copy of "

// Task is a to-do item, optionally grouped under a category.
// Column and JSON names follow the wire format of the original application.
type Task struct {
	ID          int64      `db:"id" json:"id"`
	Title       string     `db:"titulo" json:"titulo"`
	Description string     `db:"descripcion" json:"descripcion"`
	Priority    string     `db:"prioridad" json:"prioridad"`
	Completed   bool       `db:"completada" json:"completada"`
	DueDate     *time.Time `db:"fecha_limite" json:"fecha_limite,omitempty"`
	CategoryID  *int64     `db:"categoria_id" json:"categoria_id,omitempty"`
	CreatedAt   time.Time  `db:"creada_en" json:"creada_en"`

	// CategoryName is joined in by listing queries for display only.
	CategoryName string `db:"categoria_nombre" json:"-"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("titulo is required")
	}
	return nil
}

// SetDefaults fills the fields the store does not default itself.
func (t *Task) SetDefaults() {
	if t.Priority == "" {
		t.Priority = DefaultPriority
	}
}

// Duplicate returns an unsaved copy of the task: same description, priority
// and category, title prefixed, completion and due date reset.
func (t *Task) Duplicate() *Task {
	return &Task{
		Title:       DuplicatePrefix + t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		CategoryID:  t.CategoryID,
	}
}

// TaskUpdate enumerates exactly the fields an edit may overwrite. Completion
// is only ever changed by the toggle operation, and the creation time is
// immutable, so neither appears here.
type TaskUpdate struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
	CategoryID  *int64
}

// Validate checks that the update has valid field values.
func (u *TaskUpdate) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return errors.New("titulo is required")
	}
	return nil
}

// SetDefaults fills the fields the store does not default itself.
func (u *TaskUpdate) SetDefaults() {
	if u.Priority == "" {
		u.Priority = DefaultPriority
	}
}

// NewTask materializes the update as an unsaved, pending task.
func (u TaskUpdate) NewTask() *Task {
	return &Task{
		Title:       u.Title,
		Description: u.Description,
		Priority:    u.Priority,
		DueDate:     u.DueDate,
		CategoryID:  u.CategoryID,
	}
}

// Status filter values accepted by TaskFilter; anything else means "all".
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// TaskFilter narrows a task listing. Zero values mean "not applied";
// filters combine with AND.
type TaskFilter struct {
	Search   string // case-insensitive substring match on titulo
	Priority string // exact match
	Status   string // StatusCompleted, StatusPending, or anything for all
}

// CompletedFilter resolves the status filter into a tri-state: nil when the
// listing should not filter on completion.
func (f TaskFilter) CompletedFilter() *bool {
	switch f.Status {
	case StatusCompleted:
		v := true
		return &v
	case StatusPending:
		v := false
		return &v
	}
	return nil
}

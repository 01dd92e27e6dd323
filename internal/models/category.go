package models

import (
	"errors"
	"strings"
)

// Category is a named grouping of tasks. The relationship is informational:
// tasks reference a category, nothing cascades.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"nombre" json:"nombre"`

	// TaskCount is joined in by listing queries for display only.
	TaskCount int `db:"num_tareas" json:"-"`
}

// Validate checks that the category has valid field values.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("nombre is required")
	}
	return nil
}

// TaskStats are aggregate completion counts over a set of tasks.
// Percentage is integer division, 0 when the set is empty.
type TaskStats struct {
	Total      int `db:"total" json:"total"`
	Completed  int `db:"completadas" json:"completadas"`
	Pending    int `db:"pendientes" json:"pendientes"`
	Percentage int `json:"porcentaje"`
}

// ComputePercentage derives Percentage from Total and Completed.
func (s *TaskStats) ComputePercentage() {
	if s.Total == 0 {
		s.Percentage = 0
		return
	}
	s.Percentage = s.Completed * 100 / s.Total
}

// CategoryStats are completion counts scoped to one category.
type CategoryStats struct {
	CategoryID int64  `db:"categoria_id" json:"categoria_id"`
	Name       string `db:"nombre" json:"nombre"`
	Total      int    `db:"total" json:"total"`
	Completed  int    `db:"completadas" json:"completadas"`
	Pending    int    `db:"pendientes" json:"pendientes"`
}

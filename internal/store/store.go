package store

import (
	"context"

	"github.com/UnaiDv/Rutin/internal/models"
)

// Store defines the interface for data persistence operations.
type Store interface {
	// Task operations
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) error
	DeleteTask(ctx context.Context, id int64) error
	ToggleTaskCompleted(ctx context.Context, id int64) error
	DuplicateTask(ctx context.Context, id int64) (*models.Task, error)
	TaskStats(ctx context.Context) (models.TaskStats, error)

	// Category operations
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryStats(ctx context.Context, id int64) (models.CategoryStats, error)
	AllCategoryStats(ctx context.Context) ([]models.CategoryStats, error)

	// Lifecycle
	Close() error
}

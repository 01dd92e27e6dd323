package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/UnaiDv/Rutin/internal/models"
)

const taskColumns = `t.id, t.titulo, t.descripcion, t.prioridad, t.completada,
	t.fecha_limite, t.categoria_id, t.creada_en,
	COALESCE(c.nombre, '') AS categoria_nombre`

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies any
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; keep a single one so
	// every query sees the migrated schema.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTask persists a new task and assigns its id and creation time.
// Unset optional fields get their documented defaults.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	task.SetDefaults()
	task.CreatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (titulo, descripcion, prioridad, completada, fecha_limite, categoria_id, creada_en)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.Title, task.Description, task.Priority, task.Completed, task.DueDate, task.CategoryID, task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	task.ID = id

	return nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task, `
		SELECT `+taskColumns+`
		FROM tasks t
		LEFT JOIN categorias c ON c.id = t.categoria_id
		WHERE t.id = ?
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// ListTasks retrieves tasks matching the filter, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + taskColumns + `
		FROM tasks t
		LEFT JOIN categorias c ON c.id = t.categoria_id
		WHERE 1=1`)

	if filter.Search != "" {
		sb.WriteString(" AND lower(t.titulo) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Priority != "" {
		sb.WriteString(" AND t.prioridad = ?")
		args = append(args, filter.Priority)
	}
	if completed := filter.CompletedFilter(); completed != nil {
		sb.WriteString(" AND t.completada = ?")
		args = append(args, *completed)
	}

	// id breaks ties between rows created within the same timestamp.
	sb.WriteString(" ORDER BY t.creada_en DESC, t.id DESC")

	tasks := []models.Task{}
	if err := s.db.SelectContext(ctx, &tasks, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask overwrites every mutable field of an existing task. Completion
// and creation time are not mutable through an edit.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, update models.TaskUpdate) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET titulo = ?, descripcion = ?, prioridad = ?, fecha_limite = ?, categoria_id = ?
		WHERE id = ?
	`, update.Title, update.Description, update.Priority, update.DueDate, update.CategoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask deletes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// ToggleTaskCompleted flips the completada flag of a task.
func (s *SQLiteStore) ToggleTaskCompleted(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completada = NOT completada WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DuplicateTask creates and returns a copy of the task: title prefixed,
// same description, priority and category, completion and due date reset,
// fresh creation time.
func (s *SQLiteStore) DuplicateTask(ctx context.Context, id int64) (*models.Task, error) {
	original, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := original.Duplicate()
	if err := s.CreateTask(ctx, copied); err != nil {
		return nil, err
	}
	copied.CategoryName = original.CategoryName

	return copied, nil
}

// TaskStats returns global completion counts across all tasks.
func (s *SQLiteStore) TaskStats(ctx context.Context) (models.TaskStats, error) {
	var stats models.TaskStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total, COALESCE(SUM(completada), 0) AS completadas
		FROM tasks
	`)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("failed to get task stats: %w", err)
	}

	stats.Pending = stats.Total - stats.Completed
	stats.ComputePercentage()

	return stats, nil
}

// CreateCategory persists a new category and assigns its id.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.Category) error {
	result, err := s.db.ExecContext(ctx, `INSERT INTO categorias (nombre) VALUES (?)`, category.Name)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	category.ID = id

	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, `
		SELECT c.id, c.nombre, COUNT(t.id) AS num_tareas
		FROM categorias c
		LEFT JOIN tasks t ON t.categoria_id = c.id
		WHERE c.id = ?
		GROUP BY c.id, c.nombre
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return &category, nil
}

// ListCategories retrieves all categories with their task counts.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, `
		SELECT c.id, c.nombre, COUNT(t.id) AS num_tareas
		FROM categorias c
		LEFT JOIN tasks t ON t.categoria_id = c.id
		GROUP BY c.id, c.nombre
		ORDER BY lower(c.nombre) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory renames an existing category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.Category) error {
	result, err := s.db.ExecContext(ctx, `UPDATE categorias SET nombre = ? WHERE id = ?`, category.Name, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// DeleteCategory deletes a category. The delete is rejected with
// ErrCategoryInUse while any task still references the category.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id int64) error {
	var attached int
	if err := s.db.GetContext(ctx, &attached, `SELECT COUNT(*) FROM tasks WHERE categoria_id = ?`, id); err != nil {
		return fmt.Errorf("failed to count category tasks: %w", err)
	}
	if attached > 0 {
		return ErrCategoryInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categorias WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// CategoryStats returns completion counts scoped to one category. Pending is
// counted directly rather than derived from total and completed.
func (s *SQLiteStore) CategoryStats(ctx context.Context, id int64) (models.CategoryStats, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return models.CategoryStats{}, err
	}

	stats := models.CategoryStats{CategoryID: category.ID, Name: category.Name}

	if err := s.db.GetContext(ctx, &stats.Total,
		`SELECT COUNT(*) FROM tasks WHERE categoria_id = ?`, id); err != nil {
		return models.CategoryStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.Completed,
		`SELECT COUNT(*) FROM tasks WHERE categoria_id = ? AND completada`, id); err != nil {
		return models.CategoryStats{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if err := s.db.GetContext(ctx, &stats.Pending,
		`SELECT COUNT(*) FROM tasks WHERE categoria_id = ? AND NOT completada`, id); err != nil {
		return models.CategoryStats{}, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	return stats, nil
}

// AllCategoryStats returns completion counts for every category. Pending is
// derived by subtraction here; CategoryStats counts it directly. Both agree
// for consistent data.
func (s *SQLiteStore) AllCategoryStats(ctx context.Context) ([]models.CategoryStats, error) {
	stats := []models.CategoryStats{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT c.id AS categoria_id, c.nombre, COUNT(t.id) AS total,
			COALESCE(SUM(t.completada), 0) AS completadas,
			0 AS pendientes
		FROM categorias c
		LEFT JOIN tasks t ON t.categoria_id = c.id
		GROUP BY c.id, c.nombre
		ORDER BY lower(c.nombre) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get category stats: %w", err)
	}

	for i := range stats {
		stats[i].Pending = stats[i].Total - stats[i].Completed
	}

	return stats, nil
}

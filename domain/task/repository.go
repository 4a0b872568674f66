package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Repository provides durable task storage over a relational database.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the tasks table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&Task{}); err != nil {
		return fmt.Errorf("failed to migrate tasks table: %w", err)
	}
	return nil
}

// Create inserts a new task. The store assigns the id and sets both
// timestamps to the same instant.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*Task, error) {
	var t Task
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// Update applies the set fields to an existing task and returns the updated
// row. updated_at is rewritten on every call, including when no field
// changed.
func (r *Repository) Update(ctx context.Context, id uint, fields UpdateFields) (*Task, error) {
	res := r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", id).
		UpdateColumns(fields.Changes(time.Now().UTC()))
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete permanently removes a task, reporting whether a row existed.
// A missing id is a normal false outcome, not an error.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&Task{}, id)
	if err := res.Error; err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return res.RowsAffected > 0, nil
}

// List returns the tasks matching the filter, newest-created first.
// Ties in created_at break by id descending so the order is deterministic.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Task, error) {
	var tasks []Task
	q := filter.Apply(r.db.WithContext(ctx).Model(&Task{}))
	if err := q.Order("created_at DESC, id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DistinctCategories returns every distinct non-NULL category, ascending.
// The empty string is a valid category and is included when present.
func (r *Repository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&Task{}).
		Distinct("category").
		Where("category IS NOT NULL").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ToggleCompletion flips the completed flag in a single statement so two
// concurrent toggles on the same id each apply exactly once. The re-read of
// the updated row can observe a later concurrent write; only the returned
// snapshot is affected, not the stored state.
func (r *Repository) ToggleCompletion(ctx context.Context, id uint) (*Task, error) {
	res := r.db.WithContext(ctx).Model(&Task{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"completed":  gorm.Expr("NOT completed"),
			"updated_at": time.Now().UTC(),
		})
	if err := res.Error; err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

package task

import (
	"context"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/pkg/optional"
)

// CreateTaskRequest is the request for creating a task. Description,
// Category, and DueDate are nullable; Priority defaults to medium when
// omitted.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	Category    *string         `json:"category,omitempty"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	ID uint `json:"id"`
}

// ListTasksRequest carries the optional filter criteria. Omitted criteria
// are unconstrained; present criteria are ANDed together.
type ListTasksRequest struct {
	Completed *bool            `json:"completed,omitempty"`
	Priority  *domain.Priority `json:"priority,omitempty"`
	Category  *string          `json:"category,omitempty"`
	DueBefore *time.Time       `json:"due_before,omitempty"`
}

// ListTasksResponse is the response containing the filtered task list,
// newest-created first.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// UpdateTaskRequest is the request for a partial update. Each field is
// three-state: absent leaves the stored value unchanged, explicit null
// clears a nullable field, and a value overwrites. Title and Completed are
// not nullable and reject explicit null.
type UpdateTaskRequest struct {
	ID          uint                            `json:"id"`
	Title       optional.Field[string]          `json:"title,omitzero"`
	Description optional.Field[string]          `json:"description,omitzero"`
	Completed   optional.Field[bool]            `json:"completed,omitzero"`
	Priority    optional.Field[domain.Priority] `json:"priority,omitzero"`
	Category    optional.Field[string]          `json:"category,omitzero"`
	DueDate     optional.Field[time.Time]       `json:"due_date,omitzero"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID uint `json:"id"`
}

// DeleteTaskResponse reports whether a task was actually removed. A missing
// id yields Success=false, never an error.
type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

// ToggleTaskRequest is the request for flipping a task's completion flag.
type ToggleTaskRequest struct {
	ID uint `json:"id"`
}

// ListCategoriesRequest is the request for listing distinct categories.
type ListCategoriesRequest struct{}

// ListCategoriesResponse is the response containing every distinct non-null
// category.
type ListCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Completed   bool            `json:"completed"`
	Priority    domain.Priority `json:"priority"`
	Category    *string         `json:"category"`
	DueDate     *time.Time      `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TaskPort is the typed contract callers use to reach the task services.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, id uint) (*TaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, id uint) (*DeleteTaskResponse, error)
	ToggleTask(ctx context.Context, id uint) (*TaskResponse, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// filter translates the request criteria into the store filter.
func (r *ListTasksRequest) filter() domain.ListFilter {
	if r == nil {
		return domain.ListFilter{}
	}
	return domain.ListFilter{
		Completed: r.Completed,
		Priority:  r.Priority,
		Category:  r.Category,
		DueBefore: r.DueBefore,
	}
}

// toTaskResponse converts a stored Task to its response representation.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

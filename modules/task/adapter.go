package task

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/example/taskboard/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter implements TaskPort over the task module's request-reply
// services. It is the typed client used by the HTTP gateway and the client
// state controller.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for the task services.
// container is the task module's ServiceContainer received via
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

func (a *taskAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return resolveError(service, err)
	}
	return nil
}

// CreateTask creates a new task via the create service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTask retrieves a task by id via the get service.
func (a *taskAdapter) GetTask(ctx context.Context, id uint) (*TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "get", &GetTaskRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListTasks lists tasks matching the filter via the list service. A nil
// request lists everything.
func (a *taskAdapter) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	if req == nil {
		req = &ListTasksRequest{}
	}
	var resp ListTasksResponse
	if err := a.call(ctx, "list", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask partially updates a task via the update service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "update", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteTask deletes a task via the delete service. A missing id is a
// Success=false response, not an error.
func (a *taskAdapter) DeleteTask(ctx context.Context, id uint) (*DeleteTaskResponse, error) {
	var resp DeleteTaskResponse
	if err := a.call(ctx, "delete", &DeleteTaskRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleTask flips a task's completion flag via the toggle service.
func (a *taskAdapter) ToggleTask(ctx context.Context, id uint) (*TaskResponse, error) {
	var resp TaskResponse
	if err := a.call(ctx, "toggle", &ToggleTaskRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCategories lists distinct categories via the categories service.
func (a *taskAdapter) ListCategories(ctx context.Context) ([]string, error) {
	var resp ListCategoriesResponse
	if err := a.call(ctx, "categories", &ListCategoriesRequest{}, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

const validationPrefix = "validation failed:"

// resolveError maps an error transported over the service boundary back to
// the domain taxonomy. The request-reply layer carries errors as messages,
// so well-known messages are matched; anything unrecognized stays an opaque
// store error.
func resolveError(service string, err error) error {
	msg := err.Error()

	if strings.Contains(msg, domain.ErrNotFound.Error()) {
		return domain.ErrNotFound
	}

	if idx := strings.Index(msg, validationPrefix); idx >= 0 {
		detail := strings.TrimSpace(msg[idx+len(validationPrefix):])
		field, reason, found := strings.Cut(detail, " ")
		if !found {
			field, reason = "input", detail
		}
		return &domain.ValidationError{Field: field, Reason: reason}
	}

	return fmt.Errorf("%s service call failed: %w", service, err)
}

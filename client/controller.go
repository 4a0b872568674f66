// Package client implements the client-side state controller: a transient
// cache of the task list, the active filter selection, and the known
// categories. The cache is never authoritative; every successful mutation
// discards it and reloads from the server, and a failed mutation leaves the
// previously loaded state untouched.
package client

import (
	"context"
	"sync"

	"github.com/example/taskboard/modules/task"
)

// Controller drives the task services through a TaskPort and caches the
// results for display.
type Controller struct {
	port task.TaskPort

	mu         sync.RWMutex
	tasks      []task.TaskResponse
	categories []string
	filter     task.ListTasksRequest
	loaded     bool
}

// New creates a controller over the given port. Nothing is loaded until the
// first Refresh.
func New(port task.TaskPort) *Controller {
	return &Controller{port: port}
}

// Refresh reloads the task list (under the active filter) and the category
// set from the server, replacing the cached state. On error the previous
// state stays visible.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.RLock()
	filter := c.filter
	c.mu.RUnlock()

	return c.reload(ctx, filter)
}

// SetFilter replaces the active filter and reloads. On error both the old
// filter and the old list remain in effect.
func (c *Controller) SetFilter(ctx context.Context, filter task.ListTasksRequest) error {
	return c.reload(ctx, filter)
}

// ClearFilter removes every criterion and reloads.
func (c *Controller) ClearFilter(ctx context.Context) error {
	return c.reload(ctx, task.ListTasksRequest{})
}

// Tasks returns a copy of the cached task list.
func (c *Controller) Tasks() []task.TaskResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tasks := make([]task.TaskResponse, len(c.tasks))
	copy(tasks, c.tasks)
	return tasks
}

// Categories returns a copy of the cached category set.
func (c *Controller) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := make([]string, len(c.categories))
	copy(categories, c.categories)
	return categories
}

// Filter returns the active filter selection.
func (c *Controller) Filter() task.ListTasksRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Loaded reports whether an initial load has succeeded.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// CreateTask creates a task and reloads on success.
func (c *Controller) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	resp, err := c.port.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, c.Refresh(ctx)
}

// UpdateTask partially updates a task and reloads on success.
func (c *Controller) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	resp, err := c.port.UpdateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp, c.Refresh(ctx)
}

// ToggleTask flips a task's completion flag and reloads on success.
func (c *Controller) ToggleTask(ctx context.Context, id uint) (*task.TaskResponse, error) {
	resp, err := c.port.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return resp, c.Refresh(ctx)
}

// DeleteTask deletes a task, reporting whether one was removed. The list
// reloads either way: success=false still confirms the server state.
func (c *Controller) DeleteTask(ctx context.Context, id uint) (bool, error) {
	resp, err := c.port.DeleteTask(ctx, id)
	if err != nil {
		return false, err
	}
	return resp.Success, c.Refresh(ctx)
}

// reload fetches list and categories, committing filter and state together
// only when both calls succeed.
func (c *Controller) reload(ctx context.Context, filter task.ListTasksRequest) error {
	list, err := c.port.ListTasks(ctx, &filter)
	if err != nil {
		return err
	}
	categories, err := c.port.ListCategories(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = list.Tasks
	c.categories = categories
	c.filter = filter
	c.loaded = true
	return nil
}

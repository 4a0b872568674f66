package task

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	domain "github.com/example/taskboard/domain/task"
	ev "github.com/example/taskboard/events"
	"github.com/example/taskboard/modules/cache"
	"github.com/go-monolith/mono"
	"golang.org/x/sync/singleflight"
)

const categoriesCacheKey = "categories"

// service implements the task operation handlers. repo is required; cache
// and eventBus are optional collaborators.
type service struct {
	repo     *domain.Repository
	cache    cache.TaskCache
	eventBus mono.EventBus
	sfGroup  singleflight.Group
}

// createTask handles the task.create service request. The title must be
// non-empty after trimming; the stored title keeps its original spacing.
func (s *service) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return TaskResponse{}, &domain.ValidationError{Field: "title", Reason: "is required"}
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return TaskResponse{}, &domain.ValidationError{Field: "priority", Reason: "must be low, medium, or high"}
	}

	t := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return TaskResponse{}, err
	}

	s.invalidateCache(ctx)
	s.publishCreated(t)

	return toTaskResponse(t), nil
}

// getTask handles the task.get service request.
func (s *service) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(t), nil
}

// listTasks handles the task.list service request, serving from the cache
// when one is wired. Concurrent misses for the same filter collapse through
// singleflight.
func (s *service) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	key := listCacheKey(&req)

	if s.cache != nil {
		var cached ListTasksResponse
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] Cache error for %s: %v", key, err)
		}
		if found {
			return cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.List(ctx, req.filter())
	})
	if err != nil {
		return ListTasksResponse{}, err
	}
	tasks := val.([]domain.Task)

	resp := ListTasksResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for i := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(&tasks[i]))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			log.Printf("[task] Warning: failed to cache %s: %v", key, err)
		}
	}

	return resp, nil
}

// updateTask handles the task.update service request. Absent fields are left
// unchanged; explicit null clears nullable fields; updated_at advances even
// when nothing else changed.
func (s *service) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.Title.IsSet() {
		v, ok := req.Title.Value()
		if !ok {
			return TaskResponse{}, &domain.ValidationError{Field: "title", Reason: "must not be null"}
		}
		if strings.TrimSpace(v) == "" {
			return TaskResponse{}, &domain.ValidationError{Field: "title", Reason: "is required"}
		}
	}
	if req.Completed.IsNull() {
		return TaskResponse{}, &domain.ValidationError{Field: "completed", Reason: "must not be null"}
	}
	if req.Priority.IsSet() {
		v, ok := req.Priority.Value()
		if !ok || !v.Valid() {
			return TaskResponse{}, &domain.ValidationError{Field: "priority", Reason: "must be low, medium, or high"}
		}
	}

	fields := domain.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     req.DueDate,
	}

	t, err := s.repo.Update(ctx, req.ID, fields)
	if err != nil {
		return TaskResponse{}, err
	}

	s.invalidateCache(ctx)
	s.publish(func() error {
		return ev.TaskUpdatedV1.Publish(s.eventBus, ev.TaskUpdatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			UpdatedAt: t.UpdatedAt,
		}, nil)
	}, t.ID, "TaskUpdated")

	return toTaskResponse(t), nil
}

// deleteTask handles the task.delete service request. Deleting an unknown id
// is a normal Success=false outcome, not an error.
func (s *service) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	removed, err := s.repo.Delete(ctx, req.ID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}

	if removed {
		s.invalidateCache(ctx)
		s.publish(func() error {
			return ev.TaskDeletedV1.Publish(s.eventBus, ev.TaskDeletedEvent{
				TaskID:    req.ID,
				DeletedAt: time.Now().UTC(),
			}, nil)
		}, req.ID, "TaskDeleted")
	}

	return DeleteTaskResponse{Success: removed}, nil
}

// toggleTask handles the task.toggle service request. The flip happens in a
// single statement at the store, so it is atomic under concurrent toggles.
func (s *service) toggleTask(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	t, err := s.repo.ToggleCompletion(ctx, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	s.invalidateCache(ctx)
	s.publish(func() error {
		return ev.TaskToggledV1.Publish(s.eventBus, ev.TaskToggledEvent{
			TaskID:    t.ID,
			Completed: t.Completed,
			ToggledAt: t.UpdatedAt,
		}, nil)
	}, t.ID, "TaskToggled")

	return toTaskResponse(t), nil
}

// listCategories handles the task.categories service request.
func (s *service) listCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	if s.cache != nil {
		var cached ListCategoriesResponse
		found, err := s.cache.Get(ctx, categoriesCacheKey, &cached)
		if err != nil {
			log.Printf("[task] Cache error for categories: %v", err)
		}
		if found {
			return cached, nil
		}
	}

	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}

	resp := ListCategoriesResponse{Categories: categories}
	if s.cache != nil {
		if err := s.cache.Set(ctx, categoriesCacheKey, resp); err != nil {
			log.Printf("[task] Warning: failed to cache categories: %v", err)
		}
	}

	return resp, nil
}

// invalidateCache drops every cached read after a mutation. Cache failures
// are logged, never surfaced: the store stays authoritative.
func (s *service) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Printf("[task] Warning: failed to invalidate cache: %v", err)
	}
}

func (s *service) publishCreated(t *domain.Task) {
	s.publish(func() error {
		return ev.TaskCreatedV1.Publish(s.eventBus, ev.TaskCreatedEvent{
			TaskID:    t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			CreatedAt: t.CreatedAt,
		}, nil)
	}, t.ID, "TaskCreated")
}

// publish emits an event when a bus is wired. Publishing is best-effort.
func (s *service) publish(fn func() error, taskID uint, name string) {
	if s.eventBus == nil {
		return
	}
	if err := fn(); err != nil {
		log.Printf("[task] Warning: failed to publish %s event for task %d: %v", name, taskID, err)
	}
}

// listCacheKey derives a stable cache key from the filter criteria.
func listCacheKey(req *ListTasksRequest) string {
	completed := "*"
	if req.Completed != nil {
		completed = fmt.Sprintf("%t", *req.Completed)
	}
	priority := "*"
	if req.Priority != nil {
		priority = string(*req.Priority)
	}
	category := "*"
	if req.Category != nil {
		category = *req.Category
	}
	due := "*"
	if req.DueBefore != nil {
		due = req.DueBefore.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("list:%s:%s:%s:%s", completed, priority, category, due)
}

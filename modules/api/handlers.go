package api

import (
	"errors"
	"strconv"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/task"
	"github.com/gofiber/fiber/v2"
)

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req task.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := m.taskPort.CreateTask(c.Context(), &req)
	if err != nil {
		return sendError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	resp, err := m.taskPort.GetTask(c.Context(), id)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// listTasks handles GET /api/v1/tasks. Filter criteria come from query
// parameters; an absent parameter leaves the criterion unconstrained. An
// explicitly empty category is a valid filter value.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	req := task.ListTasksRequest{}
	queries := c.Queries()

	if raw, present := queries["completed"]; present {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid completed value")
		}
		req.Completed = &completed
	}
	if raw, present := queries["priority"]; present {
		priority := domain.Priority(raw)
		if !priority.Valid() {
			return badRequest(c, "Invalid priority value")
		}
		req.Priority = &priority
	}
	if raw, present := queries["category"]; present {
		category := raw
		req.Category = &category
	}
	if raw, present := queries["due_before"]; present {
		dueBefore, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(c, "Invalid due_before value, expected RFC3339")
		}
		req.DueBefore = &dueBefore
	}

	resp, err := m.taskPort.ListTasks(c.Context(), &req)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// updateTask handles PATCH /api/v1/tasks/:id. Absent body fields leave the
// stored values unchanged; explicit nulls clear nullable fields.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	var req task.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = id

	resp, err := m.taskPort.UpdateTask(c.Context(), &req)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// deleteTask handles DELETE /api/v1/tasks/:id. Deleting a missing task
// reports success=false with status 200; absence is not an error.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	resp, err := m.taskPort.DeleteTask(c.Context(), id)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// toggleTask handles POST /api/v1/tasks/:id/toggle.
func (m *APIModule) toggleTask(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid task ID")
	}

	resp, err := m.taskPort.ToggleTask(c.Context(), id)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

// listCategories handles GET /api/v1/categories.
func (m *APIModule) listCategories(c *fiber.Ctx) error {
	categories, err := m.taskPort.ListCategories(c.Context())
	if err != nil {
		return sendError(c, err)
	}

	if categories == nil {
		categories = []string{}
	}
	return c.JSON(CategoriesResponse{Categories: categories})
}

// recentActivity handles GET /api/v1/activity.
func (m *APIModule) recentActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	resp, err := m.activityPort.Recent(c.Context(), limit)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(resp)
}

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

// sendError maps a service error onto an HTTP status: validation errors are
// 400, unknown ids 404, everything else 500.
func sendError(c *fiber.Ctx, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

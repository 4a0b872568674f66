package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "github.com/example/taskboard/domain/task"
	"github.com/example/taskboard/modules/activity"
	"github.com/example/taskboard/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTaskPort returns canned responses and records the last list request.
type stubTaskPort struct {
	task        *task.TaskResponse
	list        *task.ListTasksResponse
	deleted     *task.DeleteTaskResponse
	categories  []string
	err         error
	lastListReq *task.ListTasksRequest
}

func (s *stubTaskPort) CreateTask(_ context.Context, _ *task.CreateTaskRequest) (*task.TaskResponse, error) {
	return s.task, s.err
}

func (s *stubTaskPort) GetTask(_ context.Context, _ uint) (*task.TaskResponse, error) {
	return s.task, s.err
}

func (s *stubTaskPort) ListTasks(_ context.Context, req *task.ListTasksRequest) (*task.ListTasksResponse, error) {
	s.lastListReq = req
	return s.list, s.err
}

func (s *stubTaskPort) UpdateTask(_ context.Context, _ *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	return s.task, s.err
}

func (s *stubTaskPort) DeleteTask(_ context.Context, _ uint) (*task.DeleteTaskResponse, error) {
	return s.deleted, s.err
}

func (s *stubTaskPort) ToggleTask(_ context.Context, _ uint) (*task.TaskResponse, error) {
	return s.task, s.err
}

func (s *stubTaskPort) ListCategories(_ context.Context) ([]string, error) {
	return s.categories, s.err
}

type stubActivityPort struct {
	resp *activity.RecentResponse
	err  error
}

func (s *stubActivityPort) Recent(_ context.Context, _ int) (*activity.RecentResponse, error) {
	return s.resp, s.err
}

// newTestAPI builds the module with routes wired but without listening.
func newTestAPI(taskPort task.TaskPort, activityPort activity.ActivityPort) *APIModule {
	m := &APIModule{
		taskPort:     taskPort,
		activityPort: activityPort,
		port:         3000,
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          fiberErrorHandler,
	})
	m.app.Use(recover.New())
	m.setupRoutes()
	return m
}

func doRequest(t *testing.T, m *APIModule, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestAPI_CreateTask(t *testing.T) {
	port := &stubTaskPort{task: &task.TaskResponse{ID: 1, Title: "Buy milk", Priority: domain.PriorityLow}}
	m := newTestAPI(port, &stubActivityPort{})

	resp := doRequest(t, m, http.MethodPost, "/api/v1/tasks", task.CreateTaskRequest{Title: "Buy milk"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[task.TaskResponse](t, resp)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Buy milk", created.Title)
}

func TestAPI_CreateTask_ValidationError(t *testing.T) {
	port := &stubTaskPort{err: &domain.ValidationError{Field: "title", Reason: "is required"}}
	m := newTestAPI(port, &stubActivityPort{})

	resp := doRequest(t, m, http.MethodPost, "/api/v1/tasks", task.CreateTaskRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "validation_error", body.Error)
}

func TestAPI_GetTask(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{err: domain.ErrNotFound}, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks/42", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody[ErrorResponse](t, resp)
		assert.Equal(t, "not_found", body.Error)
	})

	t.Run("opaque error maps to 500", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{err: errors.New("connection reset")}, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks/42", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		body := decodeBody[ErrorResponse](t, resp)
		assert.Equal(t, "internal_error", body.Error)
	})

	t.Run("non-numeric id maps to 400", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks/abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_ListTasks_QueryParsing(t *testing.T) {
	t.Run("absent parameters leave criteria unset", func(t *testing.T) {
		port := &stubTaskPort{list: &task.ListTasksResponse{Tasks: []task.TaskResponse{}}}
		m := newTestAPI(port, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.NotNil(t, port.lastListReq)
		assert.Nil(t, port.lastListReq.Completed)
		assert.Nil(t, port.lastListReq.Priority)
		assert.Nil(t, port.lastListReq.Category)
		assert.Nil(t, port.lastListReq.DueBefore)
	})

	t.Run("all parameters parsed", func(t *testing.T) {
		port := &stubTaskPort{list: &task.ListTasksResponse{Tasks: []task.TaskResponse{}}}
		m := newTestAPI(port, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet,
			"/api/v1/tasks?completed=true&priority=high&category=work&due_before=2026-09-15T00:00:00Z", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		req := port.lastListReq
		require.NotNil(t, req)
		require.NotNil(t, req.Completed)
		assert.True(t, *req.Completed)
		require.NotNil(t, req.Priority)
		assert.Equal(t, domain.PriorityHigh, *req.Priority)
		require.NotNil(t, req.Category)
		assert.Equal(t, "work", *req.Category)
		require.NotNil(t, req.DueBefore)
		assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), req.DueBefore.UTC())
	})

	t.Run("explicitly empty category is a filter value", func(t *testing.T) {
		port := &stubTaskPort{list: &task.ListTasksResponse{Tasks: []task.TaskResponse{}}}
		m := newTestAPI(port, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks?category=", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		require.NotNil(t, port.lastListReq)
		require.NotNil(t, port.lastListReq.Category)
		assert.Equal(t, "", *port.lastListReq.Category)
	})

	t.Run("invalid completed rejected", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})
		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks?completed=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})
		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks?priority=urgent", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid due_before rejected", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})
		resp := doRequest(t, m, http.MethodGet, "/api/v1/tasks?due_before=tomorrow", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_DeleteTask(t *testing.T) {
	t.Run("missing task deletes with success=false", func(t *testing.T) {
		port := &stubTaskPort{deleted: &task.DeleteTaskResponse{Success: false}}
		m := newTestAPI(port, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodDelete, "/api/v1/tasks/42", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[task.DeleteTaskResponse](t, resp)
		assert.False(t, body.Success)
	})

	t.Run("removed task reports success=true", func(t *testing.T) {
		port := &stubTaskPort{deleted: &task.DeleteTaskResponse{Success: true}}
		m := newTestAPI(port, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodDelete, "/api/v1/tasks/1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[task.DeleteTaskResponse](t, resp)
		assert.True(t, body.Success)
	})
}

func TestAPI_ToggleTask(t *testing.T) {
	port := &stubTaskPort{task: &task.TaskResponse{ID: 1, Title: "x", Completed: true}}
	m := newTestAPI(port, &stubActivityPort{})

	resp := doRequest(t, m, http.MethodPost, "/api/v1/tasks/1/toggle", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[task.TaskResponse](t, resp)
	assert.True(t, body.Completed)
}

func TestAPI_ListCategories(t *testing.T) {
	t.Run("categories returned", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{categories: []string{"home", "work"}}, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/categories", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[CategoriesResponse](t, resp)
		assert.Equal(t, []string{"home", "work"}, body.Categories)
	})

	t.Run("nil categories render as empty array", func(t *testing.T) {
		m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})

		resp := doRequest(t, m, http.MethodGet, "/api/v1/categories", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody[CategoriesResponse](t, resp)
		assert.NotNil(t, body.Categories)
		assert.Empty(t, body.Categories)
	})
}

func TestAPI_RecentActivity(t *testing.T) {
	feed := &activity.RecentResponse{
		Entries: []activity.Entry{{ID: "e1", Type: "task_created", TaskID: 1, Message: "Task \"x\" created with low priority"}},
		Total:   1,
	}
	m := newTestAPI(&stubTaskPort{}, &stubActivityPort{resp: feed})

	resp := doRequest(t, m, http.MethodGet, "/api/v1/activity?limit=10", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[activity.RecentResponse](t, resp)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "task_created", body.Entries[0].Type)
}

func TestAPI_Health(t *testing.T) {
	m := newTestAPI(&stubTaskPort{}, &stubActivityPort{})

	resp := doRequest(t, m, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[HealthResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
}

// Package activity keeps a bounded in-memory feed of task mutations,
// populated from domain events and queryable via a read service.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/taskboard/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
)

const defaultMaxEntries = 100

// Entry is one recorded task mutation.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	TaskID    uint      `json:"task_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RecentRequest is the request for the recent service. Limit 0 means the
// full retained feed.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// RecentResponse is the response containing entries, newest first.
type RecentResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

// ActivityModule consumes task events and serves the activity feed.
type ActivityModule struct {
	entries    []Entry
	maxEntries int
	mu         sync.RWMutex
}

var _ mono.Module = (*ActivityModule)(nil)
var _ mono.ServiceProviderModule = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule retaining up to maxEntries entries.
// maxEntries <= 0 selects the default.
func NewModule(maxEntries int) *ActivityModule {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &ActivityModule{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// RegisterServices registers the recent read service.
func (m *ActivityModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "recent", json.Unmarshal, json.Marshal, m.recent,
	); err != nil {
		return fmt.Errorf("failed to register recent service: %w", err)
	}

	log.Printf("[activity] Registered services: services.activity.recent")
	return nil
}

// RegisterEventConsumers subscribes to the task mutation events.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskUpdatedV1, m.handleTaskUpdated, m); err != nil {
		return fmt.Errorf("failed to register TaskUpdated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskToggledV1, m.handleTaskToggled, m); err != nil {
		return fmt.Errorf("failed to register TaskToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[activity] Registered event consumers: TaskCreated, TaskUpdated, TaskToggled, TaskDeleted")
	return nil
}

func (m *ActivityModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.record("task_created", event.TaskID, fmt.Sprintf("Task %q created with %s priority", event.Title, event.Priority), event.CreatedAt)
	return nil
}

func (m *ActivityModule) handleTaskUpdated(_ context.Context, event events.TaskUpdatedEvent, _ *mono.Msg) error {
	m.record("task_updated", event.TaskID, fmt.Sprintf("Task %q updated", event.Title), event.UpdatedAt)
	return nil
}

func (m *ActivityModule) handleTaskToggled(_ context.Context, event events.TaskToggledEvent, _ *mono.Msg) error {
	state := "pending"
	if event.Completed {
		state = "completed"
	}
	m.record("task_toggled", event.TaskID, fmt.Sprintf("Task %d marked %s", event.TaskID, state), event.ToggledAt)
	return nil
}

func (m *ActivityModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	m.record("task_deleted", event.TaskID, fmt.Sprintf("Task %d deleted", event.TaskID), event.DeletedAt)
	return nil
}

// recent handles the activity.recent service request, returning entries
// newest first.
func (m *ActivityModule) recent(_ context.Context, req RecentRequest, _ *mono.Msg) (RecentResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	limit := req.Limit
	if limit <= 0 || limit > len(m.entries) {
		limit = len(m.entries)
	}

	entries := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, m.entries[i])
	}

	return RecentResponse{
		Entries: entries,
		Total:   len(m.entries),
	}, nil
}

// record appends an entry, evicting the oldest beyond the retention bound.
func (m *ActivityModule) record(entryType string, taskID uint, message string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, Entry{
		ID:        uuid.New().String(),
		Type:      entryType,
		TaskID:    taskID,
		Message:   message,
		Timestamp: ts,
	})
	if len(m.entries) > m.maxEntries {
		m.entries = m.entries[len(m.entries)-m.maxEntries:]
	}
}

func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started - listening for task events")
	return nil
}

func (m *ActivityModule) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

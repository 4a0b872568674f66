package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/example/taskboard/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityModule_RecordsTaskEvents(t *testing.T) {
	m := NewModule(0)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID: 1, Title: "Buy milk", Priority: "low", CreatedAt: now,
	}, nil))
	require.NoError(t, m.handleTaskToggled(ctx, events.TaskToggledEvent{
		TaskID: 1, Completed: true, ToggledAt: now,
	}, nil))
	require.NoError(t, m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
		TaskID: 1, DeletedAt: now,
	}, nil))

	resp, err := m.recent(ctx, RecentRequest{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Entries, 3)

	// Newest first
	assert.Equal(t, "task_deleted", resp.Entries[0].Type)
	assert.Equal(t, "task_toggled", resp.Entries[1].Type)
	assert.Equal(t, "task_created", resp.Entries[2].Type)

	assert.Contains(t, resp.Entries[2].Message, "Buy milk")
	assert.Contains(t, resp.Entries[1].Message, "completed")
	assert.NotEmpty(t, resp.Entries[0].ID)
}

func TestActivityModule_Limit(t *testing.T) {
	m := NewModule(0)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, m.handleTaskCreated(ctx, events.TaskCreatedEvent{
			TaskID: uint(i), Title: fmt.Sprintf("task %d", i), Priority: "medium", CreatedAt: time.Now().UTC(),
		}, nil))
	}

	t.Run("limit caps the returned entries", func(t *testing.T) {
		resp, err := m.recent(ctx, RecentRequest{Limit: 2}, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Total)
		require.Len(t, resp.Entries, 2)
		assert.Equal(t, uint(5), resp.Entries[0].TaskID)
		assert.Equal(t, uint(4), resp.Entries[1].TaskID)
	})

	t.Run("zero limit returns the full feed", func(t *testing.T) {
		resp, err := m.recent(ctx, RecentRequest{}, nil)
		require.NoError(t, err)
		assert.Len(t, resp.Entries, 5)
	})

	t.Run("oversized limit is clamped", func(t *testing.T) {
		resp, err := m.recent(ctx, RecentRequest{Limit: 50}, nil)
		require.NoError(t, err)
		assert.Len(t, resp.Entries, 5)
	})
}

func TestActivityModule_Eviction(t *testing.T) {
	m := NewModule(3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		m.record("task_updated", uint(i), fmt.Sprintf("Task %d updated", i), time.Now().UTC())
	}

	resp, err := m.recent(ctx, RecentRequest{}, nil)
	require.NoError(t, err)

	// Only the newest three survive.
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, uint(5), resp.Entries[0].TaskID)
	assert.Equal(t, uint(3), resp.Entries[2].TaskID)
}

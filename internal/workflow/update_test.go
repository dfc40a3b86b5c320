package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

func updateFake() *fakeAPI {
	fake := hierarchyFake()
	fake.tasks = map[string]model.Task{
		"abc123": {ID: "abc123", Name: "Ship release", Status: model.TaskStatus{Status: "open"}},
	}
	return fake
}

func TestUpdateFlow(t *testing.T) {
	t.Run("full happy path on due_date", func(t *testing.T) {
		fake := updateFake()
		e := newTestEngine(fake)

		replies := send(e, "update task")
		require.Equal(t, []string{"Let's update a task. Please provide the task ID:"}, replies)

		replies = send(e, "abc123")
		require.Len(t, replies, 1)
		menu := replies[0]
		assert.Contains(t, menu, "Found task: Ship release")
		assert.Contains(t, menu, "1. name")
		assert.Contains(t, menu, "2. description")
		assert.Contains(t, menu, "3. due_date")
		assert.Contains(t, menu, "4. status")

		replies = send(e, "3")
		require.Equal(t, []string{"Enter new due_date (YYYY-MM-DD format) or 'cancel' to abort:"}, replies)

		replies = send(e, "2025-01-01")
		require.Len(t, replies, 1)
		assert.Contains(t, replies[0], "Field: due_date")
		assert.Contains(t, replies[0], "New value: 2025-01-01")

		replies = send(e, "confirm")
		require.Equal(t, []string{"Task updated successfully!"}, replies)

		require.Len(t, fake.updateCalls, 1)
		assert.Equal(t, "abc123", fake.updateCalls[0].taskID)
		assert.Equal(t, map[string]string{"due_date": "2025-01-01"}, fake.updateCalls[0].fields)
		assert.Equal(t, 0, e.sessions.Len())
	})

	t.Run("unknown task ID re-prompts and the draft survives", func(t *testing.T) {
		fake := updateFake()
		e := newTestEngine(fake)

		send(e, "update task")
		replies := send(e, "nope")
		assert.Equal(t, []string{"Failed to fetch task: HTTP 404: Task not found"}, replies)

		// Same draft still waiting; a valid ID works next.
		replies = send(e, "abc123")
		assert.Contains(t, replies[0], "Found task: Ship release")
	})

	t.Run("field selection validation", func(t *testing.T) {
		fake := updateFake()
		e := newTestEngine(fake)

		send(e, "update task")
		send(e, "abc123")

		replies := send(e, "name")
		assert.Equal(t, []string{"Please enter a valid number, or 'cancel' to abort."}, replies)

		replies = send(e, "9")
		assert.Equal(t, []string{"Please enter a number between 1 and 4, or 'cancel' to abort."}, replies)

		replies = send(e, "1")
		assert.Equal(t, []string{"Enter new name or 'cancel' to abort:"}, replies)
	})

	t.Run("status update passes through verbatim", func(t *testing.T) {
		fake := updateFake()
		e := newTestEngine(fake)

		send(e, "update task")
		send(e, "abc123")
		send(e, "4")
		send(e, "in review")
		send(e, "confirm")

		require.Len(t, fake.updateCalls, 1)
		assert.Equal(t, map[string]string{"status": "in review"}, fake.updateCalls[0].fields)
	})

	t.Run("remote failure aborts", func(t *testing.T) {
		fake := updateFake()
		fake.errs["UpdateTask"] = errors.New("HTTP 403: no permission")
		e := newTestEngine(fake)

		send(e, "update task")
		send(e, "abc123")
		send(e, "1")
		send(e, "New name")
		replies := send(e, "confirm")

		assert.Equal(t, []string{"Failed to update task: HTTP 403: no permission"}, replies)
		assert.Equal(t, 0, e.sessions.Len())
	})
}

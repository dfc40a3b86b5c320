package workflow

import (
	"context"
	"fmt"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

func (e *Engine) startDelete(ctx context.Context, userID string) []string {
	e.sessions.Set(userID, &DeleteDraft{Step: stepTaskID})
	return []string{"Let's delete a task. Please provide the task ID:"}
}

// handleDelete advances the task-deletion machine one message. Deletion is
// irreversible, so confirmation requires the literal uppercase word DELETE
// rather than the usual 'confirm'.
func (e *Engine) handleDelete(ctx context.Context, userID string, d *DeleteDraft, text string) []string {
	switch d.Step {
	case stepTaskID:
		task, err := e.client.GetTask(ctx, text)
		if err != nil {
			return []string{fmt.Sprintf("Failed to fetch task: %s", err)}
		}

		d.TaskID = text
		d.TaskName = displayName(task.Name)
		d.Step = stepConfirm
		e.sessions.Set(userID, d)

		return []string{fmt.Sprintf(
			"⚠️ WARNING: You are about to DELETE this task:\n"+
				"ID: %s\n"+
				"Name: %s\n\n"+
				"This action cannot be undone!\n\n"+
				"Type 'DELETE' to confirm deletion or 'cancel' to abort.",
			d.TaskID, d.TaskName,
		)}

	case stepConfirm:
		if text != "DELETE" {
			return []string{"Please type 'DELETE' to confirm or 'cancel' to abort."}
		}

		if err := e.client.DeleteTask(ctx, d.TaskID); err != nil {
			e.clearDraft(ctx, userID, KindDelete, model.OutcomeAborted)
			return []string{fmt.Sprintf("Failed to delete task: %s", err)}
		}
		e.clearDraft(ctx, userID, KindDelete, model.OutcomeCompleted)
		return []string{fmt.Sprintf("Task '%s' deleted successfully!", d.TaskName)}
	}
	return nil
}

package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

// updatableFields is the fixed field menu, in display order.
var updatableFields = []string{"name", "description", "due_date", "status"}

func (e *Engine) startUpdate(ctx context.Context, userID string) []string {
	e.sessions.Set(userID, &UpdateDraft{Step: stepTaskID})
	return []string{"Let's update a task. Please provide the task ID:"}
}

// handleUpdate advances the task-update machine one message.
func (e *Engine) handleUpdate(ctx context.Context, userID string, d *UpdateDraft, text string) []string {
	switch d.Step {
	case stepTaskID:
		task, err := e.client.GetTask(ctx, text)
		if err != nil {
			// Re-prompt for another ID; the draft survives.
			return []string{fmt.Sprintf("Failed to fetch task: %s", err)}
		}

		d.TaskID = text
		d.TaskName = displayName(task.Name)
		d.Step = stepFieldSelect
		e.sessions.Set(userID, d)

		var b strings.Builder
		fmt.Fprintf(&b, "Found task: %s\n\nAvailable fields to update:\n", d.TaskName)
		for i, field := range updatableFields {
			fmt.Fprintf(&b, "%d. %s\n", i+1, field)
		}
		b.WriteString("\nType the number of the field you want to update, or 'cancel' to abort.")
		return []string{b.String()}

	case stepFieldSelect:
		selection, err := strconv.Atoi(text)
		if err != nil {
			return []string{"Please enter a valid number, or 'cancel' to abort."}
		}
		if selection < 1 || selection > len(updatableFields) {
			return []string{fmt.Sprintf("Please enter a number between 1 and %d, or 'cancel' to abort.", len(updatableFields))}
		}

		d.SelectedField = updatableFields[selection-1]
		d.Step = stepFieldUpdate
		e.sessions.Set(userID, d)

		if d.SelectedField == "due_date" {
			return []string{"Enter new due_date (YYYY-MM-DD format) or 'cancel' to abort:"}
		}
		return []string{fmt.Sprintf("Enter new %s or 'cancel' to abort:", d.SelectedField)}

	case stepFieldUpdate:
		d.NewValue = text
		d.Step = stepConfirm
		e.sessions.Set(userID, d)
		return []string{fmt.Sprintf(
			"Please confirm update:\n"+
				"Task ID: %s\n"+
				"Field: %s\n"+
				"New value: %s\n\n"+
				"Type 'confirm' to update or 'cancel' to abort.",
			d.TaskID, d.SelectedField, d.NewValue,
		)}

	case stepConfirm:
		if !strings.EqualFold(text, "confirm") {
			return []string{"Please type 'confirm' to update or 'cancel' to abort."}
		}

		_, err := e.client.UpdateTask(ctx, d.TaskID, map[string]string{d.SelectedField: d.NewValue})
		if err != nil {
			e.clearDraft(ctx, userID, KindUpdate, model.OutcomeAborted)
			return []string{fmt.Sprintf("Failed to update task: %s", err)}
		}
		e.clearDraft(ctx, userID, KindUpdate, model.OutcomeCompleted)
		return []string{"Task updated successfully!"}
	}
	return nil
}

package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/clickup"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

func (e *Engine) createSelector() *Selector {
	return NewSelector(e.client, "Task creation")
}

func (e *Engine) startCreate(ctx context.Context, userID string) []string {
	e.sessions.Set(userID, &CreateDraft{Step: stepName})
	return []string{"Let's create a task. What is the task name?"}
}

// handleCreate advances the task-creation machine one message.
func (e *Engine) handleCreate(ctx context.Context, userID string, d *CreateDraft, text string) []string {
	switch d.Step {
	case stepName:
		d.Name = text
		d.Step = stepDescription
		e.sessions.Set(userID, d)
		return []string{"Great. Add a short description (or type 'skip')."}

	case stepDescription:
		if !strings.EqualFold(text, "skip") {
			d.Description = text
		}
		d.Step = stepDueDate
		e.sessions.Set(userID, d)
		return []string{"Optional: provide a due date (YYYY-MM-DD) or type 'skip'."}

	case stepDueDate:
		if !strings.EqualFold(text, "skip") {
			// Stored raw; validated at commit time.
			d.DueDate = text
		}
		d.Step = stepListSelection
		e.sessions.Set(userID, d)

		replies, ok := e.createSelector().Start(ctx, &d.Selector)
		if !ok {
			e.clearDraft(ctx, userID, KindCreate, model.OutcomeAborted)
		}
		return append([]string{"Now let's select where to create the task. Fetching your teams..."}, replies...)

	case stepListSelection:
		replies, result := e.createSelector().Handle(ctx, &d.Selector, text)
		switch result.Status {
		case SelectionAbort:
			e.clearDraft(ctx, userID, KindCreate, model.OutcomeAborted)
			return replies
		case SelectionDone:
			d.ListID = result.ListID
			d.ListPath = result.Path
			d.Step = stepConfirm
			e.sessions.Set(userID, d)
			return append(replies, createSummary(d))
		default:
			e.sessions.Set(userID, d)
			return replies
		}

	case stepConfirm:
		if !strings.EqualFold(text, "confirm") {
			return []string{"Please type 'confirm' to create or 'cancel' to abort."}
		}
		return e.commitCreate(ctx, userID, d)
	}
	return nil
}

func createSummary(d *CreateDraft) string {
	return fmt.Sprintf(
		"Please confirm task creation:\n"+
			"- Name: %s\n"+
			"- Description: %s\n"+
			"- Due date: %s\n"+
			"- Location: %s\n"+
			"Type 'confirm' to create or 'cancel' to abort.",
		d.Name, orDash(d.Description), orDash(d.DueDate), d.ListPath,
	)
}

// commitCreate issues the remote create call. A due date that is not a
// valid YYYY-MM-DD is dropped from the payload, and the user is told so.
func (e *Engine) commitCreate(ctx context.Context, userID string, d *CreateDraft) []string {
	dueDate := d.DueDate
	var notes []string
	if dueDate != "" {
		if _, err := time.Parse("2006-01-02", dueDate); err != nil {
			notes = append(notes, fmt.Sprintf("Note: due date %q is not in YYYY-MM-DD format and was ignored.", dueDate))
			dueDate = ""
		}
	}

	task, err := e.client.CreateTask(ctx, d.ListID, clickup.CreateTaskRequest{
		Name:        d.Name,
		Description: d.Description,
		DueDate:     dueDate,
	})
	if err != nil {
		e.clearDraft(ctx, userID, KindCreate, model.OutcomeAborted)
		return append(notes, fmt.Sprintf("Failed to create task: %s", err))
	}

	url := task.URL
	if url == "" {
		url = "-"
	}
	e.clearDraft(ctx, userID, KindCreate, model.OutcomeCompleted)
	return append(notes, fmt.Sprintf("Task created successfully. ID: %s URL: %s", displayID(task.ID), url))
}

package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

func (e *Engine) viewSelector() *Selector {
	return NewSelector(e.client, "Operation")
}

func (e *Engine) startViewing(ctx context.Context, userID, operation string) []string {
	d := &ViewDraft{Operation: operation, Step: stepListSelection}
	e.sessions.Set(userID, d)

	replies, ok := e.viewSelector().Start(ctx, &d.Selector)
	if !ok {
		e.clearDraft(ctx, userID, KindView, model.OutcomeAborted)
	}
	return append([]string{"Let's select where to view tasks from. Fetching your teams..."}, replies...)
}

func (e *Engine) startSearch(ctx context.Context, userID string) []string {
	e.sessions.Set(userID, &ViewDraft{Operation: OpSearch, Step: stepSearchQuery})
	return []string{"Let's search for tasks. What would you like to search for?"}
}

// handleView advances the view/list/search machine one message.
func (e *Engine) handleView(ctx context.Context, userID string, d *ViewDraft, text string) []string {
	switch d.Step {
	case stepSearchQuery:
		d.SearchQuery = text
		d.Step = stepConfirm
		e.sessions.Set(userID, d)
		return []string{fmt.Sprintf("Searching for tasks with query: '%s'. Type 'confirm' to search or 'cancel' to abort.", text)}

	case stepListSelection:
		replies, result := e.viewSelector().Handle(ctx, &d.Selector, text)
		switch result.Status {
		case SelectionAbort:
			e.clearDraft(ctx, userID, KindView, model.OutcomeAborted)
			return replies
		case SelectionDone:
			d.ListID = result.ListID
			d.Step = stepConfirm
			e.sessions.Set(userID, d)
			verb := "list"
			if d.Operation == OpView {
				verb = "browse"
			}
			return append(replies, fmt.Sprintf("Ready to %s tasks from: %s\nType 'confirm' to proceed or 'cancel' to abort.", verb, result.Path))
		default:
			e.sessions.Set(userID, d)
			return replies
		}

	case stepConfirm:
		if !strings.EqualFold(text, "confirm") {
			return []string{"Please type 'confirm' to proceed or 'cancel' to abort."}
		}
		switch d.Operation {
		case OpSearch:
			// The task service has no name-search endpoint; this remains a
			// deliberate stub rather than a half-working filter.
			e.clearDraft(ctx, userID, KindView, model.OutcomeCompleted)
			return []string{"Task search is not available: the task service does not support searching tasks by name."}
		case OpListTasks:
			return e.executeListTasks(ctx, userID, d)
		case OpView:
			return e.executeBrowseTasks(ctx, userID, d)
		}
		return nil

	case stepTaskSelection:
		selection, err := strconv.Atoi(text)
		if err != nil {
			return []string{"Please enter a valid number or 'cancel' to abort."}
		}
		if selection < 1 || selection > len(d.Tasks) {
			return []string{rangePrompt(len(d.Tasks))}
		}
		task := d.Tasks[selection-1]
		e.clearDraft(ctx, userID, KindView, model.OutcomeCompleted)
		return []string{renderTaskDetails(task)}
	}
	return nil
}

func (e *Engine) executeListTasks(ctx context.Context, userID string, d *ViewDraft) []string {
	tasks, err := e.client.GetTasksFromList(ctx, d.ListID, false)
	if err != nil {
		e.clearDraft(ctx, userID, KindView, model.OutcomeAborted)
		return []string{fmt.Sprintf("Failed to fetch tasks: %s", err)}
	}

	e.clearDraft(ctx, userID, KindView, model.OutcomeCompleted)
	if len(tasks) == 0 {
		return []string{"No tasks found in this list."}
	}
	return []string{renderTaskList(tasks, true)}
}

func (e *Engine) executeBrowseTasks(ctx context.Context, userID string, d *ViewDraft) []string {
	tasks, err := e.client.GetTasksFromList(ctx, d.ListID, false)
	if err != nil {
		e.clearDraft(ctx, userID, KindView, model.OutcomeAborted)
		return []string{fmt.Sprintf("Failed to fetch tasks: %s", err)}
	}
	if len(tasks) == 0 {
		e.clearDraft(ctx, userID, KindView, model.OutcomeCompleted)
		return []string{"No tasks found in this list."}
	}

	retained := tasks
	if len(retained) > taskListLimit {
		retained = retained[:taskListLimit]
	}
	d.Tasks = retained
	d.Step = stepTaskSelection
	e.sessions.Set(userID, d)

	listing := renderTaskList(tasks, false)
	return []string{listing + "\n\nType the number of the task you want to view in detail, or 'cancel' to abort."}
}

package workflow

import (
	"fmt"
	"strings"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

// taskListLimit caps how many tasks a listing or browse reply renders.
const taskListLimit = 20

// descriptionLimit caps description length in task listings.
const descriptionLimit = 100

// renderTaskList renders up to taskListLimit tasks. withDescriptions
// controls whether truncated descriptions appear (listing shows them,
// browsing for selection does not).
func renderTaskList(tasks []model.Task, withDescriptions bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks in this list (%d total):\n\n", len(tasks))

	shown := tasks
	if len(shown) > taskListLimit {
		shown = shown[:taskListLimit]
	}
	for i, task := range shown {
		fmt.Fprintf(&b, "%d. %s (ID: %s)\n", i+1, displayName(task.Name), displayID(task.ID))
		if withDescriptions && task.Description != "" {
			fmt.Fprintf(&b, "   Description: %s\n", truncate(task.Description, descriptionLimit))
		}
		fmt.Fprintf(&b, "   Status: %s\n", displayStatus(task.Status.Status))
		if task.DueDate != "" {
			fmt.Fprintf(&b, "   Due: %s\n", task.DueDate)
		}
		if withDescriptions {
			url := task.URL
			if url == "" {
				url = "N/A"
			}
			fmt.Fprintf(&b, "   URL: %s\n", url)
		}
		b.WriteString("\n")
	}

	if len(tasks) > taskListLimit {
		fmt.Fprintf(&b, "... and %d more tasks (showing first %d).\n", len(tasks)-taskListLimit, taskListLimit)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderTaskDetails renders the full detail view of one task, omitting any
// field that is absent.
func renderTaskDetails(task model.Task) string {
	var b strings.Builder
	b.WriteString("📋 **Task Details**\n\n")
	fmt.Fprintf(&b, "**Name:** %s\n", displayName(task.Name))
	fmt.Fprintf(&b, "**ID:** %s\n", displayID(task.ID))
	fmt.Fprintf(&b, "**Status:** %s\n", displayStatus(task.Status.Status))

	if task.Description != "" {
		fmt.Fprintf(&b, "**Description:**\n%s\n", task.Description)
	}
	if task.DueDate != "" {
		fmt.Fprintf(&b, "**Due Date:** %s\n", task.DueDate)
	}
	if task.Priority != nil && task.Priority.Priority != "" {
		fmt.Fprintf(&b, "**Priority:** %s\n", task.Priority.Priority)
	}
	if len(task.Assignees) > 0 {
		fmt.Fprintf(&b, "**Assignees:** %s\n", strings.Join(task.AssigneeNames(), ", "))
	}
	if len(task.Tags) > 0 {
		names := make([]string, 0, len(task.Tags))
		for _, tag := range task.Tags {
			names = append(names, tag.Name)
		}
		fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(names, ", "))
	}
	if task.URL != "" {
		fmt.Fprintf(&b, "**URL:** %s\n", task.URL)
	}

	created := task.DateCreated
	if created == "" {
		created = "Unknown"
	}
	fmt.Fprintf(&b, "\n**Created:** %s", created)
	if task.DateUpdated != "" {
		fmt.Fprintf(&b, "\n**Last Updated:** %s", task.DateUpdated)
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func displayName(name string) string {
	if name == "" {
		return "Unnamed"
	}
	return name
}

func displayID(id string) string {
	if id == "" {
		return "?"
	}
	return id
}

func displayStatus(status string) string {
	if status == "" {
		return "Unknown"
	}
	return status
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

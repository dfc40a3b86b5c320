// Package workflow implements the per-user conversational state machines:
// one draft per workflow kind, advanced one inbound message at a time.
package workflow

import (
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

// Workflow kinds, used for routing, metrics and audit events.
const (
	KindCreate = "create"
	KindView   = "view"
	KindUpdate = "update"
	KindDelete = "delete"
	KindReport = "report"
)

// CreateDraft holds the state of one task-creation conversation.
// Steps: name -> description -> due_date -> list_selection -> confirm.
type CreateDraft struct {
	Step        string
	Name        string
	Description string
	DueDate     string // raw user text; validated only at commit time
	ListID      string
	ListPath    string
	Selector    SelectorState
}

// Kind implements session.Draft.
func (*CreateDraft) Kind() string { return KindCreate }

// View operations share one draft and one machine.
const (
	OpView      = "view"
	OpListTasks = "list_tasks"
	OpSearch    = "search"
)

// ViewDraft holds the state of a view, list or search conversation.
// Steps: (search_query) -> list_selection -> confirm -> (task_selection).
type ViewDraft struct {
	Operation   string
	Step        string
	ListID      string
	SearchQuery string
	Tasks       []model.Task // retained for numbered selection, capped at 20
	Selector    SelectorState
}

// Kind implements session.Draft.
func (*ViewDraft) Kind() string { return KindView }

// UpdateDraft holds the state of a task-update conversation.
// Steps: task_id -> field_selection -> field_update -> confirm.
type UpdateDraft struct {
	Step          string
	TaskID        string
	TaskName      string
	SelectedField string
	NewValue      string
}

// Kind implements session.Draft.
func (*UpdateDraft) Kind() string { return KindUpdate }

// DeleteDraft holds the state of a task-deletion conversation.
// Steps: task_id -> confirm.
type DeleteDraft struct {
	Step     string
	TaskID   string
	TaskName string
}

// Kind implements session.Draft.
func (*DeleteDraft) Kind() string { return KindDelete }

// Report operations.
const (
	OpDailyReport  = "daily_report"
	OpWeeklyReport = "weekly_report"
	OpOverdue      = "overdue"
	OpCompleted    = "completed"
	OpAnalytics    = "analytics"
	OpSummary      = "summary"
)

// ReportDraft holds the state of a reporting conversation. Reports only
// need a team, so the draft carries a team-only selection instead of the
// full hierarchy walk.
type ReportDraft struct {
	Operation string
	Step      string // team_selection
	Teams     []model.ContainerItem
	TeamID    string
	TeamName  string
}

// Kind implements session.Draft.
func (*ReportDraft) Kind() string { return KindReport }

// Step names shared across drafts.
const (
	stepName          = "name"
	stepDescription   = "description"
	stepDueDate       = "due_date"
	stepListSelection = "list_selection"
	stepConfirm       = "confirm"
	stepSearchQuery   = "search_query"
	stepTaskSelection = "task_selection"
	stepTaskID        = "task_id"
	stepFieldSelect   = "field_selection"
	stepFieldUpdate   = "field_update"
	stepTeamSelection = "team_selection"
)

package workflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/report"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/metrics"
)

func (e *Engine) reportStarter(operation string) func(ctx context.Context, userID string) []string {
	return func(ctx context.Context, userID string) []string {
		return e.startReport(ctx, userID, operation)
	}
}

func (e *Engine) startReport(ctx context.Context, userID, operation string) []string {
	d := &ReportDraft{Operation: operation, Step: stepTeamSelection}
	e.sessions.Set(userID, d)

	intro := "Let's generate a report. First, select your team..."

	teams, err := e.client.GetTeams(ctx)
	if err != nil {
		e.clearDraft(ctx, userID, KindReport, model.OutcomeAborted)
		return []string{intro, fmt.Sprintf("Failed to fetch teams: %s", err)}
	}
	if len(teams) == 0 {
		e.clearDraft(ctx, userID, KindReport, model.OutcomeAborted)
		return []string{intro, "No teams found. Operation cancelled."}
	}

	d.Teams = teams
	e.sessions.Set(userID, d)
	return []string{intro, renderTeamMenu(teams)}
}

// handleReport advances the reporting machine one message. After the team
// is chosen the report runs in one shot; no further interaction happens.
func (e *Engine) handleReport(ctx context.Context, userID string, d *ReportDraft, text string) []string {
	if d.Step != stepTeamSelection {
		return nil
	}

	selection, err := strconv.Atoi(text)
	if err != nil {
		return []string{"Please enter a valid number or 'cancel' to abort."}
	}
	if selection < 1 || selection > len(d.Teams) {
		return []string{rangePrompt(len(d.Teams))}
	}

	team := d.Teams[selection-1]
	d.TeamID = team.ID
	d.TeamName = team.Name

	return e.executeReport(ctx, userID, d)
}

// executeReport fetches the team's full history (closed items included, so
// aggregation sees completions) and renders the requested report. The date
// window is anchored to the wall clock at team selection.
func (e *Engine) executeReport(ctx context.Context, userID string, d *ReportDraft) []string {
	now := e.now().UTC()
	progress := reportProgress(d.Operation, d.TeamName)

	tasks, err := e.client.GetTeamTasks(ctx, d.TeamID, true)
	if err != nil {
		e.clearDraft(ctx, userID, KindReport, model.OutcomeAborted)
		return []string{progress, fmt.Sprintf("Failed to fetch tasks: %s", err)}
	}

	var body string
	switch d.Operation {
	case OpDailyReport:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		body = report.Daily(tasks, start, now)
	case OpWeeklyReport:
		body = report.Weekly(tasks, now.AddDate(0, 0, -7), now)
	case OpOverdue:
		body = report.Overdue(tasks, now)
	case OpCompleted:
		body = report.Completed(tasks, now.AddDate(0, 0, -7), now)
	case OpAnalytics:
		body = report.Analytics(tasks)
		// The roster comes from a separate endpoint; a failure there
		// degrades the report instead of aborting it.
		if members, err := e.client.GetTeamMembers(ctx, d.TeamID); err == nil {
			body += fmt.Sprintf("\n\n**👥 Team roster:** %d members", len(members))
		}
	case OpSummary:
		body = report.Summary(tasks, now)
	}

	metrics.ReportsGenerated.WithLabelValues(d.Operation).Inc()
	e.clearDraft(ctx, userID, KindReport, model.OutcomeCompleted)
	return []string{progress, body}
}

func reportProgress(operation, teamName string) string {
	switch operation {
	case OpDailyReport:
		return fmt.Sprintf("📊 Generating daily report for %s...", teamName)
	case OpWeeklyReport:
		return fmt.Sprintf("📊 Generating weekly report for %s...", teamName)
	case OpOverdue:
		return fmt.Sprintf("⚠️ Finding overdue tasks for %s...", teamName)
	case OpCompleted:
		return fmt.Sprintf("✅ Finding completed tasks for %s...", teamName)
	case OpAnalytics:
		return fmt.Sprintf("📈 Generating team analytics for %s...", teamName)
	case OpSummary:
		return fmt.Sprintf("📋 Generating task summary for %s...", teamName)
	}
	return ""
}

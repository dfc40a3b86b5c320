package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

const exampleLimit = 5

// Daily renders the daily report for the window [start, end], where start is
// the beginning of the current day and end is now.
func Daily(tasks []model.Task, start, end time.Time) string {
	var createdToday, completedToday, overdue []model.Task
	active := 0

	for _, task := range tasks {
		created, createdOK := ParseDate(task.DateCreated)
		updated, updatedOK := ParseDate(task.DateUpdated)
		due, dueOK := ParseDate(task.DueDate)
		closed := IsClosed(task.Status.Status)

		if createdOK && sameDay(created, start) {
			createdToday = append(createdToday, task)
		}
		if closed && updatedOK && sameDay(updated, start) {
			completedToday = append(completedToday, task)
		}
		if dueOK && due.Before(end) && !closed {
			overdue = append(overdue, task)
		}
		if !closed {
			active++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Daily Report - %s**\n\n", start.Format("2006-01-02"))
	b.WriteString("**📈 Summary:**\n")
	fmt.Fprintf(&b, "• Tasks created today: %d\n", len(createdToday))
	fmt.Fprintf(&b, "• Tasks completed today: %d\n", len(completedToday))
	fmt.Fprintf(&b, "• Overdue tasks: %d\n", len(overdue))
	fmt.Fprintf(&b, "• Total active tasks: %d\n\n", active)

	if len(createdToday) > 0 {
		fmt.Fprintf(&b, "**🆕 New Tasks (%d):**\n", len(createdToday))
		writeTaskExamples(&b, createdToday)
		b.WriteString("\n")
	}

	if len(completedToday) > 0 {
		fmt.Fprintf(&b, "**✅ Completed Today (%d):**\n", len(completedToday))
		writeTaskExamples(&b, completedToday)
		b.WriteString("\n")
	}

	if len(overdue) > 0 {
		fmt.Fprintf(&b, "**⚠️ Overdue Tasks (%d):**\n", len(overdue))
		writeOverdueExamples(&b, overdue, end)
	}

	return b.String()
}

// Weekly renders the weekly report for the window [start, end], typically
// the last seven days.
func Weekly(tasks []model.Task, start, end time.Time) string {
	var createdThisWeek, completedThisWeek, overdue []model.Task

	for _, task := range tasks {
		created, createdOK := ParseDate(task.DateCreated)
		updated, updatedOK := ParseDate(task.DateUpdated)
		due, dueOK := ParseDate(task.DueDate)
		closed := IsClosed(task.Status.Status)

		if createdOK && inWindow(created, start, end) {
			createdThisWeek = append(createdThisWeek, task)
		}
		if closed && updatedOK && inWindow(updated, start, end) {
			completedThisWeek = append(completedThisWeek, task)
		}
		if dueOK && due.Before(end) && !closed {
			overdue = append(overdue, task)
		}
	}

	rate := float64(len(completedThisWeek)) / float64(max(len(createdThisWeek), 1)) * 100

	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Weekly Report - %s to %s**\n\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	b.WriteString("**📈 Summary:**\n")
	fmt.Fprintf(&b, "• Tasks created this week: %d\n", len(createdThisWeek))
	fmt.Fprintf(&b, "• Tasks completed this week: %d\n", len(completedThisWeek))
	fmt.Fprintf(&b, "• Overdue tasks: %d\n", len(overdue))
	fmt.Fprintf(&b, "• Completion rate: %.1f%%\n\n", rate)

	if ranking := topPerformers(completedThisWeek, 3); len(ranking) > 0 {
		b.WriteString("**🏆 Top Performers (Tasks Completed):**\n")
		for _, entry := range ranking {
			fmt.Fprintf(&b, "• %s: %d tasks\n", entry.name, entry.count)
		}
		b.WriteString("\n")
	}

	if len(overdue) > 0 {
		fmt.Fprintf(&b, "**⚠️ Overdue Tasks (%d):**\n", len(overdue))
		writeOverdueExamples(&b, overdue, end)
	}

	return b.String()
}

// overdueTask pairs a task with how many whole days overdue it is.
type overdueTask struct {
	task model.Task
	days int
}

// Overdue renders the overdue report: every open task due strictly before
// now, ranked by days overdue and split into severity bands.
func Overdue(tasks []model.Task, now time.Time) string {
	var overdue []overdueTask
	for _, task := range tasks {
		due, ok := ParseDate(task.DueDate)
		if !ok || IsClosed(task.Status.Status) || !due.Before(now) {
			continue
		}
		overdue = append(overdue, overdueTask{task: task, days: daysBetween(due, now)})
	}

	sort.SliceStable(overdue, func(i, j int) bool { return overdue[i].days > overdue[j].days })

	var b strings.Builder
	b.WriteString("⚠️ **Overdue Tasks Report**\n\n")
	fmt.Fprintf(&b, "**Total Overdue Tasks: %d**\n\n", len(overdue))

	if len(overdue) == 0 {
		b.WriteString("🎉 **Great job! No overdue tasks found.**")
		return b.String()
	}

	// Severity bands partition the overdue set: critical > 7 days,
	// urgent 3 < d <= 7, recent d <= 3.
	var critical, urgent, recent []overdueTask
	for _, o := range overdue {
		switch {
		case o.days > 7:
			critical = append(critical, o)
		case o.days > 3:
			urgent = append(urgent, o)
		default:
			recent = append(recent, o)
		}
	}

	writeBand(&b, critical, "🚨 **Critical (%d tasks - Over 7 days overdue):**\n")
	writeBand(&b, urgent, "⚠️ **Urgent (%d tasks - 3-7 days overdue):**\n")
	writeBand(&b, recent, "📅 **Recent (%d tasks - 1-3 days overdue):**\n")

	return strings.TrimRight(b.String(), "\n")
}

// Completed renders closed tasks whose update timestamp falls in
// [start, end], most recent first.
func Completed(tasks []model.Task, start, end time.Time) string {
	type completedTask struct {
		task    model.Task
		updated time.Time
	}
	var completed []completedTask

	for _, task := range tasks {
		updated, ok := ParseDate(task.DateUpdated)
		if !ok || !IsClosed(task.Status.Status) || !inWindow(updated, start, end) {
			continue
		}
		completed = append(completed, completedTask{task: task, updated: updated})
	}

	sort.SliceStable(completed, func(i, j int) bool { return completed[i].updated.After(completed[j].updated) })

	var b strings.Builder
	b.WriteString("✅ **Completed Tasks Report**\n\n")
	fmt.Fprintf(&b, "**Period:** %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Total Completed:** %d\n\n", len(completed))

	if len(completed) == 0 {
		b.WriteString("No tasks completed in this period.")
		return b.String()
	}

	b.WriteString("**📋 Recent Completions:**\n")
	shown := completed
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, c := range shown {
		assignees := strings.Join(c.task.AssigneeNames(), ", ")
		if assignees == "" {
			assignees = "Unassigned"
		}
		fmt.Fprintf(&b, "• %s - %s (%s)\n", taskName(c.task), assignees, c.updated.Format("2006-01-02"))
	}
	if len(completed) > 10 {
		fmt.Fprintf(&b, "... and %d more\n", len(completed)-10)
	}

	return strings.TrimRight(b.String(), "\n")
}

// Analytics renders team-wide statistics over the whole task collection:
// completion rate, status and priority histograms, per-assignee performance.
func Analytics(tasks []model.Task) string {
	total := len(tasks)
	completed := 0
	for _, task := range tasks {
		if IsClosed(task.Status.Status) {
			completed++
		}
	}
	active := total - completed
	rate := float64(completed) / float64(max(total, 1)) * 100

	var b strings.Builder
	b.WriteString("📈 **Team Analytics Report**\n\n")
	b.WriteString("**📊 Overall Statistics:**\n")
	fmt.Fprintf(&b, "• Total tasks: %d\n", total)
	fmt.Fprintf(&b, "• Completed tasks: %d\n", completed)
	fmt.Fprintf(&b, "• Active tasks: %d\n", active)
	fmt.Fprintf(&b, "• Completion rate: %.1f%%\n\n", rate)

	statusCounts := make(map[string]int)
	for _, task := range tasks {
		label := task.Status.Status
		if label == "" {
			label = "Unknown"
		}
		statusCounts[label]++
	}
	if len(statusCounts) > 0 {
		b.WriteString("**📋 Task Status Breakdown:**\n")
		for _, entry := range rankedCounts(statusCounts) {
			pct := float64(entry.count) / float64(max(total, 1)) * 100
			fmt.Fprintf(&b, "• %s: %d (%.1f%%)\n", entry.name, entry.count, pct)
		}
		b.WriteString("\n")
	}

	type assigneeStat struct {
		total     int
		completed int
	}
	stats := make(map[string]*assigneeStat)
	record := func(name string, closed bool) {
		st, ok := stats[name]
		if !ok {
			st = &assigneeStat{}
			stats[name] = st
		}
		st.total++
		if closed {
			st.completed++
		}
	}
	for _, task := range tasks {
		closed := IsClosed(task.Status.Status)
		if len(task.Assignees) == 0 {
			record("Unassigned", closed)
			continue
		}
		for _, a := range task.Assignees {
			record(a.Username, closed)
		}
	}
	if len(stats) > 0 {
		b.WriteString("**👥 Team Performance:**\n")
		names := make([]string, 0, len(stats))
		for name := range stats {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if stats[names[i]].completed != stats[names[j]].completed {
				return stats[names[i]].completed > stats[names[j]].completed
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			st := stats[name]
			completionRate := float64(st.completed) / float64(max(st.total, 1)) * 100
			fmt.Fprintf(&b, "• %s: %d/%d (%.1f%%)\n", name, st.completed, st.total, completionRate)
		}
		b.WriteString("\n")
	}

	priorityCounts := make(map[string]int)
	for _, task := range tasks {
		label := "Normal"
		if task.Priority != nil && task.Priority.Priority != "" {
			label = task.Priority.Priority
		}
		priorityCounts[label]++
	}
	if len(priorityCounts) > 0 {
		b.WriteString("**⚡ Priority Distribution:**\n")
		for _, entry := range rankedCounts(priorityCounts) {
			pct := float64(entry.count) / float64(max(total, 1)) * 100
			fmt.Fprintf(&b, "• %s: %d (%.1f%%)\n", entry.name, entry.count, pct)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// Summary renders the quick overview: counts plus upcoming deadlines
// (open tasks due within the next seven days) and overdue tasks.
func Summary(tasks []model.Task, now time.Time) string {
	total := len(tasks)
	completed := 0
	for _, task := range tasks {
		if IsClosed(task.Status.Status) {
			completed++
		}
	}
	active := total - completed

	var upcoming, overdue []overdueTask
	for _, task := range tasks {
		due, ok := ParseDate(task.DueDate)
		if !ok || IsClosed(task.Status.Status) {
			continue
		}
		days := daysBetween(now, due)
		switch {
		case days < 0:
			overdue = append(overdue, overdueTask{task: task, days: -days})
		case days <= 7:
			upcoming = append(upcoming, overdueTask{task: task, days: days})
		}
	}

	var b strings.Builder
	b.WriteString("📋 **Task Summary Report**\n\n")
	b.WriteString("**📊 Quick Overview:**\n")
	fmt.Fprintf(&b, "• Total tasks: %d\n", total)
	fmt.Fprintf(&b, "• Active tasks: %d\n", active)
	fmt.Fprintf(&b, "• Completed tasks: %d\n\n", completed)

	if len(upcoming) > 0 {
		b.WriteString("**📅 Upcoming Deadlines (Next 7 Days):**\n")
		sort.SliceStable(upcoming, func(i, j int) bool { return upcoming[i].days < upcoming[j].days })
		shown := upcoming
		if len(shown) > exampleLimit {
			shown = shown[:exampleLimit]
		}
		for _, u := range shown {
			fmt.Fprintf(&b, "• %s - Due in %d days\n", taskName(u.task), u.days)
		}
		if len(upcoming) > exampleLimit {
			fmt.Fprintf(&b, "... and %d more\n", len(upcoming)-exampleLimit)
		}
		b.WriteString("\n")
	}

	if len(overdue) > 0 {
		fmt.Fprintf(&b, "**⚠️ Overdue Tasks (%d):**\n", len(overdue))
		sort.SliceStable(overdue, func(i, j int) bool { return overdue[i].days > overdue[j].days })
		shown := overdue
		if len(shown) > exampleLimit {
			shown = shown[:exampleLimit]
		}
		for _, o := range shown {
			fmt.Fprintf(&b, "• %s - %d days overdue\n", taskName(o.task), o.days)
		}
		if len(overdue) > exampleLimit {
			fmt.Fprintf(&b, "... and %d more\n", len(overdue)-exampleLimit)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func taskName(t model.Task) string {
	if t.Name == "" {
		return "Unnamed"
	}
	return t.Name
}

func writeTaskExamples(b *strings.Builder, tasks []model.Task) {
	shown := tasks
	if len(shown) > exampleLimit {
		shown = shown[:exampleLimit]
	}
	for _, task := range shown {
		id := task.ID
		if id == "" {
			id = "?"
		}
		fmt.Fprintf(b, "• %s (ID: %s)\n", taskName(task), id)
	}
	if len(tasks) > exampleLimit {
		fmt.Fprintf(b, "... and %d more\n", len(tasks)-exampleLimit)
	}
}

func writeOverdueExamples(b *strings.Builder, tasks []model.Task, end time.Time) {
	shown := tasks
	if len(shown) > exampleLimit {
		shown = shown[:exampleLimit]
	}
	for _, task := range shown {
		days := 0
		if due, ok := ParseDate(task.DueDate); ok {
			days = daysBetween(due, end)
		}
		fmt.Fprintf(b, "• %s - %d days overdue\n", taskName(task), days)
	}
	if len(tasks) > exampleLimit {
		fmt.Fprintf(b, "... and %d more\n", len(tasks)-exampleLimit)
	}
}

func writeBand(b *strings.Builder, band []overdueTask, header string) {
	if len(band) == 0 {
		return
	}
	fmt.Fprintf(b, header, len(band))
	shown := band
	if len(shown) > exampleLimit {
		shown = shown[:exampleLimit]
	}
	for _, o := range shown {
		fmt.Fprintf(b, "• %s - %d days overdue\n", taskName(o.task), o.days)
	}
	if len(band) > exampleLimit {
		fmt.Fprintf(b, "... and %d more\n", len(band)-exampleLimit)
	}
	b.WriteString("\n")
}

type rankedCount struct {
	name  string
	count int
}

func rankedCounts(counts map[string]int) []rankedCount {
	out := make([]rankedCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, rankedCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}

func topPerformers(completed []model.Task, limit int) []rankedCount {
	counts := make(map[string]int)
	for _, task := range completed {
		for _, a := range task.Assignees {
			name := a.Username
			if name == "" {
				name = "Unassigned"
			}
			counts[name]++
		}
	}
	ranking := rankedCounts(counts)
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

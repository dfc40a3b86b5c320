package model

// TaskStatus is the nested status object on the ClickUp wire format.
type TaskStatus struct {
	Status string `json:"status"`
}

// TaskPriority is the nested priority object on the ClickUp wire format.
type TaskPriority struct {
	Priority string `json:"priority"`
}

// Assignee is a user assigned to a task.
type Assignee struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
}

// Tag is a label attached to a task.
type Tag struct {
	Name string `json:"name"`
}

// Task mirrors the ClickUp task shape the bot consumes. Date fields arrive
// as strings in one of three formats: millisecond epoch, ISO-8601, or bare
// YYYY-MM-DD. The report aggregator normalizes them before comparison.
type Task struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      TaskStatus    `json:"status"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Assignees   []Assignee    `json:"assignees,omitempty"`
	Tags        []Tag         `json:"tags,omitempty"`
	DueDate     string        `json:"due_date,omitempty"`
	DateCreated string        `json:"date_created,omitempty"`
	DateUpdated string        `json:"date_updated,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// AssigneeNames returns the usernames assigned to the task, in order.
func (t Task) AssigneeNames() []string {
	names := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		names = append(names, a.Username)
	}
	return names
}

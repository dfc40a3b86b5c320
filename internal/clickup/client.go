// Package clickup provides an HTTP client for the ClickUp v2 API.
package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/metrics"
)

// ErrMissingToken is returned by every call when no API token is configured.
// It surfaces to the user instead of crashing the process.
var ErrMissingToken = errors.New("missing CLICKUP_API_TOKEN in environment")

// API is the surface of the remote task service the workflows consume.
// Implementations return errors whose messages are suitable for direct
// display to the user.
type API interface {
	GetTeams(ctx context.Context) ([]model.ContainerItem, error)
	GetSpaces(ctx context.Context, teamID string) ([]model.ContainerItem, error)
	GetFolders(ctx context.Context, spaceID string) ([]model.ContainerItem, error)
	GetLists(ctx context.Context, spaceID, folderID string) ([]model.ContainerItem, error)
	CreateTask(ctx context.Context, listID string, req CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, taskID string) (*model.Task, error)
	GetTasksFromList(ctx context.Context, listID string, includeClosed bool) ([]model.Task, error)
	GetTeamTasks(ctx context.Context, teamID string, includeClosed bool) ([]model.Task, error)
	GetTeamMembers(ctx context.Context, teamID string) ([]model.Member, error)
	UpdateTask(ctx context.Context, taskID string, fields map[string]string) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// CreateTaskRequest carries the fields for a task creation call.
type CreateTaskRequest struct {
	Name        string
	Description string
	DueDate     string // YYYY-MM-DD; malformed values are omitted from the payload
}

// Config holds ClickUp client configuration.
type Config struct {
	APIToken string
	BaseURL  string
	Timeout  time.Duration
}

// Client is the HTTP implementation of API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logger.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new ClickUp client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		logger:     log,
	}
}

// do performs one API request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, endpoint, url string, payload, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordClickUpRequest(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("ClickUp request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordClickUpRequest(endpoint, "error", time.Since(start).Seconds())
		return fmt.Errorf("failed to read ClickUp response: %w", err)
	}

	metrics.RecordClickUpRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("ClickUp API error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("unexpected response format: %w", err)
		}
	}
	return nil
}

type wireItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toContainers(items []wireItem, kind model.ContainerKind, parentID string) []model.ContainerItem {
	out := make([]model.ContainerItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.ContainerItem{
			ID:       it.ID,
			Name:     it.Name,
			Kind:     kind,
			ParentID: parentID,
		})
	}
	return out
}

// GetTeams returns all teams accessible to the token.
func (c *Client) GetTeams(ctx context.Context) ([]model.ContainerItem, error) {
	var resp struct {
		Teams []wireItem `json:"teams"`
	}
	url := c.baseURL + "/team"
	if err := c.do(ctx, http.MethodGet, "get_teams", url, nil, &resp); err != nil {
		return nil, err
	}
	return toContainers(resp.Teams, model.KindTeam, ""), nil
}

// GetSpaces returns all spaces in a team.
func (c *Client) GetSpaces(ctx context.Context, teamID string) ([]model.ContainerItem, error) {
	var resp struct {
		Spaces []wireItem `json:"spaces"`
	}
	url := fmt.Sprintf("%s/team/%s/space", c.baseURL, teamID)
	if err := c.do(ctx, http.MethodGet, "get_spaces", url, nil, &resp); err != nil {
		return nil, err
	}
	return toContainers(resp.Spaces, model.KindSpace, teamID), nil
}

// GetFolders returns all folders in a space.
func (c *Client) GetFolders(ctx context.Context, spaceID string) ([]model.ContainerItem, error) {
	var resp struct {
		Folders []wireItem `json:"folders"`
	}
	url := fmt.Sprintf("%s/space/%s/folder", c.baseURL, spaceID)
	if err := c.do(ctx, http.MethodGet, "get_folders", url, nil, &resp); err != nil {
		return nil, err
	}
	return toContainers(resp.Folders, model.KindFolder, spaceID), nil
}

// GetLists returns all lists in a folder, or directly in a space when
// folderID is empty.
func (c *Client) GetLists(ctx context.Context, spaceID, folderID string) ([]model.ContainerItem, error) {
	var resp struct {
		Lists []wireItem `json:"lists"`
	}
	url := fmt.Sprintf("%s/space/%s/list", c.baseURL, spaceID)
	parentID := spaceID
	if folderID != "" {
		url = fmt.Sprintf("%s/folder/%s/list", c.baseURL, folderID)
		parentID = folderID
	}
	if err := c.do(ctx, http.MethodGet, "get_lists", url, nil, &resp); err != nil {
		return nil, err
	}
	return toContainers(resp.Lists, model.KindList, parentID), nil
}

// CreateTask creates a task in the given list.
func (c *Client) CreateTask(ctx context.Context, listID string, req CreateTaskRequest) (*model.Task, error) {
	name := req.Name
	if name == "" {
		name = "Untitled task"
	}

	payload := map[string]any{"name": name}
	if req.Description != "" {
		payload["description"] = req.Description
	}
	if ms, ok := dueDateMillis(req.DueDate); ok {
		payload["due_date"] = ms
		payload["due_date_time"] = true
	}

	var task model.Task
	url := fmt.Sprintf("%s/list/%s/task", c.baseURL, listID)
	if err := c.do(ctx, http.MethodPost, "create_task", url, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask fetches a single task by ID.
func (c *Client) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	url := fmt.Sprintf("%s/task/%s", c.baseURL, taskID)
	if err := c.do(ctx, http.MethodGet, "get_task", url, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTasksFromList fetches all tasks from a list.
func (c *Client) GetTasksFromList(ctx context.Context, listID string, includeClosed bool) ([]model.Task, error) {
	var resp struct {
		Tasks []model.Task `json:"tasks"`
	}
	url := fmt.Sprintf("%s/list/%s/task", c.baseURL, listID)
	if includeClosed {
		url += "?include_closed=true"
	}
	if err := c.do(ctx, http.MethodGet, "get_tasks_from_list", url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTeamTasks fetches all tasks visible at team level, so reports can see
// full history when includeClosed is set.
func (c *Client) GetTeamTasks(ctx context.Context, teamID string, includeClosed bool) ([]model.Task, error) {
	var resp struct {
		Tasks []model.Task `json:"tasks"`
	}
	url := fmt.Sprintf("%s/team/%s/task?subtasks=true", c.baseURL, teamID)
	if includeClosed {
		url += "&include_closed=true"
	}
	if err := c.do(ctx, http.MethodGet, "get_team_tasks", url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// GetTeamMembers fetches the member roster of a team.
func (c *Client) GetTeamMembers(ctx context.Context, teamID string) ([]model.Member, error) {
	var resp struct {
		Team struct {
			Members []struct {
				User struct {
					ID       json.Number `json:"id"`
					Username string      `json:"username"`
				} `json:"user"`
			} `json:"members"`
		} `json:"team"`
	}
	url := fmt.Sprintf("%s/team/%s", c.baseURL, teamID)
	if err := c.do(ctx, http.MethodGet, "get_team_members", url, nil, &resp); err != nil {
		return nil, err
	}

	members := make([]model.Member, 0, len(resp.Team.Members))
	for _, m := range resp.Team.Members {
		members = append(members, model.Member{
			ID:       m.User.ID.String(),
			Username: m.User.Username,
		})
	}
	return members, nil
}

// UpdateTask updates the given fields of a task. A due_date field given as
// YYYY-MM-DD is converted to a millisecond epoch; malformed values are
// passed through untouched for the server to reject.
func (c *Client) UpdateTask(ctx context.Context, taskID string, fields map[string]string) (*model.Task, error) {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	if due, ok := fields["due_date"]; ok {
		if ms, converted := dueDateMillis(due); converted {
			payload["due_date"] = ms
			payload["due_date_time"] = true
		}
	}

	var task model.Task
	url := fmt.Sprintf("%s/task/%s", c.baseURL, taskID)
	if err := c.do(ctx, http.MethodPut, "update_task", url, payload, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask permanently deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	url := fmt.Sprintf("%s/task/%s", c.baseURL, taskID)
	return c.do(ctx, http.MethodDelete, "delete_task", url, nil, nil)
}

// dueDateMillis converts a YYYY-MM-DD date to an end-of-day UTC millisecond
// epoch string, the format ClickUp expects.
func dueDateMillis(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", false
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
	return strconv.FormatInt(t.UnixMilli(), 10), true
}

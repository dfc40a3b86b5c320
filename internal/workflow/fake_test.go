package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/clickup"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/session"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
)

// fakeAPI is an in-memory clickup.API that records every call so tests can
// assert which remote operations a conversation triggered.
type fakeAPI struct {
	teams     []model.ContainerItem
	spaces    map[string][]model.ContainerItem
	folders   map[string][]model.ContainerItem
	lists     map[string][]model.ContainerItem // keyed spaceID + "/" + folderID
	tasks     map[string]model.Task
	listTasks map[string][]model.Task
	teamTasks map[string][]model.Task
	members   map[string][]model.Member

	// errs forces an error for the named method.
	errs map[string]error

	calls       []string
	createCalls []fakeCreateCall
	updateCalls []fakeUpdateCall
	deleteCalls []string
}

type fakeCreateCall struct {
	listID string
	req    clickup.CreateTaskRequest
}

type fakeUpdateCall struct {
	taskID string
	fields map[string]string
}

var _ clickup.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(method string) error {
	f.calls = append(f.calls, method)
	return f.errs[method]
}

func (f *fakeAPI) GetTeams(ctx context.Context) ([]model.ContainerItem, error) {
	if err := f.record("GetTeams"); err != nil {
		return nil, err
	}
	return f.teams, nil
}

func (f *fakeAPI) GetSpaces(ctx context.Context, teamID string) ([]model.ContainerItem, error) {
	if err := f.record("GetSpaces"); err != nil {
		return nil, err
	}
	return f.spaces[teamID], nil
}

func (f *fakeAPI) GetFolders(ctx context.Context, spaceID string) ([]model.ContainerItem, error) {
	if err := f.record("GetFolders"); err != nil {
		return nil, err
	}
	return f.folders[spaceID], nil
}

func (f *fakeAPI) GetLists(ctx context.Context, spaceID, folderID string) ([]model.ContainerItem, error) {
	if err := f.record("GetLists"); err != nil {
		return nil, err
	}
	return f.lists[spaceID+"/"+folderID], nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, listID string, req clickup.CreateTaskRequest) (*model.Task, error) {
	if err := f.record("CreateTask"); err != nil {
		return nil, err
	}
	f.createCalls = append(f.createCalls, fakeCreateCall{listID: listID, req: req})
	return &model.Task{
		ID:   "new-1",
		Name: req.Name,
		URL:  "https://tasks.example/new-1",
	}, nil
}

func (f *fakeAPI) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	if err := f.record("GetTask"); err != nil {
		return nil, err
	}
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, fmt.Errorf("HTTP 404: Task not found")
	}
	return &task, nil
}

func (f *fakeAPI) GetTasksFromList(ctx context.Context, listID string, includeClosed bool) ([]model.Task, error) {
	if err := f.record("GetTasksFromList"); err != nil {
		return nil, err
	}
	return f.listTasks[listID], nil
}

func (f *fakeAPI) GetTeamTasks(ctx context.Context, teamID string, includeClosed bool) ([]model.Task, error) {
	if err := f.record("GetTeamTasks"); err != nil {
		return nil, err
	}
	return f.teamTasks[teamID], nil
}

func (f *fakeAPI) GetTeamMembers(ctx context.Context, teamID string) ([]model.Member, error) {
	if err := f.record("GetTeamMembers"); err != nil {
		return nil, err
	}
	return f.members[teamID], nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, taskID string, fields map[string]string) (*model.Task, error) {
	if err := f.record("UpdateTask"); err != nil {
		return nil, err
	}
	f.updateCalls = append(f.updateCalls, fakeUpdateCall{taskID: taskID, fields: fields})
	task := f.tasks[taskID]
	task.ID = taskID
	return &task, nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, taskID string) error {
	if err := f.record("DeleteTask"); err != nil {
		return err
	}
	f.deleteCalls = append(f.deleteCalls, taskID)
	return nil
}

// hierarchyFake builds a fixture with one team, one space, one folder with
// a list, and one folderless list directly in the space.
func hierarchyFake() *fakeAPI {
	return &fakeAPI{
		teams: []model.ContainerItem{
			{ID: "team-1", Name: "Engineering", Kind: model.KindTeam},
		},
		spaces: map[string][]model.ContainerItem{
			"team-1": {{ID: "space-1", Name: "Backend", Kind: model.KindSpace}},
		},
		folders: map[string][]model.ContainerItem{
			"space-1": {{ID: "folder-1", Name: "Sprints", Kind: model.KindFolder}},
		},
		lists: map[string][]model.ContainerItem{
			"space-1/folder-1": {{ID: "list-1", Name: "Sprint 12", Kind: model.KindList}},
			"space-1/":         {{ID: "list-2", Name: "Backlog", Kind: model.KindList}},
		},
		errs: map[string]error{},
	}
}

func newTestEngine(api clickup.API) *Engine {
	e := NewEngine(session.NewMemoryStore(), api, nil, logger.NewNop())
	e.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return e
}

func send(e *Engine, text string) []string {
	return e.HandleMessage(context.Background(), model.InboundMessage{
		UserID:    "user-1",
		ChannelID: "chan-1",
		Text:      text,
	})
}

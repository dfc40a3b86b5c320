package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/clickup"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

// Level is one step of the containment hierarchy walk.
type Level int

const (
	LevelTeam Level = iota
	LevelSpace
	LevelFolder
	LevelList
)

// SelectorState is the hierarchy walk embedded in a draft. Candidates at a
// level are populated only after the parent level is selected; selecting a
// shallower level clears all deeper candidates and selections.
type SelectorState struct {
	Level    Level
	Teams    []model.ContainerItem
	Spaces   []model.ContainerItem
	Folders  []model.ContainerItem
	Lists    []model.ContainerItem
	TeamID   string
	SpaceID  string
	FolderID string // empty when no folder was chosen (lists directly in space)
}

// SelectionStatus is the outcome of feeding one message to the selector.
type SelectionStatus int

const (
	// SelectionContinue means the walk goes on; the draft stays put.
	SelectionContinue SelectionStatus = iota
	// SelectionAbort means the whole owning workflow must be dropped.
	SelectionAbort
	// SelectionDone means a list was chosen.
	SelectionDone
)

// SelectionResult carries the selector outcome back to the owning machine.
type SelectionResult struct {
	Status SelectionStatus
	ListID string
	Path   string // "Team > Space > Folder > List" for display
}

// Selector drives a user through choosing a list by walking
// Team -> Space -> Folder (optional) -> List with numbered menus.
// It is reusable by any workflow that needs a destination container.
type Selector struct {
	client clickup.API
	noun   string // subject of abort notices, e.g. "Task creation"
}

// NewSelector creates a selector bound to a remote client. noun names the
// owning operation in abort notices ("<noun> cancelled.").
func NewSelector(client clickup.API, noun string) *Selector {
	return &Selector{client: client, noun: noun}
}

// Start begins the walk by fetching teams. ok is false when the owning
// workflow must be aborted.
func (s *Selector) Start(ctx context.Context, st *SelectorState) (replies []string, ok bool) {
	teams, err := s.client.GetTeams(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Failed to fetch teams: %s", err)}, false
	}
	if len(teams) == 0 {
		return []string{fmt.Sprintf("No teams found. %s cancelled.", s.noun)}, false
	}

	st.Teams = teams
	st.Level = LevelTeam
	return []string{renderTeamMenu(st.Teams)}, true
}

// Handle feeds one raw message to the walk. Cancel is the owning
// workflow's business and must be intercepted before calling.
func (s *Selector) Handle(ctx context.Context, st *SelectorState, text string) ([]string, SelectionResult) {
	if strings.EqualFold(text, "back") {
		return s.goBack(st), SelectionResult{Status: SelectionContinue}
	}

	selection, err := strconv.Atoi(text)
	if err != nil {
		return []string{"Please enter a valid number, 'back', or 'cancel'."}, SelectionResult{Status: SelectionContinue}
	}

	switch st.Level {
	case LevelTeam:
		return s.selectTeam(ctx, st, selection)
	case LevelSpace:
		return s.selectSpace(ctx, st, selection)
	case LevelFolder:
		return s.selectFolder(ctx, st, selection)
	case LevelList:
		return s.selectList(st, selection)
	}
	return nil, SelectionResult{Status: SelectionContinue}
}

func (s *Selector) selectTeam(ctx context.Context, st *SelectorState, selection int) ([]string, SelectionResult) {
	if selection < 1 || selection > len(st.Teams) {
		return []string{rangePrompt(len(st.Teams))}, SelectionResult{Status: SelectionContinue}
	}

	team := st.Teams[selection-1]
	st.TeamID = team.ID
	// Selecting a team invalidates everything deeper.
	st.SpaceID, st.FolderID = "", ""
	st.Spaces, st.Folders, st.Lists = nil, nil, nil

	spaces, err := s.client.GetSpaces(ctx, team.ID)
	if err != nil {
		return []string{fmt.Sprintf("Selected team: %s. Fetching spaces...", team.Name),
			fmt.Sprintf("Failed to fetch spaces: %s", err)}, SelectionResult{Status: SelectionAbort}
	}
	if len(spaces) == 0 {
		return []string{fmt.Sprintf("Selected team: %s. Fetching spaces...", team.Name),
			fmt.Sprintf("No spaces found in this team. %s cancelled.", s.noun)}, SelectionResult{Status: SelectionAbort}
	}

	st.Spaces = spaces
	st.Level = LevelSpace
	return []string{fmt.Sprintf("Selected team: %s. Fetching spaces...", team.Name),
		renderSpaceMenu(st.Spaces)}, SelectionResult{Status: SelectionContinue}
}

func (s *Selector) selectSpace(ctx context.Context, st *SelectorState, selection int) ([]string, SelectionResult) {
	if selection < 1 || selection > len(st.Spaces) {
		return []string{rangePrompt(len(st.Spaces))}, SelectionResult{Status: SelectionContinue}
	}

	space := st.Spaces[selection-1]
	st.SpaceID = space.ID
	st.FolderID = ""
	st.Folders, st.Lists = nil, nil

	folders, err := s.client.GetFolders(ctx, space.ID)
	if err != nil {
		return []string{fmt.Sprintf("Selected space: %s. Fetching folders...", space.Name),
			fmt.Sprintf("Failed to fetch folders: %s", err)}, SelectionResult{Status: SelectionAbort}
	}

	// Zero folders is not an abort: the menu always offers the implicit
	// "lists directly in space" choice.
	st.Folders = folders
	st.Level = LevelFolder
	return []string{fmt.Sprintf("Selected space: %s. Fetching folders...", space.Name),
		renderFolderMenu(st.Folders)}, SelectionResult{Status: SelectionContinue}
}

func (s *Selector) selectFolder(ctx context.Context, st *SelectorState, selection int) ([]string, SelectionResult) {
	// Option candidateCount+1 routes the list fetch to the space.
	if selection < 1 || selection > len(st.Folders)+1 {
		return []string{rangePrompt(len(st.Folders) + 1)}, SelectionResult{Status: SelectionContinue}
	}

	var progress string
	if selection == len(st.Folders)+1 {
		st.FolderID = ""
		progress = "No folder selected. Fetching lists directly from space..."
	} else {
		folder := st.Folders[selection-1]
		st.FolderID = folder.ID
		progress = fmt.Sprintf("Selected folder: %s. Fetching lists...", folder.Name)
	}
	st.Lists = nil

	lists, err := s.client.GetLists(ctx, st.SpaceID, st.FolderID)
	if err != nil {
		return []string{progress, fmt.Sprintf("Failed to fetch lists: %s", err)}, SelectionResult{Status: SelectionAbort}
	}
	if len(lists) == 0 {
		return []string{progress, fmt.Sprintf("No lists found. %s cancelled.", s.noun)}, SelectionResult{Status: SelectionAbort}
	}

	st.Lists = lists
	st.Level = LevelList
	return []string{progress, renderListMenu(st.Lists)}, SelectionResult{Status: SelectionContinue}
}

func (s *Selector) selectList(st *SelectorState, selection int) ([]string, SelectionResult) {
	if selection < 1 || selection > len(st.Lists) {
		return []string{rangePrompt(len(st.Lists))}, SelectionResult{Status: SelectionContinue}
	}

	list := st.Lists[selection-1]
	return nil, SelectionResult{
		Status: SelectionDone,
		ListID: list.ID,
		Path:   st.path(list.Name),
	}
}

// goBack returns to the previous level, re-displaying its already-fetched
// candidates without a re-fetch and discarding deeper state.
func (s *Selector) goBack(st *SelectorState) []string {
	switch st.Level {
	case LevelTeam:
		return []string{"Already at the top level."}
	case LevelSpace:
		st.Level = LevelTeam
		st.TeamID = ""
		st.Spaces, st.Folders, st.Lists = nil, nil, nil
		return []string{renderTeamMenu(st.Teams)}
	case LevelFolder:
		st.Level = LevelSpace
		st.SpaceID = ""
		st.Folders, st.Lists = nil, nil
		return []string{renderSpaceMenu(st.Spaces)}
	case LevelList:
		st.Level = LevelFolder
		st.FolderID = ""
		st.Lists = nil
		return []string{renderFolderMenu(st.Folders)}
	}
	return nil
}

// path renders the chosen names from team down to the list.
func (st *SelectorState) path(listName string) string {
	var parts []string
	if st.TeamID != "" {
		parts = append(parts, nameByID(st.Teams, st.TeamID, "Unknown Team"))
	}
	if st.SpaceID != "" {
		parts = append(parts, nameByID(st.Spaces, st.SpaceID, "Unknown Space"))
	}
	if st.FolderID != "" {
		parts = append(parts, nameByID(st.Folders, st.FolderID, "Unknown Folder"))
	}
	parts = append(parts, listName)
	return strings.Join(parts, " > ")
}

func nameByID(items []model.ContainerItem, id, fallback string) string {
	for _, it := range items {
		if it.ID == id {
			return it.Name
		}
	}
	return fallback
}

// menuLimit caps how many candidates a single menu renders. Selection
// numbers beyond the cap remain valid.
const menuLimit = 20

func renderTeamMenu(teams []model.ContainerItem) string {
	var b strings.Builder
	b.WriteString("Available teams:\n")
	writeNumbered(&b, teams)
	b.WriteString("\nType the number of the team you want to use, or 'cancel' to abort.")
	return b.String()
}

func renderSpaceMenu(spaces []model.ContainerItem) string {
	var b strings.Builder
	b.WriteString("Available spaces:\n")
	writeNumbered(&b, spaces)
	b.WriteString("\nType the number of the space you want to use, 'back' to go back, or 'cancel' to abort.")
	return b.String()
}

func renderFolderMenu(folders []model.ContainerItem) string {
	var b strings.Builder
	b.WriteString("Available folders:\n")
	writeNumbered(&b, folders)
	fmt.Fprintf(&b, "%d. (No folder - lists directly in space)\n", len(folders)+1)
	b.WriteString("\nType the number of the folder you want to use, 'back' to go back, or 'cancel' to abort.")
	return b.String()
}

func renderListMenu(lists []model.ContainerItem) string {
	var b strings.Builder
	b.WriteString("Available lists:\n")
	writeNumbered(&b, lists)
	b.WriteString("\nType the number of the list you want to use, 'back' to go back, or 'cancel' to abort.")
	return b.String()
}

func writeNumbered(b *strings.Builder, items []model.ContainerItem) {
	shown := items
	if len(shown) > menuLimit {
		shown = shown[:menuLimit]
	}
	for i, it := range shown {
		fmt.Fprintf(b, "%d. %s\n", i+1, it.Name)
	}
	if len(items) > menuLimit {
		fmt.Fprintf(b, "... and %d more\n", len(items)-menuLimit)
	}
}

func rangePrompt(count int) string {
	return fmt.Sprintf("Please enter a number between 1 and %d.", count)
}

// Package model defines data structures shared across the bot.
package model

// ContainerKind identifies one level of the ClickUp containment hierarchy.
type ContainerKind string

const (
	KindTeam   ContainerKind = "team"
	KindSpace  ContainerKind = "space"
	KindFolder ContainerKind = "folder"
	KindList   ContainerKind = "list"
)

// ContainerItem is an immutable snapshot of a remote container. A task
// ultimately lives in exactly one list, reached via team > space > folder
// (folders are optional; a space may hold lists directly).
type ContainerItem struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     ContainerKind `json:"kind"`
	ParentID string        `json:"parent_id,omitempty"`
}

// Member is a member of a ClickUp team.
type Member struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

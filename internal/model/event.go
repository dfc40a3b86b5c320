package model

import "time"

// InboundMessage is one text event delivered by the messaging transport.
// Text is trimmed before interpretation.
type InboundMessage struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// WorkflowOutcome describes how a workflow left the session store.
type WorkflowOutcome string

const (
	OutcomeStarted   WorkflowOutcome = "started"
	OutcomeCompleted WorkflowOutcome = "completed"
	OutcomeCancelled WorkflowOutcome = "cancelled"
	OutcomeAborted   WorkflowOutcome = "aborted"
	OutcomeReplaced  WorkflowOutcome = "replaced"
)

// WorkflowEvent is an audit record of a workflow lifecycle transition,
// published to the optional event stream.
type WorkflowEvent struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Workflow  string          `json:"workflow"`
	Outcome   WorkflowOutcome `json:"outcome"`
	CreatedAt time.Time       `json:"created_at"`
}

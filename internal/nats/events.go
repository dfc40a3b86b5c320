package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
)

const (
	// StreamName is the name of the workflow audit stream.
	StreamName = "BOT_EVENTS"

	// SubjectPrefix is the prefix for all workflow event subjects.
	SubjectPrefix = "bot.workflow"
)

// EventPublisher records workflow lifecycle events on JetStream.
type EventPublisher struct {
	client *Client
}

// NewEventPublisher creates a new event publisher.
func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// EnsureStream ensures the workflow event stream exists with proper configuration.
func (p *EventPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	// Check if stream exists
	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil // Stream already exists
	}

	// Create stream
	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Workflow lifecycle audit events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EventSubject returns the subject for a workflow event.
func EventSubject(workflow string, outcome model.WorkflowOutcome) string {
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, workflow, outcome)
}

// PublishWorkflowEvent publishes a workflow lifecycle event to JetStream.
func (p *EventPublisher) PublishWorkflowEvent(ctx context.Context, event model.WorkflowEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := EventSubject(event.Workflow, event.Outcome)
	if _, err := p.client.JetStream().Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

package workflow

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mazdakdev/mattermost-clickup-bot/internal/clickup"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/model"
	"github.com/mazdakdev/mattermost-clickup-bot/internal/session"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/logger"
	"github.com/mazdakdev/mattermost-clickup-bot/pkg/metrics"
)

// EventPublisher receives workflow lifecycle events for the optional audit
// stream. Implementations must tolerate being called concurrently.
type EventPublisher interface {
	PublishWorkflowEvent(ctx context.Context, ev model.WorkflowEvent) error
}

// Engine routes inbound messages: a recognized start command begins a new
// workflow (replacing any active draft for that user), anything else is fed
// to the user's active draft, and everything else is ignored.
type Engine struct {
	sessions session.Store
	client   clickup.API
	events   EventPublisher // nil disables audit events
	logger   *logger.Logger

	// now is injectable so report windows are testable.
	now func() time.Time

	// Handling is serialized per user; different users run in parallel.
	userLocks sync.Map // userID -> *sync.Mutex
}

// NewEngine creates a workflow engine. events may be nil.
func NewEngine(sessions session.Store, client clickup.API, events EventPublisher, log *logger.Logger) *Engine {
	return &Engine{
		sessions: sessions,
		client:   client,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// HandleMessage processes one inbound text event and returns the replies to
// send back to the originating channel, in order.
func (e *Engine) HandleMessage(ctx context.Context, msg model.InboundMessage) []string {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	mu := e.userLock(msg.UserID)
	mu.Lock()
	defer mu.Unlock()

	// Start commands match the whole message, case-insensitively, with
	// interior whitespace collapsed.
	command := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if start, ok := e.startFor(command); ok {
		metrics.MessagesTotal.WithLabelValues("command").Inc()
		return e.startWorkflow(ctx, msg.UserID, start)
	}

	draft, ok := e.sessions.Get(msg.UserID)
	if !ok {
		// Not a command and no active flow: ignore.
		metrics.MessagesTotal.WithLabelValues("ignored").Inc()
		return nil
	}
	metrics.MessagesTotal.WithLabelValues("step").Inc()

	if strings.EqualFold(text, "cancel") {
		reply := "Cancelled " + cancelNoun(draft.Kind()) + "."
		e.clearDraft(ctx, msg.UserID, draft.Kind(), model.OutcomeCancelled)
		return []string{reply}
	}

	switch d := draft.(type) {
	case *CreateDraft:
		return e.handleCreate(ctx, msg.UserID, d, text)
	case *ViewDraft:
		return e.handleView(ctx, msg.UserID, d, text)
	case *UpdateDraft:
		return e.handleUpdate(ctx, msg.UserID, d, text)
	case *DeleteDraft:
		return e.handleDelete(ctx, msg.UserID, d, text)
	case *ReportDraft:
		return e.handleReport(ctx, msg.UserID, d, text)
	default:
		e.logger.Error("unknown draft kind in session store", zap.String("kind", draft.Kind()))
		e.sessions.Clear(msg.UserID)
		return nil
	}
}

type startFunc struct {
	kind string
	run  func(ctx context.Context, userID string) []string
}

func (e *Engine) startFor(command string) (startFunc, bool) {
	switch command {
	case "create task":
		return startFunc{KindCreate, e.startCreate}, true
	case "view task":
		return startFunc{KindView, func(ctx context.Context, userID string) []string {
			return e.startViewing(ctx, userID, OpView)
		}}, true
	case "list tasks":
		return startFunc{KindView, func(ctx context.Context, userID string) []string {
			return e.startViewing(ctx, userID, OpListTasks)
		}}, true
	case "search tasks":
		return startFunc{KindView, e.startSearch}, true
	case "update task":
		return startFunc{KindUpdate, e.startUpdate}, true
	case "delete task":
		return startFunc{KindDelete, e.startDelete}, true
	case "daily report":
		return startFunc{KindReport, e.reportStarter(OpDailyReport)}, true
	case "weekly report":
		return startFunc{KindReport, e.reportStarter(OpWeeklyReport)}, true
	case "overdue tasks":
		return startFunc{KindReport, e.reportStarter(OpOverdue)}, true
	case "completed tasks":
		return startFunc{KindReport, e.reportStarter(OpCompleted)}, true
	case "team analytics":
		return startFunc{KindReport, e.reportStarter(OpAnalytics)}, true
	case "task summary":
		return startFunc{KindReport, e.reportStarter(OpSummary)}, true
	}
	return startFunc{}, false
}

// startWorkflow replaces any active draft, telling the user the old flow
// was discarded rather than dropping it silently.
func (e *Engine) startWorkflow(ctx context.Context, userID string, start startFunc) []string {
	var replies []string
	if old, ok := e.sessions.Get(userID); ok {
		replies = append(replies, "Note: your previous "+cancelNoun(old.Kind())+" was discarded.")
		e.clearDraft(ctx, userID, old.Kind(), model.OutcomeReplaced)
	}

	metrics.RecordWorkflowStart(start.kind)
	e.publishEvent(ctx, userID, start.kind, model.OutcomeStarted)
	return append(replies, start.run(ctx, userID)...)
}

// clearDraft removes the user's draft and records how it ended.
func (e *Engine) clearDraft(ctx context.Context, userID, kind string, outcome model.WorkflowOutcome) {
	e.sessions.Clear(userID)
	metrics.RecordWorkflowFinish(kind, string(outcome))
	e.publishEvent(ctx, userID, kind, outcome)
}

func (e *Engine) publishEvent(ctx context.Context, userID, kind string, outcome model.WorkflowOutcome) {
	if e.events == nil {
		return
	}
	ev := model.WorkflowEvent{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		Workflow:  kind,
		Outcome:   outcome,
		CreatedAt: e.now(),
	}
	if err := e.events.PublishWorkflowEvent(ctx, ev); err != nil {
		e.logger.Warn("failed to publish workflow event",
			zap.String("workflow", kind),
			zap.Error(err),
		)
	}
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	mu, _ := e.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// cancelNoun names a workflow in cancellation and replacement notices.
func cancelNoun(kind string) string {
	switch kind {
	case KindCreate:
		return "task creation"
	case KindView:
		return "task viewing"
	case KindUpdate:
		return "task update"
	case KindDelete:
		return "task deletion"
	case KindReport:
		return "reporting operation"
	}
	return "operation"
}

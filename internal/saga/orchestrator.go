package saga

import (
	"context"
	"database/sql"
	"encoding/json"

	"go-leaveflow/internal/events"
	"go-leaveflow/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Orchestrator owns the start edge of the approval saga. The start
// command is enqueued on the transactional outbox so a committed leave
// request and its saga start cannot diverge; the execution engine picks
// the command up from the command topic and fires the REQUEST event
// back at the Processor. Everything between those two points is a
// suspension: no goroutine waits for the decision.
type Orchestrator struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewOrchestrator(outbox kafka.OutboxRepository, logger ...*zap.Logger) *Orchestrator {
	l := zap.L().Named("saga.orchestrator")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("saga.orchestrator")
	}
	return &Orchestrator{outbox: outbox, logger: l}
}

// Start enqueues the engine start command inside the caller's transaction.
func (o *Orchestrator) Start(ctx context.Context, tx *sql.Tx, cmd events.ApprovalStartCommand) error {
	if cmd.TimeoutSeconds < 0 {
		cmd.TimeoutSeconds = 0
	}

	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   cmd.Identity,
		EventType:     "approval.start",
		Topic:         events.ApprovalCommandsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}

	if err := o.outbox.WithTx(tx).Create(ctx, event); err != nil {
		o.logger.Error("enqueue saga start failed",
			zap.String("identity", cmd.Identity),
			zap.Error(err),
		)
		return err
	}

	o.logger.Debug("saga start enqueued",
		zap.String("identity", cmd.Identity),
		zap.Int64("timeout_seconds", cmd.TimeoutSeconds),
	)
	return nil
}

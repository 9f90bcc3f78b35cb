package engine

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-leaveflow/internal/events"
	"go-leaveflow/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader matches the subset of kafka.Reader the runtime uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

const defaultRetryBackoff = 5 * time.Second

// Runtime is the engine's scheduler half. It turns start commands into
// REQUEST events (minting the continuation token on the way) and resume
// signals into ACCEPT/REJECT events. Between those, a saga exists only
// as a Redis key with a TTL; nothing in this process waits for it.
type Runtime struct {
	commands     MessageReader
	decisions    MessageReader
	tokens       *TokenStore
	processor    EventProcessor
	retryBackoff time.Duration
	logger       *zap.Logger
}

func NewRuntime(
	commands, decisions MessageReader,
	tokens *TokenStore,
	processor EventProcessor,
	logger ...*zap.Logger,
) *Runtime {
	l := zap.L().Named("engine.runtime")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("engine.runtime")
	}
	return &Runtime{
		commands:     commands,
		decisions:    decisions,
		tokens:       tokens,
		processor:    processor,
		retryBackoff: defaultRetryBackoff,
		logger:       l,
	}
}

// Run blocks until the context is cancelled.
func (r *Runtime) Run(ctx context.Context) {
	go r.consumeCommands(ctx)
	r.consumeDecisions(ctx)
}

func (r *Runtime) consumeCommands(ctx context.Context) {
	log := r.logger.Named("commands")
	log.Info("command consumer started")

	for {
		msg, err := r.commands.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("command consumer stopped")
				return
			}
			log.Error("fetch start command failed", zap.Error(err))
			continue
		}

		var cmd events.ApprovalStartCommand
		if err := json.Unmarshal(msg.Value, &cmd); err != nil {
			log.Error("decode start command failed", zap.Error(err))
			_ = r.commands.CommitMessages(ctx, msg)
			continue
		}

		err = r.retryUntilTerminal(ctx, log, func() error {
			return r.handleStart(ctx, cmd)
		})
		if err != nil && ctx.Err() != nil {
			// Shutdown mid-message: leave it uncommitted for redelivery.
			log.Info("command consumer stopped")
			return
		}
		if err != nil {
			log.Error("start command rejected",
				zap.String("identity", cmd.Identity),
				zap.Error(err),
			)
		}

		if err := r.commands.CommitMessages(ctx, msg); err != nil {
			log.Error("commit start command failed", zap.Error(err))
		}
	}
}

func (r *Runtime) handleStart(ctx context.Context, cmd events.ApprovalStartCommand) error {
	token, err := r.tokens.Issue(ctx, cmd.Identity, time.Duration(cmd.TimeoutSeconds)*time.Second)
	if err != nil {
		return err
	}

	evt := events.ApprovalEvent{
		Type:              events.EventRequest,
		ApplicantID:       cmd.ApplicantID,
		ApplicantName:     cmd.ApplicantName,
		FromInstant:       cmd.FromInstant,
		ToInstant:         cmd.ToInstant,
		Reason:            cmd.Reason,
		ContinuationToken: token,
	}

	if err := r.processor.Process(ctx, evt); err != nil {
		// Token stays behind and simply expires; a failed REQUEST leaves
		// the record PENDING without a token, which is surfaced here.
		return err
	}

	r.logger.Info("saga suspended awaiting decision",
		zap.String("identity", cmd.Identity),
		zap.Int64("timeout_seconds", cmd.TimeoutSeconds),
	)
	return nil
}

func (r *Runtime) consumeDecisions(ctx context.Context) {
	log := r.logger.Named("decisions")
	log.Info("decision consumer started")

	for {
		msg, err := r.decisions.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("decision consumer stopped")
				return
			}
			log.Error("fetch decision event failed", zap.Error(err))
			continue
		}

		var event events.ApprovalDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode decision event failed", zap.Error(err))
			_ = r.decisions.CommitMessages(ctx, msg)
			continue
		}

		err = r.retryUntilTerminal(ctx, log, func() error {
			return r.handleDecision(ctx, event)
		})
		if err != nil && ctx.Err() != nil {
			log.Info("decision consumer stopped")
			return
		}
		if err != nil {
			log.Error("decision event rejected",
				zap.String("token", event.Token),
				zap.Error(err),
			)
		}

		if err := r.decisions.CommitMessages(ctx, msg); err != nil {
			log.Error("commit decision event failed", zap.Error(err))
		}
	}
}

func (r *Runtime) handleDecision(ctx context.Context, event events.ApprovalDecisionEvent) error {
	if event.Signal == events.DecisionSignalFailure {
		r.logger.Warn("saga aborted by failure signal",
			zap.String("error_kind", event.ErrorKind),
			zap.String("cause", event.Cause),
		)
		return r.tokens.Revoke(ctx, event.Token)
	}

	if event.Outcome == nil {
		r.logger.Error("success signal without outcome payload")
		return ErrUnknownToken
	}

	evt := events.ApprovalEvent{
		Type:          event.Outcome.Type,
		ApplicantID:   event.Outcome.ApplicantID,
		ApplicantName: event.Outcome.ApplicantName,
		FromInstant:   event.Outcome.FromInstant,
		ToInstant:     event.Outcome.ToInstant,
	}

	if err := r.processor.Process(ctx, evt); err != nil {
		return err
	}

	return r.tokens.Revoke(ctx, event.Token)
}

// retryUntilTerminal keeps handling the current message until it either
// succeeds or fails terminally. The consumer must never move on to the
// next fetch with a retryable message unhandled: committing any later
// offset would advance the group past the failed one and drop it.
func (r *Runtime) retryUntilTerminal(ctx context.Context, log *zap.Logger, handle func() error) error {
	for {
		err := handle()
		if err == nil || isTerminalFailure(err) {
			return err
		}

		log.Warn("retryable failure, handling message again",
			zap.Duration("backoff", r.retryBackoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.retryBackoff):
		}
	}
}

// isTerminalFailure separates domain rejections (commit, never retry)
// from infrastructure failures (retry in place).
func isTerminalFailure(err error) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code != apperror.CodeServiceUnavailable
	}
	return errors.Is(err, ErrUnknownToken)
}

package engine

import (
	"context"
	"encoding/json"

	"go-leaveflow/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaEngine is the client side of the execution engine: it validates
// the continuation token and publishes the resume signal on the decision
// topic, where the engine runtime picks it up.
type KafkaEngine struct {
	writer *kafkago.Writer
	tokens *TokenStore
	logger *zap.Logger
}

func NewKafkaEngine(writer *kafkago.Writer, tokens *TokenStore, logger ...*zap.Logger) *KafkaEngine {
	l := zap.L().Named("engine.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("engine.client")
	}
	return &KafkaEngine{writer: writer, tokens: tokens, logger: l}
}

func (e *KafkaEngine) ReportSuccess(ctx context.Context, token string, outcome events.DecisionOutcome) error {
	identity, err := e.tokens.Lookup(ctx, token)
	if err != nil {
		return err
	}

	event := events.ApprovalDecisionEvent{
		Token:   token,
		Signal:  events.DecisionSignalSuccess,
		Outcome: &outcome,
	}
	if err := e.publish(ctx, token, event); err != nil {
		return err
	}

	e.logger.Info("decision reported",
		zap.String("identity", identity),
		zap.String("outcome", outcome.Type),
	)
	return nil
}

func (e *KafkaEngine) ReportFailure(ctx context.Context, token, errorKind, cause string) error {
	identity, err := e.tokens.Lookup(ctx, token)
	if err != nil {
		return err
	}

	event := events.ApprovalDecisionEvent{
		Token:     token,
		Signal:    events.DecisionSignalFailure,
		ErrorKind: errorKind,
		Cause:     cause,
	}
	if err := e.publish(ctx, token, event); err != nil {
		return err
	}

	e.logger.Warn("decision failure reported",
		zap.String("identity", identity),
		zap.String("error_kind", errorKind),
	)
	return nil
}

func (e *KafkaEngine) publish(ctx context.Context, token string, event events.ApprovalDecisionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return e.writer.WriteMessages(ctx, kafkago.Message{
		Topic: events.ApprovalDecisionsTopic,
		Key:   []byte(token),
		Value: payload,
	})
}

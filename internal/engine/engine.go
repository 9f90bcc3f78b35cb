package engine

import (
	"context"
	"errors"

	"go-leaveflow/internal/events"
)

// ErrUnknownToken reports a continuation token the engine no longer
// recognizes, either because it never existed or because its timeout
// elapsed and the suspension expired.
var ErrUnknownToken = errors.New("unknown or expired continuation token")

// Engine is the durable-execution contract the decision resolver talks
// to. The saga start command travels separately over the command topic
// (via the transactional outbox); these two calls resume or abort a
// suspended continuation.
//
//go:generate mockgen -source=engine.go -destination=mock/engine_mock.go -package=mock
type Engine interface {
	ReportSuccess(ctx context.Context, token string, outcome events.DecisionOutcome) error
	ReportFailure(ctx context.Context, token, errorKind, cause string) error
}

// EventProcessor is implemented by the saga package; the runtime invokes
// it with the events a continuation produces.
type EventProcessor interface {
	Process(ctx context.Context, evt events.ApprovalEvent) error
}

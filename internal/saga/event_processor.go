package saga

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-leaveflow/internal/directory"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/mailer"
	sagaerrors "go-leaveflow/internal/saga/errors"
	"go-leaveflow/internal/shared/apperror"

	"go.uber.org/zap"
)

// Processor handles the saga events the execution engine fires back at
// this service. Each event performs the single authoritative state
// transition for its identity: REQUEST attaches the continuation token,
// ACCEPT and REJECT finalize the request. Notifications are dispatched
// before the transition; a sent mail with a failed write is an accepted
// risk the caller retries.
type Processor struct {
	repo       leaverequest.Repository
	directory  directory.Service
	dispatcher mailer.Dispatcher
	sender     string
	baseURL    string
	logger     *zap.Logger
}

func NewProcessor(
	repo leaverequest.Repository,
	dir directory.Service,
	dispatcher mailer.Dispatcher,
	sender, baseURL string,
	logger ...*zap.Logger,
) *Processor {
	l := zap.L().Named("saga.processor")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("saga.processor")
	}
	return &Processor{
		repo:       repo,
		directory:  dir,
		dispatcher: dispatcher,
		sender:     sender,
		baseURL:    baseURL,
		logger:     l,
	}
}

func (p *Processor) Process(ctx context.Context, evt events.ApprovalEvent) error {
	eventType := strings.ToUpper(strings.TrimSpace(evt.Type))

	if evt.ApplicantID == "" || evt.ApplicantName == "" ||
		evt.FromInstant.IsZero() || evt.ToInstant.IsZero() {
		p.logger.Error("approval event missing required fields", zap.String("type", eventType))
		return sagaerrors.ErrInvalidEvent
	}

	identity := leaverequest.Fingerprint(evt.ApplicantID, evt.FromInstant, evt.ToInstant)

	p.logger.Debug("processing approval event",
		zap.String("type", eventType),
		zap.String("identity", identity),
		zap.String("applicant_id", evt.ApplicantID),
	)

	switch eventType {
	case events.EventRequest:
		return p.handleRequest(ctx, identity, evt)
	case events.EventAccept:
		return p.handleDecision(ctx, identity, evt, leaverequest.StatusAccepted)
	case events.EventReject:
		return p.handleDecision(ctx, identity, evt, leaverequest.StatusRejected)
	default:
		p.logger.Error("unknown approval event type", zap.String("type", evt.Type))
		return sagaerrors.ErrInvalidEvent
	}
}

func (p *Processor) handleRequest(ctx context.Context, identity string, evt events.ApprovalEvent) error {
	if evt.ContinuationToken == "" {
		p.logger.Error("request event without continuation token", zap.String("identity", identity))
		return sagaerrors.ErrMissingToken
	}

	audience, err := p.directory.Admins(ctx, evt.ApplicantID)
	if err != nil {
		p.logger.Error("resolve approval audience failed",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return apperror.Wrap(err, apperror.CodeServiceUnavailable, "directory lookup failed", http.StatusServiceUnavailable)
	}
	if len(audience) == 0 {
		// Deliberately no token attach: the record stays PENDING without
		// a token and the inconsistency is surfaced to the caller.
		p.logger.Error("no administrators to notify", zap.String("identity", identity))
		return sagaerrors.ErrNoRecipients
	}

	recipients := make([]string, 0, len(audience))
	for _, account := range audience {
		recipients = append(recipients, account.Email)
	}

	msg := mailer.ApprovalRequestMessage(
		p.sender, p.baseURL, identity,
		evt.ApplicantName, evt.Reason, evt.FromInstant, evt.ToInstant,
		recipients,
	)
	if err := p.dispatcher.Send(ctx, msg); err != nil {
		return sagaerrors.NotificationFailed(err)
	}

	if err := p.repo.AttachToken(ctx, identity, evt.ContinuationToken); err != nil {
		if errors.Is(err, leaverequest.ErrConditionFailed) {
			p.logger.Warn("token attach raced a finished saga", zap.String("identity", identity))
			return sagaerrors.ErrStaleTransition
		}
		return sagaerrors.NotificationFailed(err)
	}

	p.logger.Info("approval requested, awaiting decision",
		zap.String("identity", identity),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

func (p *Processor) handleDecision(ctx context.Context, identity string, evt events.ApprovalEvent, terminalStatus string) error {
	applicant, err := p.directory.AccountByID(ctx, evt.ApplicantID)
	if err != nil {
		p.logger.Error("resolve applicant account failed",
			zap.String("identity", identity),
			zap.String("applicant_id", evt.ApplicantID),
			zap.Error(err),
		)
		return sagaerrors.NotificationFailed(err)
	}

	msg := mailer.DecisionMessage(
		p.sender, applicant.Email, evt.ApplicantName,
		evt.FromInstant, evt.ToInstant,
		terminalStatus == leaverequest.StatusAccepted,
	)
	if err := p.dispatcher.Send(ctx, msg); err != nil {
		return sagaerrors.NotificationFailed(err)
	}

	if err := p.repo.Finalize(ctx, identity, terminalStatus); err != nil {
		if errors.Is(err, leaverequest.ErrConditionFailed) {
			// The losing side of two racing decisions lands here.
			p.logger.Warn("finalize raced an earlier decision", zap.String("identity", identity))
			return sagaerrors.ErrStaleTransition
		}
		return sagaerrors.NotificationFailed(err)
	}

	p.logger.Info("leave request resolved",
		zap.String("identity", identity),
		zap.String("status", terminalStatus),
	)
	return nil
}

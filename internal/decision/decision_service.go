package decision

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	decisionerrors "go-leaveflow/internal/decision/errors"
	"go-leaveflow/internal/engine"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ActionAccept = "ACCEPT"
	ActionReject = "REJECT"
)

//go:generate mockgen -source=decision_service.go -destination=mock/decision_service_mock.go -package=mock
type Service interface {
	// Resolve applies an external accept/reject action to a paused saga
	// and returns the resulting status label. The resolver never mutates
	// the record itself; the terminal transition happens when the engine
	// fires the ACCEPT/REJECT event back at the saga processor.
	Resolve(ctx context.Context, identity, action string) (string, error)
}

type service struct {
	repo   leaverequest.Repository
	engine engine.Engine
	logger *zap.Logger
}

func NewService(repo leaverequest.Repository, eng engine.Engine, logger ...*zap.Logger) Service {
	l := zap.L().Named("decision.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("decision.service")
	}
	return &service{repo: repo, engine: eng, logger: l}
}

func (s *service) Resolve(ctx context.Context, identity, action string) (string, error) {
	s.logger.Debug("resolve decision requested",
		zap.String("identity", identity),
		zap.String("action", action),
	)

	rec, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", decisionerrors.ErrRequestNotFound
		}
		return "", apperror.Wrap(err, apperror.CodeServiceUnavailable, "leave request store unavailable", http.StatusServiceUnavailable)
	}

	if rec.Status != leaverequest.StatusPending {
		s.logger.Warn("decision on non-pending request",
			zap.String("identity", identity),
			zap.String("status", rec.Status),
		)
		return "", decisionerrors.AlreadyProcessed(rec.Status)
	}

	if rec.ContinuationToken == nil || *rec.ContinuationToken == "" {
		s.logger.Error("pending request without continuation token", zap.String("identity", identity))
		return "", decisionerrors.ErrMissingToken
	}
	token := *rec.ContinuationToken

	normalized := strings.ToUpper(strings.TrimSpace(action))
	if normalized != ActionAccept && normalized != ActionReject {
		if err := s.engine.ReportFailure(ctx, token, "InvalidAction", fmt.Sprintf("unsupported action %q", action)); err != nil {
			s.logger.Warn("report failure to engine failed",
				zap.String("identity", identity),
				zap.Error(err),
			)
		}
		return "", decisionerrors.ErrInvalidAction
	}

	outcome := events.DecisionOutcome{
		Type:          normalized,
		ApplicantID:   rec.ApplicantID,
		ApplicantName: rec.ApplicantName,
		FromInstant:   rec.FromInstant,
		ToInstant:     rec.ToInstant,
	}
	if err := s.engine.ReportSuccess(ctx, token, outcome); err != nil {
		if errors.Is(err, engine.ErrUnknownToken) {
			return "", decisionerrors.ErrDecisionWindowExpired
		}
		return "", apperror.Wrap(err, apperror.CodeServiceUnavailable, "execution engine unavailable", http.StatusServiceUnavailable)
	}

	status := leaverequest.StatusRejected
	if normalized == ActionAccept {
		status = leaverequest.StatusAccepted
	}

	s.logger.Info("decision resolved",
		zap.String("identity", identity),
		zap.String("status", status),
	)
	return status, nil
}

package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go-leaveflow/internal/events"
	leaverequesterrors "go-leaveflow/internal/leaverequest/errors"
	"go-leaveflow/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// SagaStarter begins the approval continuation for a freshly created
// request; the saga orchestrator implements it. It runs inside the
// submission transaction so the record and its saga start commit together.
type SagaStarter interface {
	Start(ctx context.Context, tx *sql.Tx, cmd events.ApprovalStartCommand) error
}

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, applicantID, applicantName string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]LeaveRequestResponse, int64, error)
	GetByIdentity(ctx context.Context, identity string) (LeaveRequestResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	saga   SagaStarter
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, saga SagaStarter, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{db: db, repo: repo, saga: saga, logger: l}
}

// Submit is the submission guard: it validates the period, derives the
// dedup identity, refuses duplicate pending requests, and creates the
// record together with the saga start. The create-if-absent insert on
// the identity key is the authoritative uniqueness guarantee; the
// preceding lookup only produces nicer errors on the common path.
func (s *service) Submit(ctx context.Context, applicantID, applicantName string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("submit leave request",
		zap.String("applicant_id", applicantID),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	interval, err := ValidateDateRange(req.FromDate, req.ToDate, req.FromTime, req.ToTime, time.Now().UTC())
	if err != nil {
		s.logger.Warn("submit validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	identity := Fingerprint(applicantID, interval.From, interval.To)

	existing, err := s.repo.FindByIdentity(ctx, identity)
	switch {
	case err == nil:
		if existing.Status == StatusPending {
			s.logger.Warn("duplicate pending request",
				zap.String("identity", identity),
				zap.String("applicant_id", applicantID),
			)
			return LeaveRequestResponse{}, leaverequesterrors.ErrDuplicatePending
		}
		return LeaveRequestResponse{}, leaverequesterrors.ErrPeriodAlreadyDecided
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fall through to create
	default:
		s.logger.Error("submit lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, storeUnavailable(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, storeUnavailable(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec := &LeaveRequest{
		Identity:      identity,
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		FromInstant:   interval.From,
		ToInstant:     interval.To,
		Reason:        req.Reason,
		Status:        StatusPending,
		AppliedOn:     time.Now().UTC(),
	}

	if err := qtx.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrIdentityExists) {
			// A racing submission won the insert; Conflict regardless of
			// what the fast-path lookup saw.
			s.logger.Warn("create lost identity race", zap.String("identity", identity))
			return LeaveRequestResponse{}, leaverequesterrors.ErrDuplicatePending
		}
		s.logger.Error("submit persist failed", zap.Error(err))
		return LeaveRequestResponse{}, storeUnavailable(err)
	}

	cmd := events.ApprovalStartCommand{
		Identity:       identity,
		ApplicantID:    applicantID,
		ApplicantName:  applicantName,
		FromInstant:    interval.From,
		ToInstant:      interval.To,
		Reason:         req.Reason,
		TimeoutSeconds: interval.DurationSeconds(),
	}
	if err := s.saga.Start(ctx, tx, cmd); err != nil {
		s.logger.Error("submit saga start failed", zap.Error(err))
		return LeaveRequestResponse{}, storeUnavailable(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit commit failed", zap.Error(err))
		return LeaveRequestResponse{}, storeUnavailable(err)
	}

	s.logger.Info("leave request submitted",
		zap.String("identity", identity),
		zap.String("applicant_id", applicantID),
		zap.Int64("timeout_seconds", cmd.TimeoutSeconds),
	)

	return mapToResponse(*rec), nil
}

// GetAll pages through the store itself; the listing never materializes
// more rows than one page.
func (s *service) GetAll(ctx context.Context, page, pageSize int) ([]LeaveRequestResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, storeUnavailable(err)
	}

	recs, err := s.repo.FindAll(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, storeUnavailable(err)
	}
	return mapToListResponse(recs), total, nil
}

func (s *service) GetByIdentity(ctx context.Context, identity string) (LeaveRequestResponse, error) {
	rec, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, storeUnavailable(err)
	}
	return mapToResponse(*rec), nil
}

func storeUnavailable(err error) error {
	return apperror.Wrap(err, apperror.CodeServiceUnavailable, "leave request store unavailable", http.StatusServiceUnavailable)
}

func mapToResponse(rec LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		Identity:      rec.Identity,
		ApplicantID:   rec.ApplicantID,
		ApplicantName: rec.ApplicantName,
		FromInstant:   rec.FromInstant.UTC().Format(instantLayout),
		ToInstant:     rec.ToInstant.UTC().Format(instantLayout),
		Reason:        rec.Reason,
		Status:        rec.Status,
		AppliedOn:     rec.AppliedOn.UTC().Format(instantLayout),
	}
}

func mapToListResponse(recs []LeaveRequest) []LeaveRequestResponse {
	out := make([]LeaveRequestResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapToResponse(rec))
	}
	return out
}

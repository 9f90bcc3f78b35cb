package decision

import (
	"context"
	"database/sql"
	"testing"
	"time"

	decisionerrors "go-leaveflow/internal/decision/errors"
	"go-leaveflow/internal/engine"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	findByIdentityFn func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) leaverequest.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, r *leaverequest.LeaveRequest) error {
	return nil
}
func (f *fakeRepo) FindByIdentity(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
	return f.findByIdentityFn(ctx, identity)
}
func (f *fakeRepo) FindAll(ctx context.Context, limit, offset int) ([]leaverequest.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeRepo) AttachToken(ctx context.Context, identity, token string) error { return nil }
func (f *fakeRepo) Finalize(ctx context.Context, identity, terminalStatus string) error {
	return nil
}

type fakeEngine struct {
	reportSuccessFn func(ctx context.Context, token string, outcome events.DecisionOutcome) error
	reportFailureFn func(ctx context.Context, token, errorKind, cause string) error
}

func (f *fakeEngine) ReportSuccess(ctx context.Context, token string, outcome events.DecisionOutcome) error {
	return f.reportSuccessFn(ctx, token, outcome)
}
func (f *fakeEngine) ReportFailure(ctx context.Context, token, errorKind, cause string) error {
	return f.reportFailureFn(ctx, token, errorKind, cause)
}

func pendingRequest() *leaverequest.LeaveRequest {
	token := "tok-123"
	return &leaverequest.LeaveRequest{
		Identity:          "identity-1",
		ApplicantID:       "emp-1",
		ApplicantName:     "Ada Lovelace",
		FromInstant:       time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		ToInstant:         time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		Status:            leaverequest.StatusPending,
		ContinuationToken: &token,
	}
}

func TestService_Resolve_Accept(t *testing.T) {
	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return pendingRequest(), nil
	}}

	var reported events.DecisionOutcome
	var reportedToken string
	eng := &fakeEngine{reportSuccessFn: func(ctx context.Context, token string, outcome events.DecisionOutcome) error {
		reportedToken = token
		reported = outcome
		return nil
	}}

	svc := NewService(repo, eng)
	status, err := svc.Resolve(context.Background(), "identity-1", "accept")
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusAccepted, status)
	assert.Equal(t, "tok-123", reportedToken)
	assert.Equal(t, ActionAccept, reported.Type)
	assert.Equal(t, "emp-1", reported.ApplicantID)
}

func TestService_Resolve_Reject(t *testing.T) {
	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return pendingRequest(), nil
	}}
	eng := &fakeEngine{reportSuccessFn: func(ctx context.Context, token string, outcome events.DecisionOutcome) error {
		assert.Equal(t, ActionReject, outcome.Type)
		return nil
	}}

	svc := NewService(repo, eng)
	status, err := svc.Resolve(context.Background(), "identity-1", "REJECT")
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusRejected, status)
}

func TestService_Resolve_NotFound(t *testing.T) {
	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return nil, gorm.ErrRecordNotFound
	}}
	svc := NewService(repo, &fakeEngine{})

	_, err := svc.Resolve(context.Background(), "missing", "accept")
	assert.ErrorIs(t, err, decisionerrors.ErrRequestNotFound)
}

func TestService_Resolve_AlreadyProcessed(t *testing.T) {
	rec := pendingRequest()
	rec.Status = leaverequest.StatusRejected
	rec.ContinuationToken = nil

	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return rec, nil
	}}
	eng := &fakeEngine{
		reportSuccessFn: func(ctx context.Context, token string, outcome events.DecisionOutcome) error {
			t.Fatal("engine must not be called for a decided request")
			return nil
		},
		reportFailureFn: func(ctx context.Context, token, errorKind, cause string) error {
			t.Fatal("engine must not be called for a decided request")
			return nil
		},
	}

	svc := NewService(repo, eng)
	_, err := svc.Resolve(context.Background(), "identity-1", "accept")
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
	assert.Contains(t, appErr.Message, leaverequest.StatusRejected)
}

func TestService_Resolve_MissingToken(t *testing.T) {
	rec := pendingRequest()
	rec.ContinuationToken = nil

	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return rec, nil
	}}
	svc := NewService(repo, &fakeEngine{})

	_, err := svc.Resolve(context.Background(), "identity-1", "accept")
	assert.ErrorIs(t, err, decisionerrors.ErrMissingToken)
}

func TestService_Resolve_InvalidAction(t *testing.T) {
	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return pendingRequest(), nil
	}}

	var failureKind string
	eng := &fakeEngine{reportFailureFn: func(ctx context.Context, token, errorKind, cause string) error {
		failureKind = errorKind
		return nil
	}}

	svc := NewService(repo, eng)
	_, err := svc.Resolve(context.Background(), "identity-1", "postpone")
	assert.ErrorIs(t, err, decisionerrors.ErrInvalidAction)
	assert.Equal(t, "InvalidAction", failureKind)
}

func TestService_Resolve_ExpiredWindow(t *testing.T) {
	repo := &fakeRepo{findByIdentityFn: func(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
		return pendingRequest(), nil
	}}
	eng := &fakeEngine{reportSuccessFn: func(ctx context.Context, token string, outcome events.DecisionOutcome) error {
		return engine.ErrUnknownToken
	}}

	svc := NewService(repo, eng)
	_, err := svc.Resolve(context.Background(), "identity-1", "accept")
	assert.ErrorIs(t, err, decisionerrors.ErrDecisionWindowExpired)
}

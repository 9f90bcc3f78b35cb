package saga

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-leaveflow/internal/directory"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/mailer"
	sagaerrors "go-leaveflow/internal/saga/errors"
	"go-leaveflow/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	attachTokenFn func(ctx context.Context, identity, token string) error
	finalizeFn    func(ctx context.Context, identity, terminalStatus string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) leaverequest.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, r *leaverequest.LeaveRequest) error {
	return nil
}
func (f *fakeRepo) FindByIdentity(ctx context.Context, identity string) (*leaverequest.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeRepo) FindAll(ctx context.Context, limit, offset int) ([]leaverequest.LeaveRequest, error) {
	return nil, nil
}
func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeRepo) AttachToken(ctx context.Context, identity, token string) error {
	return f.attachTokenFn(ctx, identity, token)
}
func (f *fakeRepo) Finalize(ctx context.Context, identity, terminalStatus string) error {
	return f.finalizeFn(ctx, identity, terminalStatus)
}

type fakeDirectory struct {
	adminsFn      func(ctx context.Context, excludeAccountID string) ([]directory.Account, error)
	accountByIDFn func(ctx context.Context, id string) (*directory.Account, error)
}

func (f *fakeDirectory) Admins(ctx context.Context, excludeAccountID string) ([]directory.Account, error) {
	return f.adminsFn(ctx, excludeAccountID)
}
func (f *fakeDirectory) AccountByID(ctx context.Context, id string) (*directory.Account, error) {
	return f.accountByIDFn(ctx, id)
}

type fakeDispatcher struct {
	sendFn func(ctx context.Context, msg mailer.Message) error
}

func (f *fakeDispatcher) Send(ctx context.Context, msg mailer.Message) error {
	return f.sendFn(ctx, msg)
}

func requestEvent() events.ApprovalEvent {
	return events.ApprovalEvent{
		Type:              events.EventRequest,
		ApplicantID:       "emp-1",
		ApplicantName:     "Ada Lovelace",
		FromInstant:       time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
		ToInstant:         time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
		Reason:            "family visit",
		ContinuationToken: "tok-123",
	}
}

func TestProcessor_Request(t *testing.T) {
	evt := requestEvent()
	wantIdentity := leaverequest.Fingerprint(evt.ApplicantID, evt.FromInstant, evt.ToInstant)

	var attachedIdentity, attachedToken string
	repo := &fakeRepo{attachTokenFn: func(ctx context.Context, identity, token string) error {
		attachedIdentity, attachedToken = identity, token
		return nil
	}}
	dir := &fakeDirectory{adminsFn: func(ctx context.Context, excludeAccountID string) ([]directory.Account, error) {
		assert.Equal(t, "emp-1", excludeAccountID)
		return []directory.Account{
			{ID: "adm-1", Email: "boss@example.com"},
			{ID: "adm-2", Email: "hr@example.com"},
		}, nil
	}}

	var sent mailer.Message
	dispatcher := &fakeDispatcher{sendFn: func(ctx context.Context, msg mailer.Message) error {
		sent = msg
		return nil
	}}

	p := NewProcessor(repo, dir, dispatcher, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), evt)
	assert.NoError(t, err)

	assert.Equal(t, wantIdentity, attachedIdentity)
	assert.Equal(t, "tok-123", attachedToken)
	assert.Equal(t, []string{"boss@example.com", "hr@example.com"}, sent.Recipients)
	assert.Contains(t, sent.TextBody, wantIdentity)
}

func TestProcessor_Request_MissingToken(t *testing.T) {
	evt := requestEvent()
	evt.ContinuationToken = ""

	p := NewProcessor(&fakeRepo{}, &fakeDirectory{}, &fakeDispatcher{}, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), evt)
	assert.ErrorIs(t, err, sagaerrors.ErrMissingToken)
}

func TestProcessor_Request_NoRecipients(t *testing.T) {
	repo := &fakeRepo{attachTokenFn: func(ctx context.Context, identity, token string) error {
		t.Fatal("token must not be attached when nobody was notified")
		return nil
	}}
	dir := &fakeDirectory{adminsFn: func(ctx context.Context, excludeAccountID string) ([]directory.Account, error) {
		return nil, nil
	}}

	p := NewProcessor(repo, dir, &fakeDispatcher{}, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), requestEvent())
	assert.ErrorIs(t, err, sagaerrors.ErrNoRecipients)
}

func TestProcessor_Request_DispatchFailure(t *testing.T) {
	dir := &fakeDirectory{adminsFn: func(ctx context.Context, excludeAccountID string) ([]directory.Account, error) {
		return []directory.Account{{ID: "adm-1", Email: "boss@example.com"}}, nil
	}}
	dispatcher := &fakeDispatcher{sendFn: func(ctx context.Context, msg mailer.Message) error {
		return errors.New("smtp connect timeout")
	}}

	p := NewProcessor(&fakeRepo{}, dir, dispatcher, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), requestEvent())

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
}

func TestProcessor_Request_StaleAttach(t *testing.T) {
	repo := &fakeRepo{attachTokenFn: func(ctx context.Context, identity, token string) error {
		return leaverequest.ErrConditionFailed
	}}
	dir := &fakeDirectory{adminsFn: func(ctx context.Context, excludeAccountID string) ([]directory.Account, error) {
		return []directory.Account{{ID: "adm-1", Email: "boss@example.com"}}, nil
	}}
	dispatcher := &fakeDispatcher{sendFn: func(ctx context.Context, msg mailer.Message) error { return nil }}

	p := NewProcessor(repo, dir, dispatcher, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), requestEvent())
	assert.ErrorIs(t, err, sagaerrors.ErrStaleTransition)
}

func TestProcessor_AcceptAndReject(t *testing.T) {
	evt := requestEvent()
	evt.ContinuationToken = ""
	wantIdentity := leaverequest.Fingerprint(evt.ApplicantID, evt.FromInstant, evt.ToInstant)

	var finalized []string
	repo := &fakeRepo{finalizeFn: func(ctx context.Context, identity, terminalStatus string) error {
		assert.Equal(t, wantIdentity, identity)
		finalized = append(finalized, terminalStatus)
		return nil
	}}
	dir := &fakeDirectory{accountByIDFn: func(ctx context.Context, id string) (*directory.Account, error) {
		return &directory.Account{ID: id, Name: "Ada Lovelace", Email: "ada@example.com"}, nil
	}}

	var sent []mailer.Message
	dispatcher := &fakeDispatcher{sendFn: func(ctx context.Context, msg mailer.Message) error {
		sent = append(sent, msg)
		return nil
	}}

	p := NewProcessor(repo, dir, dispatcher, "noreply@example.com", "https://leave.example.com")

	evt.Type = events.EventAccept
	assert.NoError(t, p.Process(context.Background(), evt))
	evt.Type = events.EventReject
	assert.NoError(t, p.Process(context.Background(), evt))

	assert.Equal(t, []string{leaverequest.StatusAccepted, leaverequest.StatusRejected}, finalized)
	assert.Len(t, sent, 2)
	assert.Equal(t, []string{"ada@example.com"}, sent[0].Recipients)
	assert.Contains(t, sent[0].Subject, "accepted")
	assert.Contains(t, sent[1].Subject, "rejected")
}

func TestProcessor_Decision_RacedFinalize(t *testing.T) {
	repo := &fakeRepo{finalizeFn: func(ctx context.Context, identity, terminalStatus string) error {
		return leaverequest.ErrConditionFailed
	}}
	dir := &fakeDirectory{accountByIDFn: func(ctx context.Context, id string) (*directory.Account, error) {
		return &directory.Account{ID: id, Email: "ada@example.com"}, nil
	}}
	dispatcher := &fakeDispatcher{sendFn: func(ctx context.Context, msg mailer.Message) error { return nil }}

	evt := requestEvent()
	evt.Type = events.EventAccept
	evt.ContinuationToken = ""

	p := NewProcessor(repo, dir, dispatcher, "noreply@example.com", "https://leave.example.com")
	err := p.Process(context.Background(), evt)
	assert.ErrorIs(t, err, sagaerrors.ErrStaleTransition)
}

func TestProcessor_InvalidEvents(t *testing.T) {
	p := NewProcessor(&fakeRepo{}, &fakeDirectory{}, &fakeDispatcher{}, "noreply@example.com", "https://leave.example.com")

	evt := requestEvent()
	evt.Type = "POSTPONE"
	assert.ErrorIs(t, p.Process(context.Background(), evt), sagaerrors.ErrInvalidEvent)

	evt = requestEvent()
	evt.ApplicantID = ""
	assert.ErrorIs(t, p.Process(context.Background(), evt), sagaerrors.ErrInvalidEvent)

	evt = requestEvent()
	evt.FromInstant = time.Time{}
	assert.ErrorIs(t, p.Process(context.Background(), evt), sagaerrors.ErrInvalidEvent)
}

package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrIdentityExists reports that the create-if-absent insert lost to an
// existing row with the same identity. This is the authoritative dedup
// guard; the service's prior GET is only a fast path.
var ErrIdentityExists = errors.New("leave request identity already exists")

// ErrConditionFailed reports that a conditional update matched no row,
// i.e. the request moved on since the caller last observed it.
var ErrConditionFailed = errors.New("leave request state condition failed")

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *LeaveRequest) error
	FindByIdentity(ctx context.Context, identity string) (*LeaveRequest, error)
	FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, error)
	Count(ctx context.Context) (int64, error)
	AttachToken(ctx context.Context, identity, token string) error
	Finalize(ctx context.Context, identity, terminalStatus string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the write operations to the given transaction. Writes on
// the returned repository execute on the tx connection itself, so they
// commit or roll back together with everything else enqueued on it.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const insertLeaveRequest = `
INSERT INTO leave_requests (
	identity, applicant_id, applicant_name, from_instant, to_instant,
	reason, status, applied_on, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (r *repository) Create(ctx context.Context, rec *LeaveRequest) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	var err error
	if r.tx != nil {
		_, err = r.tx.ExecContext(ctx, insertLeaveRequest,
			rec.Identity, rec.ApplicantID, rec.ApplicantName,
			rec.FromInstant, rec.ToInstant, rec.Reason,
			rec.Status, rec.AppliedOn, rec.CreatedAt, rec.UpdatedAt,
		)
	} else {
		err = r.db.WithContext(ctx).Create(rec).Error
	}
	if isUniqueViolation(err) {
		return ErrIdentityExists
	}
	return err
}

func (r *repository) FindByIdentity(ctx context.Context, identity string) (*LeaveRequest, error) {
	var rec LeaveRequest
	err := r.db.WithContext(ctx).
		First(&rec, "identity = ?", identity).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) FindAll(ctx context.Context, limit, offset int) ([]LeaveRequest, error) {
	var recs []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("applied_on DESC").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	return recs, err
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Count(&total).Error
	return total, err
}

const attachTokenQuery = `
UPDATE leave_requests
SET continuation_token = $2, updated_at = NOW()
WHERE identity = $1 AND status = $3 AND continuation_token IS NULL
`

// AttachToken records the continuation token on a request that is still
// PENDING and has no token yet. The single conditional UPDATE is what
// makes the attach linearizable per identity.
func (r *repository) AttachToken(ctx context.Context, identity, token string) error {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, attachTokenQuery, identity, token, StatusPending)
		return checkAffected(res, err)
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("identity = ?", identity).
		Where("status = ?", StatusPending).
		Where("continuation_token IS NULL").
		Update("continuation_token", token)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}

const finalizeQuery = `
UPDATE leave_requests
SET status = $2, continuation_token = NULL, updated_at = NOW()
WHERE identity = $1 AND status = $3
`

// Finalize moves a PENDING request to its terminal status and clears the
// continuation token in the same statement. When two decisions race, the
// condition lets exactly one of them through.
func (r *repository) Finalize(ctx context.Context, identity, terminalStatus string) error {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, finalizeQuery, identity, terminalStatus, StatusPending)
		return checkAffected(res, err)
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("identity = ?", identity).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":             terminalStatus,
			"continuation_token": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConditionFailed
	}
	return nil
}

func checkAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConditionFailed
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

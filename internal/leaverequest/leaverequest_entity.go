package leaverequest

import (
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// IsTerminal reports whether a status admits no further transition.
func IsTerminal(status string) bool {
	return status == StatusAccepted || status == StatusRejected
}

// LeaveRequest is the sole persistent entity. Identity is derived by
// Fingerprint and never client-supplied; the primary key doubles as the
// dedup guard because the insert fails on a colliding identity.
type LeaveRequest struct {
	Identity      string    `gorm:"type:varchar(64);primaryKey"`
	ApplicantID   string    `gorm:"type:varchar(120);not null;index:idx_leave_requests_applicant"`
	ApplicantName string    `gorm:"type:varchar(255);not null"`
	FromInstant   time.Time `gorm:"not null"`
	ToInstant     time.Time `gorm:"not null"`
	Reason        string    `gorm:"type:text"`

	Status    string    `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_status"`
	AppliedOn time.Time `gorm:"not null"`

	// Reserved for a future review trail; the current flow never sets them.
	ReviewedOn   *time.Time
	ReviewerID   *string `gorm:"type:varchar(120)"`
	ReviewerName *string `gorm:"type:varchar(255)"`

	// Opaque handle issued by the execution engine, present iff a
	// decision is outstanding. Never interpreted here.
	ContinuationToken *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

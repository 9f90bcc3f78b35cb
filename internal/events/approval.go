package events

import "time"

const (
	// ApprovalCommandsTopic carries saga-start commands from the API
	// process to the execution engine.
	ApprovalCommandsTopic = "leave.approval.commands.v1"
	// ApprovalDecisionsTopic carries resume signals (success or failure)
	// back to the engine for a suspended saga.
	ApprovalDecisionsTopic = "leave.approval.decisions.v1"
)

const (
	EventRequest = "REQUEST"
	EventAccept  = "ACCEPT"
	EventReject  = "REJECT"
)

const (
	DecisionSignalSuccess = "SUCCESS"
	DecisionSignalFailure = "FAILURE"
)

// ApprovalStartCommand asks the engine to begin a continuation for a
// newly created leave request. TimeoutSeconds bounds how long the engine
// keeps the continuation token alive.
type ApprovalStartCommand struct {
	Identity       string    `json:"identity"`
	ApplicantID    string    `json:"applicant_id"`
	ApplicantName  string    `json:"applicant_name"`
	FromInstant    time.Time `json:"from_instant"`
	ToInstant      time.Time `json:"to_instant"`
	Reason         string    `json:"reason,omitempty"`
	TimeoutSeconds int64     `json:"timeout_seconds"`
}

// DecisionOutcome is the structured payload reported to the engine when
// a decision resumes a suspended saga.
type DecisionOutcome struct {
	Type          string    `json:"type"` // ACCEPT or REJECT
	ApplicantID   string    `json:"applicant_id"`
	ApplicantName string    `json:"applicant_name"`
	FromInstant   time.Time `json:"from_instant"`
	ToInstant     time.Time `json:"to_instant"`
}

// ApprovalDecisionEvent is published by the engine client on
// ReportSuccess/ReportFailure, keyed by the continuation token.
type ApprovalDecisionEvent struct {
	Token     string           `json:"token"`
	Signal    string           `json:"signal"` // SUCCESS or FAILURE
	Outcome   *DecisionOutcome `json:"outcome,omitempty"`
	ErrorKind string           `json:"error_kind,omitempty"`
	Cause     string           `json:"cause,omitempty"`
}

// ApprovalEvent is what the engine hands the saga event processor. The
// identity is deliberately absent: the processor re-derives it from the
// applicant and interval, which keeps the dedup key authoritative.
type ApprovalEvent struct {
	Type              string    `json:"type"` // REQUEST, ACCEPT or REJECT
	ApplicantID       string    `json:"applicant_id"`
	ApplicantName     string    `json:"applicant_name"`
	FromInstant       time.Time `json:"from_instant"`
	ToInstant         time.Time `json:"to_instant"`
	Reason            string    `json:"reason,omitempty"`
	ContinuationToken string    `json:"continuation_token,omitempty"`
}

package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApprovalRequestMessage(t *testing.T) {
	from := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 12, 17, 0, 0, 0, time.UTC)

	msg := ApprovalRequestMessage(
		"noreply@example.com", "https://leave.example.com", "abc-123",
		"Ada Lovelace", "family visit",
		from, to,
		[]string{"boss@example.com"},
	)

	assert.Equal(t, "noreply@example.com", msg.Sender)
	assert.Equal(t, []string{"boss@example.com"}, msg.Recipients)
	assert.Contains(t, msg.Subject, "Ada Lovelace")
	assert.Contains(t, msg.TextBody, "https://leave.example.com/api/v1/decisions/abc-123/accept")
	assert.Contains(t, msg.TextBody, "https://leave.example.com/api/v1/decisions/abc-123/reject")
	assert.Contains(t, msg.TextBody, "family visit")
	assert.Contains(t, msg.HTMLBody, `href="https://leave.example.com/api/v1/decisions/abc-123/accept"`)
}

func TestApprovalRequestMessage_NoReason(t *testing.T) {
	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	msg := ApprovalRequestMessage(
		"noreply@example.com", "https://leave.example.com", "abc-123",
		"Ada Lovelace", "",
		from, from.Add(24*time.Hour),
		[]string{"boss@example.com"},
	)
	assert.Contains(t, msg.TextBody, "none given")
}

func TestDecisionMessage(t *testing.T) {
	from := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	accepted := DecisionMessage("noreply@example.com", "ada@example.com", "Ada Lovelace", from, to, true)
	assert.Equal(t, []string{"ada@example.com"}, accepted.Recipients)
	assert.Contains(t, accepted.Subject, "accepted")
	assert.Contains(t, accepted.TextBody, "accepted")

	rejected := DecisionMessage("noreply@example.com", "ada@example.com", "Ada Lovelace", from, to, false)
	assert.Contains(t, rejected.Subject, "rejected")
}

package mailer

import (
	"fmt"
	"time"
)

const instantLayout = "2006-01-02 15:04 MST"

// ApprovalRequestMessage renders the mail sent to administrators when a
// leave request awaits a decision. The action links embed the request
// identity, which is URL-safe by construction.
func ApprovalRequestMessage(
	sender, baseURL, identity, applicantName, reason string,
	from, to time.Time,
	recipients []string,
) Message {
	acceptURL := fmt.Sprintf("%s/api/v1/decisions/%s/accept", baseURL, identity)
	rejectURL := fmt.Sprintf("%s/api/v1/decisions/%s/reject", baseURL, identity)

	period := fmt.Sprintf("%s until %s", from.Format(instantLayout), to.Format(instantLayout))

	text := fmt.Sprintf(
		"%s requested leave from %s.\n\nReason: %s\n\nAccept: %s\nReject: %s\n",
		applicantName, period, orNone(reason), acceptURL, rejectURL,
	)
	html := fmt.Sprintf(
		`<p><strong>%s</strong> requested leave from %s.</p>
<p>Reason: %s</p>
<p><a href="%s">Accept</a> &middot; <a href="%s">Reject</a></p>`,
		applicantName, period, orNone(reason), acceptURL, rejectURL,
	)

	return Message{
		Sender:     sender,
		Recipients: recipients,
		Subject:    fmt.Sprintf("Leave request from %s", applicantName),
		TextBody:   text,
		HTMLBody:   html,
	}
}

// DecisionMessage renders the mail sent to the applicant once their
// request reached a terminal state.
func DecisionMessage(
	sender, applicantEmail, applicantName string,
	from, to time.Time,
	accepted bool,
) Message {
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}

	period := fmt.Sprintf("%s until %s", from.Format(instantLayout), to.Format(instantLayout))

	return Message{
		Sender:     sender,
		Recipients: []string{applicantEmail},
		Subject:    fmt.Sprintf("Your leave request was %s", verdict),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nyour leave request for %s was %s.\n",
			applicantName, period, verdict,
		),
		HTMLBody: fmt.Sprintf(
			"<p>Hi %s,</p><p>your leave request for %s was <strong>%s</strong>.</p>",
			applicantName, period, verdict,
		),
	}
}

func orNone(reason string) string {
	if reason == "" {
		return "none given"
	}
	return reason
}

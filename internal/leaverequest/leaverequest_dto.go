package leaverequest

type SubmitLeaveRequest struct {
	FromDate string `json:"from_date" binding:"required"`
	ToDate   string `json:"to_date" binding:"required"`
	FromTime string `json:"from_time"`
	ToTime   string `json:"to_time"`
	Reason   string `json:"reason"`
}

type LeaveRequestResponse struct {
	Identity      string `json:"identity"`
	ApplicantID   string `json:"applicant_id"`
	ApplicantName string `json:"applicant_name"`
	FromInstant   string `json:"from_instant"`
	ToInstant     string `json:"to_instant"`
	Reason        string `json:"reason,omitempty"`
	Status        string `json:"status"`
	AppliedOn     string `json:"applied_on"`
}

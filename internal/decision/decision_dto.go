package decision

type ResolveDecisionRequest struct {
	Action string `json:"action" binding:"required"`
}

type DecisionResponse struct {
	Identity string `json:"identity"`
	Status   string `json:"status"`
}

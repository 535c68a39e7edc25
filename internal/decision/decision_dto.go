package decision

type BeginDecisionRequest struct {
	RequestID string `json:"request_id" binding:"required,uuid"`
	Action    string `json:"action" binding:"required"`
}

// FinalizeDecisionRequest carries the admin comment. An empty comment
// is a valid final answer, so finalize is a separate call rather than a
// default applied on timeout.
type FinalizeDecisionRequest struct {
	Comment string `json:"comment"`
}

type PendingActionResponse struct {
	AdminID   string `json:"admin_id"`
	RequestID string `json:"request_id"`
	Action    string `json:"action"`
}

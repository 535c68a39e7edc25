package request

// CanTransition reports whether a status change is allowed. Pending is
// the only state with outgoing edges; decided and cancelled requests
// are final.
func CanTransition(from, to string) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

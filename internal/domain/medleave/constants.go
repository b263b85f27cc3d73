package medleave

const (
	StatePending  = "pending_review"
	StateApproved = "approved"
	StateRejected = "rejected"
)

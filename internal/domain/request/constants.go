package request

// Lifecycle states for a leave request. A request is immutable once it
// reaches a terminal state, except for the medical-leave anulment path that
// moves an approved request through cancellation_requested_medical_leave.
const (
	StatePendingSupervisor                 = "pending_supervisor"
	StatePendingDirection                  = "pending_direction"
	StateApproved                          = "approved"
	StateRejected                          = "rejected"
	StateCancelledByEmployee               = "cancelled_by_employee"
	StateCancellationRequestedMedicalLeave = "cancellation_requested_medical_leave"
	StateCancelledByMedicalLeave           = "cancelled_by_medical_leave"
)

// Approval stages recorded on the request.
const (
	StageSupervisor = "supervisor"
	StageDirection  = "direction"
)

func Pending(state string) bool {
	return state == StatePendingSupervisor || state == StatePendingDirection
}

func Terminal(state string) bool {
	switch state {
	case StateRejected, StateCancelledByEmployee, StateCancelledByMedicalLeave:
		return true
	}
	return false
}

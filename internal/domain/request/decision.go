package request

import "intranet/internal/domain/auth"

// Transition is one row of the approval decision table.
type Transition struct {
	State        string
	SubmitterMin int
	SubmitterMax int
	ApproverMin  int
	ApproverMax  int
	// DistinctActor forbids the submitter resolving their own request.
	// Only Sub-direction submitters need it spelled out: their peers sit at
	// the same level that approves them.
	DistinctActor bool

	Next    string
	Stage   string
	Consume bool
}

// decisionTable enumerates every valid (state, submitter level, approver
// level) combination. Anything not listed is rejected with ErrInvalidState;
// the silent no-op behavior of the predecessor system hid decision-table
// misses from approvers.
var decisionTable = []Transition{
	// First stage: a Functionary's request needs a supervisor-level pass.
	// Higher levels may also clear this stage, always recorded as the
	// supervisor approval so the chain on the printed resolution stays
	// two-step.
	{
		State:        StatePendingSupervisor,
		SubmitterMin: auth.LevelFunctionary, SubmitterMax: auth.LevelFunctionary,
		ApproverMin: auth.LevelSupervisor, ApproverMax: auth.LevelDirection,
		Next: StatePendingDirection, Stage: StageSupervisor,
	},
	// Second stage: direction-level sign-off consumes balance.
	{
		State:        StatePendingDirection,
		SubmitterMin: auth.LevelFunctionary, SubmitterMax: auth.LevelSupervisor,
		ApproverMin: auth.LevelSubDirection, ApproverMax: auth.LevelDirection,
		Next: StateApproved, Stage: StageDirection, Consume: true,
	},
	// A Sub-direction member is approved by a different Sub-direction
	// member or by Direction.
	{
		State:        StatePendingDirection,
		SubmitterMin: auth.LevelSubDirection, SubmitterMax: auth.LevelSubDirection,
		ApproverMin: auth.LevelSubDirection, ApproverMax: auth.LevelDirection,
		DistinctActor: true,
		Next:          StateApproved, Stage: StageDirection, Consume: true,
	},
	// Direction's own requests are countersigned by Sub-direction.
	{
		State:        StatePendingDirection,
		SubmitterMin: auth.LevelDirection, SubmitterMax: auth.LevelDirection,
		ApproverMin: auth.LevelSubDirection, ApproverMax: auth.LevelSubDirection,
		Next: StateApproved, Stage: StageDirection, Consume: true,
	},
}

// Decide resolves the transition for an approval attempt. The second return
// is false when no table row matches; ErrForbidden is reserved for rows that
// match on levels but fail the distinct-actor rule, so callers can tell an
// authorization failure from an out-of-order call.
func Decide(state string, submitterLevel, approverLevel int, sameActor bool) (Transition, error) {
	for _, t := range decisionTable {
		if t.State != state {
			continue
		}
		if submitterLevel < t.SubmitterMin || submitterLevel > t.SubmitterMax {
			continue
		}
		if approverLevel < t.ApproverMin || approverLevel > t.ApproverMax {
			continue
		}
		if t.DistinctActor && sameActor {
			return Transition{}, ErrForbidden
		}
		return t, nil
	}
	return Transition{}, ErrInvalidState
}

// InitialState derives the entry state of a fresh request from the
// submitter's hierarchy level. Only Functionary requests pass through the
// supervisor stage; everyone else goes straight to direction review.
func InitialState(submitterLevel int) string {
	if submitterLevel == auth.LevelFunctionary {
		return StatePendingSupervisor
	}
	return StatePendingDirection
}

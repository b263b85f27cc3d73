package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet/internal/domain/auth"
)

func TestInitialState(t *testing.T) {
	assert.Equal(t, StatePendingSupervisor, InitialState(auth.LevelFunctionary))
	assert.Equal(t, StatePendingDirection, InitialState(auth.LevelSupervisor))
	assert.Equal(t, StatePendingDirection, InitialState(auth.LevelSubDirection))
	assert.Equal(t, StatePendingDirection, InitialState(auth.LevelDirection))
}

func TestDecideFirstStage(t *testing.T) {
	for _, approverLevel := range []int{auth.LevelSupervisor, auth.LevelSubDirection, auth.LevelDirection} {
		transition, err := Decide(StatePendingSupervisor, auth.LevelFunctionary, approverLevel, false)
		require.NoError(t, err, "approver level %d", approverLevel)
		assert.Equal(t, StatePendingDirection, transition.Next)
		assert.Equal(t, StageSupervisor, transition.Stage)
		assert.False(t, transition.Consume, "first stage must not consume balance")
	}
}

func TestDecideFirstStageRejectsPeers(t *testing.T) {
	_, err := Decide(StatePendingSupervisor, auth.LevelFunctionary, auth.LevelFunctionary, false)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDecideNeverJumpsToApprovedFromSupervisorStage(t *testing.T) {
	// A direction-level approver clearing the first stage still lands in
	// pending_direction; approval always takes two recorded steps for a
	// Functionary's request.
	transition, err := Decide(StatePendingSupervisor, auth.LevelFunctionary, auth.LevelDirection, false)
	require.NoError(t, err)
	assert.Equal(t, StatePendingDirection, transition.Next)
}

func TestDecideSecondStage(t *testing.T) {
	cases := []struct {
		name           string
		submitterLevel int
		approverLevel  int
		sameActor      bool
		wantErr        error
	}{
		{name: "functionary approved by subdirection", submitterLevel: 1, approverLevel: 3},
		{name: "functionary approved by direction", submitterLevel: 1, approverLevel: 4},
		{name: "supervisor approved by subdirection", submitterLevel: 2, approverLevel: 3},
		{name: "supervisor approved by direction", submitterLevel: 2, approverLevel: 4},
		{name: "subdirection approved by peer", submitterLevel: 3, approverLevel: 3},
		{name: "subdirection approved by direction", submitterLevel: 3, approverLevel: 4},
		{name: "direction approved by subdirection", submitterLevel: 4, approverLevel: 3},
		{name: "supervisor cannot resolve second stage", submitterLevel: 1, approverLevel: 2, wantErr: ErrInvalidState},
		{name: "subdirection cannot self approve", submitterLevel: 3, approverLevel: 3, sameActor: true, wantErr: ErrForbidden},
		{name: "direction cannot approve own request", submitterLevel: 4, approverLevel: 4, wantErr: ErrInvalidState},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transition, err := Decide(StatePendingDirection, tc.submitterLevel, tc.approverLevel, tc.sameActor)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateApproved, transition.Next)
			assert.Equal(t, StageDirection, transition.Stage)
			assert.True(t, transition.Consume, "terminal approval consumes balance")
		})
	}
}

func TestDecideTerminalStatesHaveNoTransitions(t *testing.T) {
	for _, state := range []string{StateApproved, StateRejected, StateCancelledByEmployee, StateCancelledByMedicalLeave} {
		_, err := Decide(state, auth.LevelFunctionary, auth.LevelDirection, false)
		assert.ErrorIs(t, err, ErrInvalidState, "state %s", state)
	}
}

// Full walk of a Functionary's vacation request: supervisor pass, then
// direction sign-off, consuming exactly once.
func TestDecisionChainForFunctionary(t *testing.T) {
	first, err := Decide(StatePendingSupervisor, auth.LevelFunctionary, auth.LevelSupervisor, false)
	require.NoError(t, err)
	require.Equal(t, StatePendingDirection, first.Next)
	require.False(t, first.Consume)

	second, err := Decide(first.Next, auth.LevelFunctionary, auth.LevelSubDirection, false)
	require.NoError(t, err)
	assert.Equal(t, StateApproved, second.Next)
	assert.True(t, second.Consume)

	_, err = Decide(second.Next, auth.LevelFunctionary, auth.LevelDirection, false)
	assert.ErrorIs(t, err, ErrInvalidState, "approved request accepts no further decisions")
}

func TestPendingAndTerminal(t *testing.T) {
	assert.True(t, Pending(StatePendingSupervisor))
	assert.True(t, Pending(StatePendingDirection))
	assert.False(t, Pending(StateApproved))

	assert.True(t, Terminal(StateRejected))
	assert.True(t, Terminal(StateCancelledByMedicalLeave))
	assert.False(t, Terminal(StateCancellationRequestedMedicalLeave))
}

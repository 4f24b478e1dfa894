package access

import (
	"testing"

	"github.com/falak-club/apiserver/types"
	"github.com/stretchr/testify/require"
)

func statusPtr(s types.ApprovalStatus) *types.ApprovalStatus { return &s }

func TestSequencerLastStartedWins(t *testing.T) {
	seq := NewSequencer()

	first := seq.Begin()
	second := seq.Begin()

	fresh := Resolution{Status: statusPtr(types.StatusApproved)}
	require.True(t, seq.Apply(second, fresh))

	stale := Resolution{Status: statusPtr(types.StatusPending)}
	require.False(t, seq.Apply(first, stale))

	current := seq.Current()
	require.NotNil(t, current.Status)
	require.Equal(t, types.StatusApproved, *current.Status)
}

func TestSequencerInOrderApplies(t *testing.T) {
	seq := NewSequencer()

	first := seq.Begin()
	require.True(t, seq.Apply(first, Resolution{Status: statusPtr(types.StatusPending)}))

	second := seq.Begin()
	require.True(t, seq.Apply(second, Resolution{Status: statusPtr(types.StatusApproved)}))

	current := seq.Current()
	require.Equal(t, types.StatusApproved, *current.Status)
}

func TestSequencerResetDropsPending(t *testing.T) {
	seq := NewSequencer()

	pending := seq.Begin()
	seq.Reset()

	require.False(t, seq.Apply(pending, Resolution{Status: statusPtr(types.StatusApproved)}))
	require.Nil(t, seq.Current().Status)
	require.Nil(t, seq.Current().Role)
}

func TestSequencerResolutionAfterReset(t *testing.T) {
	seq := NewSequencer()
	seq.Reset()

	next := seq.Begin()
	require.True(t, seq.Apply(next, Resolution{Role: rolePtr(types.RoleNormal)}))
	require.NotNil(t, seq.Current().Role)
}

func rolePtr(r types.AdminRole) *types.AdminRole { return &r }

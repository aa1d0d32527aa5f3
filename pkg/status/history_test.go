package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestUnpackResourceHistoryStartDone(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	ws.AddResource(r)

	UnpackResourceHistory(ws, r, "n1", []*types.HistoryEntry{
		{Task: types.TaskStart, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK, CallID: 1, When: 5},
	})

	assert.Equal(t, types.RoleStarted, r.Role)
	assert.True(t, r.RunningOn["n1"])
}

func TestUnpackResourceHistoryStopDone(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.Role = types.RoleStarted
	r.RunningOn["n1"] = true
	ws.AddResource(r)

	UnpackResourceHistory(ws, r, "n1", []*types.HistoryEntry{
		{Task: types.TaskStop, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK, CallID: 1, When: 5},
	})

	assert.Equal(t, types.RoleStopped, r.Role)
	assert.False(t, r.RunningOn["n1"])
}

func TestUnpackResourceHistoryErrorCallsFailurePipeline(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.OnFail = types.OnFailBan
	ws.AddResource(r)

	UnpackResourceHistory(ws, r, "n1", []*types.HistoryEntry{
		{Task: types.TaskMonitor, ExecutionStatus: types.ExecError, ExitStatus: types.ExitErrorGeneric, ExpectedExitStatus: types.ExitOK, CallID: 1, When: 5},
	})

	assert.True(t, r.Flags.Failed)
	assert.Len(t, ws.Failures, 1)
}

func TestUnpackResourceHistoryNotifyIgnored(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	ws.AddResource(r)

	UnpackResourceHistory(ws, r, "n1", []*types.HistoryEntry{
		{Task: types.TaskNotify, ExecutionStatus: types.ExecDone, CallID: 1},
	})

	assert.Equal(t, types.RoleStopped, r.Role)
	assert.False(t, r.Flags.Failed)
}

func TestCheckExpiryNeverExpiresNotInstalled(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.FailureTimeout = 10
	expired := checkExpiry(ws, r, &types.HistoryEntry{ExecutionStatus: types.ExecNotInstalled, When: 0})
	assert.False(t, expired)
}

func TestCheckExpiryConfirmedWhenNotFailed(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	ws.EffectiveTime = 1000
	r := types.NewResource("r1", types.VariantPrimitive)
	r.FailureTimeout = 10
	r.Flags.Failed = false
	expired := checkExpiry(ws, r, &types.HistoryEntry{ExecutionStatus: types.ExecDone, When: 0})
	assert.True(t, expired)
}

func TestRemapExitStatusMaskedProbeFailure(t *testing.T) {
	e := &types.HistoryEntry{Task: types.TaskMonitor, ExitStatus: types.ExitNotInstalled, ExpectedExitStatus: types.ExitOK}
	remapExitStatus(e)
	assert.Equal(t, types.ExecDone, e.ExecutionStatus)
	assert.Equal(t, types.ExitNotRunning, e.ExitStatus)
}

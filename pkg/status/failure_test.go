package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func newWorkingSetWithNode(t *testing.T, nodeID string) *cluster.WorkingSet {
	t.Helper()
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 1000)
	ws.AddNode(types.NewNode(nodeID, nodeID, types.NodeKindCluster))
	return ws
}

func TestApplyFailureBan(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.OnFail = types.OnFailBan
	ws.AddResource(r)

	ApplyFailure(ws, r, "n1", &types.HistoryEntry{Task: types.TaskMonitor, When: 10})

	assert.True(t, r.Flags.Failed)
	assert.Equal(t, score.Score(-score.Infinity), r.AllowedNodes["n1"])
	require.Len(t, ws.Failures, 1)
	assert.Equal(t, types.OnFailBan, ws.Failures[0].OnFail)
}

func TestApplyFailureStopBansEverywhere(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.OnFail = types.OnFailStop
	r.AllowedNodes["n1"] = 100
	r.AllowedNodes["n2"] = 50
	ws.AddResource(r)

	ApplyFailure(ws, r, "n1", &types.HistoryEntry{Task: types.TaskMonitor})

	assert.Equal(t, score.Score(-score.Infinity), r.AllowedNodes["n1"])
	assert.Equal(t, score.Score(-score.Infinity), r.AllowedNodes["n2"])
}

func TestApplyFailureFenceNode(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.OnFail = types.OnFailFenceNode
	ws.AddResource(r)

	ApplyFailure(ws, r, "n1", &types.HistoryEntry{Task: types.TaskMonitor})

	n, _ := ws.Node("n1")
	assert.True(t, n.Unclean)
}

func TestApplyFailureBlock(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	r := types.NewResource("r1", types.VariantPrimitive)
	r.OnFail = types.OnFailBlock
	ws.AddResource(r)

	ApplyFailure(ws, r, "n1", &types.HistoryEntry{Task: types.TaskMonitor})

	assert.False(t, r.Flags.Managed)
	assert.True(t, r.Flags.Blocked)
}

func TestMergeOnFailKeepsMoreSevere(t *testing.T) {
	assert.Equal(t, types.OnFailBan, MergeOnFail(types.OnFailIgnore, types.OnFailBan))
	assert.Equal(t, types.OnFailBlock, MergeOnFail(types.OnFailBlock, types.OnFailIgnore))
}

func TestStopFailureConsequenceNoStonith(t *testing.T) {
	r := types.NewResource("r1", types.VariantPrimitive)
	StopFailureConsequence(false, r)
	assert.True(t, r.Flags.Blocked)
}

func TestStopFailureConsequenceWithStonith(t *testing.T) {
	r := types.NewResource("r1", types.VariantPrimitive)
	StopFailureConsequence(true, r)
	assert.True(t, r.Flags.NeedsFencing)
	assert.False(t, r.Flags.Blocked)
}

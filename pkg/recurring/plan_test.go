package recurring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestIsRecurringCandidateRejectsCoreTasks(t *testing.T) {
	assert.False(t, IsRecurringCandidate(OpTemplate{Name: "start", IntervalMs: 1000}))
	assert.False(t, IsRecurringCandidate(OpTemplate{Name: "monitor", IntervalMs: 0}))
	assert.True(t, IsRecurringCandidate(OpTemplate{Name: "monitor", IntervalMs: 10000}))
}

func TestDedupKeepsFirst(t *testing.T) {
	templates := []OpTemplate{
		{Name: "monitor", IntervalMs: 10000},
		{Name: "monitor", IntervalMs: 10000},
		{Name: "monitor", IntervalMs: 20000},
	}
	out := Dedup(templates)
	assert.Len(t, out, 2)
}

func TestPlanActiveRoleMonitorOnAssignedNode(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	n1 := types.NewNode("n1", "n1", types.NodeKindCluster)
	n1.Online = true
	ws.AddNode(n1)

	r := types.NewResource("r1", types.VariantPrimitive)
	r.NextRole = types.RoleStarted
	ws.AddResource(r)

	plans := Plan(ws, r, []OpTemplate{{Name: "monitor", IntervalMs: 10000}}, "n1", true)

	require.Len(t, plans, 1)
	assert.Equal(t, "n1", plans[0].NodeID)
	assert.True(t, plans[0].Runnable)
	assert.False(t, plans[0].Cancel)
}

func TestPlanStoppedRoleMonitorOnlyForAnonymousClones(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	ws.AddNode(types.NewNode("n1", "n1", types.NodeKindCluster))

	r := types.NewResource("r1", types.VariantPrimitive)
	ws.AddResource(r)

	plans := Plan(ws, r, []OpTemplate{{Name: "monitor", IntervalMs: 5000, Role: types.RoleStopped}}, "", false)
	assert.Empty(t, plans)
}

func TestPlanRoleMismatchSchedulesCancel(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	ws.AddNode(types.NewNode("n1", "n1", types.NodeKindCluster))

	r := types.NewResource("r1", types.VariantPrimitive)
	r.NextRole = types.RolePromoted
	r.RunningOn["n1"] = true
	ws.AddResource(r)

	plans := Plan(ws, r, []OpTemplate{{Name: "monitor", IntervalMs: 10000, Role: types.RoleUnpromoted}}, "n1", true)

	require.Len(t, plans, 1)
	assert.True(t, plans[0].Cancel)
	assert.Equal(t, "n1", plans[0].NodeID)
}

func TestToActionWiresOrdering(t *testing.T) {
	graph := types.NewTransitionGraph("g1")
	start := graph.AddAction(&types.Action{ResourceID: "r1", Task: types.TaskStart, Runnable: true})

	pm := PlannedMonitor{NodeID: "n1", Template: OpTemplate{Name: "monitor", IntervalMs: 10000}, Runnable: true}
	mon := ToAction(graph, "r1", pm, start)

	require.NotNil(t, mon)
	assert.Len(t, graph.Orderings, 1)
	assert.True(t, graph.Orderings[0].Flags.FirstImpliesThen)
	assert.True(t, graph.Orderings[0].Flags.UnrunnableFirstBlocks)
}

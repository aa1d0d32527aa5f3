package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestAssignStopsIfFailWhenUnassignable(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	g := types.NewResource("g", types.VariantGroup)
	m1 := types.NewResource("m1", types.VariantPrimitive)
	m2 := types.NewResource("m2", types.VariantPrimitive)
	m2.Flags.StopIfFailed = true
	g.Children = []string{"m1", "m2"}
	ws.AddResource(g)
	ws.AddResource(m1)
	ws.AddResource(m2)

	_, allAssigned := Assign(ws, g, func(memberID string) (string, bool) {
		if memberID == "m1" {
			return "n1", true
		}
		return "", false
	})

	assert.False(t, allAssigned)
	assert.Equal(t, types.RoleStopped, m2.NextRole)
}

func TestAddImplicitColocationsChain(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	g := types.NewResource("g", types.VariantGroup)
	g.Children = []string{"m1", "m2", "m3"}
	ws.AddResource(g)

	AddImplicitColocations(ws, g, GroupFlags{Colocated: true, Ordered: true})

	require.Len(t, ws.Colocations, 2)
}

func TestAddPseudoActionsWiresStartChain(t *testing.T) {
	graph := types.NewTransitionGraph("g1")
	g := types.NewResource("g", types.VariantGroup)
	m1Start := graph.AddAction(&types.Action{ResourceID: "m1", Task: types.TaskStart, Runnable: true})

	pa := AddPseudoActions(graph, g, []*types.Action{m1Start}, false)

	require.NotNil(t, pa.Start)
	require.NotNil(t, pa.Running)
	assert.Len(t, graph.Orderings, 2)
}

func TestCombineRunnabilityStopSurvivesOneRunnableMember(t *testing.T) {
	graph := types.NewTransitionGraph("g1")
	g := types.NewResource("g", types.VariantGroup)
	stopA := &types.Action{Task: types.TaskStop, Runnable: true}
	stopB := &types.Action{Task: types.TaskStop, Runnable: false}
	pa := AddPseudoActions(graph, g, nil, false)

	CombineRunnability(pa, []*types.Action{stopA, stopB})

	assert.True(t, pa.Stop.Runnable)
}

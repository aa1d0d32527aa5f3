package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func onlineNodeState(nodeID string) *status.NodeState {
	ns := status.NewNodeState(nodeID)
	ns.Join = status.JoinMember
	ns.Expected = status.ExpectedMember
	ns.WhenMember = 1
	ns.WhenOnline = 1
	return ns
}

func twoNodeInput() Input {
	n1 := types.NewNode("n1", "n1", types.NodeKindCluster)
	n2 := types.NewNode("n2", "n2", types.NodeKindCluster)

	statusInput := status.NewStatusInput()
	statusInput.Nodes["n1"] = onlineNodeState("n1")
	statusInput.Nodes["n2"] = onlineNodeState("n2")

	return Input{
		Config:                 types.DefaultClusterConfig(),
		Status:                 statusInput,
		HasQuorum:              true,
		Nodes:                  map[string]*types.Node{"n1": n1, "n2": n2},
		Resources:              map[string]*types.Resource{},
		Colocations:            map[string]*types.Colocation{},
		RecurringTemplates:     map[string][]recurring.OpTemplate{},
		PendingTimeoutExceeded: map[string]bool{},
	}
}

// TestPassMandatoryColocationConstrainsFreshPlacement covers a "both
// stopped" mandatory colocation: ip must land on whatever node web is
// assigned to, even though neither has ever run before this pass.
func TestPassMandatoryColocationConstrainsFreshPlacement(t *testing.T) {
	in := twoNodeInput()
	web := types.NewResource("web", types.VariantPrimitive)
	web.NextRole = types.RoleStarted
	web.AllowedNodes["n1"] = 10
	web.AllowedNodes["n2"] = 0
	ip := types.NewResource("ip", types.VariantPrimitive)
	ip.NextRole = types.RoleStarted
	ip.AllowedNodes["n1"] = 0
	ip.AllowedNodes["n2"] = 0

	in.Resources["web"] = web
	in.Resources["ip"] = ip
	in.Colocations["c1"] = &types.Colocation{ID: "c1", DependentID: "ip", PrimaryID: "web", Score: score.Score(score.Infinity)}

	graph := Pass(in)

	webAction := findAction(graph, "web")
	ipAction := findAction(graph, "ip")
	require.NotNil(t, webAction)
	require.NotNil(t, ipAction)
	assert.Equal(t, webAction.NodeID, ipAction.NodeID)
}

// TestPassOrderedColocatedGroupSharesNode covers S6: an ordered+colocated
// group with all members stopped must place every member on the same
// node, even though the implicit colocation is only mandatory once a
// predecessor is actually placed.
func TestPassOrderedColocatedGroupSharesNode(t *testing.T) {
	in := twoNodeInput()
	a := types.NewResource("a", types.VariantPrimitive)
	a.Parent = "g"
	a.NextRole = types.RoleStarted
	a.AllowedNodes["n1"] = 5
	a.AllowedNodes["n2"] = 10
	b := types.NewResource("b", types.VariantPrimitive)
	b.Parent = "g"
	b.NextRole = types.RoleStarted
	b.AllowedNodes["n1"] = 0
	b.AllowedNodes["n2"] = 0

	g := types.NewResource("g", types.VariantGroup)
	g.Children = []string{"a", "b"}

	in.Resources["a"] = a
	in.Resources["b"] = b
	in.Resources["g"] = g

	graph := Pass(in)

	aAction := findAction(graph, "a")
	bAction := findAction(graph, "b")
	require.NotNil(t, aAction)
	require.NotNil(t, bAction)
	assert.Equal(t, aAction.NodeID, bAction.NodeID)
}

// TestPassUnorderedGroupSkipsSequentialOrdering covers a group configured
// with ordered=false: no start/stop ordering edges should be wired
// between its members.
func TestPassUnorderedGroupSkipsSequentialOrdering(t *testing.T) {
	in := twoNodeInput()
	a := types.NewResource("a", types.VariantPrimitive)
	a.Parent = "g"
	a.NextRole = types.RoleStarted
	a.AllowedNodes["n1"] = 0
	b := types.NewResource("b", types.VariantPrimitive)
	b.Parent = "g"
	b.NextRole = types.RoleStarted
	b.AllowedNodes["n1"] = 0

	g := types.NewResource("g", types.VariantGroup)
	g.Children = []string{"a", "b"}
	g.Flags.Ordered = false

	in.Resources["a"] = a
	in.Resources["b"] = b
	in.Resources["g"] = g

	graph := Pass(in)

	aAction := findAction(graph, "a")
	bAction := findAction(graph, "b")
	require.NotNil(t, aAction)
	require.NotNil(t, bAction)
	for _, o := range graph.Orderings {
		assert.False(t, o.FirstActionID == aAction.ID && o.ThenActionID == bAction.ID)
		assert.False(t, o.FirstActionID == bAction.ID && o.ThenActionID == aAction.ID)
	}
}

func findAction(graph *types.TransitionGraph, resourceID string) *types.Action {
	for _, a := range graph.Actions {
		if a.ResourceID == resourceID {
			return a
		}
	}
	return nil
}

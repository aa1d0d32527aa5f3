package colocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func setupWS() *cluster.WorkingSet {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	n1 := types.NewNode("n1", "n1", types.NodeKindCluster)
	n2 := types.NewNode("n2", "n2", types.NodeKindCluster)
	ws.AddNode(n1)
	ws.AddNode(n2)
	return ws
}

func TestApplyOptionalColocationAddsScore(t *testing.T) {
	ws := setupWS()
	primary := types.NewResource("primary", types.VariantPrimitive)
	primary.RunningOn["n1"] = true
	dependent := types.NewResource("dependent", types.VariantPrimitive)
	dependent.AllowedNodes["n1"] = 0
	dependent.AllowedNodes["n2"] = 0
	ws.AddResource(primary)
	ws.AddResource(dependent)

	c := &types.Colocation{ID: "c1", DependentID: "dependent", PrimaryID: "primary", Score: 100}
	ws.AddColocation(c)

	Apply(ws, c)

	assert.Equal(t, score.Score(100), dependent.AllowedNodes["n1"])
	assert.Equal(t, score.Score(0), dependent.AllowedNodes["n2"])
}

func TestApplyMandatoryColocationBansOtherNodes(t *testing.T) {
	ws := setupWS()
	primary := types.NewResource("primary", types.VariantPrimitive)
	primary.RunningOn["n1"] = true
	dependent := types.NewResource("dependent", types.VariantPrimitive)
	dependent.AllowedNodes["n1"] = 0
	dependent.AllowedNodes["n2"] = 0
	ws.AddResource(primary)
	ws.AddResource(dependent)

	c := &types.Colocation{ID: "c1", DependentID: "dependent", PrimaryID: "primary", Score: score.Score(score.Infinity)}
	ws.AddColocation(c)

	Apply(ws, c)

	assert.Equal(t, score.Score(0), dependent.AllowedNodes["n1"])
	assert.Equal(t, score.Score(-score.Infinity), dependent.AllowedNodes["n2"])
}

func TestApplyNoEffectWhenPrimaryUnassigned(t *testing.T) {
	ws := setupWS()
	primary := types.NewResource("primary", types.VariantPrimitive)
	dependent := types.NewResource("dependent", types.VariantPrimitive)
	dependent.AllowedNodes["n1"] = 0
	ws.AddResource(primary)
	ws.AddResource(dependent)

	c := &types.Colocation{ID: "c1", DependentID: "dependent", PrimaryID: "primary", Score: 100}
	ws.AddColocation(c)

	Apply(ws, c)

	assert.Equal(t, score.Score(0), dependent.AllowedNodes["n1"])
}

func TestApplyRoleOnlyMatchingAttrs(t *testing.T) {
	ws := setupWS()
	primary := types.NewResource("primary", types.VariantPrimitive)
	primary.RunningOn["n1"] = true
	dependent := types.NewResource("dependent", types.VariantPrimitive)
	dependent.RunningOn["n1"] = true
	ws.AddResource(primary)
	ws.AddResource(dependent)

	c := &types.Colocation{ID: "c1", DependentID: "dependent", PrimaryID: "primary", Score: 100,
		DependentRole: types.ColocationRolePromoted}
	ApplyRoleOnly(ws, c)

	assert.Equal(t, score.Score(100), dependent.Priority)
}

package colocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestColocatedNodeScoresBreaksCycle(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	r1 := types.NewResource("r1", types.VariantPrimitive)
	r1.AllowedNodes["n1"] = 100
	ws.AddResource(r1)

	// r1 lists itself as a dependent: a direct self-cycle.
	c := &types.Colocation{ID: "c1", DependentID: "r1", PrimaryID: "r1", Score: score.Score(score.Infinity)}
	ws.AddColocation(c)
	r1.WithThisColocations = []string{"c1"}

	scores := ColocatedNodeScores(ws, r1, Options{})
	assert.False(t, r1.Flags.Merging, "merging flag must be cleared after traversal returns")
	assert.Contains(t, scores, "n1")
}

func TestColocatedNodeScoresPropagatesAttenuated(t *testing.T) {
	ws := cluster.NewWorkingSet(types.DefaultClusterConfig(), 0)
	r1 := types.NewResource("r1", types.VariantPrimitive)
	r1.AllowedNodes["n1"] = 0
	r2 := types.NewResource("r2", types.VariantPrimitive)
	r2.AllowedNodes["n1"] = 500000
	ws.AddResource(r1)
	ws.AddResource(r2)

	c := &types.Colocation{ID: "c1", DependentID: "r2", PrimaryID: "r1", Score: score.Score(score.Infinity / 2)}
	ws.AddColocation(c)
	r1.WithThisColocations = []string{"c1"}

	scores := ColocatedNodeScores(ws, r1, Options{})
	assert.Equal(t, score.Score(250000), scores["n1"])
}

func TestNeutralizeUnusable(t *testing.T) {
	scores := NodeScores{"n1": unusable, "n2": 10}
	NeutralizeUnusable(scores)
	assert.Equal(t, score.Score(0), scores["n1"])
	assert.Equal(t, score.Score(10), scores["n2"])
}

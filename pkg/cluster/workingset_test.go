package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestSortedNodeIDsDeterministic(t *testing.T) {
	ws := NewWorkingSet(types.DefaultClusterConfig(), 1000)
	ws.AddNode(types.NewNode("n2", "n2", types.NodeKindCluster))
	ws.AddNode(types.NewNode("n1", "n1", types.NodeKindCluster))
	assert.Equal(t, []string{"n1", "n2"}, ws.SortedNodeIDs())
}

func TestMarkStopNeededDeduplicates(t *testing.T) {
	ws := NewWorkingSet(types.DefaultClusterConfig(), 0)
	ws.MarkStopNeeded("r1")
	ws.MarkStopNeeded("r1")
	assert.Equal(t, []string{"r1"}, ws.StopNeeded)
}

func TestQuorum(t *testing.T) {
	ws := NewWorkingSet(types.DefaultClusterConfig(), 0)
	assert.False(t, ws.HasQuorum())
	ws.SetQuorum(true)
	assert.True(t, ws.HasQuorum())
}

func TestRecordFailureAndLookup(t *testing.T) {
	ws := NewWorkingSet(types.DefaultClusterConfig(), 0)
	ws.AddResource(types.NewResource("r1", types.VariantPrimitive))
	r, ok := ws.Resource("r1")
	assert.True(t, ok)
	assert.Equal(t, "r1", r.ID)

	ws.RecordFailure(FailureRecord{ResourceID: "r1", NodeID: "n1", Task: types.TaskMonitor, When: 5, OnFail: types.OnFailBan})
	assert.Len(t, ws.Failures, 1)
}

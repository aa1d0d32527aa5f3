package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/clusterscheduler/pkg/types"
)

func TestUnpackReconstructsDanglingMigrationAcrossNodes(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	ws.AddNode(types.NewNode("n2", "n2", types.NodeKindCluster))
	r := types.NewResource("r1", types.VariantPrimitive)
	ws.AddResource(r)

	input := NewStatusInput()
	n1 := NewNodeState("n1")
	n1.Histories["r1"] = []*types.HistoryEntry{
		{Task: types.TaskMigrateTo, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK,
			CallID: 1, ResourceID: "r1", NodeID: "n1", MigrateTarget: "n2"},
	}
	input.Nodes["n1"] = n1

	n2 := NewNodeState("n2")
	n2.Histories["r1"] = []*types.HistoryEntry{
		{Task: types.TaskMigrateFrom, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK,
			CallID: 1, ResourceID: "r1", NodeID: "n2", MigrateSource: "n1"},
	}
	input.Nodes["n2"] = n2

	Unpack(ws, input, map[string]bool{})

	assert.True(t, r.DanglingMigrations["n1"])
	assert.True(t, r.RunningOn["n2"])
}

func TestUnpackReconstructsCompleteMigrationAcrossNodes(t *testing.T) {
	ws := newWorkingSetWithNode(t, "n1")
	ws.AddNode(types.NewNode("n2", "n2", types.NodeKindCluster))
	r := types.NewResource("r1", types.VariantPrimitive)
	ws.AddResource(r)

	input := NewStatusInput()
	n1 := NewNodeState("n1")
	n1.Histories["r1"] = []*types.HistoryEntry{
		{Task: types.TaskMigrateTo, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK,
			CallID: 1, ResourceID: "r1", NodeID: "n1", MigrateTarget: "n2"},
		{Task: types.TaskStop, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK,
			CallID: 2, ResourceID: "r1", NodeID: "n1"},
	}
	input.Nodes["n1"] = n1

	n2 := NewNodeState("n2")
	n2.Histories["r1"] = []*types.HistoryEntry{
		{Task: types.TaskMigrateFrom, ExecutionStatus: types.ExecDone, ExitStatus: types.ExitOK, ExpectedExitStatus: types.ExitOK,
			CallID: 1, ResourceID: "r1", NodeID: "n2", MigrateSource: "n1"},
	}
	input.Nodes["n2"] = n2

	Unpack(ws, input, map[string]bool{})

	assert.False(t, r.RunningOn["n1"])
	assert.True(t, r.RunningOn["n2"])
}

func entry(task types.Task, exit types.ExitStatus, callID int64) *types.HistoryEntry {
	return &types.HistoryEntry{Task: task, ExitStatus: exit, ExpectedExitStatus: exit, CallID: callID}
}

func TestClassifyMigrationComplete(t *testing.T) {
	to := entry(types.TaskMigrateTo, types.ExitOK, 1)
	from := entry(types.TaskMigrateFrom, types.ExitOK, 1)
	stop := entry(types.TaskStop, types.ExitOK, 2)
	class := ClassifyMigration(migrationTriple{migrateTo: to, migrateFrom: from, stop: stop}, nil, nil)
	assert.Equal(t, MigrationComplete, class)
}

func TestClassifyMigrationDangling(t *testing.T) {
	to := entry(types.TaskMigrateTo, types.ExitOK, 1)
	from := entry(types.TaskMigrateFrom, types.ExitOK, 1)
	class := ClassifyMigration(migrationTriple{migrateTo: to, migrateFrom: from}, []*types.HistoryEntry{to, from}, nil)
	assert.Equal(t, MigrationDangling, class)
}

func TestClassifyMigrationPartial(t *testing.T) {
	to := entry(types.TaskMigrateTo, types.ExitOK, 1)
	class := ClassifyMigration(migrationTriple{migrateTo: to}, nil, []*types.HistoryEntry{to})
	assert.Equal(t, MigrationPartial, class)
}

func TestClassifyMigrationAbortedOnFailedMigrateTo(t *testing.T) {
	to := entry(types.TaskMigrateTo, types.ExitErrorGeneric, 1)
	to.ExpectedExitStatus = types.ExitOK
	class := ClassifyMigration(migrationTriple{migrateTo: to}, nil, nil)
	assert.Equal(t, MigrationAborted, class)
}

func TestClassifyMigrationAbortedOnFailedMigrateFrom(t *testing.T) {
	to := entry(types.TaskMigrateTo, types.ExitOK, 1)
	from := entry(types.TaskMigrateFrom, types.ExitErrorGeneric, 1)
	from.ExpectedExitStatus = types.ExitOK
	class := ClassifyMigration(migrationTriple{migrateTo: to, migrateFrom: from}, nil, nil)
	assert.Equal(t, MigrationAborted, class)
}

func TestApplyMigrationClassificationComplete(t *testing.T) {
	r := types.NewResource("r1", types.VariantPrimitive)
	r.RunningOn["src"] = true
	ApplyMigrationClassification(r, MigrationComplete, "src", "dst")
	assert.False(t, r.RunningOn["src"])
	assert.True(t, r.RunningOn["dst"])
}

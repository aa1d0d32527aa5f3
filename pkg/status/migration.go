package status

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// MigrationClassification is the canonical outcome of reconstructing a
// live migration from its (migrate_to, migrate_from, stop) history
// entries.
type MigrationClassification int

const (
	MigrationNone MigrationClassification = iota
	MigrationComplete
	MigrationDangling
	MigrationPartial
	MigrationAborted
)

// migrationTriple groups the three entries that together describe one
// migration attempt for a resource.
type migrationTriple struct {
	migrateTo *types.HistoryEntry // on source
	migrateFrom *types.HistoryEntry // on target
	stop *types.HistoryEntry // on source
}

// newerStateExists implements the "newer state" predicate: any later
// non-monitor history entry on the same node, or any later probe/monitor
// result of not-running, ordered by the call_id/when rule
// types.HistoryEntry.Before encodes.
func newerStateExists(after *types.HistoryEntry, candidates []*types.HistoryEntry) bool {
	for _, c := range candidates {
		if c == after {
			continue
		}
		if !after.Before(c) {
			continue
		}
		if c.Task != types.TaskMonitor {
			return true
		}
		if c.ExitStatus.Collapse() == types.ExitNotRunning {
			return true
		}
	}
	return false
}

// ClassifyMigration applies the four-row migration classification table.
// sourceHistory and targetHistory are the full (already call_id-sorted)
// history lists for this resource on the source and target nodes
// respectively.
func ClassifyMigration(t migrationTriple, sourceHistory, targetHistory []*types.HistoryEntry) MigrationClassification {
	if t.migrateTo == nil {
		return MigrationNone
	}

	toOK := t.migrateTo.ExitStatus.Collapse() == types.ExitOK
	if !toOK {
		return MigrationAborted
	}

	if t.migrateFrom == nil {
		// migrate_from pending/missing: partial if the target shows no
		// newer state, otherwise treat as aborted (clobbered history).
		if !newerStateExists(t.migrateTo, targetHistory) {
			return MigrationPartial
		}
		return MigrationAborted
	}

	fromOK := t.migrateFrom.ExitStatus.Collapse() == types.ExitOK
	if !fromOK {
		return MigrationAborted
	}

	if t.stop != nil && t.stop.ExitStatus.Collapse() == types.ExitOK {
		return MigrationComplete
	}

	if !newerStateExists(t.migrateFrom, sourceHistory) {
		return MigrationDangling
	}
	return MigrationAborted
}

// reconstructMigrations correlates each resource's migrate_to entry
// (recorded on the source node) with its migrate_from and stop entries
// (recorded on the target and source nodes respectively) before
// classifying. A live migration's entries almost always span two
// different nodes' histories, so a single node's own history is never
// enough on its own -- this is the subtlest part of status
// reconstruction precisely because the three entries never all live in
// one place.
func reconstructMigrations(ws *cluster.WorkingSet, input *StatusInput) {
	for _, resourceID := range ws.SortedResourceIDs() {
		r, ok := ws.Resource(resourceID)
		if !ok {
			continue
		}

		var migrateTo *types.HistoryEntry
		for _, nodeID := range ws.SortedNodeIDs() {
			ns, ok := input.Nodes[nodeID]
			if !ok {
				continue
			}
			for _, e := range ns.Histories[resourceID] {
				if e.Task != types.TaskMigrateTo {
					continue
				}
				if migrateTo == nil || migrateTo.Before(e) {
					migrateTo = e
				}
			}
		}
		if migrateTo == nil {
			continue
		}

		sourceID := migrateTo.NodeID
		targetID := migrateTo.MigrateTarget

		var sourceHistory, targetHistory []*types.HistoryEntry
		if ns, ok := input.Nodes[sourceID]; ok {
			sourceHistory = sortedHistory(ns.Histories[resourceID])
		}
		if ns, ok := input.Nodes[targetID]; ok {
			targetHistory = sortedHistory(ns.Histories[resourceID])
		}

		var migrateFrom, stop *types.HistoryEntry
		for _, e := range targetHistory {
			if e.Task == types.TaskMigrateFrom && (migrateFrom == nil || migrateFrom.Before(e)) {
				migrateFrom = e
			}
		}
		for _, e := range sourceHistory {
			if e.Task == types.TaskStop && (stop == nil || stop.Before(e)) {
				stop = e
			}
		}

		triple := migrationTriple{migrateTo: migrateTo, migrateFrom: migrateFrom, stop: stop}
		class := ClassifyMigration(triple, sourceHistory, targetHistory)
		if class != MigrationNone {
			ApplyMigrationClassification(r, class, sourceID, targetID)
		}
	}
}

// ApplyMigrationClassification mutates a resource per the "Effect" column
// of the migration classification table.
func ApplyMigrationClassification(r *types.Resource, class MigrationClassification, sourceNode, targetNode string) {
	switch class {
	case MigrationComplete:
		delete(r.RunningOn, sourceNode)
		r.RunningOn[targetNode] = true

	case MigrationDangling:
		r.DanglingMigrations[sourceNode] = true
		r.RunningOn[targetNode] = true

	case MigrationPartial:
		r.PartialMigrationSource = sourceNode
		r.PartialMigrationTarget = targetNode
		r.RunningOn[targetNode] = true

	case MigrationAborted:
		r.Flags.Failed = true
		r.Flags.StopIfFailed = true
		r.Meta["allow-migrate"] = "false"
		if _, stillOnSource := r.RunningOn[sourceNode]; !stillOnSource {
			r.RunningOn[sourceNode] = true
		}
	}
}

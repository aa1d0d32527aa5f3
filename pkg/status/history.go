package status

import (
	"sort"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// maskedProbeFailures lists the actual exit statuses that, on a monitor
// entry (probe or recurring), collapse to {done, not-running}: the call
// itself failed, but the failure mode means "the resource definitely
// isn't running", which is not a real failure.
var maskedProbeFailures = map[types.ExitStatus]bool{
	types.ExitNotInstalled: true,
	types.ExitNotConfigured: true,
	types.ExitInsufficientPriv: true,
	types.ExitUnimplemented: true,
}

// sortedHistory returns a copy of entries ordered by types.HistoryEntry's
// call_id/when rule, leaving the caller's slice untouched.
func sortedHistory(entries []*types.HistoryEntry) []*types.HistoryEntry {
	sorted := make([]*types.HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	return sorted
}

// UnpackResourceHistory runs the per-history-entry interpretation
// algorithm over one resource's history on one node. It mutates r and ws
// in place. Migration classification is not done here: a migration's
// entries span the source and target nodes, so it is reconstructed
// separately by reconstructMigrations once every node's history has been
// scanned.
func UnpackResourceHistory(ws *cluster.WorkingSet, r *types.Resource, nodeID string, entries []*types.HistoryEntry) {
	logger := log.WithComponent("status-unpacker")

	sorted := sortedHistory(entries)

	for _, e := range sorted {
		if e.Task == types.TaskNotify {
			continue // step 2: notify does not affect state
		}

		if expired := checkExpiry(ws, r, e); expired {
			continue
		}

		remapExitStatus(e)
		remapExecutionStatus(e)

		switch e.ExecutionStatus {
		case types.ExecPending:
			r.Flags.StartPending = true
			r.PendingTask = string(e.Task)
			r.PendingNode = nodeID
			if e.Task == types.TaskMigrateTo {
				if n, ok := ws.Node(nodeID); ok && n.Unclean {
					ws.MarkStopNeeded(e.MigrateTarget)
				}
			}

		case types.ExecDone:
			if e.ExitStatus.Collapse() == e.ExpectedExitStatus.Collapse() {
				applyRoleForDone(r, e, nodeID)
				if r.Flags.Failed && allowsFailureClear(r.OnFail) {
					r.Flags.Failed = false
				}
			} else if !e.ExecutionStatus.IsFailure() {
				// exit code mismatch, but execution status not classified
				// as a failure: leave role untouched, just log.
				logger.Debug().Str("resource", r.ID).Str("node", nodeID).
					Msg("exit status mismatch with non-failing execution status")
			}

		case types.ExecNotInstalled:
			r.Flags.Failed = true
			if r.OnFail == types.OnFailIgnore {
				r.OnFail = types.OnFailBan
			}
			r.Ban(nodeID)
			ApplyFailure(ws, r, nodeID, e)

		case types.ExecNotConnected:
			if r.Flags.IsRemoteNode && r.Flags.Managed {
				r.Flags.Failed = true
				ApplyFailure(ws, r, nodeID, e)
			}

		default:
			if e.ExecutionStatus.IsFailure() {
				ApplyFailure(ws, r, nodeID, e)
			}
		}

		if e.LockTime > 0 {
			applyShutdownLock(ws, r, nodeID, e.LockTime)
		}
	}
}

// checkExpiry decides whether a history entry has aged past its
// resource's failure-timeout and should be skipped entirely.
func checkExpiry(ws *cluster.WorkingSet, r *types.Resource, e *types.HistoryEntry) bool {
	if e.ExecutionStatus == types.ExecNotInstalled {
		return false
	}
	if r.FailureTimeout <= 0 {
		return false
	}
	age := ws.EffectiveTime - e.When
	if age < int64(r.FailureTimeout) {
		return false
	}

	if e.IsProbe() {
		switch e.ExitStatus.Collapse() {
		case types.ExitOK, types.ExitNotRunning, types.ExitRunningPromoted, types.ExitDegraded, types.ExitDegradedPromoted:
			return false
		}
	}

	confirmedExpired := !r.Flags.Failed
	if confirmedExpired && r.RemoteReconnectMs > 0 {
		// no fail-count clear action is emitted for an expired entry;
		// nothing to mutate here since Flags.Failed is already false.
		_ = e
	}
	return confirmedExpired
}

// remapExitStatus applies degraded collapse plus masked-probe-failure
// collapse to {done, not-running}.
func remapExitStatus(e *types.HistoryEntry) {
	e.ExitStatus = e.ExitStatus.Collapse()
	e.ExpectedExitStatus = e.ExpectedExitStatus.Collapse()

	if maskedProbeFailures[e.ExitStatus] && e.Task == types.TaskMonitor {
		e.ExecutionStatus = types.ExecDone
		e.ExitStatus = types.ExitNotRunning
		e.ExpectedExitStatus = types.ExitNotRunning
	}
}

// remapExecutionStatus leaves the execution status unchanged: node-fatal
// statuses reach ApplyFailure as they are, and a done entry whose exit
// differs from the expected one is handled by UnpackResourceHistory's
// done case.
func remapExecutionStatus(e *types.HistoryEntry) {
	if e.ExecutionStatus.IsNodeFatal() {
		return // escalation to node-fatal handled by the caller
	}
	if e.ExecutionStatus == types.ExecDone && e.ExitStatus != e.ExpectedExitStatus {
		// downstream handling distinguishes this in the Done case above
		// by comparing exit codes directly; nothing to rewrite here.
		return
	}
}

func allowsFailureClear(onFail types.OnFail) bool {
	return onFail != types.OnFailBlock
}

// applyRoleForDone applies the role transitions for a "done with
// expected rc" history entry.
func applyRoleForDone(r *types.Resource, e *types.HistoryEntry, nodeID string) {
	switch e.Task {
	case types.TaskStart:
		r.Role = types.RoleStarted
		r.RunningOn[nodeID] = true
	case types.TaskStop:
		r.Role = types.RoleStopped
		delete(r.RunningOn, nodeID)
	case types.TaskPromote:
		r.Role = types.RolePromoted
	case types.TaskDemote:
		r.Role = types.RoleUnpromoted
	case types.TaskMonitor:
		if e.ExitStatus.Collapse() == types.ExitNotRunning && r.Role != types.RoleStarted {
			r.Role = types.RoleStopped
		}
	}
}

// applyShutdownLock records a resource's shutdown-lock node and
// timestamp if the lock configuration makes it still effective.
func applyShutdownLock(ws *cluster.WorkingSet, r *types.Resource, nodeID string, lockTime int64) {
	if !ws.Config.ShutdownLock {
		return
	}
	horizon := int64(ws.Config.ShutdownLockLimit.Seconds())
	if horizon > 0 && lockTime+horizon <= ws.EffectiveTime {
		// expired: clear this resource's history on this node by simply
		// not propagating the lock; caller-level history is immutable
		// input, so there is nothing further to clear here.
		return
	}
	r.LockNode = nodeID
	r.LockTime = lockTime
}

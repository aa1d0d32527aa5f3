package status

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// ApplyFailure runs a failed history entry through the on-fail policy
// table and mutates the resource/node consequences in place. It records
// the failure on the working set regardless of outcome (expiry
// suppression is the caller's responsibility, applied before calling
// this).
func ApplyFailure(ws *cluster.WorkingSet, r *types.Resource, nodeID string, entry *types.HistoryEntry) {
	logger := log.WithComponent("status-unpacker")

	onFail := r.OnFail
	r.Flags.Failed = true

	ws.RecordFailure(cluster.FailureRecord{
		ResourceID: r.ID,
		NodeID: nodeID,
		Task: entry.Task,
		When: entry.When,
		OnFail: onFail,
	})

	switch onFail {
	case types.OnFailIgnore:
		// no role change; Flags.Failed already set above if masked-probe
		// logic upstream classified this as a failure.

	case types.OnFailDemote:
		if entry.Task == types.TaskMonitor || entry.Task == types.TaskPromote || entry.Task == types.TaskDemote {
			r.NextRole = types.RoleUnpromoted
		}

	case types.OnFailRestart:
		r.Ban(nodeID)

	case types.OnFailRestartContainer:
		if r.Container != "" {
			ws.MarkStopNeeded(r.Container)
		} else {
			r.Ban(nodeID)
		}

	case types.OnFailResetRemote:
		if r.Flags.IsRemoteNode {
			if target, ok := ws.Node(r.ID); ok {
				target.RequiresReset = true
			}
			if r.RemoteReconnectMs > 0 {
				r.NextRole = types.RoleStopped
			}
		}

	case types.OnFailStop:
		r.BanEverywhere()

	case types.OnFailBan:
		r.Ban(nodeID)

	case types.OnFailFenceNode:
		if n, ok := ws.Node(nodeID); ok {
			n.Unclean = true
		}
		logger.Warn().Str("node", nodeID).Str("resource", r.ID).Msg("scheduling fence due to on-fail policy")

	case types.OnFailStandbyNode:
		if n, ok := ws.Node(nodeID); ok {
			n.Standby = true
		}

	case types.OnFailBlock:
		blockResource(r)
	}

	if entry.ExecutionStatus.IsNodeFatal() {
		if n, ok := ws.Node(nodeID); ok {
			n.Unclean = true
		}
	}
}

// blockResource applies the "block" consequence: the resource is
// permanently unmanaged until an operator intervenes.
func blockResource(r *types.Resource) {
	r.Flags.Managed = false
	r.Flags.Blocked = true
}

// StopFailureConsequence decides the consequence of a failed stop
// action: failed stops with no fencing available are always fatal to
// the resource (block).
func StopFailureConsequence(stonithEnabled bool, r *types.Resource) {
	if !stonithEnabled {
		blockResource(r)
		return
	}
	r.Flags.NeedsFencing = true
}

// MergeOnFail keeps the most severe of two on-fail values observed for
// the same resource across multiple failed entries in one pass.
func MergeOnFail(current, observed types.OnFail) types.OnFail {
	if observed.MoreSevere(current) {
		return observed
	}
	return current
}

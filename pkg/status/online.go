package status

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
)

// FenceDecision is the outcome of evaluating a cluster node's online
// determination table: either the node is online/offline
// with no further action, or it must be fenced with a reason.
type FenceDecision struct {
	Online bool
	Unclean bool
	Standby bool
	Pending bool
	ShouldFence bool
	Reason string
}

// DetermineOnlineFenced evaluates the cluster-node online-determination
// table for a fencing-enabled cluster.
func DetermineOnlineFenced(ns *NodeState, pendingTimeoutExceeded bool) FenceDecision {
	switch {
	case ns.ShutdownRequested:
		return FenceDecision{Online: ns.WhenOnline > 0}
	case ns.WhenMember < 0:
		return fenceDecision("peer has not been seen")
	case ns.Join == JoinNack:
		return fenceDecision("failed membership criteria")
	case ns.TerminateRequested && !ns.EverSeenOnline:
		// already effectively fenced; no further action needed
		return FenceDecision{Online: false, Unclean: false}
	case ns.TerminateRequested:
		return fenceDecision("requested")
	case ns.Expected == ExpectedDown && (ns.WhenMember > 0 || ns.WhenOnline > 0):
		return FenceDecision{Online: false, Standby: true, Pending: true}
	case ns.Expected == ExpectedDown && pendingTimeoutExceeded:
		return fenceDecision("pending timed out")
	case ns.Expected == ExpectedDown:
		return FenceDecision{Online: false, Pending: true}
	case ns.WhenMember <= 0:
		return fenceDecision("no longer in cluster")
	case ns.WhenOnline <= 0:
		return fenceDecision("process no longer available")
	case ns.Join == JoinMember:
		return FenceDecision{Online: true}
	case ns.Join == JoinPending || ns.Join == JoinDown:
		return FenceDecision{Online: false, Standby: true, Pending: true}
	default:
		return fenceDecision("unknown state")
	}
}

func fenceDecision(reason string) FenceDecision {
	return FenceDecision{Online: false, Unclean: true, ShouldFence: true, Reason: reason}
}

// DetermineOnlineUnfenced is the gentler determination for clusters
// without fencing: unexpected disappearance produces offline, never
// unclean, and never schedules a fence.
func DetermineOnlineUnfenced(ns *NodeState) FenceDecision {
	if ns.ShutdownRequested {
		return FenceDecision{Online: ns.WhenOnline > 0}
	}
	if ns.Join == JoinMember && ns.WhenMember > 0 && ns.WhenOnline > 0 {
		return FenceDecision{Online: true}
	}
	if ns.Expected == ExpectedDown {
		return FenceDecision{Online: false, Standby: true, Pending: true}
	}
	return FenceDecision{Online: false}
}

// ApplyOnlineDecision writes a FenceDecision's result into a node's
// status fields and, if fencing is called for, marks it unclean and
// schedules the fence by returning true so the caller can emit a
// TaskFence action.
func ApplyOnlineDecision(ws *cluster.WorkingSet, nodeID string, d FenceDecision) (needsFence bool) {
	n, ok := ws.Node(nodeID)
	if !ok {
		return false
	}
	n.Online = d.Online
	n.Unclean = d.Unclean
	n.Standby = n.Standby || d.Standby
	n.Pending = d.Pending

	if d.ShouldFence {
		log.WithComponent("status-unpacker").Warn().
			Str("node", nodeID).
			Str("reason", d.Reason).
			Msg("scheduling node fence")
		return true
	}
	return false
}

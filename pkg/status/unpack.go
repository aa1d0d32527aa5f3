package status

import (
	"sort"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// Unpack runs the bounded fixed-point loop over the given status input,
// populating ws's nodes and resources. It is the single public entry
// point for history interpretation.
func Unpack(ws *cluster.WorkingSet, input *StatusInput, pendingTimeoutExceeded map[string]bool) {
	logger := log.WithComponent("status-unpacker")

	unpacked := make(map[string]bool, len(ws.Nodes))

	// Step 1: determine online status for every node up front.
	for _, nodeID := range ws.SortedNodeIDs() {
		n := ws.Nodes[nodeID]
		ns, ok := input.Nodes[nodeID]
		if !ok {
			continue
		}
		switch n.Kind {
		case types.NodeKindCluster:
			var d FenceDecision
			if ws.Config.StonithEnabled {
				d = DetermineOnlineFenced(ns, pendingTimeoutExceeded[nodeID])
			} else {
				d = DetermineOnlineUnfenced(ns)
			}
			if needsFence := ApplyOnlineDecision(ws, nodeID, d); needsFence {
				n.Unclean = true
			}
		default:
			// remote/guest: online determination deferred to step 2.
		}
	}

	// Step 2: iterate until a full pass makes no progress.
	for {
		progressed := false
		for _, nodeID := range ws.SortedNodeIDs() {
			if unpacked[nodeID] {
				continue
			}
			n := ws.Nodes[nodeID]
			ns, ok := input.Nodes[nodeID]
			if !ok {
				continue
			}
			if !nodePrereqsMet(ws, n) {
				continue
			}

			unpackNodeHistories(ws, n, ns)
			unpacked[nodeID] = true
			progressed = true
		}
		if !progressed {
			break
		}
	}

	// Step 2.5: reconstruct migrations now that every reachable node's
	// history has been unpacked, correlating source and target entries
	// that live on different nodes.
	reconstructMigrations(ws, input)

	// Step 3: final sweep, nodes still unseen may be fenced.
	ws.FenceRemaining = true
	for _, nodeID := range ws.SortedNodeIDs() {
		if unpacked[nodeID] {
			continue
		}
		n := ws.Nodes[nodeID]
		logger.Warn().Str("node", nodeID).Msg("node never reached prerequisites, fencing in final sweep")
		n.Unclean = true
		n.Online = false
	}

	// Step 4: guest/remote nodes whose connection resource is stopping
	// force their own next role to stopped.
	for _, n := range ws.Nodes {
		if n.Kind != types.NodeKindRemote && n.Kind != types.NodeKindGuest {
			continue
		}
		if n.ConnectionRsc == "" {
			continue
		}
		conn, ok := ws.Resource(n.ConnectionRsc)
		if ok && conn.NextRole == types.RoleStopped {
			n.Shutdown = true
		}
	}

	// Step 5: emit stop actions for the accumulated stop-needed list.
	// Actual Action creation happens in pkg/scheduler, which owns the
	// TransitionGraph; here we only guarantee NextRole reflects the
	// requirement so the scheduler's action-generation pass picks it up.
	for _, resourceID := range ws.StopNeeded {
		if r, ok := ws.Resource(resourceID); ok {
			r.NextRole = types.RoleStopped
		}
	}
}

// nodePrereqsMet reports whether a node's dependencies (connection
// resource, containing guest host) are resolved enough to unpack its
// history.
func nodePrereqsMet(ws *cluster.WorkingSet, n *types.Node) bool {
	switch n.Kind {
	case types.NodeKindCluster:
		return true
	case types.NodeKindRemote:
		if ws.Config.ShutdownLock {
			return true
		}
		if n.ConnectionRsc == "" {
			return false
		}
		conn, ok := ws.Resource(n.ConnectionRsc)
		return ok && conn.Role == types.RoleStarted
	case types.NodeKindGuest:
		if n.ConnectionRsc == "" {
			return false
		}
		conn, ok := ws.Resource(n.ConnectionRsc)
		if !ok || conn.Role != types.RoleStarted {
			return false
		}
		if conn.Container == "" {
			return false
		}
		container, ok := ws.Resource(conn.Container)
		return ok && container.Role == types.RoleStarted
	default:
		return true
	}
}

// unpackNodeHistories unpacks every resource history recorded for this
// node, in ascending resource-id order for determinism.
func unpackNodeHistories(ws *cluster.WorkingSet, n *types.Node, ns *NodeState) {
	resourceIDs := make([]string, 0, len(ns.Histories))
	for id := range ns.Histories {
		resourceIDs = append(resourceIDs, id)
	}
	sort.Strings(resourceIDs)

	for _, resourceID := range resourceIDs {
		r, ok := ws.Resource(resourceID)
		if !ok {
			continue
		}
		UnpackResourceHistory(ws, r, n.ID, ns.Histories[resourceID])
	}
}

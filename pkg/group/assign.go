package group

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// GroupFlags mirrors the two named group behaviors: "ordered" (members
// start/stop in sequence) and "colocated" (members share a node). Both
// default to true for a plain group.
type GroupFlags struct {
	Ordered bool
	Colocated bool
}

// Assign runs the member-assignment algorithm: assign the
// first member, let its chosen node become the group's chosen node, then
// assign the rest honoring their own constraints. If a member cannot be
// assigned and its stop_if_fail flag is set, that member's next role
// becomes stopped; the caller may then undo the whole placement.
//
// assignMember is supplied by the caller (pkg/scheduler), since choosing
// a node for a single resource depends on the full colocation-scored
// allowed-node table, which this package does not own.
func Assign(ws *cluster.WorkingSet, g *types.Resource, assignMember func(memberID string) (nodeID string, ok bool)) (groupNode string, allAssigned bool) {
	allAssigned = true
	for i, memberID := range g.Children {
		member, ok := ws.Resource(memberID)
		if !ok {
			continue
		}
		nodeID, ok := assignMember(memberID)
		if !ok {
			if member.Flags.StopIfFailed {
				member.NextRole = types.RoleStopped
			}
			allAssigned = false
			continue
		}
		if i == 0 {
			groupNode = nodeID
		}
	}
	return groupNode, allAssigned
}

package colocation

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// Phase is the scheduling moment a colocation is being evaluated in,
// determining which row of the phase-sensitive application table
// applies.
type Phase int

const (
	PhasePlacement Phase = iota // dependent not yet assigned a node
	PhaseRoleSelection // dependent is an already-assigned promotable clone
)

// roleMatches reports whether a colocation's role filter for one side is
// satisfied by that resource's current/next role.
func roleMatches(filter types.ColocationRole, r *types.Resource) bool {
	switch filter {
	case types.ColocationRoleAny:
		return true
	case types.ColocationRoleStarted:
		return r.NextRole == types.RoleStarted || r.NextRole == types.RolePromoted
	case types.ColocationRolePromoted:
		return r.NextRole == types.RolePromoted
	case types.ColocationRoleUnpromoted:
		return r.NextRole == types.RoleUnpromoted
	default:
		return true
	}
}

// Apply runs the score-propagation algorithm for node
// placement: given a colocation whose primary is already assigned, it
// adjusts the dependent's allowed-node scores.
func Apply(ws *cluster.WorkingSet, c *types.Colocation) {
	logger := log.WithComponent("colocation")

	primary, ok := ws.Resource(c.PrimaryID)
	if !ok {
		return
	}
	dependent, ok := ws.Resource(c.DependentID)
	if !ok {
		return
	}

	// "Primary still unassigned": no effect, will be revisited.
	if len(primary.RunningOn) == 0 && primary.PendingNode == "" {
		return
	}

	if !roleMatches(c.DependentRole, dependent) || !roleMatches(c.PrimaryRole, primary) {
		return
	}

	// "Dependent already assigned": no effect except logging a mandatory
	// violation. A resource scheduled earlier in the same pass has a
	// PendingNode before it ever reaches RunningOn.
	if len(dependent.RunningOn) > 0 || dependent.PendingNode != "" {
		if c.IsMandatory() {
			primaryNode := onlyRunningNode(primary)
			dependentNode := onlyRunningNode(dependent)
			if primaryNode != "" && dependentNode != "" && !attrsMatch(ws, primaryNode, dependentNode, c.NodeAttribute) {
				logger.Warn().Str("colocation", c.ID).Msg("mandatory colocation violated by already-assigned dependent")
			}
		}
		return
	}

	primaryNode := onlyRunningNode(primary)
	if primaryNode == "" {
		return
	}
	n, ok := ws.Node(primaryNode)
	if !ok {
		return
	}
	primaryValue, _ := n.AttrValue(c.NodeAttribute)

	attr := c.NodeAttribute
	updated := make(map[string]score.Score, len(dependent.AllowedNodes))
	for id, s := range dependent.AllowedNodes {
		updated[id] = s
	}

	changed := false
	for nodeID := range dependent.AllowedNodes {
		m, ok := ws.Node(nodeID)
		if !ok {
			continue
		}
		mValue, _ := m.AttrValue(attr)
		switch {
		case mValue == primaryValue:
			if !c.IsMandatory() {
				updated[nodeID] = score.Add(updated[nodeID], c.Score)
				changed = true
			}
		default:
			if c.IsMandatory() {
				updated[nodeID] = -score.Infinity
				changed = true
			}
		}
	}

	if !changed {
		return
	}

	if !c.IsMandatory() && allNegative(updated) {
		logger.Debug().Str("colocation", c.ID).Msg("optional colocation would leave no viable node, rolling back")
		return
	}

	dependent.AllowedNodes = updated
}

func onlyRunningNode(r *types.Resource) string {
	if r.PendingNode != "" {
		return r.PendingNode
	}
	for id := range r.RunningOn {
		return id
	}
	return ""
}

func attrsMatch(ws *cluster.WorkingSet, nodeA, nodeB, attr string) bool {
	a, aOK := ws.Node(nodeA)
	b, bOK := ws.Node(nodeB)
	if !aOK || !bOK {
		return false
	}
	av, _ := a.AttrValue(attr)
	bv, _ := b.AttrValue(attr)
	return av == bv
}

func allNegative(m map[string]score.Score) bool {
	for _, s := range m {
		if s >= 0 {
			return false
		}
	}
	return true
}

// ApplyRoleOnly handles the role-only application case: when
// both dependent and primary are already placed and the colocation is
// role-sensitive, it adjusts the dependent's priority rather than its
// node scores.
func ApplyRoleOnly(ws *cluster.WorkingSet, c *types.Colocation) {
	primary, ok := ws.Resource(c.PrimaryID)
	if !ok {
		return
	}
	dependent, ok := ws.Resource(c.DependentID)
	if !ok {
		return
	}
	if c.DependentRole == types.ColocationRoleAny && c.PrimaryRole == types.ColocationRoleAny {
		return
	}
	primaryNode := onlyRunningNode(primary)
	dependentNode := onlyRunningNode(dependent)
	if primaryNode == "" || dependentNode == "" {
		return
	}

	match := attrsMatch(ws, primaryNode, dependentNode, c.NodeAttribute)
	if match {
		delta := c.Score
		if c.DependentRole == types.ColocationRoleUnpromoted {
			delta = -delta
		}
		dependent.Priority = score.Add(dependent.Priority, delta)
		return
	}

	if c.IsMandatory() && c.DependentRole == types.ColocationRolePromoted {
		dependent.Priority = -score.Infinity
	}
}

package scheduler

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/colocation"
	"github.com/cuemby/clusterscheduler/pkg/group"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// Input bundles the pure inputs a single Pass needs: the typed
// configuration, the parsed status section, and the effective time the
// whole pass is evaluated against.
type Input struct {
	Config types.ClusterConfig
	Status *status.StatusInput
	EffectiveTime int64
	HasQuorum bool

	Nodes map[string]*types.Node
	Resources map[string]*types.Resource
	Colocations map[string]*types.Colocation

	// RecurringTemplates maps resource id to its configured recurring
	// operation templates.
	RecurringTemplates map[string][]recurring.OpTemplate

	PendingTimeoutExceeded map[string]bool
}

// Pass runs the full deterministic transformation the package doc
// describes: (Configuration, Status, EffectiveTime) -> TransitionGraph.
func Pass(in Input) *types.TransitionGraph {
	logger := log.WithComponent("scheduler")

	ws := cluster.NewWorkingSet(in.Config, in.EffectiveTime)
	ws.SetQuorum(in.HasQuorum)
	for _, n := range in.Nodes {
		ws.AddNode(n)
	}
	for _, r := range in.Resources {
		ws.AddResource(r)
	}
	for _, c := range in.Colocations {
		ws.AddColocation(c)
	}

	status.Unpack(ws, in.Status, in.PendingTimeoutExceeded)
	applyNoQuorumPolicy(ws)

	colocation.BuildLists(ws)
	applyColocationScores(ws)

	graph := types.NewTransitionGraph(uuid.NewString())
	graph.EffectiveTime = in.EffectiveTime

	actionsByResource := make(map[string]*types.Action)
	for _, resourceID := range schedulingOrder(ws) {
		r := ws.Resources[resourceID]
		if r.Variant == types.VariantGroup {
			continue // groups are scheduled via assignGroup below
		}
		if p, ok := ws.Resources[r.Parent]; ok && p.Variant == types.VariantGroup {
			continue // group members are placed by assignGroup below
		}
		a := scheduleResource(ws, graph, r)
		if a != nil {
			actionsByResource[resourceID] = a
		}
		// Re-score now that r has a node (or has been stopped): any
		// colocation with r as primary can only take effect on its
		// dependent once r's own placement is known.
		applyColocationScores(ws)
	}

	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		if r.Variant != types.VariantGroup {
			continue
		}
		assignGroup(ws, graph, r, actionsByResource)
	}

	planRecurring(ws, graph, in.RecurringTemplates, actionsByResource)

	logger.Info().
		Str("graph_id", graph.ID).
		Int("actions", len(graph.Actions)).
		Int("orderings", len(graph.Orderings)).
		Msg("scheduling pass complete")

	return graph
}

// applyNoQuorumPolicy implements no-quorum-policy options by
// mutating resource next-roles before placement: "stop" and "demote"
// need to take effect before any action is scheduled, while "freeze" and
// "ignore" require no working-set mutation at all.
func applyNoQuorumPolicy(ws *cluster.WorkingSet) {
	if ws.HasQuorum() {
		return
	}
	switch ws.Config.NoQuorumPolicy {
	case types.NoQuorumStop:
		for _, id := range ws.SortedResourceIDs() {
			ws.Resources[id].NextRole = types.RoleStopped
		}
	case types.NoQuorumDemote:
		for _, id := range ws.SortedResourceIDs() {
			r := ws.Resources[id]
			if r.IsPromotableClone() && r.Role == types.RolePromoted {
				r.NextRole = types.RoleUnpromoted
			}
		}
	case types.NoQuorumFreeze, types.NoQuorumIgnore, types.NoQuorumSuicide:
		// freeze/ignore: no mutation, placement proceeds (or is skipped
		// entirely by the caller for freeze, which is a transport-layer
		// concern outside this pass). suicide is a node-local reaction
		// the executing node applies to itself, not a graph action.
	}
}

// applyColocationScores runs every stored colocation through
// pkg/colocation.Apply in sorted order for determinism.
func applyColocationScores(ws *cluster.WorkingSet) {
	ids := make([]string, 0, len(ws.Colocations))
	for id := range ws.Colocations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		c := ws.Colocations[id]
		colocation.Apply(ws, c)
		colocation.ApplyRoleOnly(ws, c)
	}
}

// schedulingOrder returns every non-group resource id in an order that
// places each colocation's primary before its dependent, falling back to
// sorted id order where no colocation constrains the relationship. A
// mandatory colocation only narrows AllowedNodes once its primary is
// already placed (see applyColocationScores), so placement order itself
// has to respect the colocation graph, not just alphabetical id order.
func schedulingOrder(ws *cluster.WorkingSet) []string {
	sortedIDs := ws.SortedResourceIDs()

	mustPrecede := make(map[string][]string)
	colocationIDs := make([]string, 0, len(ws.Colocations))
	for id := range ws.Colocations {
		colocationIDs = append(colocationIDs, id)
	}
	sort.Strings(colocationIDs)
	for _, id := range colocationIDs {
		c := ws.Colocations[id]
		mustPrecede[c.DependentID] = append(mustPrecede[c.DependentID], c.PrimaryID)
	}

	visited := make(map[string]bool, len(sortedIDs))
	inProgress := make(map[string]bool, len(sortedIDs))
	order := make([]string, 0, len(sortedIDs))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] || inProgress[id] {
			return
		}
		r, ok := ws.Resources[id]
		if !ok || r.Variant == types.VariantGroup {
			return
		}
		inProgress[id] = true
		for _, primaryID := range mustPrecede[id] {
			visit(primaryID)
		}
		inProgress[id] = false
		visited[id] = true
		order = append(order, id)
	}

	for _, id := range sortedIDs {
		visit(id)
	}
	return order
}

// scheduleResource picks a node for a single (non-group) resource and
// emits the action implied by the transition from its current role to
// its next role.
func scheduleResource(ws *cluster.WorkingSet, graph *types.TransitionGraph, r *types.Resource) *types.Action {
	if r.Flags.Blocked || !r.Flags.Managed {
		return nil
	}

	if r.NextRole == types.RoleUnknown {
		r.NextRole = r.Role
	}

	if r.NextRole == types.RoleStopped {
		return emitStop(ws, graph, r)
	}

	nodeID, ok := chooseNode(ws, r)
	if !ok {
		return emitStop(ws, graph, r)
	}

	return emitTransition(graph, r, nodeID)
}

// chooseNode picks the highest-scoring placeable node for r, breaking
// ties on lexicographically smaller id. Scores come from walking the
// colocation graph outward from r (pkg/colocation.ColocatedNodeScores)
// rather than r.AllowedNodes alone, so a resource favors nodes where its
// colocated dependents can also be placed.
func chooseNode(ws *cluster.WorkingSet, r *types.Resource) (string, bool) {
	scores := colocation.ColocatedNodeScores(ws, r, colocation.Options{})

	best := ""
	bestScore := score.Score(-score.Infinity) - 1
	for _, nodeID := range ws.SortedNodeIDs() {
		n, ok := ws.Node(nodeID)
		if !ok || !n.Placeable() {
			continue
		}
		s, explicit := scores[nodeID]
		if !explicit {
			if !ws.Config.SymmetricCluster {
				continue
			}
			s = 0
		}
		if s <= -score.Infinity {
			continue
		}
		if best == "" || s > bestScore {
			best = nodeID
			bestScore = s
		}
	}
	return best, best != ""
}

func emitStop(ws *cluster.WorkingSet, graph *types.TransitionGraph, r *types.Resource) *types.Action {
	nodeID := onlyRunningNode(r)
	if nodeID == "" {
		return nil
	}
	a := graph.AddAction(&types.Action{ResourceID: r.ID, NodeID: nodeID, Task: types.TaskStop, Runnable: true})
	r.Actions = append(r.Actions, a)
	return a
}

func emitTransition(graph *types.TransitionGraph, r *types.Resource, nodeID string) *types.Action {
	task := transitionTask(r.Role, r.NextRole, r.RunningOn[nodeID])
	a := graph.AddAction(&types.Action{ResourceID: r.ID, NodeID: nodeID, Task: task, Runnable: true})
	r.Actions = append(r.Actions, a)
	// Record the chosen node so a colocation re-applied later in this same
	// pass sees r as placed, per pkg/colocation.Apply's "primary still
	// unassigned" check.
	r.PendingNode = nodeID
	return a
}

func transitionTask(current, next types.Role, alreadyHere bool) types.Task {
	switch {
	case !alreadyHere && next != types.RoleStopped:
		return types.TaskStart
	case next == types.RolePromoted && current != types.RolePromoted:
		return types.TaskPromote
	case next == types.RoleUnpromoted && current == types.RolePromoted:
		return types.TaskDemote
	default:
		return types.TaskMonitor
	}
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

// assignGroup places a composite group's members and wires the implicit
// constraints and pseudo-actions from pkg/group.
func assignGroup(ws *cluster.WorkingSet, graph *types.TransitionGraph, g *types.Resource, actionsByResource map[string]*types.Action) {
	flags := group.GroupFlags{Ordered: g.Flags.Ordered, Colocated: g.Flags.Colocated}
	group.AddImplicitColocations(ws, g, flags)
	// Rebuild the sorted colocation lists so ColocatedNodeScores (used by
	// chooseNode) sees the implicit member-to-member edges just added.
	colocation.BuildLists(ws)
	applyColocationScores(ws)

	_, _ = group.Assign(ws, g, func(memberID string) (string, bool) {
		member, ok := ws.Resource(memberID)
		if !ok {
			return "", false
		}
		a := scheduleResource(ws, graph, member)
		if a == nil {
			return "", false
		}
		actionsByResource[memberID] = a
		// Members are assigned in configured order (pkg/group.Assign); a
		// later member's mandatory colocation with its predecessor only
		// takes hold once the predecessor has a node, so rescore after
		// each member instead of once up front.
		applyColocationScores(ws)
		return a.NodeID, true
	})

	var members []*types.Action
	var memberActions []*types.Action
	for _, memberID := range g.Children {
		if a, ok := actionsByResource[memberID]; ok {
			members = append(members, a)
			memberActions = append(memberActions, a)
		}
	}

	promotable := g.Flags.Promotable
	pa := group.AddPseudoActions(graph, g, memberActions, promotable)
	group.CombineRunnability(pa, members)

	if flags.Ordered {
		for i := 1; i < len(g.Children); i++ {
			prevA, okPrev := actionsByResource[g.Children[i-1]]
			thisA, okThis := actionsByResource[g.Children[i]]
			if !okPrev || !okThis {
				continue
			}
			prevMember, _ := ws.Resource(g.Children[i-1])
			thisMember, _ := ws.Resource(g.Children[i])
			group.AddSequentialOrdering(graph, prevA, thisA, thisA, prevA,
				len(prevMember.RunningOn) > 0, len(thisMember.RunningOn) > 0)
		}
	}
}

// planRecurring runs pkg/recurring.Plan for every resource and wires the
// resulting monitor/cancel actions into the graph.
func planRecurring(ws *cluster.WorkingSet, graph *types.TransitionGraph, templates map[string][]recurring.OpTemplate, actionsByResource map[string]*types.Action) {
	for _, resourceID := range ws.SortedResourceIDs() {
		r := ws.Resources[resourceID]
		tmpls, ok := templates[resourceID]
		if !ok || len(tmpls) == 0 {
			continue
		}
		startAction := actionsByResource[resourceID]
		startRunnable := startAction != nil && startAction.Runnable
		assignedNode := ""
		if startAction != nil {
			assignedNode = startAction.NodeID
		}

		for _, pm := range recurring.Plan(ws, r, tmpls, assignedNode, startRunnable) {
			recurring.ToAction(graph, resourceID, pm, startAction)
		}
	}
}

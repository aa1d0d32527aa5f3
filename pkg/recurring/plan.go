package recurring

import (
	"sort"
	"strconv"

	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// OpTemplate is one configured recurring-candidate operation for a
// resource, as carried in its configuration.
type OpTemplate struct {
	Name string
	IntervalMs int
	Role types.Role // types.RoleUnknown means "no role filter configured"
}

// nonRecurringNames lists the task names excluded from recurring
// scheduling outright, regardless of any configured interval.
var nonRecurringNames = map[string]bool{
	"start": true, "stop": true, "promote": true, "demote": true,
	"reload-agent": true, "migrate-to": true, "migrate-from": true,
}

// IsRecurringCandidate reports whether a template may produce a
// recurring monitor at all.
func IsRecurringCandidate(t OpTemplate) bool {
	return t.IntervalMs > 0 && !nonRecurringNames[t.Name]
}

// Dedup removes templates sharing the same (name, interval) pair,
// keeping the first occurrence.
func Dedup(templates []OpTemplate) []OpTemplate {
	seen := make(map[string]bool)
	out := make([]OpTemplate, 0, len(templates))
	for _, t := range templates {
		key := t.Name + "/" + strconv.Itoa(t.IntervalMs)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// PlannedMonitor is one monitor or cancel action the planner decided to
// schedule.
type PlannedMonitor struct {
	NodeID string
	Template OpTemplate
	Cancel bool
	Runnable bool
	// ExpectPromoted marks a promote-role monitor so the resulting
	// action carries expected-result metadata indicating promoted state.
	ExpectPromoted bool
}

// Plan runs the role-filter table for a single resource
// already assigned (or about to be stopped) per startAction's runnability.
// assignedNode is "" if the resource's next role is stopped everywhere.
func Plan(ws *cluster.WorkingSet, r *types.Resource, templates []OpTemplate, assignedNode string, startRunnable bool) []PlannedMonitor {
	var out []PlannedMonitor

	for _, t := range Dedup(templates) {
		if !IsRecurringCandidate(t) {
			continue
		}

		switch {
		case t.Role == types.RoleStopped:
			if !(r.Variant == types.VariantClone && !r.Flags.Unique) {
				continue // only anonymous clones carry stopped-role monitors
			}
			for _, nodeID := range ws.SortedNodeIDs() {
				if nodeID == assignedNode {
					out = append(out, PlannedMonitor{NodeID: nodeID, Template: t, Cancel: true})
					continue
				}
				out = append(out, PlannedMonitor{
					NodeID: nodeID,
					Template: t,
					Runnable: startRunnable && nodePlaceable(ws, nodeID),
				})
			}

		case t.Role == types.RoleUnknown || t.Role == r.NextRole:
			if assignedNode == "" {
				continue
			}
			out = append(out, PlannedMonitor{
				NodeID: assignedNode,
				Template: t,
				Runnable: startRunnable && nodePlaceable(ws, assignedNode),
				ExpectPromoted: t.Role == types.RolePromoted,
			})

		default:
			// configured role differs from next_role: cancel on the
			// current node, ordered before the next transition.
			currentNode := onlyRunningNode(r)
			if currentNode == "" {
				continue
			}
			out = append(out, PlannedMonitor{NodeID: currentNode, Template: t, Cancel: true})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeID != out[j].NodeID {
			return out[i].NodeID < out[j].NodeID
		}
		return out[i].Template.Name < out[j].Template.Name
	})
	return out
}

func nodePlaceable(ws *cluster.WorkingSet, nodeID string) bool {
	n, ok := ws.Node(nodeID)
	return ok && n.Placeable()
}

func onlyRunningNode(r *types.Resource) string {
	for id := range r.RunningOn {
		return id
	}
	return ""
}

// ToAction adds one monitor action to the graph for a PlannedMonitor; a
// planned cancel is added as an optional monitor action. When dependsOn
// is non-nil it orders dependsOn -> monitor with first-implies-then +
// unrunnable-first-blocks. It adds no other ordering edges: no
// reload-agent -> monitor, promote -> monitor or demote -> monitor edge
// is wired apart from the one dependsOn supplies.
func ToAction(graph *types.TransitionGraph, resourceID string, pm PlannedMonitor, dependsOn *types.Action) *types.Action {
	task := types.TaskMonitor
	a := graph.AddAction(&types.Action{
		ResourceID: resourceID,
		NodeID: pm.NodeID,
		Task: task,
		Interval: pm.Template.IntervalMs,
		Runnable: pm.Runnable,
		Optional: pm.Cancel,
		Reason: pm.Template.Name,
	})
	if dependsOn != nil {
		graph.Order(dependsOn, a, types.OrderMandatory, types.OrderFlags{
			FirstImpliesThen: true,
			UnrunnableFirstBlocks: true,
		})
	}
	return a
}

package group

import (
	"github.com/cuemby/clusterscheduler/pkg/cluster"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// AddImplicitColocations gives every member a mandatory colocation with
// its predecessor when the group is colocated. Every member gets the same
// +Infinity colocation; the members' critical flag is not consulted here
// or by Assign.
func AddImplicitColocations(ws *cluster.WorkingSet, g *types.Resource, flags GroupFlags) {
	if !flags.Colocated {
		return
	}
	for i := 1; i < len(g.Children); i++ {
		dependentID := g.Children[i]
		primaryID := g.Children[i-1]
		id := g.ID + "_implicit_" + dependentID
		ws.AddColocation(&types.Colocation{
			ID: id,
			DependentID: dependentID,
			PrimaryID: primaryID,
			Score: score.Score(score.Infinity),
		})
	}
}

// PseudoActions holds the group-level ordering points: group.start/
// running and group.stop/stopped, plus (for promotable groups)
// group.promote/promoted and group.demote/demoted.
type PseudoActions struct {
	Start *types.Action
	Running *types.Action
	Stop *types.Action
	Stopped *types.Action
	Promote *types.Action
	Promoted *types.Action
	Demote *types.Action
	Demoted *types.Action
}

// AddPseudoActions creates the group's pseudo-actions in the graph and
// wires group.start -> member.start -> group.running and
// group.stop -> member.stop -> group.stopped (and the analogous
// promote/demote chain for promotable groups).
//
// Group pseudo-actions are always pseudo and always runnable by default;
// CombineRunnability below folds in each member's actual runnability
// after all members have been scheduled.
func AddPseudoActions(graph *types.TransitionGraph, g *types.Resource, members []*types.Action, promotable bool) PseudoActions {
	pa := PseudoActions{
		Start: graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_start", Runnable: true}),
		Running: graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_running", Runnable: true}),
		Stop: graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_stop", Runnable: true}),
		Stopped: graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_stopped", Runnable: true}),
	}
	if promotable {
		pa.Promote = graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_promote", Runnable: true})
		pa.Promoted = graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_promoted", Runnable: true})
		pa.Demote = graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_demote", Runnable: true})
		pa.Demoted = graph.AddAction(&types.Action{ResourceID: g.ID, Task: types.TaskPseudo, Reason: "group_demoted", Runnable: true})
	}

	for _, m := range members {
		switch m.Task {
		case types.TaskStart:
			graph.Order(pa.Start, m, types.OrderMandatory, types.OrderFlags{FirstImpliesThen: true})
			graph.Order(m, pa.Running, types.OrderMandatory, types.OrderFlags{})
		case types.TaskStop:
			graph.Order(pa.Stop, m, types.OrderMandatory, types.OrderFlags{FirstImpliesThen: true})
			graph.Order(m, pa.Stopped, types.OrderMandatory, types.OrderFlags{})
		case types.TaskPromote:
			if promotable {
				graph.Order(pa.Promote, m, types.OrderMandatory, types.OrderFlags{FirstImpliesThen: true})
				graph.Order(m, pa.Promoted, types.OrderMandatory, types.OrderFlags{})
			}
		case types.TaskDemote:
			if promotable {
				graph.Order(pa.Demote, m, types.OrderMandatory, types.OrderFlags{FirstImpliesThen: true})
				graph.Order(m, pa.Demoted, types.OrderMandatory, types.OrderFlags{})
			}
		}
	}

	return pa
}

// CombineRunnability folds member runnability into the group's
// pseudo-actions: the group action becomes mandatory if any member's is,
// unrunnable if any member's is -- except that stop and demote
// pseudo-actions remain runnable as long as any member will perform
// them.
func CombineRunnability(pa PseudoActions, members []*types.Action) {
	anyStop, anyDemote := false, false
	anyMandatory, anyUnrunnableStart, anyUnrunnablePromote := false, false, false

	for _, m := range members {
		if !m.Optional {
			anyMandatory = true
		}
		switch m.Task {
		case types.TaskStop:
			if m.Runnable {
				anyStop = true
			}
		case types.TaskDemote:
			if m.Runnable {
				anyDemote = true
			}
		case types.TaskStart:
			if !m.Runnable {
				anyUnrunnableStart = true
			}
		case types.TaskPromote:
			if !m.Runnable {
				anyUnrunnablePromote = true
			}
		}
	}

	pa.Start.Optional = !anyMandatory
	pa.Start.Runnable = !anyUnrunnableStart
	pa.Stop.Runnable = anyStop || len(members) == 0

	if pa.Promote != nil {
		pa.Promote.Runnable = !anyUnrunnablePromote
	}
	if pa.Demote != nil {
		pa.Demote.Runnable = anyDemote || len(members) == 0
	}
}

// AddSequentialOrdering wires the ordering edges between
// consecutive members when the group is ordered: prev.start must precede
// this.start, and this.stop must precede prev.stop (reverse order on
// shutdown). If a member is active while its predecessor is inactive
// (per recorded history), an extra this.stop -> prev.start edge is added
// to allow an out-of-order restart.
func AddSequentialOrdering(graph *types.TransitionGraph, prevStart, thisStart, thisStop, prevStop *types.Action, prevActive, thisActive bool) {
	graph.Order(prevStart, thisStart, types.OrderMandatory, types.OrderFlags{
		FirstImpliesThen: false,
		UnrunnableFirstBlocks: true,
	})
	graph.Order(thisStop, prevStop, types.OrderSerialize, types.OrderFlags{})

	if thisActive && !prevActive {
		graph.Order(thisStop, prevStart, types.OrderOptional, types.OrderFlags{})
	}
}

// AddShutdownOrdering handles a partially active group being shut down:
// later members must stop before earlier ones. stops must be supplied in
// the group's configured member order.
func AddShutdownOrdering(graph *types.TransitionGraph, stops []*types.Action) {
	for i := len(stops) - 1; i > 0; i-- {
		graph.Order(stops[i], stops[i-1], types.OrderSerialize, types.OrderFlags{})
	}
}

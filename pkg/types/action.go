package types

import "strconv"

// Task names the operation an Action performs.
type Task string

const (
	TaskStart Task = "start"
	TaskStop Task = "stop"
	TaskPromote Task = "promote"
	TaskDemote Task = "demote"
	TaskMonitor Task = "monitor"
	TaskMigrateTo Task = "migrate_to"
	TaskMigrateFrom Task = "migrate_from"
	TaskFence Task = "fence"
	TaskNotify Task = "notify"
	TaskPseudo Task = "pseudo" // no-op ordering point, e.g. group start/stop
)

// OnFail is the configured consequence when a resource action fails.
// Ordered by ascending severity:
// ignore < demote < restart < restart-container < reset-remote < stop <
// ban < fence-node < standby-node < block.
type OnFail int

const (
	OnFailIgnore OnFail = iota
	OnFailDemote
	OnFailRestart
	OnFailRestartContainer
	OnFailResetRemote
	OnFailStop
	OnFailBan
	OnFailFenceNode
	OnFailStandbyNode
	OnFailBlock
)

var onFailNames = map[OnFail]string{
	OnFailIgnore: "ignore",
	OnFailDemote: "demote",
	OnFailRestart: "restart",
	OnFailRestartContainer: "restart-container",
	OnFailResetRemote: "reset-remote",
	OnFailStop: "stop",
	OnFailBan: "ban",
	OnFailFenceNode: "fence-node",
	OnFailStandbyNode: "standby-node",
	OnFailBlock: "block",
}

func (o OnFail) String() string {
	if name, ok := onFailNames[o]; ok {
		return name
	}
	return "ignore"
}

// MoreSevere reports whether o is a harsher consequence than other. Callers
// combining several failed actions on the same resource keep only the most
// severe.
func (o OnFail) MoreSevere(other OnFail) bool { return o > other }

// Action is a single scheduled operation on a resource, targeted at a node.
// It is the node of the TransitionGraph's DAG.
type Action struct {
	ID int // sequential within a TransitionGraph, not persisted across passes
	ResourceID string
	NodeID string
	Task Task
	Interval int // milliseconds; 0 for non-recurring operations

	Optional bool // true: may be skipped without failing the transition
	Runnable bool // false: dependencies make this impossible to execute

	Reason string // human-readable cause, for logging/debugging only
}

// UUID returns the deterministic identifier assigned to recurring
// and one-shot actions: "<rsc-id>_<task>_<interval-ms>". It intentionally
// does not use github.com/google/uuid (random ids), since two passes scheduling the
// "same" action must produce the same identity for cancel-matching to work.
func (a *Action) UUID() string {
	return a.ResourceID + "_" + string(a.Task) + "_" + strconv.Itoa(a.Interval)
}

// OrderKind distinguishes the ordering-relation flavors between two
// actions.
type OrderKind int

const (
	OrderMandatory OrderKind = iota
	OrderOptional
	OrderSerialize
)

// OrderFlags captures the runnability/optionality propagation behavior of
// an Ordering edge.
type OrderFlags struct {
	// FirstImpliesThen: if "first" ends up unrunnable, "then" becomes
	// unrunnable too (mandatory dependency propagation).
	FirstImpliesThen bool
	// UnrunnableFirstBlocks: even an optional "then" is blocked outright
	// if "first" is unrunnable, rather than merely reordered.
	UnrunnableFirstBlocks bool
}

// Ordering is a directed edge in the TransitionGraph: "first" must
// complete (per Kind) before "then" may begin.
type Ordering struct {
	FirstActionID int
	ThenActionID int
	Kind OrderKind
	Flags OrderFlags
}

// TransitionGraph is the output of one scheduling pass: every action the
// scheduler decided to take, plus the ordering edges between them.
type TransitionGraph struct {
	ID string // opaque identifier, assigned via github.com/google/uuid
	EffectiveTime int64 // the pass's effective time, for ordering successive graphs
	Actions []*Action
	Orderings []*Ordering
}

// NewTransitionGraph returns an empty graph with the given id.
func NewTransitionGraph(id string) *TransitionGraph {
	return &TransitionGraph{ID: id}
}

// AddAction appends an action and returns it, assigning it the next
// sequential id within this graph.
func (g *TransitionGraph) AddAction(a *Action) *Action {
	a.ID = len(g.Actions)
	g.Actions = append(g.Actions, a)
	return a
}

// Order records an ordering edge between two already-added actions.
func (g *TransitionGraph) Order(first, then *Action, kind OrderKind, flags OrderFlags) {
	g.Orderings = append(g.Orderings, &Ordering{
		FirstActionID: first.ID,
		ThenActionID: then.ID,
		Kind: kind,
		Flags: flags,
	})
}

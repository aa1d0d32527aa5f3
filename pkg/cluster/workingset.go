package cluster

import (
	"sort"

	"github.com/cuemby/clusterscheduler/pkg/types"
)

// FailureRecord is one entry in the working set's failure list.
type FailureRecord struct {
	ResourceID string
	NodeID string
	Task types.Task
	When int64
	OnFail types.OnFail
}

// WorkingSet is the root container holding nodes, resources,
// colocations, orderings, ticket states, stop-needed list of containers,
// failure records, config flags, effective time, DC identity,
// shutdown-lock horizon, node-pending timeout, placement strategy,
// no-quorum policy, stonith policy, and fencing-related flags.
//
// A WorkingSet is created at the start of a scheduling pass, mutated only
// by the unpacking and scheduling logic within that pass, and discarded
// once the transition graph has been extracted. It is the sole owner of
// the node/resource/colocation/ordering collections; every other
// component refers to them by id rather than holding its own copies.
type WorkingSet struct {
	Config types.ClusterConfig

	EffectiveTime int64
	DCNodeID string

	Nodes map[string]*types.Node
	Resources map[string]*types.Resource
	Colocations map[string]*types.Colocation

	Orderings []*types.Ordering

	// TicketGranted records ticket-constraint state (ticket name ->
	// granted). Tickets gate the runnability of the resources whose
	// constraints reference them, the same way a mandatory colocation
	// gates them on node placement.
	TicketGranted map[string]bool

	// StopNeeded lists container resources (bundle/guest hosts) that
	// must be stopped even though their connection resource didn't fail
	// on the same node.
	StopNeeded []string

	Failures []FailureRecord

	// FenceRemaining is set once the status unpacker's fixed-point loop
	// reaches its final sweep: nodes still unseen at that point may be
	// fenced outright.
	FenceRemaining bool

	nextActionSeq int
	quorum bool
}

// NewWorkingSet returns an empty WorkingSet for the given configuration
// and effective time, ready for pkg/status to populate.
func NewWorkingSet(cfg types.ClusterConfig, effectiveTime int64) *WorkingSet {
	return &WorkingSet{
		Config: cfg,
		EffectiveTime: effectiveTime,
		Nodes: make(map[string]*types.Node),
		Resources: make(map[string]*types.Resource),
		Colocations: make(map[string]*types.Colocation),
		TicketGranted: make(map[string]bool),
	}
}

// AddNode registers a node, keyed by id.
func (ws *WorkingSet) AddNode(n *types.Node) { ws.Nodes[n.ID] = n }

// AddResource registers a resource, keyed by id.
func (ws *WorkingSet) AddResource(r *types.Resource) { ws.Resources[r.ID] = r }

// AddColocation registers a colocation constraint, keyed by id.
func (ws *WorkingSet) AddColocation(c *types.Colocation) { ws.Colocations[c.ID] = c }

// Node looks up a node by id, returning (nil, false) if unknown.
func (ws *WorkingSet) Node(id string) (*types.Node, bool) {
	n, ok := ws.Nodes[id]
	return n, ok
}

// Resource looks up a resource by id, returning (nil, false) if unknown.
func (ws *WorkingSet) Resource(id string) (*types.Resource, bool) {
	r, ok := ws.Resources[id]
	return r, ok
}

// SortedNodeIDs returns every node id in ascending lexicographic order,
// the deterministic tie-break callers fall back to when choosing between
// otherwise-equal nodes.
func (ws *WorkingSet) SortedNodeIDs() []string {
	ids := make([]string, 0, len(ws.Nodes))
	for id := range ws.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedResourceIDs returns every resource id in ascending order, used
// wherever scheduling must proceed deterministically rather than in map
// iteration order.
func (ws *WorkingSet) SortedResourceIDs() []string {
	ids := make([]string, 0, len(ws.Resources))
	for id := range ws.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RecordFailure appends a failure to the working set's failure list.
func (ws *WorkingSet) RecordFailure(f FailureRecord) {
	ws.Failures = append(ws.Failures, f)
}

// MarkStopNeeded adds a container resource id to the stop-needed list if
// not already present.
func (ws *WorkingSet) MarkStopNeeded(resourceID string) {
	for _, id := range ws.StopNeeded {
		if id == resourceID {
			return
		}
	}
	ws.StopNeeded = append(ws.StopNeeded, resourceID)
}

// NextActionID returns a sequential counter local to this working set,
// used by components that need to label pseudo-actions before they are
// attached to a types.TransitionGraph (which assigns its own ids on
// AddAction). This is distinct from the graph's own opaque uuid
// identifier.
func (ws *WorkingSet) NextActionID() int {
	id := ws.nextActionSeq
	ws.nextActionSeq++
	return id
}

// HasQuorum reports whether the working set currently has quorum. The
// scheduler core treats quorum as an input fact rather than
// computing membership math itself; callers populate it via
// SetQuorum before running a pass.
func (ws *WorkingSet) HasQuorum() bool { return ws.quorum }

// SetQuorum records the externally-determined quorum state for this pass.
func (ws *WorkingSet) SetQuorum(has bool) { ws.quorum = has }

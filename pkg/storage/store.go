package storage

import (
	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// Store defines the interface for cluster configuration, status, and
// transition-graph persistence. It is implemented by a BoltDB-backed
// store and replicated across manager replicas by raft: every mutating
// call happens only inside an FSM.Apply, never directly against a
// follower's copy.
type Store interface {
	// Cluster configuration
	SaveConfig(cfg types.ClusterConfig) error
	GetConfig() (types.ClusterConfig, error)

	// Nodes
	CreateNode(node *types.Node) error
	GetNode(id string) (*types.Node, error)
	ListNodes() ([]*types.Node, error)
	UpdateNode(node *types.Node) error
	DeleteNode(id string) error

	// Resources
	CreateResource(resource *types.Resource) error
	GetResource(id string) (*types.Resource, error)
	ListResources() ([]*types.Resource, error)
	UpdateResource(resource *types.Resource) error
	DeleteResource(id string) error

	// Colocation constraints
	CreateColocation(c *types.Colocation) error
	GetColocation(id string) (*types.Colocation, error)
	ListColocations() ([]*types.Colocation, error)
	DeleteColocation(id string) error

	// Recurring-operation templates, keyed by resource id.
	SaveRecurringTemplates(resourceID string, templates []recurring.OpTemplate) error
	ListRecurringTemplates() (map[string][]recurring.OpTemplate, error)
	DeleteRecurringTemplates(resourceID string) error

	// Status: the per-node transient/history section a manager replica
	// rebuilds from LRM reports and replays into every scheduling pass.
	SaveStatus(input *status.StatusInput) error
	GetStatus() (*status.StatusInput, error)

	// Transition graphs: an append-only record of every pass's output,
	// kept for audit and for the debug CLI to inspect after the fact.
	SaveGraph(graph *types.TransitionGraph) error
	GetGraph(id string) (*types.TransitionGraph, error)
	ListGraphs() ([]*types.TransitionGraph, error)
	LatestGraph() (*types.TransitionGraph, error)

	// Utility
	Close() error
}

package types

import "github.com/cuemby/clusterscheduler/pkg/score"

// NodeKind distinguishes the four kinds of placement target a working
// set recognizes. A node is either a real cluster member or one of the
// two logical node kinds whose existence is derived from a resource.
type NodeKind string

const (
	NodeKindCluster NodeKind = "cluster" // a real cluster member
	NodeKindRemote NodeKind = "remote" // pacemaker_remote connection target
	NodeKindGuest NodeKind = "guest" // guest node hosted inside a container resource
	NodeKindObserver NodeKind = "observer" // monitors only, never runs resources
)

// Node is a host (real or logical) that may run resources.
type Node struct {
	ID string
	Name string
	Kind NodeKind

	Online bool
	Unclean bool
	Shutdown bool
	Pending bool
	Standby bool
	Maintenance bool

	// Weight is the current placement score for the resource under
	// consideration; pkg/colocation resets and recomputes it per resource.
	Weight score.Score

	Attrs map[string]string
	Utilization map[string]int
	RunningRsc map[string]bool // resource ids currently assigned/active here

	// Remote/guest-only fields.
	ConnectionRsc string // id of the connection resource (weak reference)
	WasFenced bool
	RequiresReset bool
}

// NewNode returns a Node with its maps initialized, ready for population
// by the status unpacker.
func NewNode(id, name string, kind NodeKind) *Node {
	return &Node{
		ID: id,
		Name: name,
		Kind: kind,
		Attrs: make(map[string]string),
		Utilization: make(map[string]int),
		RunningRsc: make(map[string]bool),
	}
}

// IsMember reports whether the node is a real cluster member, as opposed
// to a logical remote/guest node whose lifecycle is derived from a
// container resource.
func (n *Node) IsMember() bool {
	return n.Kind == NodeKindCluster
}

// Placeable reports whether a resource may be assigned to this node at
// all: it must be known online, not unclean, not in standby, and not
// shutting down.
func (n *Node) Placeable() bool {
	return n.Online && !n.Unclean && !n.Standby && !n.Shutdown
}

// UniqueNameAttr is the node attribute colocations default to comparing
// when no explicit node_attribute is configured.
const UniqueNameAttr = "#uname"

// AttrValue returns the node's value for the given colocation attribute,
// substituting the node's own name for the reserved "#uname" attribute.
func (n *Node) AttrValue(attr string) (string, bool) {
	if attr == UniqueNameAttr || attr == "" {
		return n.Name, true
	}
	v, ok := n.Attrs[attr]
	return v, ok
}

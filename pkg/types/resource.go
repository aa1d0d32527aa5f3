package types

import "github.com/cuemby/clusterscheduler/pkg/score"

// Role is a resource's activation state. Roles are totally ordered:
// Stopped < Unpromoted < Started < Promoted.
type Role int

const (
	RoleUnknown Role = iota
	RoleStopped
	RoleUnpromoted
	RoleStarted
	RolePromoted
)

var roleNames = map[Role]string{
	RoleUnknown: "Unknown",
	RoleStopped: "Stopped",
	RoleUnpromoted: "Unpromoted",
	RoleStarted: "Started",
	RolePromoted: "Promoted",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Less reports whether r sorts before other in the role ordering.
func (r Role) Less(other Role) bool { return r < other }

// Variant distinguishes the four resource kinds. Higher sorts later in
// the enumeration only for readability; colocation ordering uses
// VariantRank, not raw Variant comparison.
type Variant int

const (
	VariantPrimitive Variant = iota
	VariantGroup
	VariantClone
	VariantBundle
)

func (v Variant) String() string {
	switch v {
	case VariantPrimitive:
		return "primitive"
	case VariantGroup:
		return "group"
	case VariantClone:
		return "clone"
	case VariantBundle:
		return "bundle"
	default:
		return "unknown"
	}
}

// VariantRank orders variants for colocation sort priority.
func VariantRank(v Variant) int {
	switch v {
	case VariantBundle:
		return 3
	case VariantClone:
		return 2
	case VariantGroup:
		return 1
	default:
		return 0
	}
}

// ResourceFlags holds the resource's boolean state flags. They are
// grouped in their own struct so that Resource's core fields stay
// readable; most are read individually, not as a bitset, since Go lacks a
// natural compact bitset for named booleans without losing clarity.
type ResourceFlags struct {
	Managed bool
	Unique bool // false => anonymous clone instance, freely renumbered
	Promotable bool
	Critical bool
	Failed bool
	StopIfFailed bool
	Blocked bool
	Provisional bool // unassigned
	IgnoreFailure bool
	Removed bool // orphan: in history but not in configuration
	RemovedFiller bool
	NeedsFencing bool
	UpdatingNodes bool // reentrancy guard, see pkg/colocation
	Merging bool // reentrancy guard, see pkg/colocation
	StartPending bool
	Maintenance bool
	IsRemoteNode bool

	// Ordered/Colocated configure a group's two named behaviors: members
	// start/stop in sequence, and members share a node. Meaningful only
	// when Variant == VariantGroup; both default to true for a plain
	// group, matching pkg/group.GroupFlags.
	Ordered bool
	Colocated bool
}

// Resource is the polymorphic unit of scheduling. All four variants
// (Primitive, Group, Clone, Bundle) share this struct; Children/Parent/
// Container/Fillers are populated only for the variants that use them.
type Resource struct {
	ID string
	Variant Variant
	Priority score.Score
	Stickiness score.Score

	Role Role
	NextRole Role

	AllowedNodes map[string]score.Score // node id -> score
	RunningOn map[string]bool // node ids; >1 means unintended concurrency

	Flags ResourceFlags

	Parent string // id of the enclosing group/clone/bundle, "" if top-level
	Children []string // ids, in configured order

	Container string // id of the hosting guest/bundle container resource, "" if none
	Fillers []string // guest node resource ids contained by this bundle/container

	// Sorted colocation lists, populated by pkg/colocation.
	ThisWithColocations []string // colocation ids where this is the dependent
	WithThisColocations []string // colocation ids where this is the primary

	Actions []*Action

	PendingTask string
	PendingNode string

	PartialMigrationSource string
	PartialMigrationTarget string
	DanglingMigrations map[string]bool // source node ids requiring a forced stop

	FailureTimeout int // seconds, 0 = unset
	RemoteReconnectMs int
	LockNode string
	LockTime int64 // epoch seconds, 0 = unset

	OnFail OnFail
	FailRole Role

	// Attributes/meta, used by colocation and recurring-action planning.
	Meta map[string]string
}

// NewResource returns a Resource with its maps initialized.
func NewResource(id string, v Variant) *Resource {
	return &Resource{
		ID: id,
		Variant: v,
		Role: RoleStopped,
		NextRole: RoleUnknown,
		AllowedNodes: make(map[string]score.Score),
		RunningOn: make(map[string]bool),
		DanglingMigrations: make(map[string]bool),
		Meta: make(map[string]string),
		Flags: ResourceFlags{Managed: true, Ordered: true, Colocated: true},
	}
}

// IsPromotableClone reports whether this resource is a clone configured
// for the promoted/unpromoted role distinction.
func (r *Resource) IsPromotableClone() bool {
	return r.Variant == VariantClone && r.Flags.Promotable
}

// Ban sets the node's allowed score to -Infinity, the representation of
// "never place this resource here" used throughout pkg/status and
// pkg/colocation.
func (r *Resource) Ban(nodeID string) {
	r.AllowedNodes[nodeID] = -score.Infinity
}

// BanEverywhere bans the resource from every node currently in its
// allowed-node table.
func (r *Resource) BanEverywhere() {
	for id := range r.AllowedNodes {
		r.AllowedNodes[id] = -score.Infinity
	}
}

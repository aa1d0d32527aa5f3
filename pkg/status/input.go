package status

import "github.com/cuemby/clusterscheduler/pkg/types"

// JoinState is the membership-layer transient attribute the
// online-determination table consults.
type JoinState string

const (
	JoinMember JoinState = "member"
	JoinDown JoinState = "down"
	JoinPending JoinState = "pending"
	JoinBanned JoinState = "banned"
	JoinNack JoinState = "nack"
)

// ExpectedState is the transient "what should this node be doing"
// attribute from the same table.
type ExpectedState string

const (
	ExpectedMember ExpectedState = "member"
	ExpectedDown ExpectedState = "down"
)

// NodeState is one node's transient state block, as carried in the
// parsed status input.
type NodeState struct {
	NodeID string

	WhenMember int64 // epoch when node joined membership; 0 = not a member; <0 = never seen
	WhenOnline int64 // epoch when controller process joined process group; 0 = not in group

	Join JoinState
	Expected ExpectedState

	ShutdownRequested bool
	TerminateRequested bool
	EverSeenOnline bool

	// Histories maps resource id to that resource's history entries on
	// this node, already ordered ascending by call_id by the caller.
	Histories map[string][]*types.HistoryEntry
}

// NewNodeState returns a NodeState with its history map initialized.
func NewNodeState(nodeID string) *NodeState {
	return &NodeState{NodeID: nodeID, Histories: make(map[string][]*types.HistoryEntry)}
}

// StatusInput is the full parsed status section: one NodeState per node
// known to the cluster, keyed by node id.
type StatusInput struct {
	Nodes map[string]*NodeState
}

// NewStatusInput returns an empty StatusInput.
func NewStatusInput() *StatusInput {
	return &StatusInput{Nodes: make(map[string]*NodeState)}
}

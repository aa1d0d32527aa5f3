/*
Package scheduler orchestrates a single cluster scheduling pass and the
background loop that drives it.

# Pass

Pass is the deterministic transformation
(Configuration, Status, EffectiveTime) -> TransitionGraph. It runs, in
order:

	1. pkg/status.Unpack -- reconstruct node/resource state
	2. pkg/colocation.BuildLists -- sort this_with/with_this lists
	3. colocation scoring -- propagate allowed-node scores
	4. action generation -- emit start/stop/promote/demote/... for
	   every resource outside a group
	5. pkg/group assignment -- place each group's members and emit
	   their actions and the group's pseudo-actions
	6. pkg/recurring.Plan -- schedule/cancel monitors

Pass takes no locks and performs no I/O: it operates entirely on an
in-memory *cluster.WorkingSet built from its inputs and returns a fresh
*types.TransitionGraph. Resources, nodes and colocations are walked in
sorted-id order. Each graph's ID is a fresh random UUID, so two calls
with identical inputs produce graphs that differ in their ID.

# Scheduler

Scheduler wraps Pass in the ticking background loop a running manager
needs: on cluster-recheck-interval (or sooner, when the manager signals a
configuration/status change), it loads the current input from
pkg/manager, runs a pass, and publishes the resulting graph back to the
manager for execution and persistence.
*/
package scheduler

/*
Package status turns parsed per-node operation history into the
populated working set a scheduling pass reasons over: node online/fencing
state, each resource's current and next role, its allowed-node table, and
any pending or partial/dangling migration.

The package is organized around three subcomponents:

 - Unpack: the bounded fixed-point loop that walks node states in
 dependency order (cluster nodes first, then remote/guest nodes once
 their host resource is known) and determines each node's online
 status.
 - History entry interpretation: parsing, expiry, exit-code and
 execution-status remapping, and migration reconstruction, applied to
 one resource's history on one node at a time.
 - Failure policy: the on-fail severity ordering and its mapping
 to role/placement/node consequences.

Every function here mutates a *cluster.WorkingSet in place and returns no
new collections; the working set is the only thing callers need to carry
into pkg/colocation and pkg/group afterward.
*/
package status

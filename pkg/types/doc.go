/*
Package types defines the data model shared by every stage of the cluster
resource scheduler: nodes, resources, colocation constraints, actions,
ordering edges, parsed history entries, and the typed cluster
configuration.

# Design

Resources and nodes are referenced by id (string) rather than by pointer
or back-reference; the working set in pkg/cluster is the only owner of
the canonical collections. Roles, execution statuses, and on-fail
policies are closed Go types (int or string-backed enums) with an
explicit ordering/severity function rather than being compared as raw
strings.

Everything in this package is a plain data holder: no package here talks
to storage, Raft, or the network. That keeps the core transformation
(pkg/status, pkg/colocation, pkg/group, pkg/recurring, pkg/scheduler)
exercisable as pure functions over these types, with a single-threaded,
deterministic, no-I/O execution model.
*/
package types

/*
Package cluster holds the WorkingSet, the single mutable root that a
scheduling pass reads from and writes to.

A WorkingSet is created fresh for each pass, populated by pkg/status from
the parsed configuration and history input, mutated in place by
pkg/colocation, pkg/group, and pkg/recurring, and finally consulted by
pkg/scheduler to extract a types.TransitionGraph. Nothing in this package
performs I/O; callers are responsible for loading configuration/history
from storage and for persisting the resulting graph.
*/
package cluster

/*
Package storage provides BoltDB-backed persistence for cluster
configuration, status, and the transition graphs a scheduling pass
produces.

The storage package implements the Store interface using BoltDB as the
underlying database, giving ACID transactions over every input the
scheduler reads and every graph it emits. All data is serialized as
JSON and kept in separate buckets for isolation.

# Bucket structure

	config               (fixed key, ClusterConfig)
	nodes                (Node ID)
	resources            (Resource ID)
	colocations          (Colocation ID)
	recurring_templates  (Resource ID, []recurring.OpTemplate)
	status               (fixed key, status.StatusInput)
	graphs               (TransitionGraph ID)

# Role in the pass pipeline

pkg/manager's FSM is the only writer: raft commits a Command, the FSM
applies it to the local BoltStore, and only then does the manager read
it back out to build a pkg/scheduler.Input. Reads never bypass raft
commit order, so every replica's store converges on the same sequence
of writes.

A scheduling pass is pure and I/O-free by design (pkg/scheduler), so
this package never calls into it directly; the manager is the only
caller that reads from Store and feeds pkg/scheduler.Pass.
*/
package storage

/*
Package manager implements the cluster manager node with Raft consensus.

The manager package is the control plane: a raft-replicated store of
cluster configuration, nodes, resources, and colocation constraints,
wired to a pkg/scheduler.Scheduler that recomputes the transition graph
on every recheck interval or status change. Managers form a
highly-available quorum using the Raft consensus protocol, ensuring
consistent cluster state even during network partitions or node
failures.

# Architecture

	┌─────────────────────── MANAGER NODE ───────────────────────┐
	│ │
	│ ┌──────────────────────────────────────────────┐ │
	│ │ Manager │ │
	│ │ - Proposes Raft commands │ │
	│ │ - Implements scheduler.InputSource/GraphSink │ │
	│ └──────────────────┬───────────────────────────┘ │
	│ │ │
	│ ┌──────────────────▼───────────────────────────┐ │
	│ │ Raft Consensus Layer │ │
	│ │ - Leader election (2-3s failover) │ │
	│ │ - Log replication across managers │ │
	│ │ - FSM applies committed commands │ │
	│ └──────────────────┬───────────────────────────┘ │
	│ │ │
	│ ┌──────────────────▼───────────────────────────┐ │
	│ │ ClusterFSM (Finite State Machine) │ │
	│ │ - Apply: Process committed commands │ │
	│ │ - Snapshot: Create state snapshots │ │
	│ │ - Restore: Recover from snapshots │ │
	│ └──────────────────┬───────────────────────────┘ │
	│ │ │
	│ ┌──────────────────▼───────────────────────────┐ │
	│ │ BoltDB Store │ │
	│ │ - Config, Nodes, Resources, Colocations │ │
	│ │ - Status, recurring templates, graphs │ │
	│ │ - Raft log and snapshots │ │
	│ └────────────────────────────────────────────────┘ │
	└──────────────────────────────────────────────────────────┘

# Core Components

Manager:
 - Proposes Raft commands for every configuration/status change
 - Implements scheduler.InputSource (CurrentInput) and
 scheduler.GraphSink (PublishGraph), closing the loop between the
 raft-replicated store and the pure pkg/scheduler.Pass function
 - Owns the scheduler.Scheduler instance started in Bootstrap/Join

ClusterFSM:
 - Raft finite state machine implementation
 - Applies committed log entries to cluster state
 - Implements snapshot/restore for fast recovery

Command:
 - Encapsulates a single state change operation
 - Op strings: create_node, save_config, create_colocation,
 save_status, save_graph, etc.
 - Serialized as JSON in the Raft log

# Raft Consensus

Cluster Sizes:
 - 1 manager: development only (no HA)
 - 3 managers: production (tolerates 1 failure)
 - 5 managers: high availability (tolerates 2 failures)

Raft timeouts are tuned for faster failover than the library's WAN-
oriented defaults: HeartbeatTimeout/ElectionTimeout 500ms,
CommitTimeout 50ms, LeaderLeaseTimeout 250ms.

# Usage

	cfg := &manager.Config{
		NodeID: "manager-1",
		BindAddr: "192.168.1.10:8080",
		DataDir: "/var/lib/clusterscheduler/manager-1",
	}

	mgr, err := manager.NewManager(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := mgr.Bootstrap(); err != nil {
		log.Fatal(err)
	}

Additional managers join via Join and are added to the raft
configuration by the leader's AddVoter once they are reachable.

# Leadership

Only the Raft leader actually matters for scheduling correctness: every
replica runs its own Scheduler off its own FSM state, but only the
leader's Apply calls succeed, so only the leader's passes are ever
committed as the authoritative graph. Followers keep ticking so they
are warm the instant they win an election.

# Quorum

hasQuorum counts online NodeKindCluster nodes against the total
configured, the same simple-majority definition the no-quorum-
policy assumes of corosync membership (this module has no separate
membership transport, so it is derived from the replicated Node table
rather than from a corosync layer).

# Integration Points

This package integrates with:

 - pkg/storage: persists cluster state to BoltDB
 - pkg/scheduler: Manager is both the InputSource and GraphSink
 - pkg/events: publishes node/resource/pass events
 - pkg/api: exposes health/ready/metrics endpoints backed by Manager
*/
package manager

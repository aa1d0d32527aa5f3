/*
Package metrics provides Prometheus metrics collection and exposition for
the cluster scheduler.

The metrics package defines and registers every metric using the
Prometheus client library, giving observability into node and resource
counts, scheduling-pass latency, raft replication state, and API
request handling. Metrics are exposed via an HTTP endpoint for scraping
by Prometheus servers.

# Metrics Catalog

Cluster Metrics:

clusterscheduler_nodes_total{kind, status}:
  - Type: Gauge
  - Total nodes by kind (cluster/remote/guest) and online status.

clusterscheduler_resources_total{variant, role}:
  - Type: Gauge
  - Total resources by variant (primitive/group/clone/bundle) and role.

Raft Metrics:

clusterscheduler_raft_is_leader:
  - Type: Gauge
  - Whether this manager replica is the Raft leader.

clusterscheduler_raft_peers_total, clusterscheduler_raft_log_index,
clusterscheduler_raft_applied_index:
  - Type: Gauge
  - Raft cluster membership and replication progress.

clusterscheduler_raft_apply_duration_seconds:
  - Type: Histogram
  - Time to apply a Raft log entry.

API Metrics:

clusterscheduler_api_requests_total{method, status},
clusterscheduler_api_request_duration_seconds{method}:
  - Type: Counter / Histogram
  - Manager API request volume and latency.

Scheduling-Pass Metrics:

clusterscheduler_pass_duration_seconds:
  - Type: Histogram
  - Wall time of one scheduling pass.

clusterscheduler_passes_total:
  - Type: Counter
  - Total scheduling passes completed.

clusterscheduler_actions_scheduled_total{task}:
  - Type: Counter
  - Total actions scheduled, by task.

clusterscheduler_fencing_requests_total:
  - Type: Counter
  - Total node fence operations scheduled.

clusterscheduler_colocation_rollbacks_total:
  - Type: Counter
  - Total optional colocations rolled back for leaving no viable node.

clusterscheduler_dependency_loop_breaks_total:
  - Type: Counter
  - Total colocation traversals short-circuited by the reentrancy guard.

clusterscheduler_failure_severity_applied_total{on_fail}:
  - Type: Counter
  - Total times each on-fail severity was applied.

# Usage

	import "github.com/cuemby/clusterscheduler/pkg/metrics"

	metrics.NodesTotal.WithLabelValues("cluster", "online").Set(5)
	metrics.ActionsScheduledTotal.WithLabelValues("start").Inc()

	timer := metrics.NewTimer()
	// ... run one scheduling pass ...
	metrics.RecordSchedulingPass(timer.Duration(), len(graph.Actions))

	http.Handle("/metrics", metrics.Handler())

# Design Patterns

All metrics are registered in init() via MustRegister, so they are
available before main() runs and need no caller-side setup. Labels are
kept low-cardinality (kind, status, role, variant, task, method,
on_fail); resource and node ids never become label values.
*/
package metrics

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cluster metrics
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_nodes_total",
			Help: "Total number of nodes by kind and online status",
		},
		[]string{"kind", "status"},
	)

	ResourcesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_resources_total",
			Help: "Total number of resources by variant and role",
		},
		[]string{"variant", "role"},
	)

	// Raft metrics -- the scheduling core stays single-threaded and
	// I/O-free, but the manager that feeds it configuration and status
	// input replicates that input across replicas via raft.
	RaftLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_raft_is_leader",
			Help: "Whether this node is the Raft leader (1 = leader, 0 = follower)",
		},
	)

	RaftPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_raft_peers_total",
			Help: "Total number of Raft peers in the cluster",
		},
	)

	RaftLogIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_raft_log_index",
			Help: "Current Raft log index",
		},
	)

	RaftAppliedIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clusterscheduler_raft_applied_index",
			Help: "Last applied Raft log index",
		},
	)

	RaftApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterscheduler_raft_apply_duration_seconds",
			Help:    "Time taken to apply a Raft log entry in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterscheduler_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clusterscheduler_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Scheduling-pass metrics
	SchedulingPassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "clusterscheduler_pass_duration_seconds",
			Help:    "Time taken to run one scheduling pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SchedulingPassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterscheduler_passes_total",
			Help: "Total number of scheduling passes completed",
		},
	)

	ActionsScheduledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterscheduler_actions_scheduled_total",
			Help: "Total number of actions scheduled by task",
		},
		[]string{"task"},
	)

	FencingRequestsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterscheduler_fencing_requests_total",
			Help: "Total number of node fence operations scheduled",
		},
	)

	ColocationRollbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterscheduler_colocation_rollbacks_total",
			Help: "Total number of optional colocations rolled back for leaving no viable node",
		},
	)

	DependencyLoopBreaksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clusterscheduler_dependency_loop_breaks_total",
			Help: "Total number of colocation/containment traversals short-circuited by a reentrancy guard",
		},
	)

	FailureSeverityAppliedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clusterscheduler_failure_severity_applied_total",
			Help: "Total number of times each on-fail severity was applied",
		},
		[]string{"on_fail"},
	)
)

func init() {
	prometheus.MustRegister(NodesTotal)
	prometheus.MustRegister(ResourcesTotal)
	prometheus.MustRegister(RaftLeader)
	prometheus.MustRegister(RaftPeers)
	prometheus.MustRegister(RaftLogIndex)
	prometheus.MustRegister(RaftAppliedIndex)
	prometheus.MustRegister(RaftApplyDuration)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(SchedulingPassDuration)
	prometheus.MustRegister(SchedulingPassesTotal)
	prometheus.MustRegister(ActionsScheduledTotal)
	prometheus.MustRegister(FencingRequestsTotal)
	prometheus.MustRegister(ColocationRollbacksTotal)
	prometheus.MustRegister(DependencyLoopBreaksTotal)
	prometheus.MustRegister(FailureSeverityAppliedTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSchedulingPass records one completed scheduling pass: its wall
// time and the total number of actions it produced, under the "total"
// task label of ActionsScheduledTotal. Nothing in this module records a
// per-task breakdown.
func RecordSchedulingPass(d time.Duration, actionCount int) {
	SchedulingPassDuration.Observe(d.Seconds())
	SchedulingPassesTotal.Inc()
	ActionsScheduledTotal.WithLabelValues("total").Add(float64(actionCount))
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

package manager

import (
	"time"

	"github.com/cuemby/clusterscheduler/pkg/metrics"
)

// MetricsCollector collects metrics from the manager
type MetricsCollector struct {
	manager *Manager
	stopCh  chan struct{}
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(mgr *Manager) *MetricsCollector {
	return &MetricsCollector{
		manager: mgr,
		stopCh:  make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *MetricsCollector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *MetricsCollector) Stop() {
	close(c.stopCh)
}

func (c *MetricsCollector) collect() {
	c.collectNodeMetrics()
	c.collectResourceMetrics()
	c.collectRaftMetrics()
}

func (c *MetricsCollector) collectNodeMetrics() {
	nodes, err := c.manager.ListNodes()
	if err != nil {
		return
	}

	counts := make(map[string]map[string]int)
	for _, n := range nodes {
		kind := string(n.Kind)
		status := "offline"
		switch {
		case n.Unclean:
			status = "unclean"
		case n.Standby:
			status = "standby"
		case n.Shutdown:
			status = "shutdown"
		case n.Online:
			status = "online"
		}

		if counts[kind] == nil {
			counts[kind] = make(map[string]int)
		}
		counts[kind][status]++
	}

	for kind, statuses := range counts {
		for status, count := range statuses {
			metrics.NodesTotal.WithLabelValues(kind, status).Set(float64(count))
		}
	}
}

func (c *MetricsCollector) collectResourceMetrics() {
	resources, err := c.manager.ListResources()
	if err != nil {
		return
	}

	counts := make(map[string]map[string]int)
	for _, r := range resources {
		variant := r.Variant.String()
		role := r.Role.String()

		if counts[variant] == nil {
			counts[variant] = make(map[string]int)
		}
		counts[variant][role]++
	}

	for variant, roles := range counts {
		for role, count := range roles {
			metrics.ResourcesTotal.WithLabelValues(variant, role).Set(float64(count))
		}
	}
}

func (c *MetricsCollector) collectRaftMetrics() {
	if c.manager.IsLeader() {
		metrics.RaftLeader.Set(1)
	} else {
		metrics.RaftLeader.Set(0)
	}

	stats := c.manager.GetRaftStats()
	if stats != nil {
		if lastIndex, ok := stats["last_log_index"].(uint64); ok {
			metrics.RaftLogIndex.Set(float64(lastIndex))
		}
		if appliedIndex, ok := stats["applied_index"].(uint64); ok {
			metrics.RaftAppliedIndex.Set(float64(appliedIndex))
		}
		if peers, ok := stats["peers"].(uint64); ok {
			metrics.RaftPeers.Set(float64(peers))
		}
	}
}

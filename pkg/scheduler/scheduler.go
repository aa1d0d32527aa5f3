package scheduler

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/metrics"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// InputSource supplies a Scheduler with the current cluster input. A
// raft-replicated manager implements this by reading its own FSM state;
// tests can supply a fixed Input directly.
type InputSource interface {
	CurrentInput() (Input, error)
}

// GraphSink receives the transition graph a pass produced, for execution
// and persistence. Nil is never passed: an empty graph (zero actions) is
// itself meaningful and must still reach the sink.
type GraphSink interface {
	PublishGraph(*types.TransitionGraph) error
}

// Scheduler runs Pass on a fixed interval (cluster-recheck-interval) and
// publishes each resulting transition graph.
type Scheduler struct {
	source InputSource
	sink GraphSink

	logger zerolog.Logger
	mu sync.Mutex
	stopCh chan struct{}

	interval time.Duration
}

// NewScheduler returns a Scheduler that recomputes on the given interval.
// A zero interval falls back to the 15-minute cluster-recheck-interval
// default.
func NewScheduler(source InputSource, sink GraphSink, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		source: source,
		sink: sink,
		logger: log.WithComponent("scheduler"),
		stopCh: make(chan struct{}),
		interval: interval,
	}
}

// Start begins the scheduling loop in the background.
func (s *Scheduler) Start() {
	go s.run()
}

// Stop halts the scheduling loop.
func (s *Scheduler) Stop() {
	close(s.stopCh)
}

// RunOnce triggers a single pass outside the ticker, e.g. in response to
// a configuration or status change the manager wants reflected
// immediately rather than waiting for cluster-recheck-interval.
func (s *Scheduler) RunOnce() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runPass()
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			err := s.runPass()
			s.mu.Unlock()
			if err != nil {
				s.logger.Error().Err(err).Msg("scheduling pass failed")
			}
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) runPass() error {
	start := time.Now()

	in, err := s.source.CurrentInput()
	if err != nil {
		return err
	}

	graph := Pass(in)

	metrics.RecordSchedulingPass(time.Since(start), len(graph.Actions))

	return s.sink.PublishGraph(graph)
}

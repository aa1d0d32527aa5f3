package manager

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"

	"github.com/cuemby/clusterscheduler/pkg/events"
	"github.com/cuemby/clusterscheduler/pkg/log"
	"github.com/cuemby/clusterscheduler/pkg/metrics"
	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/scheduler"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/storage"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// Manager represents a cluster manager node: the raft-replicated control
// plane that holds configuration, node/resource definitions, and status,
// and drives a scheduler.Scheduler off its own committed state.
type Manager struct {
	nodeID string
	bindAddr string
	dataDir string

	raft *raft.Raft
	fsm *ClusterFSM
	store storage.Store
	eventBroker *events.Broker
	scheduler *scheduler.Scheduler

	recheckInterval time.Duration
}

// Config holds configuration for creating a Manager
type Config struct {
	NodeID string
	BindAddr string
	DataDir string
	RecheckInterval time.Duration // forwarded to scheduler.NewScheduler, 0 = package default
}

// NewManager creates a new Manager instance
func NewManager(cfg *Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	fsm := NewClusterFSM(store)

	eventBroker := events.NewBroker()
	eventBroker.Start()

	m := &Manager{
		nodeID: cfg.NodeID,
		bindAddr: cfg.BindAddr,
		dataDir: cfg.DataDir,
		fsm: fsm,
		store: store,
		eventBroker: eventBroker,
		recheckInterval: cfg.RecheckInterval,
	}

	return m, nil
}

func raftConfig(nodeID string) *raft.Config {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(nodeID)

	// Tune Raft timeouts for faster failover (target: <10s).
	// Hashicorp Raft defaults are conservative for WAN deployments; a
	// manager quorum here runs on LAN/edge links.
	//
	// Defaults: HeartbeatTimeout=1s, ElectionTimeout=1s, LeaderLeaseTimeout=500ms
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.CommitTimeout = 50 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond

	return config
}

func (m *Manager) newRaft(config *raft.Config) (*raft.Raft, *raft.NetworkTransport, error) {
	addr, err := net.ResolveTCPAddr("tcp", m.bindAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve bind address: %w", err)
	}

	transport, err := raft.NewTCPTransport(m.bindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(m.dataDir, 2, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create snapshot store: %w", err)
	}

	logStorePath := filepath.Join(m.dataDir, "raft-log.db")
	logStore, err := raftboltdb.NewBoltStore(logStorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log store: %w", err)
	}

	stableStorePath := filepath.Join(m.dataDir, "raft-stable.db")
	stableStore, err := raftboltdb.NewBoltStore(stableStorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create stable store: %w", err)
	}

	r, err := raft.NewRaft(config, m.fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create raft: %w", err)
	}

	return r, transport, nil
}

// Bootstrap initializes a new single-node Raft cluster
func (m *Manager) Bootstrap() error {
	config := raftConfig(m.nodeID)

	r, transport, err := m.newRaft(config)
	if err != nil {
		return err
	}
	m.raft = r

	configuration := raft.Configuration{
		Servers: []raft.Server{
			{
				ID: config.LocalID,
				Address: transport.LocalAddr,
			},
		},
	}

	future := m.raft.BootstrapCluster(configuration)
	if err := future.Error(); err != nil {
		return fmt.Errorf("failed to bootstrap cluster: %w", err)
	}

	if err := m.ensureDefaultConfig(); err != nil {
		return fmt.Errorf("failed to seed default cluster configuration: %w", err)
	}

	m.startScheduler()

	return nil
}

// Join adds this manager to an existing cluster. It relies on the leader
// side calling AddVoter once it learns of the new node out of band.
func (m *Manager) Join(leaderAddr string) error {
	config := raftConfig(m.nodeID)

	r, _, err := m.newRaft(config)
	if err != nil {
		return err
	}
	m.raft = r

	log.WithComponent("manager").Info().
		Str("leader_addr", leaderAddr).
		Str("node_id", m.nodeID).
		Msg("waiting to be added to raft configuration by leader")

	m.startScheduler()

	return nil
}

func (m *Manager) ensureDefaultConfig() error {
	if _, err := m.store.GetConfig(); err != nil {
		return m.SaveConfig(types.DefaultClusterConfig())
	}
	return nil
}

func (m *Manager) startScheduler() {
	m.scheduler = scheduler.NewScheduler(m, m, m.recheckInterval)
	m.scheduler.Start()
}

// AddVoter adds a new manager node to the Raft cluster
func (m *Manager) AddVoter(nodeID, address string) error {
	if m.raft == nil {
		return fmt.Errorf("raft not initialized")
	}

	if !m.IsLeader() {
		return fmt.Errorf("not the leader, current leader: %s", m.LeaderAddr())
	}

	future := m.raft.AddVoter(raft.ServerID(nodeID), raft.ServerAddress(address), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("failed to add voter: %w", err)
	}

	return nil
}

// RemoveServer removes a server from the Raft cluster
func (m *Manager) RemoveServer(nodeID string) error {
	if m.raft == nil {
		return fmt.Errorf("raft not initialized")
	}

	if !m.IsLeader() {
		return fmt.Errorf("not the leader")
	}

	future := m.raft.RemoveServer(raft.ServerID(nodeID), 0, 10*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("failed to remove server: %w", err)
	}

	return nil
}

// GetClusterServers returns information about all servers in the Raft cluster
func (m *Manager) GetClusterServers() ([]raft.Server, error) {
	if m.raft == nil {
		return nil, fmt.Errorf("raft not initialized")
	}

	future := m.raft.GetConfiguration()
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("failed to get configuration: %w", err)
	}

	return future.Configuration().Servers, nil
}

// IsLeader returns true if this manager is the Raft leader
func (m *Manager) IsLeader() bool {
	if m.raft == nil {
		return false
	}
	return m.raft.State() == raft.Leader
}

// LeaderAddr returns the address of the current Raft leader
func (m *Manager) LeaderAddr() string {
	if m.raft == nil {
		return ""
	}
	return string(m.raft.Leader())
}

// GetRaftStats returns Raft statistics
func (m *Manager) GetRaftStats() map[string]interface{} {
	if m.raft == nil {
		return nil
	}

	stats := make(map[string]interface{})
	stats["state"] = m.raft.State().String()
	stats["last_log_index"] = m.raft.LastIndex()
	stats["applied_index"] = m.raft.AppliedIndex()
	stats["leader"] = string(m.raft.Leader())

	configFuture := m.raft.GetConfiguration()
	if err := configFuture.Error(); err == nil {
		config := configFuture.Configuration()
		stats["peers"] = uint64(len(config.Servers))
	} else {
		stats["peers"] = uint64(0)
	}

	return stats
}

// GetEventBroker returns the event broker
func (m *Manager) GetEventBroker() *events.Broker {
	return m.eventBroker
}

// PublishEvent publishes an event to all subscribers
func (m *Manager) PublishEvent(event *events.Event) {
	if m.eventBroker != nil {
		m.eventBroker.Publish(event)
	}
}

// Apply submits a command to the Raft cluster
func (m *Manager) Apply(cmd Command) error {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RaftApplyDuration)

	if m.raft == nil {
		return fmt.Errorf("raft not initialized")
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	future := m.raft.Apply(data, 5*time.Second)
	if err := future.Error(); err != nil {
		return fmt.Errorf("failed to apply command: %w", err)
	}

	if resp := future.Response(); resp != nil {
		if err, ok := resp.(error); ok && err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) applyOp(op string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return m.Apply(Command{Op: op, Data: data})
}

// SaveConfig replaces the cluster configuration.
func (m *Manager) SaveConfig(cfg types.ClusterConfig) error {
	return m.applyOp("save_config", cfg)
}

// GetConfig returns the current cluster configuration (read from local store).
func (m *Manager) GetConfig() (types.ClusterConfig, error) {
	return m.store.GetConfig()
}

// CreateNode adds a node to the cluster
func (m *Manager) CreateNode(node *types.Node) error {
	if err := m.applyOp("create_node", node); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{Type: events.EventNodeJoined, Message: node.ID, Metadata: map[string]string{"node_id": node.ID}})
	return nil
}

// UpdateNode updates a node in the cluster
func (m *Manager) UpdateNode(node *types.Node) error {
	return m.applyOp("update_node", node)
}

// DeleteNode removes a node from the cluster
func (m *Manager) DeleteNode(id string) error {
	if err := m.applyOp("delete_node", id); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{Type: events.EventNodeLeft, Message: id, Metadata: map[string]string{"node_id": id}})
	return nil
}

// CreateResource adds a resource to the cluster configuration.
func (m *Manager) CreateResource(resource *types.Resource) error {
	if err := m.applyOp("create_resource", resource); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{Type: events.EventResourceCreated, Message: resource.ID, Metadata: map[string]string{"resource_id": resource.ID}})
	return nil
}

// UpdateResource updates a resource's configuration.
func (m *Manager) UpdateResource(resource *types.Resource) error {
	if err := m.applyOp("update_resource", resource); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{Type: events.EventResourceUpdated, Message: resource.ID, Metadata: map[string]string{"resource_id": resource.ID}})
	return nil
}

// DeleteResource removes a resource from the cluster configuration.
func (m *Manager) DeleteResource(id string) error {
	if err := m.applyOp("delete_resource", id); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{Type: events.EventResourceDeleted, Message: id, Metadata: map[string]string{"resource_id": id}})
	return nil
}

// CreateColocation adds a colocation constraint.
func (m *Manager) CreateColocation(c *types.Colocation) error {
	return m.applyOp("create_colocation", c)
}

// DeleteColocation removes a colocation constraint.
func (m *Manager) DeleteColocation(id string) error {
	return m.applyOp("delete_colocation", id)
}

// SetRecurringTemplates replaces the recurring operation templates configured
// for a resource.
func (m *Manager) SetRecurringTemplates(resourceID string, templates []recurring.OpTemplate) error {
	return m.applyOp("set_recurring_templates", recurringTemplatesCmd{ResourceID: resourceID, Templates: templates})
}

// DeleteRecurringTemplates clears the recurring templates configured for a resource.
func (m *Manager) DeleteRecurringTemplates(resourceID string) error {
	return m.applyOp("delete_recurring_templates", resourceID)
}

// SaveStatus replaces the status section a scheduling pass reads, as
// rebuilt by the leader from LRM reports.
func (m *Manager) SaveStatus(input *status.StatusInput) error {
	if err := m.applyOp("save_status", input); err != nil {
		return err
	}
	if m.scheduler != nil {
		return m.scheduler.RunOnce()
	}
	return nil
}

// GetNode retrieves a node by ID (read from local store)
func (m *Manager) GetNode(id string) (*types.Node, error) {
	return m.store.GetNode(id)
}

// ListNodes returns all nodes (read from local store)
func (m *Manager) ListNodes() ([]*types.Node, error) {
	return m.store.ListNodes()
}

// GetResource retrieves a resource by ID (read from local store)
func (m *Manager) GetResource(id string) (*types.Resource, error) {
	return m.store.GetResource(id)
}

// ListResources returns all resources (read from local store)
func (m *Manager) ListResources() ([]*types.Resource, error) {
	return m.store.ListResources()
}

// ListColocations returns all colocation constraints (read from local store)
func (m *Manager) ListColocations() ([]*types.Colocation, error) {
	return m.store.ListColocations()
}

// LatestGraph returns the most recently published transition graph.
func (m *Manager) LatestGraph() (*types.TransitionGraph, error) {
	return m.store.LatestGraph()
}

// ListGraphs returns every transition graph ever published.
func (m *Manager) ListGraphs() ([]*types.TransitionGraph, error) {
	return m.store.ListGraphs()
}

// NodeID returns the manager's node ID
func (m *Manager) NodeID() string {
	return m.nodeID
}

// CurrentInput implements scheduler.InputSource by assembling a
// scheduler.Input from this replica's committed store state. Quorum is
// derived by hasQuorum from the stored cluster nodes' Online flags rather
// than corosync membership, since this module carries no separate
// cluster-membership transport.
func (m *Manager) CurrentInput() (scheduler.Input, error) {
	cfg, err := m.store.GetConfig()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("get config: %w", err)
	}

	nodeList, err := m.store.ListNodes()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("list nodes: %w", err)
	}
	nodes := make(map[string]*types.Node, len(nodeList))
	for _, n := range nodeList {
		nodes[n.ID] = n
	}

	resourceList, err := m.store.ListResources()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("list resources: %w", err)
	}
	resources := make(map[string]*types.Resource, len(resourceList))
	for _, r := range resourceList {
		resources[r.ID] = r
	}

	colocationList, err := m.store.ListColocations()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("list colocations: %w", err)
	}
	colocations := make(map[string]*types.Colocation, len(colocationList))
	for _, c := range colocationList {
		colocations[c.ID] = c
	}

	templates, err := m.store.ListRecurringTemplates()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("list recurring templates: %w", err)
	}

	st, err := m.store.GetStatus()
	if err != nil {
		return scheduler.Input{}, fmt.Errorf("get status: %w", err)
	}

	return scheduler.Input{
		Config: cfg,
		Status: st,
		EffectiveTime: time.Now().Unix(),
		HasQuorum: m.hasQuorum(nodeList),
		Nodes: nodes,
		Resources: resources,
		Colocations: colocations,
		RecurringTemplates: templates,
	}, nil
}

// hasQuorum reports a simple majority of configured cluster member
// nodes being online, the same definition the no-quorum-policy
// section assumes of corosync membership.
func (m *Manager) hasQuorum(nodes []*types.Node) bool {
	total, online := 0, 0
	for _, n := range nodes {
		if n.Kind != types.NodeKindCluster {
			continue
		}
		total++
		if n.Online {
			online++
		}
	}
	if total == 0 {
		return true
	}
	return online*2 > total
}

// PublishGraph implements scheduler.GraphSink: it persists the graph via
// raft (so every replica's audit trail converges) and fans out a
// pass-completed event.
func (m *Manager) PublishGraph(graph *types.TransitionGraph) error {
	if err := m.applyOp("save_graph", graph); err != nil {
		return err
	}
	m.PublishEvent(&events.Event{
		Type: events.EventPassCompleted,
		Message: graph.ID,
		Metadata: map[string]string{
			"graph_id": graph.ID,
			"actions": fmt.Sprintf("%d", len(graph.Actions)),
		},
	})
	return nil
}

// Shutdown gracefully shuts down the manager
func (m *Manager) Shutdown() error {
	if m.scheduler != nil {
		m.scheduler.Stop()
	}

	if m.eventBroker != nil {
		m.eventBroker.Stop()
	}

	if m.raft != nil {
		future := m.raft.Shutdown()
		if err := future.Error(); err != nil {
			return fmt.Errorf("failed to shutdown raft: %w", err)
		}
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
	}

	return nil
}

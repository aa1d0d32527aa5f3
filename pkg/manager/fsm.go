package manager

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/hashicorp/raft"

	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/storage"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// ClusterFSM implements the Raft finite state machine for cluster
// configuration, node/resource/colocation definitions, and the status
// section a scheduling pass reads. It applies committed log entries to
// the local store and handles snapshot/restore for fast recovery.
type ClusterFSM struct {
	mu    sync.RWMutex
	store storage.Store
}

// NewClusterFSM creates a new FSM instance
func NewClusterFSM(store storage.Store) *ClusterFSM {
	return &ClusterFSM{
		store: store,
	}
}

// Command represents a state change operation in the Raft log
type Command struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data"`
}

// recurringTemplatesCmd is the Data payload for set_recurring_templates
// and delete_recurring_templates.
type recurringTemplatesCmd struct {
	ResourceID string                 `json:"resource_id"`
	Templates  []recurring.OpTemplate `json:"templates,omitempty"`
}

// Apply applies a Raft log entry to the FSM
// This is called by Raft when a log entry is committed
func (f *ClusterFSM) Apply(log *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("failed to unmarshal command: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	// Cluster configuration
	case "save_config":
		var cfg types.ClusterConfig
		if err := json.Unmarshal(cmd.Data, &cfg); err != nil {
			return err
		}
		return f.store.SaveConfig(cfg)

	// Node operations
	case "create_node":
		var node types.Node
		if err := json.Unmarshal(cmd.Data, &node); err != nil {
			return err
		}
		return f.store.CreateNode(&node)

	case "update_node":
		var node types.Node
		if err := json.Unmarshal(cmd.Data, &node); err != nil {
			return err
		}
		return f.store.UpdateNode(&node)

	case "delete_node":
		var nodeID string
		if err := json.Unmarshal(cmd.Data, &nodeID); err != nil {
			return err
		}
		return f.store.DeleteNode(nodeID)

	// Resource operations
	case "create_resource":
		var resource types.Resource
		if err := json.Unmarshal(cmd.Data, &resource); err != nil {
			return err
		}
		return f.store.CreateResource(&resource)

	case "update_resource":
		var resource types.Resource
		if err := json.Unmarshal(cmd.Data, &resource); err != nil {
			return err
		}
		return f.store.UpdateResource(&resource)

	case "delete_resource":
		var resourceID string
		if err := json.Unmarshal(cmd.Data, &resourceID); err != nil {
			return err
		}
		return f.store.DeleteResource(resourceID)

	// Colocation operations
	case "create_colocation":
		var c types.Colocation
		if err := json.Unmarshal(cmd.Data, &c); err != nil {
			return err
		}
		return f.store.CreateColocation(&c)

	case "delete_colocation":
		var colocationID string
		if err := json.Unmarshal(cmd.Data, &colocationID); err != nil {
			return err
		}
		return f.store.DeleteColocation(colocationID)

	// Recurring-operation templates
	case "set_recurring_templates":
		var rc recurringTemplatesCmd
		if err := json.Unmarshal(cmd.Data, &rc); err != nil {
			return err
		}
		return f.store.SaveRecurringTemplates(rc.ResourceID, rc.Templates)

	case "delete_recurring_templates":
		var resourceID string
		if err := json.Unmarshal(cmd.Data, &resourceID); err != nil {
			return err
		}
		return f.store.DeleteRecurringTemplates(resourceID)

	// Status section (LRM reports folded in by the leader before propose)
	case "save_status":
		var st status.StatusInput
		if err := json.Unmarshal(cmd.Data, &st); err != nil {
			return err
		}
		return f.store.SaveStatus(&st)

	// Transition graph, saved once per pass so every replica keeps an
	// identical audit trail regardless of which one is leader.
	case "save_graph":
		var graph types.TransitionGraph
		if err := json.Unmarshal(cmd.Data, &graph); err != nil {
			return err
		}
		return f.store.SaveGraph(&graph)

	default:
		return fmt.Errorf("unknown command: %s", cmd.Op)
	}
}

// Snapshot creates a point-in-time snapshot of the FSM
// This is called periodically by Raft to compact the log
func (f *ClusterFSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cfg, err := f.store.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %v", err)
	}

	nodes, err := f.store.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %v", err)
	}

	resources, err := f.store.ListResources()
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %v", err)
	}

	colocations, err := f.store.ListColocations()
	if err != nil {
		return nil, fmt.Errorf("failed to list colocations: %v", err)
	}

	templates, err := f.store.ListRecurringTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates: %v", err)
	}

	st, err := f.store.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %v", err)
	}

	snapshot := &ClusterSnapshot{
		Config:             cfg,
		Nodes:              nodes,
		Resources:          resources,
		Colocations:        colocations,
		RecurringTemplates: templates,
		Status:             st,
	}

	return snapshot, nil
}

// Restore restores the FSM from a snapshot
// This is called when a node restarts or joins the cluster
func (f *ClusterFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	var snapshot ClusterSnapshot
	if err := json.NewDecoder(rc).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.SaveConfig(snapshot.Config); err != nil {
		return fmt.Errorf("failed to restore config: %v", err)
	}

	for _, node := range snapshot.Nodes {
		if err := f.store.CreateNode(node); err != nil {
			return fmt.Errorf("failed to restore node: %v", err)
		}
	}

	for _, resource := range snapshot.Resources {
		if err := f.store.CreateResource(resource); err != nil {
			return fmt.Errorf("failed to restore resource: %v", err)
		}
	}

	for _, c := range snapshot.Colocations {
		if err := f.store.CreateColocation(c); err != nil {
			return fmt.Errorf("failed to restore colocation: %v", err)
		}
	}

	for resourceID, templates := range snapshot.RecurringTemplates {
		if err := f.store.SaveRecurringTemplates(resourceID, templates); err != nil {
			return fmt.Errorf("failed to restore recurring templates: %v", err)
		}
	}

	if snapshot.Status != nil {
		if err := f.store.SaveStatus(snapshot.Status); err != nil {
			return fmt.Errorf("failed to restore status: %v", err)
		}
	}

	return nil
}

// ClusterSnapshot represents a point-in-time snapshot of cluster state
type ClusterSnapshot struct {
	Config             types.ClusterConfig
	Nodes              []*types.Node
	Resources          []*types.Resource
	Colocations        []*types.Colocation
	RecurringTemplates map[string][]recurring.OpTemplate
	Status             *status.StatusInput
}

// Persist writes the snapshot to the given SnapshotSink
func (s *ClusterSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()

	if err != nil {
		sink.Cancel()
	}

	return err
}

// Release releases the snapshot resources
func (s *ClusterSnapshot) Release() {}

package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

var (
	bucketConfig             = []byte("config")
	bucketNodes              = []byte("nodes")
	bucketResources          = []byte("resources")
	bucketColocations        = []byte("colocations")
	bucketRecurringTemplates = []byte("recurring_templates")
	bucketStatus             = []byte("status")
	bucketGraphs             = []byte("graphs")
)

const (
	configKey = "config"
	statusKey = "status"
)

// BoltStore implements Store using BoltDB.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store under dataDir.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "clusterscheduler.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketConfig,
			bucketNodes,
			bucketResources,
			bucketColocations,
			bucketRecurringTemplates,
			bucketStatus,
			bucketGraphs,
		}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Configuration

func (s *BoltStore) SaveConfig(cfg types.ClusterConfig) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		data, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		return b.Put([]byte(configKey), data)
	})
}

func (s *BoltStore) GetConfig() (types.ClusterConfig, error) {
	var cfg types.ClusterConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketConfig)
		data := b.Get([]byte(configKey))
		if data == nil {
			cfg = types.DefaultClusterConfig()
			return nil
		}
		return json.Unmarshal(data, &cfg)
	})
	return cfg, err
}

// Nodes

func (s *BoltStore) CreateNode(node *types.Node) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data, err := json.Marshal(node)
		if err != nil {
			return err
		}
		return b.Put([]byte(node.ID), data)
	})
}

func (s *BoltStore) GetNode(id string) (*types.Node, error) {
	var node types.Node
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("node not found: %s", id)
		}
		return json.Unmarshal(data, &node)
	})
	return &node, err
}

func (s *BoltStore) ListNodes() ([]*types.Node, error) {
	var nodes []*types.Node
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNodes)
		return b.ForEach(func(k, v []byte) error {
			var node types.Node
			if err := json.Unmarshal(v, &node); err != nil {
				return err
			}
			nodes = append(nodes, &node)
			return nil
		})
	})
	return nodes, err
}

func (s *BoltStore) UpdateNode(node *types.Node) error {
	return s.CreateNode(node)
}

func (s *BoltStore) DeleteNode(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketNodes).Delete([]byte(id))
	})
}

// Resources

func (s *BoltStore) CreateResource(resource *types.Resource) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResources)
		data, err := json.Marshal(resource)
		if err != nil {
			return err
		}
		return b.Put([]byte(resource.ID), data)
	})
}

func (s *BoltStore) GetResource(id string) (*types.Resource, error) {
	var resource types.Resource
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResources)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("resource not found: %s", id)
		}
		return json.Unmarshal(data, &resource)
	})
	return &resource, err
}

func (s *BoltStore) ListResources() ([]*types.Resource, error) {
	var resources []*types.Resource
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResources)
		return b.ForEach(func(k, v []byte) error {
			var resource types.Resource
			if err := json.Unmarshal(v, &resource); err != nil {
				return err
			}
			resources = append(resources, &resource)
			return nil
		})
	})
	return resources, err
}

func (s *BoltStore) UpdateResource(resource *types.Resource) error {
	return s.CreateResource(resource)
}

func (s *BoltStore) DeleteResource(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResources).Delete([]byte(id))
	})
}

// Colocation constraints

func (s *BoltStore) CreateColocation(c *types.Colocation) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketColocations)
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		return b.Put([]byte(c.ID), data)
	})
}

func (s *BoltStore) GetColocation(id string) (*types.Colocation, error) {
	var c types.Colocation
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketColocations)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("colocation not found: %s", id)
		}
		return json.Unmarshal(data, &c)
	})
	return &c, err
}

func (s *BoltStore) ListColocations() ([]*types.Colocation, error) {
	var out []*types.Colocation
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketColocations)
		return b.ForEach(func(k, v []byte) error {
			var c types.Colocation
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			out = append(out, &c)
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) DeleteColocation(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketColocations).Delete([]byte(id))
	})
}

// Recurring-operation templates

func (s *BoltStore) SaveRecurringTemplates(resourceID string, templates []recurring.OpTemplate) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecurringTemplates)
		data, err := json.Marshal(templates)
		if err != nil {
			return err
		}
		return b.Put([]byte(resourceID), data)
	})
}

func (s *BoltStore) ListRecurringTemplates() (map[string][]recurring.OpTemplate, error) {
	out := make(map[string][]recurring.OpTemplate)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecurringTemplates)
		return b.ForEach(func(k, v []byte) error {
			var templates []recurring.OpTemplate
			if err := json.Unmarshal(v, &templates); err != nil {
				return err
			}
			out[string(k)] = templates
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) DeleteRecurringTemplates(resourceID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRecurringTemplates).Delete([]byte(resourceID))
	})
}

// Status

func (s *BoltStore) SaveStatus(input *status.StatusInput) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStatus)
		data, err := json.Marshal(input)
		if err != nil {
			return err
		}
		return b.Put([]byte(statusKey), data)
	})
}

func (s *BoltStore) GetStatus() (*status.StatusInput, error) {
	input := status.NewStatusInput()
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketStatus)
		data := b.Get([]byte(statusKey))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, input)
	})
	return input, err
}

// Transition graphs

func (s *BoltStore) SaveGraph(graph *types.TransitionGraph) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGraphs)
		data, err := json.Marshal(graph)
		if err != nil {
			return err
		}
		return b.Put([]byte(graph.ID), data)
	})
}

func (s *BoltStore) GetGraph(id string) (*types.TransitionGraph, error) {
	var graph types.TransitionGraph
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGraphs)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("transition graph not found: %s", id)
		}
		return json.Unmarshal(data, &graph)
	})
	return &graph, err
}

func (s *BoltStore) ListGraphs() ([]*types.TransitionGraph, error) {
	var out []*types.TransitionGraph
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGraphs)
		return b.ForEach(func(k, v []byte) error {
			var graph types.TransitionGraph
			if err := json.Unmarshal(v, &graph); err != nil {
				return err
			}
			out = append(out, &graph)
			return nil
		})
	})
	return out, err
}

// LatestGraph returns the most recently saved graph, ordered by bucket
// cursor position (insertion order is preserved by BoltDB's b-tree only
// when keys are monotonic; graph ids are UUIDs, so this walks every
// entry and keeps the one with the newest EffectiveTime instead).
func (s *BoltStore) LatestGraph() (*types.TransitionGraph, error) {
	var latest *types.TransitionGraph
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketGraphs)
		return b.ForEach(func(k, v []byte) error {
			var graph types.TransitionGraph
			if err := json.Unmarshal(v, &graph); err != nil {
				return err
			}
			if latest == nil || graph.EffectiveTime > latest.EffectiveTime {
				latest = &graph
			}
			return nil
		})
	})
	if err == nil && latest == nil {
		return nil, fmt.Errorf("no transition graphs recorded")
	}
	return latest, err
}

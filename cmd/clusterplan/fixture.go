package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cuemby/clusterscheduler/pkg/recurring"
	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/scheduler"
	"github.com/cuemby/clusterscheduler/pkg/status"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

// flexScore accepts either a bare integer or one of the "INFINITY"/
// "-INFINITY" sentinels in fixture YAML, so fixtures can write scores the
// same way configuration text does.
type flexScore struct {
	Value score.Score
}

func (s *flexScore) UnmarshalYAML(value *yaml.Node) error {
	var asInt int
	if err := value.Decode(&asInt); err == nil {
		s.Value = score.Clamp(score.Score(asInt))
		return nil
	}
	var asStr string
	if err := value.Decode(&asStr); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	parsed, err := score.Parse(asStr)
	if err != nil {
		return err
	}
	s.Value = parsed
	return nil
}

type fixtureNode struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Kind        string            `yaml:"kind"`
	Online      bool              `yaml:"online"`
	Standby     bool              `yaml:"standby"`
	Maintenance bool              `yaml:"maintenance"`
	Weight      flexScore         `yaml:"weight"`
	Attrs       map[string]string `yaml:"attrs"`
}

type fixtureResource struct {
	ID         string               `yaml:"id"`
	Variant    string               `yaml:"variant"`
	Priority   flexScore            `yaml:"priority"`
	Stickiness flexScore            `yaml:"stickiness"`
	Role       string               `yaml:"role"`
	NextRole   string               `yaml:"next_role"`
	AllowedNodes map[string]flexScore `yaml:"allowed_nodes"`
	RunningOn  []string             `yaml:"running_on"`
	Parent     string               `yaml:"parent"`
	Children   []string             `yaml:"children"`
	Container  string               `yaml:"container"`
	OnFail     string               `yaml:"on_fail"`

	Managed    *bool `yaml:"managed"`
	Unique     bool  `yaml:"unique"`
	Promotable bool  `yaml:"promotable"`
	Critical   bool  `yaml:"critical"`
	Ordered    *bool `yaml:"ordered"`   // group only, defaults to true
	Colocated  *bool `yaml:"colocated"` // group only, defaults to true
}

type fixtureColocation struct {
	ID            string    `yaml:"id"`
	Dependent     string    `yaml:"dependent"`
	Primary       string    `yaml:"primary"`
	Score         flexScore `yaml:"score"`
	NodeAttribute string    `yaml:"node_attribute"`
	DependentRole string    `yaml:"dependent_role"`
	PrimaryRole   string    `yaml:"primary_role"`
}

type fixtureHistoryEntry struct {
	Task             string `yaml:"task"`
	IntervalMs       int    `yaml:"interval_ms"`
	CallID           int64  `yaml:"call_id"`
	ExpectedExit     string `yaml:"expected_exit_status"`
	ExitStatus       string `yaml:"exit_status"`
	ExecutionStatus  string `yaml:"execution_status"`
	When             int64  `yaml:"when"`
	MigrateSource    string `yaml:"migrate_source"`
	MigrateTarget    string `yaml:"migrate_target"`
}

type fixtureNodeState struct {
	Join       string                           `yaml:"join"`
	Expected   string                           `yaml:"expected"`
	WhenMember int64                            `yaml:"when_member"`
	WhenOnline int64                            `yaml:"when_online"`
	Histories  map[string][]fixtureHistoryEntry `yaml:"histories"`
}

type fixtureOpTemplate struct {
	Name       string `yaml:"name"`
	IntervalMs int    `yaml:"interval_ms"`
	Role       string `yaml:"role"`
}

type fixtureConfig struct {
	NoQuorumPolicy         string `yaml:"no_quorum_policy"`
	PlacementStrategy      string `yaml:"placement_strategy"`
	SymmetricCluster       *bool  `yaml:"symmetric_cluster"`
	StonithEnabled         bool   `yaml:"stonith_enabled"`
	ClusterRecheckInterval string `yaml:"cluster_recheck_interval"`
	NodePendingTimeout     string `yaml:"node_pending_timeout"`
}

// fixture is the top-level shape of a clusterplan YAML file: everything a
// single scheduling pass needs, laid out the way an operator would write
// it by hand rather than the way the working set stores it internally.
type fixture struct {
	EffectiveTime int64                          `yaml:"effective_time"`
	HasQuorum     bool                           `yaml:"has_quorum"`
	Config        fixtureConfig                  `yaml:"config"`
	Nodes         []fixtureNode                  `yaml:"nodes"`
	Resources     []fixtureResource              `yaml:"resources"`
	Colocations   []fixtureColocation            `yaml:"colocations"`
	Status        map[string]fixtureNodeState    `yaml:"status"`
	Recurring     map[string][]fixtureOpTemplate `yaml:"recurring"`
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

func roleFromString(s string) types.Role {
	switch s {
	case "stopped":
		return types.RoleStopped
	case "unpromoted":
		return types.RoleUnpromoted
	case "started":
		return types.RoleStarted
	case "promoted":
		return types.RolePromoted
	default:
		return types.RoleUnknown
	}
}

func colocationRoleFromString(s string) types.ColocationRole {
	switch s {
	case "started":
		return types.ColocationRoleStarted
	case "promoted":
		return types.ColocationRolePromoted
	case "unpromoted":
		return types.ColocationRoleUnpromoted
	default:
		return types.ColocationRoleAny
	}
}

func variantFromString(s string) types.Variant {
	switch s {
	case "group":
		return types.VariantGroup
	case "clone":
		return types.VariantClone
	case "bundle":
		return types.VariantBundle
	default:
		return types.VariantPrimitive
	}
}

func nodeKindFromString(s string) types.NodeKind {
	switch s {
	case "remote":
		return types.NodeKindRemote
	case "guest":
		return types.NodeKindGuest
	case "observer":
		return types.NodeKindObserver
	default:
		return types.NodeKindCluster
	}
}

func onFailFromString(s string) types.OnFail {
	switch s {
	case "demote":
		return types.OnFailDemote
	case "restart":
		return types.OnFailRestart
	case "restart-container":
		return types.OnFailRestartContainer
	case "reset-remote":
		return types.OnFailResetRemote
	case "stop":
		return types.OnFailStop
	case "ban":
		return types.OnFailBan
	case "fence-node":
		return types.OnFailFenceNode
	case "standby-node":
		return types.OnFailStandbyNode
	case "block":
		return types.OnFailBlock
	default:
		return types.OnFailIgnore
	}
}

func execStatusFromString(s string) types.ExecutionStatus {
	if s == "" {
		return types.ExecDone
	}
	return types.ExecutionStatus(s)
}

func exitStatusFromString(s string) types.ExitStatus {
	if s == "" {
		return types.ExitOK
	}
	return types.ExitStatus(s)
}

func taskFromString(s string) types.Task {
	return types.Task(s)
}

// toSchedulerInput converts the human-authored fixture into the pure
// scheduler.Input a single Pass call consumes.
func (f *fixture) toSchedulerInput() scheduler.Input {
	cfg := types.DefaultClusterConfig()
	if f.Config.NoQuorumPolicy != "" {
		cfg.NoQuorumPolicy = types.NoQuorumPolicy(f.Config.NoQuorumPolicy)
	}
	if f.Config.PlacementStrategy != "" {
		cfg.PlacementStrategy = types.PlacementStrategy(f.Config.PlacementStrategy)
	}
	if f.Config.SymmetricCluster != nil {
		cfg.SymmetricCluster = *f.Config.SymmetricCluster
	}
	cfg.StonithEnabled = f.Config.StonithEnabled
	if f.Config.ClusterRecheckInterval != "" {
		if d, err := time.ParseDuration(f.Config.ClusterRecheckInterval); err == nil {
			cfg.ClusterRecheckInterval = d
		}
	}
	if f.Config.NodePendingTimeout != "" {
		if d, err := time.ParseDuration(f.Config.NodePendingTimeout); err == nil {
			cfg.NodePendingTimeout = d
		}
	}

	nodes := make(map[string]*types.Node, len(f.Nodes))
	for _, fn := range f.Nodes {
		n := types.NewNode(fn.ID, fn.Name, nodeKindFromString(fn.Kind))
		if n.Name == "" {
			n.Name = fn.ID
		}
		n.Online = fn.Online
		n.Standby = fn.Standby
		n.Maintenance = fn.Maintenance
		n.Weight = fn.Weight.Value
		for k, v := range fn.Attrs {
			n.Attrs[k] = v
		}
		nodes[n.ID] = n
	}

	resources := make(map[string]*types.Resource, len(f.Resources))
	for _, fr := range f.Resources {
		r := types.NewResource(fr.ID, variantFromString(fr.Variant))
		r.Priority = fr.Priority.Value
		r.Stickiness = fr.Stickiness.Value
		r.Role = roleFromString(fr.Role)
		r.NextRole = roleFromString(fr.NextRole)
		r.Parent = fr.Parent
		r.Children = fr.Children
		r.Container = fr.Container
		r.OnFail = onFailFromString(fr.OnFail)
		for nodeID, s := range fr.AllowedNodes {
			r.AllowedNodes[nodeID] = s.Value
		}
		for _, nodeID := range fr.RunningOn {
			r.RunningOn[nodeID] = true
		}
		if fr.Managed != nil {
			r.Flags.Managed = *fr.Managed
		}
		r.Flags.Unique = fr.Unique
		r.Flags.Promotable = fr.Promotable
		r.Flags.Critical = fr.Critical
		if fr.Ordered != nil {
			r.Flags.Ordered = *fr.Ordered
		}
		if fr.Colocated != nil {
			r.Flags.Colocated = *fr.Colocated
		}
		resources[r.ID] = r
	}

	colocations := make(map[string]*types.Colocation, len(f.Colocations))
	for _, fc := range f.Colocations {
		colocations[fc.ID] = &types.Colocation{
			ID:            fc.ID,
			DependentID:   fc.Dependent,
			PrimaryID:     fc.Primary,
			Score:         fc.Score.Value,
			NodeAttribute: fc.NodeAttribute,
			DependentRole: colocationRoleFromString(fc.DependentRole),
			PrimaryRole:   colocationRoleFromString(fc.PrimaryRole),
		}
	}

	statusInput := status.NewStatusInput()
	for nodeID, fns := range f.Status {
		ns := status.NewNodeState(nodeID)
		ns.Join = status.JoinState(fns.Join)
		ns.Expected = status.ExpectedState(fns.Expected)
		ns.WhenMember = fns.WhenMember
		ns.WhenOnline = fns.WhenOnline
		for resourceID, entries := range fns.Histories {
			hist := make([]*types.HistoryEntry, 0, len(entries))
			for i, fe := range entries {
				hist = append(hist, &types.HistoryEntry{
					ID:                 fmt.Sprintf("%s_%s_%d", resourceID, nodeID, i),
					Task:               taskFromString(fe.Task),
					IntervalMs:         fe.IntervalMs,
					CallID:             fe.CallID,
					ExpectedExitStatus: exitStatusFromString(fe.ExpectedExit),
					ExitStatus:         exitStatusFromString(fe.ExitStatus),
					ExecutionStatus:    execStatusFromString(fe.ExecutionStatus),
					When:               fe.When,
					ResourceID:         resourceID,
					NodeID:             nodeID,
					MigrateSource:      fe.MigrateSource,
					MigrateTarget:      fe.MigrateTarget,
				})
			}
			ns.Histories[resourceID] = hist
		}
		statusInput.Nodes[nodeID] = ns
	}

	templates := make(map[string][]recurring.OpTemplate, len(f.Recurring))
	for resourceID, tmpls := range f.Recurring {
		out := make([]recurring.OpTemplate, 0, len(tmpls))
		for _, t := range tmpls {
			out = append(out, recurring.OpTemplate{
				Name:       t.Name,
				IntervalMs: t.IntervalMs,
				Role:       roleFromString(t.Role),
			})
		}
		templates[resourceID] = out
	}

	return scheduler.Input{
		Config:                 cfg,
		Status:                 statusInput,
		EffectiveTime:          f.EffectiveTime,
		HasQuorum:              f.HasQuorum,
		Nodes:                  nodes,
		Resources:              resources,
		Colocations:            colocations,
		RecurringTemplates:     templates,
		PendingTimeoutExceeded: map[string]bool{},
	}
}

package types

import "time"

// NoQuorumPolicy governs resource behavior while the cluster lacks quorum.
type NoQuorumPolicy string

const (
	NoQuorumStop NoQuorumPolicy = "stop"
	NoQuorumFreeze NoQuorumPolicy = "freeze"
	NoQuorumIgnore NoQuorumPolicy = "ignore"
	NoQuorumDemote NoQuorumPolicy = "demote"
	NoQuorumSuicide NoQuorumPolicy = "suicide"
)

// PlacementStrategy controls whether and how node utilization capacity
// factors into placement scoring.
type PlacementStrategy string

const (
	PlacementDefault PlacementStrategy = "default"
	PlacementUtilization PlacementStrategy = "utilization"
	PlacementMinimal PlacementStrategy = "minimal"
	PlacementBalanced PlacementStrategy = "balanced"
)

// StonithAction is the fencing operation requested against a node.
type StonithAction string

const (
	StonithReboot StonithAction = "reboot"
	StonithOff StonithAction = "off"
	StonithPoweroffDeprecated StonithAction = "poweroff-deprecated" // @COMPAT: pre-break alias for "off"
)

// NodeHealthStrategy controls how node health attributes affect placement.
type NodeHealthStrategy string

const (
	NodeHealthNone NodeHealthStrategy = "none"
	NodeHealthMigrateOnRed NodeHealthStrategy = "migrate-on-red"
	NodeHealthOnlyGreen NodeHealthStrategy = "only-green"
	NodeHealthProgressive NodeHealthStrategy = "progressive"
	NodeHealthCustom NodeHealthStrategy = "custom"
)

// FenceReaction controls what a node does when it discovers it has been
// fenced (or should have been) while still running.
type FenceReaction string

const (
	FenceReactionStop FenceReaction = "stop"
	FenceReactionPanic FenceReaction = "panic"
)

// ClusterConfig is the crm_config section of the cluster's configuration
// input: cluster-wide options recognized by the scheduler. Fields use
// native Go duration/bool/int types; the YAML/status loaders are
// responsible for parsing the wire representation's duration strings
// (e.g. "15min") into time.Duration before populating this struct.
type ClusterConfig struct {
	BatchLimit int // 0 = dynamic
	ClusterDelay time.Duration
	ClusterRecheckInterval time.Duration // 0 disables periodic rechecks

	ConcurrentFencing bool

	DCDeadtime time.Duration
	ElectionTimeout time.Duration
	ShutdownEscalation time.Duration
	JoinTimeout time.Duration

	EnableACL bool
	EnableStartupProbes bool

	FenceReaction FenceReaction

	HaveWatchdog bool

	LoadThresholdPercent int // default 80

	MaintenanceMode bool
	StopAllResources bool

	MigrationLimit int // -1 = unlimited

	NoQuorumPolicy NoQuorumPolicy

	NodeActionLimit int
	NodeHealthBase int
	NodeHealthGreen int
	NodeHealthYellow int
	NodeHealthRed int
	ClusterIPCLimit int
	NodeHealthStrategy NodeHealthStrategy

	NodePendingTimeout time.Duration // 0 = never

	PEErrorSeriesMax int // -1 = unlimited
	PEWarnSeriesMax int
	PEInputSeriesMax int

	PlacementStrategy PlacementStrategy

	PriorityFencingDelay time.Duration // 0 disables

	ShutdownLock bool
	ShutdownLockLimit time.Duration

	StartFailureIsFatal bool

	StonithAction StonithAction
	StonithEnabled bool
	StonithMaxAttempts int
	StonithTimeout time.Duration
	StonithWatchdogTimeout time.Duration

	StartupFencing bool
	SymmetricCluster bool
	StopOrphanResources bool
	StopOrphanActions bool

	TransitionDelay time.Duration
}

// DefaultClusterConfig returns the documented defaults for the options
// that specify one; every other field is its Go zero value
// ("unset"/"disabled"): only a handful of options ship with non-zero
// defaults.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		ClusterDelay: 60 * time.Second,
		ClusterRecheckInterval: 15 * time.Minute,
		LoadThresholdPercent: 80,
		MigrationLimit: -1,
		NoQuorumPolicy: NoQuorumStop,
		PlacementStrategy: PlacementDefault,
		PEErrorSeriesMax: -1,
		PEWarnSeriesMax: -1,
		PEInputSeriesMax: -1,
		StonithAction: StonithReboot,
		SymmetricCluster: true,
		FenceReaction: FenceReactionStop,
		NodeHealthStrategy: NodeHealthNone,
	}
}

/*
Package log provides structured logging for the cluster scheduler using
zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific loggers, configurable log levels, and
helper functions for common logging patterns. All logs include
timestamps and support filtering by severity level for production
debugging.

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init()
  - Accessible from all packages
  - Thread-safe concurrent writes

Context Loggers:
  - WithComponent: add component name to all logs
  - WithNodeID: add node ID context
  - WithResourceID: add resource ID context
  - WithActionID: add action ID context

# Usage

Initializing the Logger:

	import "github.com/cuemby/clusterscheduler/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple Logging:

	log.Info("cluster configuration applied")
	log.Warn("node heartbeat missed")
	log.Error("scheduling pass failed")

Component Loggers:

	schedulerLog := log.WithComponent("scheduler")
	schedulerLog.Info().Int("actions", 12).Msg("scheduling pass complete")

	resourceLog := log.WithComponent("status-unpacker").
		With().Str("resource_id", "rsc-web-1").Logger()
	resourceLog.Warn().Msg("operation history entry expired")

# Integration Points

This package integrates with:

  - pkg/manager: logs raft events and applied commands
  - pkg/scheduler: logs each scheduling pass
  - pkg/status: logs fencing and failure decisions
  - pkg/colocation: logs dependency-loop breaks
  - pkg/api: logs request handling

# Best Practices

Do:
  - Use Info level for production
  - Use structured fields for queryable data
  - Create component-specific loggers
  - Log errors with .Err() for stack traces

Don't:
  - Log secrets or sensitive cluster attributes
  - Use Debug level in production
  - Log in tight loops (use sampling)
*/
package log

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/clusterscheduler/pkg/score"
	"github.com/cuemby/clusterscheduler/pkg/types"
)

const minimalFixtureYAML = `
effective_time: 1000
has_quorum: true
config:
  no_quorum_policy: stop
nodes:
  - id: node-a
    online: true
  - id: node-b
    online: true
resources:
  - id: web
    variant: primitive
    role: started
    next_role: started
    allowed_nodes:
      node-a: 100
      node-b: INFINITY
    running_on: [node-a]
colocations:
  - id: col-1
    dependent: web
    primary: db
    score: INFINITY
recurring:
  web:
    - name: monitor
      interval_ms: 10000
      role: started
`

func parseMinimalFixture(t *testing.T) *fixture {
	var f fixture
	require.NoError(t, yaml.Unmarshal([]byte(minimalFixtureYAML), &f))
	return &f
}

func TestFlexScoreAcceptsIntAndSentinel(t *testing.T) {
	f := parseMinimalFixture(t)
	require.Len(t, f.Resources, 1)
	assert.Equal(t, score.Score(100), f.Resources[0].AllowedNodes["node-a"].Value)
	assert.Equal(t, score.Score(score.Infinity), f.Resources[0].AllowedNodes["node-b"].Value)
	assert.Equal(t, score.Score(score.Infinity), f.Colocations[0].Score.Value)
}

func TestToSchedulerInputPopulatesWorkingSetInputs(t *testing.T) {
	f := parseMinimalFixture(t)
	in := f.toSchedulerInput()

	assert.Equal(t, int64(1000), in.EffectiveTime)
	assert.True(t, in.HasQuorum)
	assert.Equal(t, types.NoQuorumStop, in.Config.NoQuorumPolicy)

	require.Contains(t, in.Nodes, "node-a")
	assert.True(t, in.Nodes["node-a"].Online)

	require.Contains(t, in.Resources, "web")
	r := in.Resources["web"]
	assert.Equal(t, types.RoleStarted, r.Role)
	assert.True(t, r.RunningOn["node-a"])
	assert.True(t, r.Flags.Managed)

	require.Contains(t, in.Colocations, "col-1")
	assert.Equal(t, "web", in.Colocations["col-1"].DependentID)

	require.Contains(t, in.RecurringTemplates, "web")
	assert.Equal(t, "monitor", in.RecurringTemplates["web"][0].Name)
}

func TestRoleFromStringUnknownDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, types.RoleUnknown, roleFromString("bogus"))
	assert.Equal(t, types.RolePromoted, roleFromString("promoted"))
}

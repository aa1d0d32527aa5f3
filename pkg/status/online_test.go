package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineOnlineFencedMember(t *testing.T) {
	ns := &NodeState{WhenMember: 100, WhenOnline: 100, Join: JoinMember, Expected: ExpectedMember}
	d := DetermineOnlineFenced(ns, false)
	assert.True(t, d.Online)
	assert.False(t, d.ShouldFence)
}

func TestDetermineOnlineFencedNeverSeen(t *testing.T) {
	ns := &NodeState{WhenMember: -1}
	d := DetermineOnlineFenced(ns, false)
	assert.True(t, d.ShouldFence)
	assert.Equal(t, "peer has not been seen", d.Reason)
}

func TestDetermineOnlineFencedNack(t *testing.T) {
	ns := &NodeState{WhenMember: 1, Join: JoinNack}
	d := DetermineOnlineFenced(ns, false)
	assert.True(t, d.ShouldFence)
	assert.Equal(t, "failed membership criteria", d.Reason)
}

func TestDetermineOnlineFencedShutdown(t *testing.T) {
	ns := &NodeState{ShutdownRequested: true, WhenOnline: 5}
	d := DetermineOnlineFenced(ns, false)
	assert.True(t, d.Online)
	assert.False(t, d.ShouldFence)
}

func TestDetermineOnlineFencedExpectedDownPending(t *testing.T) {
	ns := &NodeState{WhenMember: 1, WhenOnline: 1, Expected: ExpectedDown}
	d := DetermineOnlineFenced(ns, false)
	assert.False(t, d.Online)
	assert.True(t, d.Standby)
	assert.True(t, d.Pending)
}

func TestDetermineOnlineFencedPendingTimeout(t *testing.T) {
	ns := &NodeState{Expected: ExpectedDown}
	d := DetermineOnlineFenced(ns, true)
	assert.True(t, d.ShouldFence)
	assert.Equal(t, "pending timed out", d.Reason)
}

func TestDetermineOnlineUnfencedGentleOffline(t *testing.T) {
	ns := &NodeState{Join: JoinDown}
	d := DetermineOnlineUnfenced(ns)
	assert.False(t, d.Online)
	assert.False(t, d.Unclean)
	assert.False(t, d.ShouldFence)
}

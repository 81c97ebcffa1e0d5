// ABOUTME: Tests for the armed/disarmed poll resource
// ABOUTME: Uses short intervals and Eventually instead of fixed sleeps

package configsync

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_TicksOnlyWhileArmed(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoll(5*time.Millisecond, func(context.Context) { ticks.Add(1) })

	assert.False(t, p.Armed())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), ticks.Load(), "disarmed poll must not tick")

	p.Arm(t.Context())
	assert.True(t, p.Armed())
	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	p.Disarm()
	assert.False(t, p.Armed())
	time.Sleep(10 * time.Millisecond) // let a racing tick land
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "disarmed poll kept ticking")
}

func TestPoll_ArmAndDisarmAreIdempotent(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoll(5*time.Millisecond, func(context.Context) { ticks.Add(1) })

	p.Disarm()
	p.Arm(t.Context())
	p.Arm(t.Context())
	p.Disarm()
	p.Disarm()
	assert.False(t, p.Armed())

	p.Arm(t.Context())
	defer p.Disarm()
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
}

func TestPoll_StopsWhenContextEnds(t *testing.T) {
	var ticks atomic.Int32
	p := NewPoll(5*time.Millisecond, func(context.Context) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	p.Arm(ctx)
	require.Eventually(t, func() bool { return ticks.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()

	time.Sleep(10 * time.Millisecond)
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestNewPoll_DefaultInterval(t *testing.T) {
	p := NewPoll(0, func(context.Context) {})
	assert.Equal(t, DefaultPollInterval, p.interval)
}

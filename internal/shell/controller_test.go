// ABOUTME: Tests for panel state, poll arming, and open-by-default
// ABOUTME: Uses counting fakes for the refresher and poll

package shell

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingRefresher struct {
	calls atomic.Int32
	block chan struct{}
}

func (r *countingRefresher) Refresh(ctx context.Context) bool {
	r.calls.Add(1)
	if r.block != nil {
		<-r.block
	}
	return true
}

type fakePoll struct {
	mu      sync.Mutex
	armed   bool
	arms    int
	disarms int
}

func (p *fakePoll) Arm(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.arms++
	p.armed = true
}

func (p *fakePoll) Disarm() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disarms++
	p.armed = false
}

func (p *fakePoll) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed
}

func TestController_InitiallyClosedRight(t *testing.T) {
	c := New(&countingRefresher{}, &fakePoll{}, nil)
	assert.False(t, c.IsOpen())
	assert.Equal(t, DockRight, c.Dock())
}

func TestController_OpenRefreshesAndArms(t *testing.T) {
	r := &countingRefresher{}
	p := &fakePoll{}
	c := New(r, p, nil)

	c.Open(context.Background())
	c.Wait()

	assert.True(t, c.IsOpen())
	assert.True(t, p.Armed())
	assert.Equal(t, int32(1), r.calls.Load())

	// Opening an open panel does not refresh again
	c.Open(context.Background())
	c.Wait()
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestController_OpenDoesNotWaitForRefresh(t *testing.T) {
	r := &countingRefresher{block: make(chan struct{})}
	c := New(r, &fakePoll{}, nil)

	c.Open(context.Background())
	assert.True(t, c.IsOpen(), "panel opens while the refresh is still running")

	close(r.block)
	c.Wait()
}

func TestController_CloseDisarmsUnconditionally(t *testing.T) {
	p := &fakePoll{}
	c := New(&countingRefresher{}, p, nil)

	c.Close()
	assert.Equal(t, 1, p.disarms)

	c.Open(context.Background())
	c.Wait()
	c.Close()
	assert.False(t, c.IsOpen())
	assert.False(t, p.Armed())
	assert.Equal(t, 2, p.disarms)
}

func TestController_Toggle(t *testing.T) {
	p := &fakePoll{}
	c := New(&countingRefresher{}, p, nil)

	c.Toggle(context.Background())
	c.Wait()
	assert.True(t, c.IsOpen())
	assert.True(t, p.Armed())

	c.Toggle(context.Background())
	assert.False(t, c.IsOpen())
	assert.False(t, p.Armed())
}

func TestController_OpenByDefaultOnlyOnFirstConfig(t *testing.T) {
	r := &countingRefresher{}
	p := &fakePoll{}
	c := New(r, p, nil)

	c.ApplyConfig(context.Background(), true, true, DockLeft)
	assert.True(t, c.IsOpen())
	assert.True(t, p.Armed())
	assert.Equal(t, DockLeft, c.Dock())
	assert.Zero(t, r.calls.Load(), "default open does not trigger another refresh")

	c.Close()
	c.ApplyConfig(context.Background(), false, true, DockLeft)
	assert.False(t, c.IsOpen(), "later configs never reopen the panel")
}

func TestController_OpenByDefaultIgnoredAfterFirst(t *testing.T) {
	c := New(&countingRefresher{}, &fakePoll{}, nil)

	c.ApplyConfig(context.Background(), true, false, "")
	c.ApplyConfig(context.Background(), false, true, "")
	assert.False(t, c.IsOpen())
}

func TestController_DockIgnoresUnknownSide(t *testing.T) {
	c := New(&countingRefresher{}, &fakePoll{}, nil)
	c.ApplyConfig(context.Background(), false, false, "top")
	assert.Equal(t, DockRight, c.Dock())
}

func TestController_OnChange(t *testing.T) {
	c := New(&countingRefresher{}, &fakePoll{}, nil)
	var changes atomic.Int32
	c.OnChange(func() { changes.Add(1) })

	c.Open(context.Background())
	c.Wait()
	c.Close()
	c.Close() // already closed, no change
	c.ApplyConfig(context.Background(), false, false, DockLeft)

	assert.Equal(t, int32(3), changes.Load())
}

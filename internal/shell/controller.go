// ABOUTME: Open/closed panel state and docking side
// ABOUTME: Arms the config poll while open and disarms it on close

package shell

import (
	"context"
	"log/slog"
	"sync"
)

// Dock sides.
const (
	DockLeft  = "left"
	DockRight = "right"
)

// Refresher is a one-shot config refresh.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Poller is the armed/disarmed config poll.
type Poller interface {
	Arm(ctx context.Context)
	Disarm()
	Armed() bool
}

// Controller is the panel state for one widget.
type Controller struct {
	mu         sync.Mutex
	open       bool
	dock       string
	autoOpened bool
	onChange   func()

	refresher Refresher
	poll      Poller
	pending   sync.WaitGroup
	logger    *slog.Logger
}

// New creates a closed controller docked right.
func New(refresher Refresher, poll Poller, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		dock:      DockRight,
		refresher: refresher,
		poll:      poll,
		logger:    logger.With("component", "shell"),
	}
}

// OnChange registers fn to run after the panel state or dock changes.
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Open shows the panel. Opening a closed panel starts one refresh that the
// caller does not wait for. The poll is armed with ctx either way.
func (c *Controller) Open(ctx context.Context) {
	c.mu.Lock()
	wasOpen := c.open
	c.open = true
	c.mu.Unlock()

	if !wasOpen && c.refresher != nil {
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			c.refresher.Refresh(ctx)
		}()
	}
	c.poll.Arm(ctx)

	if !wasOpen {
		c.logger.Debug("panel opened")
		c.notify()
	}
}

// Close hides the panel and disarms the poll.
func (c *Controller) Close() {
	c.mu.Lock()
	wasOpen := c.open
	c.open = false
	c.mu.Unlock()

	c.poll.Disarm()

	if wasOpen {
		c.logger.Debug("panel closed")
		c.notify()
	}
}

// Toggle flips the panel state.
func (c *Controller) Toggle(ctx context.Context) {
	if c.IsOpen() {
		c.Close()
		return
	}
	c.Open(ctx)
}

// IsOpen reports whether the panel is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Dock returns the docking side.
func (c *Controller) Dock() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dock
}

// ApplyConfig takes the docking side from config, and opens the panel when
// the first config ever applied asks for it. That open skips the extra
// refresh since the config was just fetched.
func (c *Controller) ApplyConfig(ctx context.Context, first, openByDefault bool, position string) {
	c.mu.Lock()
	changed := false
	if (position == DockLeft || position == DockRight) && position != c.dock {
		c.dock = position
		changed = true
	}
	autoOpen := first && openByDefault && !c.autoOpened && !c.open
	if first {
		c.autoOpened = true
	}
	if autoOpen {
		c.open = true
		changed = true
	}
	c.mu.Unlock()

	if autoOpen {
		c.logger.Debug("panel opened by default")
		c.poll.Arm(ctx)
	}
	if changed {
		c.notify()
	}
}

// Wait blocks until background refreshes started by Open have finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

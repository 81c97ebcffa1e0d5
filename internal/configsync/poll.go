// ABOUTME: Armed/disarmed periodic refresh resource
// ABOUTME: Arm starts a ticker goroutine, Disarm stops it without waiting

package configsync

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often config is refreshed while armed.
const DefaultPollInterval = 20 * time.Second

// Poll runs fn every interval while armed.
type Poll struct {
	mu       sync.Mutex
	interval time.Duration
	fn       func(context.Context)
	stop     chan struct{}
}

// NewPoll creates a disarmed poll.
func NewPoll(interval time.Duration, fn func(context.Context)) *Poll {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poll{interval: interval, fn: fn}
}

// Arm starts ticking. fn receives ctx, and the poll stops for good when ctx
// ends. Arming an armed poll does nothing.
func (p *Poll) Arm(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return
	}
	stop := make(chan struct{})
	p.stop = stop
	go p.run(ctx, stop)
}

// Disarm stops ticking. A tick already running is allowed to finish.
// Disarming a disarmed poll does nothing.
func (p *Poll) Disarm() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop == nil {
		return
	}
	close(p.stop)
	p.stop = nil
}

// Armed reports whether the poll is ticking.
func (p *Poll) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func (p *Poll) run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			// A disarm may race with a pending tick.
			select {
			case <-stop:
				return
			default:
			}
			p.fn(ctx)
		}
	}
}

// ABOUTME: Cosmetic "assistant is typing" placeholder animation
// ABOUTME: Cycles dot frames on a ticker until stopped

package conversation

import (
	"strings"
	"sync"
	"time"
)

// DefaultTypingInterval is the frame period of the typing placeholder.
const DefaultTypingInterval = 400 * time.Millisecond

// typingInitialFrame is shown before the first tick.
const typingInitialFrame = "…"

type typingIndicator struct {
	mu       sync.Mutex
	interval time.Duration
	frame    string
	dots     int
	stop     chan struct{}
	onFrame  func()
}

func newTypingIndicator(interval time.Duration, onFrame func()) *typingIndicator {
	if interval <= 0 {
		interval = DefaultTypingInterval
	}
	return &typingIndicator{interval: interval, onFrame: onFrame}
}

// Start shows the placeholder, restarting it if already shown.
func (t *typingIndicator) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})
	t.frame = typingInitialFrame
	t.dots = 1
	go t.run(t.stop)
}

// Stop removes the placeholder. It does not wait for the ticker goroutine.
func (t *typingIndicator) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
	t.frame = ""
}

// Frame returns the current placeholder text and whether it is shown.
func (t *typingIndicator) Frame() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame, t.stop != nil
}

func (t *typingIndicator) run(stop <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !t.advance(stop) {
				return
			}
			if t.onFrame != nil {
				t.onFrame()
			}
		}
	}
}

// advance moves to the next frame unless stop has been closed.
func (t *typingIndicator) advance(stop <-chan struct{}) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-stop:
		return false
	default:
	}
	t.dots = (t.dots % 3) + 1
	t.frame = strings.Repeat(".", t.dots)
	return true
}

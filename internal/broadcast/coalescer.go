// ABOUTME: TTL and size bounded set of recently seen signals
// ABOUTME: Lets the watcher drop the duplicate events one file write produces

package broadcast

import (
	"container/list"
	"sync"
	"time"
)

type seenEntry struct {
	at      time.Time
	element *list.Element
}

// Coalescer remembers recently seen keys for a fixed window. Oldest entries
// are evicted first once maxSize is reached. Expired entries are dropped
// lazily on the next insert, so no background goroutine is needed.
type Coalescer struct {
	mu      sync.Mutex
	seen    map[string]*seenEntry
	order   *list.List // oldest at front
	window  time.Duration
	maxSize int
	now     func() time.Time
}

// NewCoalescer creates a coalescer that treats a key as duplicate for window.
func NewCoalescer(window time.Duration, maxSize int) *Coalescer {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &Coalescer{
		seen:    make(map[string]*seenEntry),
		order:   list.New(),
		window:  window,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Duplicate reports whether key was already seen inside the window. A key
// that was not seen is recorded, so the check and the mark are atomic.
func (c *Coalescer) Duplicate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.expireLocked(now)

	if entry, ok := c.seen[key]; ok {
		if now.Sub(entry.at) < c.window {
			return true
		}
		entry.at = now
		c.order.MoveToBack(entry.element)
		return false
	}

	if len(c.seen) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.seen[key] = &seenEntry{at: now, element: c.order.PushBack(key)}
	return false
}

// Len returns the number of remembered keys.
func (c *Coalescer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

// expireLocked drops entries from the front while they are past the window.
// Entries are only refreshed by moving to the back, so the list stays
// ordered by last-seen time.
func (c *Coalescer) expireLocked(now time.Time) {
	for front := c.order.Front(); front != nil; front = c.order.Front() {
		key, _ := front.Value.(string)
		if now.Sub(c.seen[key].at) < c.window {
			return
		}
		c.order.Remove(front)
		delete(c.seen, key)
	}
}

func (c *Coalescer) evictOldestLocked() {
	front := c.order.Front()
	if front == nil {
		return
	}
	key, _ := front.Value.(string)
	c.order.Remove(front)
	delete(c.seen, key)
}

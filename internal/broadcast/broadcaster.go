// ABOUTME: In-memory fan-out broadcaster for storage-key change signals
// ABOUTME: Delivers each published Signal to every subscriber of its key

package broadcast

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 16

// Signal reports that a storage key changed value.
type Signal struct {
	Key   string
	Value string
}

// Broadcaster provides in-process pub/sub for Signals, keyed by storage key.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Signal // key -> subID -> ch
	closed      bool
	logger      *slog.Logger
}

// NewBroadcaster creates a broadcaster. Pass nil logger for default.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subscribers: make(map[string]map[string]chan Signal),
		logger:      logger.With("component", "broadcast"),
	}
}

// Subscribe registers for signals on key. The returned channel is closed
// when ctx is cancelled, on Unsubscribe, or when the broadcaster closes.
func (b *Broadcaster) Subscribe(ctx context.Context, key string) (<-chan Signal, string) {
	subID := uuid.New().String()
	ch := make(chan Signal, subscriberBufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, subID
	}
	if _, ok := b.subscribers[key]; !ok {
		b.subscribers[key] = make(map[string]chan Signal)
	}
	b.subscribers[key][subID] = ch
	b.mu.Unlock()

	b.logger.Debug("subscriber added", "key", key, "sub_id", subID)

	go func() {
		<-ctx.Done()
		b.Unsubscribe(key, subID)
	}()

	return ch, subID
}

// Publish delivers sig to all subscribers of sig.Key.
// Non-blocking: signals are dropped for subscribers whose channels are full.
func (b *Broadcaster) Publish(sig Signal) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subs := b.subscribers[sig.Key]
	for subID, ch := range subs {
		select {
		case ch <- sig:
		default:
			b.logger.Debug("dropped signal for slow subscriber",
				"key", sig.Key,
				"sub_id", subID)
		}
	}
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(key, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[key]
	if !ok {
		return
	}
	ch, exists := subs[subID]
	if !exists {
		return
	}

	delete(subs, subID)
	close(ch)
	if len(subs) == 0 {
		delete(b.subscribers, key)
	}

	b.logger.Debug("subscriber removed", "key", key, "sub_id", subID)
}

// Close closes every subscriber channel. Later subscriptions receive an
// already-closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, subs := range b.subscribers {
		for subID, ch := range subs {
			close(ch)
			delete(subs, subID)
		}
		delete(b.subscribers, key)
	}
	b.closed = true
}

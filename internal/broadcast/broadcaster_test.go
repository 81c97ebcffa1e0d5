// ABOUTME: Tests for the in-process signal broadcaster
// ABOUTME: Covers fan-out, key isolation, unsubscribe, context cancellation, close

package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Signal) Signal {
	t.Helper()
	select {
	case sig, ok := <-ch:
		require.True(t, ok, "channel closed")
		return sig
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for signal")
		return Signal{}
	}
}

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ch1, _ := b.Subscribe(t.Context(), "widget_config_version")
	ch2, _ := b.Subscribe(t.Context(), "widget_config_version")

	b.Publish(Signal{Key: "widget_config_version", Value: "7"})

	assert.Equal(t, "7", receive(t, ch1).Value)
	assert.Equal(t, "7", receive(t, ch2).Value)
}

func TestBroadcaster_KeysAreIsolated(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	other, _ := b.Subscribe(t.Context(), "other")
	b.Publish(Signal{Key: "widget_config_version", Value: "1"})

	select {
	case sig := <-other:
		t.Fatalf("unexpected signal on other key: %+v", sig)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ch, id := b.Subscribe(t.Context(), "k")
	b.Unsubscribe("k", id)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic
	b.Publish(Signal{Key: "k", Value: "v"})
}

func TestBroadcaster_ContextCancelUnsubscribes(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx, "k")
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcaster_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroadcaster(nil)
	defer b.Close()

	_, _ = b.Subscribe(t.Context(), "k")

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufferSize*4; i++ {
			b.Publish(Signal{Key: "k", Value: "v"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestBroadcaster_SubscribeAfterClose(t *testing.T) {
	b := NewBroadcaster(nil)
	b.Close()

	ch, _ := b.Subscribe(t.Context(), "k")
	_, ok := <-ch
	assert.False(t, ok)
}

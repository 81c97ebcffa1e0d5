// ABOUTME: Tests for config refresh application and side effects
// ABOUTME: Uses scripted fakes for the config source, avatar preloader, and gate

package configsync

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chatwidget/internal/assets"
	"github.com/2389/chatwidget/internal/broadcast"
	"github.com/2389/chatwidget/internal/gateway"
)

type scriptedSource struct {
	mu      sync.Mutex
	results []sourceResult
	calls   int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	delay       time.Duration
}

type sourceResult struct {
	wc  *gateway.WidgetConfig
	err error
}

func (s *scriptedSource) push(wc *gateway.WidgetConfig, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, sourceResult{wc, err})
}

func (s *scriptedSource) WidgetConfig(ctx context.Context) (*gateway.WidgetConfig, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		m := s.maxInFlight.Load()
		if n <= m || s.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.results) == 0 {
		return nil, errors.New("no scripted result")
	}
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.wc, r.err
}

func (s *scriptedSource) Base() string { return "https://bot.example/api/" }

type fakePreloader struct {
	mu   sync.Mutex
	bad  map[string]bool
	seen []string
}

func (f *fakePreloader) Preload(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, url)
	if f.bad[url] {
		return errors.New("image failed to load")
	}
	return nil
}

type recordingGate struct {
	mu         sync.Mutex
	fields     [][]gateway.FieldSpec
	enables    []bool
	reevaluate int
}

func (g *recordingGate) SetFields(fields []gateway.FieldSpec) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fields = append(g.fields, fields)
}

func (g *recordingGate) ApplyFormEnabled(ctx context.Context, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.enables = append(g.enables, enabled)
}

func (g *recordingGate) Reevaluate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reevaluate++
}

func newTestSynchronizer() (*Synchronizer, *scriptedSource, *fakePreloader, *recordingGate) {
	src := &scriptedSource{}
	pre := &fakePreloader{bad: map[string]bool{}}
	gate := &recordingGate{}
	return New(src, pre, gate, nil), src, pre, gate
}

func TestRefresh_AppliesAppearance(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{PrimaryColor: ptr("#222222"), BotName: ptr("Ada")}, nil)

	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "#222222", s.Appearance().PrimaryColor)
	assert.Equal(t, "Ada", s.Appearance().BotName)
}

func TestRefresh_PartialApplicationAcrossRefreshes(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{PrimaryColor: ptr("#222222"), ShowBranding: ptr(false)}, nil)
	src.push(&gateway.WidgetConfig{BotName: ptr("Ada")}, nil)
	src.push(&gateway.WidgetConfig{}, nil)

	for i := 0; i < 3; i++ {
		require.True(t, s.Refresh(context.Background()))
		a := s.Appearance()
		assert.Equal(t, "#222222", a.PrimaryColor, "refresh %d", i)
		assert.False(t, a.ShowBranding, "refresh %d", i)
	}
	assert.Equal(t, "Ada", s.Appearance().BotName)
}

func TestRefresh_FailureRetainsState(t *testing.T) {
	s, src, _, gate := newTestSynchronizer()
	fields := []gateway.FieldSpec{{Name: "email", Required: true}}
	src.push(&gateway.WidgetConfig{FormEnabled: true, Fields: fields, PrimaryColor: ptr("#333333")}, nil)
	src.push(nil, &gateway.StatusError{Status: 503})

	require.True(t, s.Refresh(context.Background()))
	before := s.Appearance()

	assert.False(t, s.Refresh(context.Background()))
	assert.Equal(t, before, s.Appearance())
	enabled, ok := s.FormEnabled()
	assert.True(t, ok)
	assert.True(t, enabled)

	gate.mu.Lock()
	defer gate.mu.Unlock()
	assert.Len(t, gate.fields, 1, "failed refresh must not touch the field set")
	assert.Equal(t, []bool{true}, gate.enables)
}

func TestRefresh_EmptyConfigSkipped(t *testing.T) {
	s, src, _, gate := newTestSynchronizer()
	src.push(nil, nil)

	assert.False(t, s.Refresh(context.Background()))
	_, ok := s.FormEnabled()
	assert.False(t, ok)
	assert.Empty(t, gate.fields)
}

func TestRefresh_FormEnabledTransitionsOnlyOnChange(t *testing.T) {
	s, src, _, gate := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{FormEnabled: false}, nil)
	src.push(&gateway.WidgetConfig{FormEnabled: false}, nil)
	src.push(&gateway.WidgetConfig{FormEnabled: true}, nil)
	src.push(&gateway.WidgetConfig{FormEnabled: true}, nil)

	for i := 0; i < 4; i++ {
		require.True(t, s.Refresh(context.Background()))
	}

	gate.mu.Lock()
	defer gate.mu.Unlock()
	assert.Equal(t, []bool{false, true}, gate.enables)
	assert.Equal(t, 2, gate.reevaluate)
	assert.Len(t, gate.fields, 4, "fields are replaced on every refresh")
}

func TestRefresh_AvatarResolvedAndPreloaded(t *testing.T) {
	s, src, pre, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{AvatarURL: ptr("static/bot.png")}, nil)

	assert.Equal(t, assets.DefaultAvatarURL(), s.AvatarURL())
	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "https://bot.example/api/static/bot.png", s.AvatarURL())
	assert.Equal(t, []string{"https://bot.example/api/static/bot.png"}, pre.seen)
}

func TestRefresh_AvatarFailureFallsBackToDefault(t *testing.T) {
	s, src, pre, _ := newTestSynchronizer()
	pre.bad["https://cdn.example/broken.png"] = true
	src.push(&gateway.WidgetConfig{AvatarURL: ptr("https://cdn.example/ok.png")}, nil)
	src.push(&gateway.WidgetConfig{AvatarURL: ptr("https://cdn.example/broken.png")}, nil)
	src.push(&gateway.WidgetConfig{}, nil)

	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, "https://cdn.example/ok.png", s.AvatarURL())

	require.NotPanics(t, func() { s.Refresh(context.Background()) })
	assert.Equal(t, assets.DefaultAvatarURL(), s.AvatarURL())

	// Absent avatar leaves the fallback in place
	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, assets.DefaultAvatarURL(), s.AvatarURL())
}

func TestRefresh_ListenersSeeFirstOnce(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{OpenByDefault: ptr(true)}, nil)

	var got []Applied
	s.OnApplied(func(a Applied) { got = append(got, a) })

	s.Refresh(context.Background())
	s.Refresh(context.Background())

	require.Len(t, got, 2)
	assert.True(t, got[0].First)
	assert.False(t, got[1].First)
	assert.True(t, got[0].Appearance.OpenByDefault)
}

func TestRefresh_NotifiesEveryListener(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{BotName: ptr("Ada")}, nil)

	var order []string
	s.OnApplied(func(a Applied) { order = append(order, "first:"+a.Appearance.BotName) })
	s.OnApplied(func(a Applied) { order = append(order, "second:"+a.Appearance.BotName) })

	require.True(t, s.Refresh(context.Background()))
	assert.Equal(t, []string{"first:Ada", "second:Ada"}, order)
}

func TestRefresh_Serialized(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.delay = 10 * time.Millisecond
	src.push(&gateway.WidgetConfig{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Refresh(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.maxInFlight.Load())
	assert.Equal(t, 5, src.calls)
}

func TestWatch_RefreshesOnSignal(t *testing.T) {
	s, src, _, _ := newTestSynchronizer()
	src.push(&gateway.WidgetConfig{BotName: ptr("Signalled")}, nil)

	signals := make(chan broadcast.Signal, 2)
	done := make(chan struct{})
	go func() {
		s.Watch(t.Context(), signals)
		close(done)
	}()

	signals <- broadcast.Signal{Key: "unrelated", Value: "1"}
	signals <- broadcast.Signal{Key: SignalKey, Value: "2"}
	close(signals)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after channel close")
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "Signalled", s.Appearance().BotName)
}

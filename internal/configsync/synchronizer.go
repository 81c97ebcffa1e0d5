// ABOUTME: Fetches widget config and applies it to appearance, avatar, and gate
// ABOUTME: Failed refreshes are skipped silently and leave applied state intact

package configsync

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/2389/chatwidget/internal/assets"
	"github.com/2389/chatwidget/internal/broadcast"
	"github.com/2389/chatwidget/internal/gateway"
)

// SignalKey is the storage key whose change triggers an immediate refresh.
const SignalKey = "widget_config_version"

// ConfigSource fetches the widget config.
type ConfigSource interface {
	WidgetConfig(ctx context.Context) (*gateway.WidgetConfig, error)
	Base() string
}

// AvatarPreloader checks that an avatar URL loads as an image.
type AvatarPreloader interface {
	Preload(ctx context.Context, url string) error
}

// FieldGate is the lead gate as the synchronizer drives it.
type FieldGate interface {
	SetFields(fields []gateway.FieldSpec)
	ApplyFormEnabled(ctx context.Context, enabled bool)
	Reevaluate()
}

// Applied describes one successful refresh.
type Applied struct {
	Appearance  Appearance
	AvatarURL   string
	FormEnabled bool
	// First is true for the first refresh that ever applied.
	First bool
}

// Synchronizer owns the applied widget configuration.
type Synchronizer struct {
	refreshMu sync.Mutex // serializes refreshes

	mu          sync.RWMutex
	appearance  Appearance
	avatarURL   string
	formEnabled *bool
	applied     int
	listeners   []func(Applied)

	source  ConfigSource
	avatars AvatarPreloader
	gate    FieldGate
	logger  *slog.Logger
}

// New creates a synchronizer with default appearance and avatar. avatars
// and gate may be nil.
func New(source ConfigSource, avatars AvatarPreloader, gate FieldGate, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		appearance: Defaults(),
		avatarURL:  assets.DefaultAvatarURL(),
		source:     source,
		avatars:    avatars,
		gate:       gate,
		logger:     logger.With("component", "configsync"),
	}
}

// OnApplied registers fn to run after every successful refresh.
func (s *Synchronizer) OnApplied(fn func(Applied)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Appearance returns the applied appearance.
func (s *Synchronizer) Appearance() Appearance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appearance
}

// AvatarURL returns the active avatar. Assistant messages snapshot it when
// they are appended.
func (s *Synchronizer) AvatarURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.avatarURL
}

// FormEnabled returns the last applied form_enabled, and false for ok when
// no config has applied yet.
func (s *Synchronizer) FormEnabled() (enabled, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.formEnabled == nil {
		return false, false
	}
	return *s.formEnabled, true
}

// Refresh fetches and applies the config. It reports whether anything was
// applied; failures are logged and otherwise ignored.
func (s *Synchronizer) Refresh(ctx context.Context) bool {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	wc, err := s.source.WidgetConfig(ctx)
	if err != nil {
		s.logger.Debug("config refresh skipped", "error", err)
		return false
	}
	if wc == nil {
		s.logger.Debug("config refresh skipped", "reason", "empty config")
		return false
	}

	avatarURL, avatarChanged := s.resolveAvatar(ctx, wc.AvatarURL)

	s.mu.Lock()
	s.appearance = s.appearance.Apply(wc)
	if avatarChanged {
		s.avatarURL = avatarURL
	}
	prev := s.formEnabled
	desired := wc.FormEnabled
	s.formEnabled = &desired
	s.applied++
	applied := Applied{
		Appearance:  s.appearance,
		AvatarURL:   s.avatarURL,
		FormEnabled: desired,
		First:       s.applied == 1,
	}
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	if s.gate != nil {
		s.gate.SetFields(wc.Fields)
		if prev == nil || *prev != desired {
			s.gate.ApplyFormEnabled(ctx, desired)
		} else {
			s.gate.Reevaluate()
		}
	}

	s.logger.Debug("config applied",
		"form_enabled", desired,
		"fields", len(wc.Fields),
		"first", applied.First)

	for _, fn := range listeners {
		fn(applied)
	}
	return true
}

// resolveAvatar returns the avatar to adopt. changed is false when the
// config carries no avatar.
func (s *Synchronizer) resolveAvatar(ctx context.Context, raw *string) (url string, changed bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return "", false
	}
	resolved := gateway.ResolveReference(s.source.Base(), strings.TrimSpace(*raw))
	if s.avatars == nil {
		return resolved, true
	}
	if err := s.avatars.Preload(ctx, resolved); err != nil {
		s.logger.Debug("avatar unavailable, using default", "url", resolved, "error", err)
		return assets.DefaultAvatarURL(), true
	}
	return resolved, true
}

// Watch refreshes whenever a SignalKey signal arrives, until ctx ends or
// signals closes.
func (s *Synchronizer) Watch(ctx context.Context, signals <-chan broadcast.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			if sig.Key != SignalKey {
				continue
			}
			s.logger.Debug("config signal received", "value", sig.Value)
			s.Refresh(ctx)
		}
	}
}

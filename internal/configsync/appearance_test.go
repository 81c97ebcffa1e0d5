// ABOUTME: Tests for partial appearance application
// ABOUTME: Absent and blank fields leave applied values untouched, except subheading

package configsync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/2389/chatwidget/internal/gateway"
)

func ptr[T any](v T) *T { return &v }

func TestAppearance_ApplyPresentFields(t *testing.T) {
	a := Defaults().Apply(&gateway.WidgetConfig{
		PrimaryColor:     ptr("#ff0000"),
		BotName:          ptr("Ada"),
		WidgetIcon:       ptr("🤖"),
		WidgetPosition:   ptr("LEFT"),
		Subheading:       ptr("We reply fast"),
		InputPlaceholder: ptr("Ask away"),
		ShowBranding:     ptr(false),
		OpenByDefault:    ptr(true),
		StarterQuestions: json.RawMessage(`["Pricing?"]`),
	})

	assert.Equal(t, Appearance{
		PrimaryColor:     "#ff0000",
		BotName:          "Ada",
		WidgetIcon:       "🤖",
		Position:         PositionLeft,
		Subheading:       "We reply fast",
		InputPlaceholder: "Ask away",
		ShowBranding:     false,
		OpenByDefault:    true,
		StarterQuestions: json.RawMessage(`["Pricing?"]`),
	}, a)
}

func TestAppearance_AbsentFieldsKeepPreviousValues(t *testing.T) {
	first := Defaults().Apply(&gateway.WidgetConfig{
		PrimaryColor: ptr("#111111"),
		BotName:      ptr("Ada"),
		ShowBranding: ptr(false),
	})

	// A later payload that omits everything changes nothing
	assert.Equal(t, first, first.Apply(&gateway.WidgetConfig{}))

	// Blank strings count as absent
	second := first.Apply(&gateway.WidgetConfig{PrimaryColor: ptr("  "), BotName: ptr("")})
	assert.Equal(t, "#111111", second.PrimaryColor)
	assert.Equal(t, "Ada", second.BotName)
	assert.False(t, second.ShowBranding)
}

func TestAppearance_EmptySubheadingClears(t *testing.T) {
	first := Defaults().Apply(&gateway.WidgetConfig{Subheading: ptr("Hi")})
	assert.Equal(t, "Hi", first.Subheading)

	// Absent keeps it
	assert.Equal(t, "Hi", first.Apply(&gateway.WidgetConfig{}).Subheading)

	// Present but blank clears it
	assert.Empty(t, first.Apply(&gateway.WidgetConfig{Subheading: ptr("")}).Subheading)
	assert.Empty(t, first.Apply(&gateway.WidgetConfig{Subheading: ptr("   ")}).Subheading)
}

func TestAppearance_UnknownPositionIgnored(t *testing.T) {
	a := Defaults().Apply(&gateway.WidgetConfig{WidgetPosition: ptr("top")})
	assert.Equal(t, PositionRight, a.Position)
}

func TestAppearance_NilConfig(t *testing.T) {
	assert.Equal(t, Defaults(), Defaults().Apply(nil))
}

// ABOUTME: Applied cosmetic widget settings and their partial-update rule
// ABOUTME: Absent optional fields never reset a previously applied value

package configsync

import (
	"encoding/json"
	"strings"

	"github.com/2389/chatwidget/internal/gateway"
)

// Dock positions.
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// Appearance is the currently applied cosmetic configuration.
type Appearance struct {
	PrimaryColor     string
	BotName          string
	WidgetIcon       string
	Position         string
	Subheading       string
	InputPlaceholder string
	ShowBranding     bool
	OpenByDefault    bool
	StarterQuestions json.RawMessage
}

// Defaults returns the appearance used before any config has applied.
func Defaults() Appearance {
	return Appearance{
		PrimaryColor:     "#0d6efd",
		BotName:          "ChatBot",
		WidgetIcon:       "💬",
		Position:         PositionRight,
		InputPlaceholder: "Type your message...",
		ShowBranding:     true,
	}
}

// Apply returns a copy of a with every field present in wc applied.
// Blank strings count as absent, except for the subheading which an explicit
// empty string clears. An unknown position is ignored.
func (a Appearance) Apply(wc *gateway.WidgetConfig) Appearance {
	if wc == nil {
		return a
	}
	setString(&a.PrimaryColor, wc.PrimaryColor)
	setString(&a.BotName, wc.BotName)
	setString(&a.WidgetIcon, wc.WidgetIcon)
	if wc.Subheading != nil {
		a.Subheading = strings.TrimSpace(*wc.Subheading)
	}
	setString(&a.InputPlaceholder, wc.InputPlaceholder)

	if wc.WidgetPosition != nil {
		switch p := strings.ToLower(strings.TrimSpace(*wc.WidgetPosition)); p {
		case PositionLeft, PositionRight:
			a.Position = p
		}
	}
	if wc.ShowBranding != nil {
		a.ShowBranding = *wc.ShowBranding
	}
	if wc.OpenByDefault != nil {
		a.OpenByDefault = *wc.OpenByDefault
	}
	if len(wc.StarterQuestions) > 0 && string(wc.StarterQuestions) != "null" {
		a.StarterQuestions = append(json.RawMessage(nil), wc.StarterQuestions...)
	}
	return a
}

func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

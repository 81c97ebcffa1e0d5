// ABOUTME: Immutable render snapshot of a widget
// ABOUTME: Combines panel, theme, gate, and transcript state

package widget

import (
	"github.com/2389/chatwidget/internal/conversation"
	"github.com/2389/chatwidget/internal/leadgate"
)

// View is everything a surface needs to draw the widget.
type View struct {
	Root string
	Open bool
	Dock string

	Title            string
	Subheading       string
	Icon             string
	PrimaryColor     string
	InputPlaceholder string
	ShowBranding     bool
	AvatarURL        string

	Gate        leadgate.View
	ChatVisible bool

	Messages     []conversation.Message
	Typing       string
	TypingShown  bool
	Sending      bool
	InputEnabled bool
}

// View returns a snapshot of the widget.
func (w *Widget) View() View {
	a := w.configs.Appearance()
	gate := w.gate.View()
	frame, typing := w.engine.Typing()
	sending := w.engine.State() == conversation.Sending

	title := a.BotName
	if w.opts.Title != "" {
		title = w.opts.Title
	}

	return View{
		Root:             RootID,
		Open:             w.shell.IsOpen(),
		Dock:             w.shell.Dock(),
		Title:            title,
		Subheading:       a.Subheading,
		Icon:             a.WidgetIcon,
		PrimaryColor:     a.PrimaryColor,
		InputPlaceholder: a.InputPlaceholder,
		ShowBranding:     a.ShowBranding,
		AvatarURL:        w.configs.AvatarURL(),
		Gate:             gate,
		ChatVisible:      gate.ChatReachable,
		Messages:         w.engine.Messages(),
		Typing:           frame,
		TypingShown:      typing,
		Sending:          sending,
		InputEnabled:     !sending && gate.ChatReachable,
	}
}

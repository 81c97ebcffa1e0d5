// ABOUTME: Widget construction options and the observer hook
// ABOUTME: APIBase and Title are the embedding contract, the rest are runtime knobs

package widget

import (
	"log/slog"
	"net/http"
	"time"
)

// Options configures CreateWidget. The zero value is usable.
type Options struct {
	// APIBase overrides every autodetected API base.
	APIBase string
	// Title overrides the bot name shown in the header.
	Title string

	PollInterval   time.Duration
	TypingInterval time.Duration
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *slog.Logger
	Observer       Observer
}

// Observer is told about every visible change.
type Observer interface {
	WidgetChanged(v View)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(View)

// WidgetChanged calls f(v).
func (f ObserverFunc) WidgetChanged(v View) { f(v) }

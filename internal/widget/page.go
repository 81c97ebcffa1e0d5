// ABOUTME: Host page model: origin, script tag, globals, storage, signals
// ABOUTME: Enforces one widget per page root

package widget

import (
	"context"
	"net/url"
	"sync"

	"github.com/2389/chatwidget/internal/broadcast"
	"github.com/2389/chatwidget/internal/store"
)

const (
	// RootID identifies the single widget root on a page.
	RootID = "chatbot-widget-root"
	// GlobalAPIBase is the page-global that overrides the API base.
	GlobalAPIBase = "ChatbotWidgetApiBase"
)

// Script describes the script tag that loaded the widget.
type Script struct {
	Src         string
	DataAPIBase string
}

// Page is the host page a widget is embedded in.
type Page struct {
	Origin  string
	Script  Script
	Globals map[string]string
	Storage store.Store
	Signals *broadcast.Broadcaster

	mu   sync.Mutex
	root *Widget
}

// CreateWidget builds the page's widget. An existing widget under RootID is
// shut down and replaced.
func (p *Page) CreateWidget(ctx context.Context, opts Options) (*Widget, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.root != nil {
		p.root.logger.Debug("replacing existing widget root", "root", RootID)
		p.root.shutdown()
		p.root = nil
	}

	w, err := newWidget(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	p.root = w
	return w, nil
}

// Widget returns the widget currently mounted, or nil.
func (p *Page) Widget() *Widget {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root
}

func (p *Page) unmount(w *Widget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.root == w {
		p.root = nil
	}
}

func (p *Page) global(name string) string {
	if p.Globals == nil {
		return ""
	}
	return p.Globals[name]
}

// storageOrigin reduces the page origin to scheme://host.
func (p *Page) storageOrigin() string {
	u, err := url.Parse(p.Origin)
	if err != nil || u.Host == "" {
		return p.Origin
	}
	return u.Scheme + "://" + u.Host
}

// ABOUTME: Widget composition root and its public host surface
// ABOUTME: Open/Close/Toggle, Send/Stop, SetField/SaveLead, View, Shutdown

package widget

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/2389/chatwidget/internal/avatar"
	"github.com/2389/chatwidget/internal/configsync"
	"github.com/2389/chatwidget/internal/conversation"
	"github.com/2389/chatwidget/internal/gateway"
	"github.com/2389/chatwidget/internal/identity"
	"github.com/2389/chatwidget/internal/leadgate"
	"github.com/2389/chatwidget/internal/shell"
)

// Widget is one mounted chatbot widget.
type Widget struct {
	page     *Page
	opts     Options
	ctx      context.Context
	cancel   context.CancelFunc
	ready    chan struct{}
	closeOne sync.Once

	ids     *identity.Identity
	client  *gateway.Client
	avatars *avatar.Preloader
	configs *configsync.Synchronizer
	poll    *configsync.Poll
	gate    *leadgate.Gate
	engine  *conversation.Engine
	shell   *shell.Controller
	logger  *slog.Logger
}

func newWidget(ctx context.Context, p *Page, opts Options) (*Widget, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := gateway.ResolveBase(gateway.BaseSources{
		Explicit:          opts.APIBase,
		Global:            p.global(GlobalAPIBase),
		ScriptDataAPIBase: p.Script.DataAPIBase,
		ScriptSrc:         p.Script.Src,
		PageOrigin:        p.Origin,
	})
	logger = logger.With("root", RootID)

	avatars, err := avatar.NewPreloader(opts.HTTPClient, avatar.DefaultCacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("creating avatar preloader: %w", err)
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &Widget{
		page:    p,
		opts:    opts,
		ctx:     wctx,
		cancel:  cancel,
		ready:   make(chan struct{}),
		avatars: avatars,
		logger:  logger.With("component", "widget"),
	}

	w.ids = identity.New(p.Storage, p.storageOrigin(), logger)
	w.client = gateway.New(base, w.ids, opts.HTTPClient, logger)
	if opts.RequestTimeout > 0 {
		w.client.SetRequestTimeout(opts.RequestTimeout)
	}
	w.gate = leadgate.New(w.client, logger)
	w.configs = configsync.New(w.client, avatars, w.gate, logger)
	w.engine = conversation.New(w.client, w.gate, w.configs, opts.TypingInterval, logger)
	w.poll = configsync.NewPoll(opts.PollInterval, func(ctx context.Context) { w.configs.Refresh(ctx) })
	w.shell = shell.New(w.configs, w.poll, logger)

	w.configs.OnApplied(func(a configsync.Applied) {
		w.shell.ApplyConfig(w.ctx, a.First, a.Appearance.OpenByDefault, a.Appearance.Position)
		w.changed()
	})
	w.gate.OnChange(w.changed)
	w.engine.OnChange(w.changed)
	w.shell.OnChange(w.changed)

	if p.Signals != nil {
		signals, _ := p.Signals.Subscribe(wctx, configsync.SignalKey)
		go w.configs.Watch(wctx, signals)
	}

	go w.start()

	w.logger.Info("widget created", "api_base", base)
	return w, nil
}

// start runs the initial refresh and history load side by side.
func (w *Widget) start() {
	defer close(w.ready)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.configs.Refresh(w.ctx)
	}()
	go func() {
		defer wg.Done()
		w.engine.LoadHistory(w.ctx)
	}()
	wg.Wait()
}

func (w *Widget) changed() {
	if w.opts.Observer == nil {
		return
	}
	w.opts.Observer.WidgetChanged(w.View())
}

// Ready is closed once the initial config refresh and history load finish.
func (w *Widget) Ready() <-chan struct{} {
	return w.ready
}

// ClientID returns the visitor's client identifier.
func (w *Widget) ClientID() string {
	return w.ids.ClientID()
}

// APIBase returns the resolved API base.
func (w *Widget) APIBase() string {
	return w.client.Base()
}

// Open shows the panel.
func (w *Widget) Open() {
	w.shell.Open(w.ctx)
}

// Close hides the panel.
func (w *Widget) Close() {
	w.shell.Close()
}

// Toggle flips the panel.
func (w *Widget) Toggle() {
	w.shell.Toggle(w.ctx)
}

// PollArmed reports whether periodic config refresh is running.
func (w *Widget) PollArmed() bool {
	return w.poll.Armed()
}

// Refresh fetches config now, as a cross-tab signal would.
func (w *Widget) Refresh(ctx context.Context) bool {
	return w.configs.Refresh(ctx)
}

// Send posts a visitor message and waits for its outcome to be appended.
// Calling Send while a message is in flight cancels that message.
func (w *Widget) Send(ctx context.Context, text string) error {
	return w.engine.Send(ctx, text)
}

// Stop cancels the in-flight message, if any.
func (w *Widget) Stop() bool {
	return w.engine.Stop()
}

// SetField sets a contact form value.
func (w *Widget) SetField(name, value string) error {
	return w.gate.SetValue(name, value)
}

// SaveLead validates and submits the contact form.
func (w *Widget) SaveLead(ctx context.Context) error {
	return w.gate.Save(ctx)
}

// Shutdown stops the poll, typing timer, in-flight send, and signal
// subscription, and unmounts the widget from its page.
func (w *Widget) Shutdown() {
	w.shutdown()
	w.page.unmount(w)
}

func (w *Widget) shutdown() {
	w.closeOne.Do(func() {
		w.shell.Close()
		w.engine.Close()
		w.cancel()
		w.shell.Wait()
		if err := w.avatars.Close(); err != nil {
			w.logger.Debug("closing avatar cache", "error", err)
		}
		w.logger.Info("widget shut down")
	})
}

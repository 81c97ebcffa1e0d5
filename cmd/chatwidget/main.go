// ABOUTME: Terminal host that embeds the chatbot widget runtime
// ABOUTME: Reads commands and chat lines from stdin and prints view changes

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/chatwidget/internal/broadcast"
	"github.com/2389/chatwidget/internal/config"
	"github.com/2389/chatwidget/internal/configsync"
	"github.com/2389/chatwidget/internal/conversation"
	"github.com/2389/chatwidget/internal/leadgate"
	"github.com/2389/chatwidget/internal/store"
	"github.com/2389/chatwidget/internal/widget"
)

func main() {
	configPath := flag.String("config", os.Getenv("CHATWIDGET_CONFIG"), "Config file (.yaml or .toml)")
	envFile := flag.String("env", ".env", "Environment file to load if present")
	apiBase := flag.String("api", "", "API base, overrides widget.api_base")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: loading %s: %v\n", *envFile, err)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *apiBase != "" {
		cfg.Widget.APIBase = *apiBase
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	logger, logCloser := setupLogger(cfg.Logging, os.Stderr)
	defer logCloser.Close()
	slog.SetDefault(logger)

	storage, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer storage.Close()

	signals := broadcast.NewBroadcaster(logger)
	defer signals.Close()

	if cfg.Storage.SignalDir != "" {
		watcher, err := broadcast.NewWatcher(cfg.Storage.SignalDir, signals, logger)
		if err != nil {
			return fmt.Errorf("watching signal dir: %w", err)
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	origin := cfg.Widget.Origin
	if origin == "" {
		origin = config.Default().Widget.Origin
	}
	page := &widget.Page{
		Origin:  origin,
		Storage: storage,
		Signals: signals,
	}

	pr := newPrinter(out)
	w, err := page.CreateWidget(ctx, widget.Options{
		APIBase:        cfg.Widget.APIBase,
		Title:          cfg.Widget.Title,
		PollInterval:   cfg.Widget.PollInterval,
		TypingInterval: cfg.Widget.TypingInterval,
		RequestTimeout: cfg.Widget.RequestTimeout,
		Logger:         logger,
		Observer:       pr,
	})
	if err != nil {
		return fmt.Errorf("creating widget: %w", err)
	}
	defer w.Shutdown()

	select {
	case <-w.Ready():
	case <-ctx.Done():
		return nil
	}

	fmt.Fprintf(out, "chatwidget talking to %s as %s\n", w.APIBase(), w.ClientID())
	fmt.Fprintln(out, "Type a message and press Enter. /help for commands. Ctrl+C to quit.")

	h := &host{w: w, out: out, signalDir: cfg.Storage.SignalDir, logger: logger}
	defer h.wait()
	return h.loop(ctx, in)
}

type host struct {
	w         *widget.Widget
	out       io.Writer
	signalDir string
	logger    *slog.Logger
	sends     sync.WaitGroup
}

func (h *host) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	lines := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- err
			return
		}
		errCh <- io.EOF
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case line = <-lines:
		}

		cmd, ok, err := parseCommand(line)
		if err != nil {
			fmt.Fprintln(h.out, color.RedString("[error] %v", err))
			continue
		}
		if !ok {
			continue
		}
		if cmd.kind == cmdQuit {
			return nil
		}
		h.dispatch(ctx, cmd)
	}
}

func (h *host) dispatch(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdOpen:
		h.w.Open()
	case cmdClose:
		h.w.Close()
	case cmdToggle:
		h.w.Toggle()
	case cmdStop:
		if !h.w.Stop() {
			fmt.Fprintln(h.out, "Nothing to stop")
		}
	case cmdView:
		printView(h.out, h.w.View())
	case cmdHelp:
		printHelp()
	case cmdBump:
		h.bump()
	case cmdSave:
		h.save(ctx, cmd.fields)
	case cmdSend:
		h.send(ctx, cmd.text)
	}
}

// send runs in the background so /stop can interrupt it.
func (h *host) send(ctx context.Context, text string) {
	h.sends.Add(1)
	go func() {
		defer h.sends.Done()
		err := h.w.Send(ctx, text)
		switch {
		case errors.Is(err, conversation.ErrChatLocked):
			fmt.Fprintln(h.out, color.YellowString("Save your details first (/save)"))
		case err != nil:
			fmt.Fprintln(h.out, color.RedString("[error] %v", err))
		}
	}()
}

func (h *host) save(ctx context.Context, fields map[string]string) {
	for name, value := range fields {
		if err := h.w.SetField(name, value); err != nil {
			fmt.Fprintln(h.out, color.RedString("[error] %v", err))
			return
		}
	}
	err := h.w.SaveLead(ctx)
	var verr *leadgate.ValidationError
	switch {
	case errors.As(err, &verr), err == nil:
		// status line already printed by the observer
	case errors.Is(err, leadgate.ErrFormUnavailable):
		fmt.Fprintln(h.out, "No contact form is shown")
	default:
		h.logger.Debug("save failed", "error", err)
	}
}

func (h *host) bump() {
	if h.signalDir == "" {
		fmt.Fprintln(h.out, "storage.signal_dir is not set")
		return
	}
	value := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := broadcast.Touch(h.signalDir, configsync.SignalKey, value); err != nil {
		fmt.Fprintln(h.out, color.RedString("[error] %v", err))
	}
}

func (h *host) wait() {
	h.w.Stop()
	h.sends.Wait()
}

// ABOUTME: Fake chatbot backend for local widget development and E2E testing
// ABOUTME: Usage: fake-backend [-addr :8080] [-mount both|api|root] [-config widget.json] [-signal-dir dir]

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/2389/chatwidget/internal/backendstub"
	"github.com/2389/chatwidget/internal/broadcast"
	"github.com/2389/chatwidget/internal/configsync"
	"github.com/2389/chatwidget/internal/gateway"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	mount := flag.String("mount", "both", "Where routes are served: both, api, or root")
	configPath := flag.String("config", "", "JSON widget config served by widget-config (reloaded on SIGHUP)")
	signalDir := flag.String("signal-dir", "", "Directory touched after a config reload")
	delay := flag.Duration("delay", 0, "Delay before each chat reply")
	flag.Parse()

	if err := run(*addr, *mount, *configPath, *signalDir, *delay); err != nil {
		log.Fatal(err)
	}
}

func parseMount(s string) (backendstub.Mount, error) {
	switch s {
	case "both":
		return backendstub.MountBoth, nil
	case "api":
		return backendstub.MountAPIOnly, nil
	case "root":
		return backendstub.MountRootOnly, nil
	}
	return 0, fmt.Errorf("unknown mount %q", s)
}

func loadWidgetConfig(path string) (*gateway.WidgetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading widget config: %w", err)
	}
	var wc gateway.WidgetConfig
	if err := json.Unmarshal(data, &wc); err != nil {
		return nil, fmt.Errorf("parsing widget config: %w", err)
	}
	return &wc, nil
}

// reload swaps in the config file and signals widgets sharing signalDir.
func reload(s *backendstub.Server, path, signalDir string) error {
	wc, err := loadWidgetConfig(path)
	if err != nil {
		return err
	}
	s.SetConfig(wc)
	if signalDir == "" {
		return nil
	}
	return broadcast.Touch(signalDir, configsync.SignalKey, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

func run(addr, mountName, configPath, signalDir string, delay time.Duration) error {
	mount, err := parseMount(mountName)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	stub := backendstub.New(mount, logger)
	stub.SetDelay(delay)

	if configPath != "" {
		if err := reload(stub, configPath, ""); err != nil {
			return err
		}
	}

	server := &http.Server{Addr: addr, Handler: stub}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "fake-backend listening on %s (mount: %s)\n", addr, mountName)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		if sig != syscall.SIGHUP {
			break
		}
		if configPath == "" {
			continue
		}
		if err := reload(stub, configPath, signalDir); err != nil {
			logger.Warn("config reload failed", "error", err)
			continue
		}
		logger.Info("widget config reloaded", "path", configPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	return nil
}

// Package broadcast carries storage-key change signals between widget
// runtimes that share a profile, the way a browser fires storage events
// across tabs.
//
// # Overview
//
// A Signal names a storage key and its new value. Three pieces cooperate:
//
//   - Broadcaster: in-process fan-out keyed by storage key
//   - Coalescer: drops a repeat of the same key/value inside a short window
//   - Watcher: fsnotify watch over a shared signal directory; a file named
//     after the key appearing or changing publishes its contents
//
// Touch is the writer side: it atomically replaces <dir>/<key>, which every
// Watcher on that directory (in any process) observes.
//
// # Usage
//
//	bus := broadcast.NewBroadcaster(logger)
//	w, err := broadcast.NewWatcher(dir, bus, logger)
//	go w.Run(ctx)
//
//	ch, _ := bus.Subscribe(ctx, "widget_config_version")
//	for sig := range ch {
//	    // refresh
//	}
package broadcast

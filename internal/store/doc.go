// Package store provides durable per-origin key/value storage for the widget runtime.
//
// # Overview
//
// The widget runs inside a host that has no browser profile, so the
// localStorage a script tag would normally rely on is provided here.
// Items are partitioned by origin: a runtime embedded for
// https://shop.example only ever sees the items written for that origin.
//
// # Implementations
//
//   - SQLiteStore: modernc.org/sqlite backed, WAL mode, schema created on open
//   - MockStore: in-memory, with failure injection for tests
//
// # Schema
//
//	local_storage(origin, key, value, updated_at)  PRIMARY KEY (origin, key)
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/chatwidget/profile.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	id, err := s.GetItem(ctx, "https://shop.example", "chat_client_id")
//	if errors.Is(err, store.ErrNotFound) {
//	    // first visit
//	}
package store

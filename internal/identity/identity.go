// ABOUTME: Durable anonymous client identifier backed by per-origin storage
// ABOUTME: Generates a UUIDv4 once, falls back to a timestamp token if needed

package identity

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389/chatwidget/internal/store"
)

// StorageKey is the storage item holding the client identifier.
const StorageKey = "chat_client_id"

// storageTimeout bounds each storage access.
const storageTimeout = 2 * time.Second

// Identity hands out one client identifier for its lifetime.
type Identity struct {
	mu      sync.Mutex
	storage store.Store
	origin  string
	logger  *slog.Logger
	id      string

	// newToken is swapped in tests to simulate a failing secure source.
	newToken func() (string, error)
}

// New creates an Identity for origin. A nil storage yields a
// non-persisted identifier.
func New(storage store.Store, origin string, logger *slog.Logger) *Identity {
	if logger == nil {
		logger = slog.Default()
	}
	return &Identity{
		storage:  storage,
		origin:   origin,
		logger:   logger.With("component", "identity"),
		newToken: secureToken,
	}
}

// ClientID returns the identifier, creating and persisting it on first use.
func (i *Identity) ClientID() string {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.id != "" {
		return i.id
	}
	i.id = i.loadOrCreate()
	return i.id
}

func (i *Identity) loadOrCreate() string {
	if i.storage == nil {
		return i.generate()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	stored, err := i.storage.GetItem(ctx, i.origin, StorageKey)
	switch {
	case err == nil && stored != "":
		return stored
	case err != nil && !errors.Is(err, store.ErrNotFound):
		i.logger.Debug("client id storage unreadable, using ephemeral id", "error", err)
		return i.generate()
	}

	id := i.generate()
	if err := i.storage.SetItem(ctx, i.origin, StorageKey, id); err != nil {
		i.logger.Debug("client id not persisted", "error", err)
	}
	return id
}

func (i *Identity) generate() string {
	id, err := i.newToken()
	if err == nil {
		return id
	}
	i.logger.Debug("secure random source unavailable, using fallback id", "error", err)
	return fallbackToken(time.Now())
}

func secureToken() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// fallbackToken mirrors the "anon-" form used when no secure source exists.
func fallbackToken(now time.Time) string {
	return "anon-" + strconv.FormatUint(rand.Uint64(), 36) + strconv.FormatInt(now.UnixMilli(), 36)
}

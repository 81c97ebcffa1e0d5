// ABOUTME: Tests for the client identifier lifecycle
// ABOUTME: Covers persistence, reuse across instances, and storage failure fallbacks

package identity

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/chatwidget/internal/store"
)

const origin = "https://shop.example"

func TestClientID_GeneratesAndPersists(t *testing.T) {
	s := store.NewMockStore()
	id := New(s, origin, nil)

	got := id.ClientID()
	_, err := uuid.Parse(got)
	require.NoError(t, err, "expected a UUID, got %q", got)

	stored, err := s.GetItem(context.Background(), origin, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
}

func TestClientID_Idempotent(t *testing.T) {
	s := store.NewMockStore()
	id := New(s, origin, nil)

	first := id.ClientID()
	assert.Equal(t, first, id.ClientID())
	assert.Equal(t, 1, s.SetCount())
}

func TestClientID_ReusedAcrossReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "profile.db")

	s1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	first := New(s1, origin, nil).ClientID()
	require.NoError(t, s1.Close())

	s2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	assert.Equal(t, first, New(s2, origin, nil).ClientID())
}

func TestClientID_OriginsAreIndependent(t *testing.T) {
	s := store.NewMockStore()
	a := New(s, "https://a.example", nil).ClientID()
	b := New(s, "https://b.example", nil).ClientID()
	assert.NotEqual(t, a, b)
}

func TestClientID_ReadFailureYieldsEphemeralToken(t *testing.T) {
	s := store.NewMockStore()
	s.FailReads(errors.New("storage disabled"))
	id := New(s, origin, nil)

	got := id.ClientID()
	assert.NotEmpty(t, got)
	assert.Equal(t, got, id.ClientID(), "ephemeral token is memoized for the page load")
	assert.Equal(t, 0, s.SetCount(), "nothing written when storage is unreadable")
}

func TestClientID_WriteFailureStillReturnsToken(t *testing.T) {
	s := store.NewMockStore()
	s.FailWrites(errors.New("quota exceeded"))
	id := New(s, origin, nil)

	got := id.ClientID()
	assert.NotEmpty(t, got)
	assert.Equal(t, got, id.ClientID())

	// A new page load cannot see the unpersisted token
	s.FailWrites(nil)
	assert.NotEqual(t, got, New(s, origin, nil).ClientID())
}

func TestClientID_NilStorage(t *testing.T) {
	id := New(nil, origin, nil)
	assert.NotEmpty(t, id.ClientID())
}

func TestClientID_FallbackWhenSecureSourceFails(t *testing.T) {
	id := New(store.NewMockStore(), origin, nil)
	id.newToken = func() (string, error) { return "", errors.New("no entropy") }

	got := id.ClientID()
	assert.True(t, strings.HasPrefix(got, "anon-"), "got %q", got)
}

func TestFallbackToken_Shape(t *testing.T) {
	tok := fallbackToken(time.UnixMilli(1_700_000_000_000))
	assert.True(t, strings.HasPrefix(tok, "anon-"))
	assert.True(t, strings.HasSuffix(tok, "loyw3v28"), "got %q", tok)
}

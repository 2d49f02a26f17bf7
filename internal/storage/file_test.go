package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreGetSet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Get("cart-store")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report not found")

	require.NoError(t, store.Set("cart-store", []byte(`{"items":[]}`)))

	data, ok, err := store.Get("cart-store")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"items":[]}`, string(data))
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", []byte("one")))
	require.NoError(t, store.Set("k", []byte("two")))

	data, ok, err := store.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", string(data))
}

func TestFileStoreDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("k", []byte("v")))
	require.NoError(t, store.Delete("k"))

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete("k"))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("../escape/attempt", []byte("v")))

	data, ok, err := store.Get("../escape/attempt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(data))
}

func waitForEvent(t *testing.T, events <-chan Event, key string, deleted bool) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			require.True(t, ok, "event channel closed early")
			if ev.Key == key && ev.Deleted == deleted {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event key=%q deleted=%v", key, deleted)
		}
	}
}

func TestFileStoreWatch(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Set("cart-store", []byte("a")))
	waitForEvent(t, events, "cart-store", false)

	require.NoError(t, store.Delete("cart-store"))
	waitForEvent(t, events, "cart-store", true)
}

func TestFileStoreWatchStopsOnCancel(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := store.Watch(ctx)
	require.NoError(t, err)

	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return // channel closed as expected
			}
		case <-deadline:
			t.Fatal("event channel did not close after cancel")
		}
	}
}

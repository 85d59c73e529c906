package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server\nbase_url ="), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("server.base_url", "https://example.test/api"))
	require.NoError(t, store.Set("server.timeout_seconds", 30))
	require.NoError(t, store.Set("api.rate_per_second", 2.5))
	require.NoError(t, store.Set("stream.reveal", true))

	assert.Equal(t, "https://example.test/api", store.GetString("server.base_url"))
	assert.Equal(t, 30, store.GetInt("server.timeout_seconds"))
	assert.InDelta(t, 2.5, store.GetFloat("api.rate_per_second"), 1e-9)
	assert.InDelta(t, 30.0, store.GetFloat("server.timeout_seconds"), 1e-9)
	assert.True(t, store.GetBool("stream.reveal"))

	// Wrong types and missing keys fall back to zero values.
	assert.Equal(t, "", store.GetString("server.timeout_seconds"))
	assert.Equal(t, 0, store.GetInt("server.base_url"))
	assert.Zero(t, store.GetFloat("stream.reveal"))
	assert.False(t, store.GetBool("server.base_url"))
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_PersistsAsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("server.base_url", "https://example.test/api"))
	require.NoError(t, store.Set("server.timeout_seconds", 30))
	require.NoError(t, store.Set("cache.backend", "sqlite"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[server]")
	assert.Contains(t, string(raw), "[cache]")

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/api", reloaded.GetString("server.base_url"))
	assert.Equal(t, 30, reloaded.GetInt("server.timeout_seconds"))
	assert.Equal(t, "sqlite", reloaded.GetString("cache.backend"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not enforced on Windows")
	}
	store := newTestStore(t)
	require.NoError(t, store.Set("server.token", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_SetRollsBackOnWriteFailure(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("requires an unprivileged user on a POSIX filesystem")
	}
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(dir, 0500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	err = store.Set("server.base_url", "https://example.test")

	assert.Error(t, err)
	_, ok := store.Get("server.base_url")
	assert.False(t, ok)
}

func TestConfigStore_Load_PicksUpExternalEdit(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("stream.typewriter_ms", 10))

	content := "[stream]\ntypewriter_ms = 25\nreveal = false\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, 25, store.GetInt("stream.typewriter_ms"))
	_, ok := store.Get("stream.reveal")
	assert.True(t, ok)
	assert.False(t, store.GetBool("stream.reveal"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, store.Set("server.timeout_seconds", n))
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("server.timeout_seconds")
		}()
	}
	wg.Wait()

	_, ok := store.Get("server.timeout_seconds")
	assert.True(t, ok)
}

func TestConfigStore_Watch_ReloadsOnWrite(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("server.base_url", "https://before.test"))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 4)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- store.Watch(ctx, func() { changed <- struct{}{} })
	}()

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	content := "[server]\nbase_url = \"https://after.test\"\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0600))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("onChange not called after edit")
	}
	assert.Equal(t, "https://after.test", store.GetString("server.base_url"))

	cancel()
	select {
	case err := <-watchErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestConfigStore_Watch_IgnoresOtherFiles(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan struct{}, 1)
	go func() { _ = store.Watch(ctx, func() { changed <- struct{}{} }) }()

	time.Sleep(100 * time.Millisecond)
	other := filepath.Join(filepath.Dir(store.Path()), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0600))

	select {
	case <-changed:
		t.Fatal("onChange called for an unrelated file")
	case <-time.After(3 * watchDebounce):
	}
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{
		"server.base_url": "u",
		"server.timeout":  5,
		"top":             true,
	}

	nested := nestMap(flat)

	assert.Equal(t, map[string]any{
		"server": map[string]any{"base_url": "u", "timeout": 5},
		"top":    true,
	}, nested)
	assert.Equal(t, flat, flattenMap(nested, ""))
}

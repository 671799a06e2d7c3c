package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) ReloadConfig(context.Context) error {
	r.calls.Add(1)
	return nil
}

func TestConfigWatcher_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tenants: {}\n"), 0o600))

	reloader := &countingReloader{}
	cw, err := NewConfigWatcher(reloader, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	cw.Debounce = 100 * time.Millisecond
	defer cw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("tenants: {}\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return reloader.calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), reloader.calls.Load())
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	reloader := &countingReloader{}
	cw, err := NewConfigWatcher(reloader, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	cw.Debounce = 50 * time.Millisecond
	defer cw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("x"), 0o600))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloader.calls.Load())
}

func TestServer_ReloadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tenants:
  dev:
    options:
      domain: dev.auth0.com
      token: t
contexts:
  fresh:
    tenant: dev
`), 0o600))

	s, err := NewServer("localhost", "0", testConfig(), path, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	require.NoError(t, err)

	require.NoError(t, s.ReloadConfig(context.Background()))

	cfg, factory := s.current()
	assert.Contains(t, cfg.Contexts, "fresh")
	assert.NotContains(t, cfg.Contexts, "failures")
	_, _, err = factory("fresh")
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tenants: ["), 0o600))
	assert.Error(t, s.ReloadConfig(context.Background()))
	cfg, _ = s.current()
	assert.Contains(t, cfg.Contexts, "fresh")
}

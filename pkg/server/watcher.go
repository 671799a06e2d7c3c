package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is called once the config file has changed.
type Reloader interface {
	ReloadConfig(ctx context.Context) error
}

// ConfigWatcher watches the config file and reloads it on change. The parent
// directory is watched so editors that replace the file are seen too.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	reloader Reloader
	path     string
	logger   *slog.Logger

	Debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewConfigWatcher(reloader Reloader, configPath string, logger *slog.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	path, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:  watcher,
		reloader: reloader,
		path:     path,
		logger:   logger,
		Debounce: DefaultDebounce,
	}, nil
}

// Start begins watching. Events are processed until ctx is done or Close is called.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}
	cw.logger.Info("watching config file", "path", cw.path)

	go cw.watch(ctx)
	return nil
}

func (cw *ConfigWatcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				cw.logger.Debug("config file changed", "op", event.Op.String())
				cw.schedule(ctx)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error("config watcher error", "err", err)
		}
	}
}

// schedule resets the pending reload so a burst of events causes one reload.
func (cw *ConfigWatcher) schedule(ctx context.Context) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(cw.Debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := cw.reloader.ReloadConfig(ctx); err != nil {
			cw.logger.Error("failed to reload config, keeping previous one", "err", err)
		}
	})
}

// Close stops the watcher and any pending reload.
func (cw *ConfigWatcher) Close() error {
	cw.mu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mu.Unlock()
	return cw.watcher.Close()
}

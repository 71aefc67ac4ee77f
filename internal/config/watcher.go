package config

import (
	"log/slog"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads a ClientConfig from disk whenever its backing
// file changes, for long-running uses of the CLI (e.g. a supervised
// process that should pick up a rotated config without a restart).
// Readers call Current; there is no other synchronization required.
type Watcher struct {
	path    string
	current atomic.Pointer[ClientConfig]
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher loads path once via Load, then starts watching it for
// writes. The initial load error, if any, is returned immediately; the
// watcher itself begins once NewWatcher returns.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{path: path, fsw: fsw, logger: logger}
	w.current.Store(&cfg)

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous configuration", "path", w.path, "error", err)
				continue
			}
			w.current.Store(&cfg)
			w.logger.Info("configuration reloaded", "path", w.path)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// Current returns the most recently loaded configuration.
func (w *Watcher) Current() ClientConfig {
	return *w.current.Load()
}

// Close stops the watcher and releases its underlying file handle.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

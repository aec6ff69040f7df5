package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Loader builds a fresh catalog, typically by re-reading the import file.
type Loader func(ctx context.Context) (*Catalog, error)

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Path   string
	Store  *Store
	Loader Loader
	Logger *slog.Logger

	// Debounce collapses bursts of events (editors often write several times).
	// Default: 500ms
	Debounce time.Duration
}

// Watcher reloads the catalog when its source file changes.
type Watcher struct {
	config WatcherConfig
	logger *slog.Logger
}

// NewWatcher creates a catalog file watcher.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if config.Loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Debounce == 0 {
		config.Debounce = 500 * time.Millisecond
	}
	return &Watcher{config: config, logger: config.Logger}, nil
}

// Run watches until ctx is cancelled. The parent directory is watched so
// that files replaced by rename are still picked up.
func (w *Watcher) Run(ctx context.Context) (err error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := fw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	target := filepath.Clean(w.config.Path)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch catalog directory: %w", err)
	}

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			trigger = timer.C
		case <-trigger:
			trigger = nil
			w.reload(ctx)
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Catalog watcher error", "error", werr)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	start := time.Now()
	c, err := w.config.Loader(ctx)
	if err != nil {
		w.logger.Error("Catalog reload failed, keeping previous snapshot", "path", w.config.Path, "error", err)
		return
	}
	w.config.Store.Swap(c)
	stats := c.Stats()
	w.logger.Info("Catalog reloaded",
		"path", w.config.Path,
		"sets", stats.Sets,
		"cards", stats.Cards,
		"duration", time.Since(start))
}

package gate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ed-dc/ClawTaint/internal/logging"
)

// Reloader watches the config file for changes and triggers a hot reload
// on the gate. Used by long-running commands (MCP serve).
type Reloader struct {
	watcher *fsnotify.Watcher
	gate    *Gate
}

// NewReloader creates a file watcher for the gate's config path. A gate
// running on built-in defaults (no file) yields a nil reloader.
func NewReloader(g *Gate) (*Reloader, error) {
	path := g.cfgPath
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	return &Reloader{watcher: watcher, gate: g}, nil
}

// Run watches for changes and reloads the gate config. Blocks until ctx
// is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()
	log := logging.Named("reloader")

	// Debounce: wait 500ms after the last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.gate.Reload(); err != nil {
						log.WithError(err).Error("hot-reload failed")
					} else {
						log.Info("config reloaded")
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("file watcher error")
		}
	}
}

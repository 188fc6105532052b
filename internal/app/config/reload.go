package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// Reloader watches the config file and re-applies it on change, so the watch
// list can be edited while a session runs.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	apply    func(*Config) error
	obs      ports.Observability
	debounce time.Duration
}

func NewReloader(path string, apply func(*Config) error, obs ports.Observability) (*Reloader, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}
	return &Reloader{
		watcher:  fw,
		path:     path,
		apply:    apply,
		obs:      obs,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Run blocks until ctx is cancelled, reloading after each burst of writes.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

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
				debounce = time.AfterFunc(r.debounce, r.reload)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			if r.obs != nil {
				r.obs.LogError("config_watch_failed", err)
			}
		}
	}
}

func (r *Reloader) reload() {
	cfg, err := Load(r.path)
	if err != nil {
		if r.obs != nil {
			r.obs.LogError("config_reload_failed", err)
		}
		return
	}
	if err := r.apply(cfg); err != nil {
		if r.obs != nil {
			r.obs.LogError("config_apply_failed", err)
		}
		return
	}
	if r.obs != nil {
		r.obs.LogInfo("config_reloaded", ports.Field{Key: "path", Value: r.path})
	}
}

package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Reloader watches the config file and hands each successfully parsed version to onChange.
// The parent directory is watched so saves that replace the file keep being seen.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(Config)
}

func NewReloader(path string, onChange func(Config)) (*Reloader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("could not watch config file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("could not watch %q: %w", path, err)
	}

	return &Reloader{
		watcher:  watcher,
		path:     path,
		onChange: onChange,
	}, nil
}

// Run blocks until ctx is cancelled
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
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, r.reload)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config watcher error: %s", err)
		}
	}
}

func (r *Reloader) reload() {
	// mid-replace; the Create that follows reloads it
	if _, err := os.Stat(r.path); err != nil {
		log.Printf("warn: config file %s unavailable, keeping previous: %s", r.path, err)
		return
	}
	cfg, err := LoadConfig(r.path)
	if err != nil {
		log.Printf("could not reload config, keeping previous: %s", err)
		return
	}
	log.Println("config reloaded from", r.path)
	r.onChange(cfg)
}

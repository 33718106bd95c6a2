package override

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File loads override records from a JSON file and keeps a Store in sync
// with it. Sync is one way: file changes flow into the store, runtime
// mutations through the store are not written back.
type File struct {
	path  string
	store *Store
}

// NewFile creates a File bound to the given path and store.
func NewFile(path string, store *Store) *File {
	return &File{path: path, store: store}
}

// Load reads and validates the overrides file. A missing file is not an
// error; it yields an empty record set.
func (f *File) Load() ([]*Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("overrides file not found, starting empty", "path", f.path)
			return nil, nil
		}
		return nil, fmt.Errorf("read overrides file: %w", err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var records []*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse overrides file: %w", err)
	}

	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("overrides file entry %d: null entry", i)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("overrides file entry %d: %w", i, err)
		}
	}

	return records, nil
}

// LoadAndApply reads the overrides file and applies the difference to the
// store. Unchanged records are left alone so the store version only moves
// when the file actually changed.
func (f *File) LoadAndApply() error {
	records, err := f.Load()
	if err != nil {
		return err
	}

	changes := f.store.Diff(records)
	if changes.Empty() {
		return nil
	}

	f.store.ApplyChanges(changes)
	return nil
}

// Watch blocks watching the overrides file until ctx is cancelled,
// reloading it whenever it changes. The parent directory is watched so
// atomic rename-based writes are seen too.
func (f *File) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(f.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	// Coalesce bursts of writes into one reload.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			absEvent, _ := filepath.Abs(event.Name)
			absPath, _ := filepath.Abs(f.path)
			if absEvent != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				if err := f.LoadAndApply(); err != nil {
					slog.Error("reload overrides file", "err", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("fsnotify error", "err", err)
		}
	}
}

// Package watch reports changes to a fixed set of files.
package watch

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// eventBuffer is the number of fsnotify events held between polls.
const eventBuffer = 256

// Watcher tracks files by watching their parent directories, so files
// replaced by rename (as most editors save) are still seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	// absolute path -> path as registered
	files map[string]string
	dirs  map[string]bool
}

// New creates a watcher for the given files. Duplicates and empty paths
// are ignored. The files need not exist yet but their directories must.
func New(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewBufferedWatcher(eventBuffer)
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	w := &Watcher{
		watcher: fw,
		files:   make(map[string]string),
		dirs:    make(map[string]bool),
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	if path == "" {
		return nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	if _, ok := w.files[abs]; ok {
		return nil
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[abs] = path
	return nil
}

// Changed returns the registered paths written, created or renamed into
// place since the previous call, each at most once. It never blocks.
func (w *Watcher) Changed() []string {
	var changed []string
	seen := make(map[string]bool)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return changed
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, ok := w.files[filepath.Clean(event.Name)]
			if !ok || seen[path] {
				continue
			}
			seen[path] = true
			changed = append(changed, path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return changed
			}
			log.Printf("Warning: file watcher: %v", err)
		default:
			return changed
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

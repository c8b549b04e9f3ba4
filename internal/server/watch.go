package server

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher triggers a rebuild after a quiet period following file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches each path. Directories are watched recursively and
// missing paths are skipped.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{fsw: fsw, debounce: debounce}

	for _, root := range paths {
		if root == "" {
			continue
		}
		info, err := os.Stat(root)
		if err != nil {
			log.Printf("not watching %s: %v", root, err)
			continue
		}
		if !info.IsDir() {
			if err := fsw.Add(root); err != nil {
				log.Printf("failed to watch %s: %v", root, err)
			}
			continue
		}
		w.addTree(root)
	}
	return w, nil
}

func (w *Watcher) addTree(root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("error walking %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				log.Printf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("error walking %s: %v", root, err)
	}
}

// Run blocks until ctx is cancelled. Bursts of events within the debounce
// window cause a single call to rebuild; rebuild errors are logged.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			log.Printf("change detected: %s (%s)", event.Name, event.Op)
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addTree(event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)

		case <-fire:
			fire = nil
			log.Println("rebuilding site")
			if err := rebuild(ctx); err != nil {
				log.Printf("rebuild failed: %v", err)
				continue
			}
			log.Println("site rebuilt")
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	// Editor swap and backup files.
	return !strings.HasPrefix(name, ".") && !strings.HasSuffix(name, "~") && !strings.HasSuffix(name, ".swp")
}

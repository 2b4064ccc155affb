package config

import (
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the mirrors and registries files for edits and
// invokes onChange whenever either is written, so a long-lived
// process (the CLI's resolve/fetch commands, run interactively) can
// invalidate cached containers without restarting.
type Watcher struct {
	fs       *fsnotify.Watcher
	onChange func()
	done     chan struct{}
}

// NewWatcher starts watching every non-empty path in paths. A path
// that does not exist yet is skipped rather than treated as fatal —
// both the mirrors and registries files are optional.
func NewWatcher(paths []string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	added := 0
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := fw.Add(p); err != nil {
			slog.Warn("config watcher: could not watch path, skipping", "path", p, "error", err)
			continue
		}
		added++
	}

	w := &Watcher{fs: fw, onChange: onChange, done: make(chan struct{})}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.onChange()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

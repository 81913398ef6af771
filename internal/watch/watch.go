// Package watch rebuilds a project whenever its sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Electrux/CCP4M-Final/internal/logging"
	"github.com/Electrux/CCP4M-Final/internal/paths"
)

// DefaultDebounce is how long the tree must be quiet before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Watcher observes a project tree, ignoring the build directories.
type Watcher struct {
	root     string
	debounce time.Duration
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	// descriptorMod is the descriptor's mtime after the last rebuild.
	// Events that leave it unchanged are ignored.
	descriptorMod time.Time
}

// New starts watching every directory under root except the build
// directories and hidden ones.
func New(root string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{root: root, debounce: debounce, logger: logger, fsw: fsw}
	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls rebuild once per burst of changes until ctx is done. A failed
// rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	w.markDescriptor()

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
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
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
			w.logger.Warn("watcher error", logging.Error(err))
		case <-fire:
			fire = nil
			if err := rebuild(ctx); err != nil {
				w.logger.Warn("rebuild failed", logging.Error(err))
			}
			w.markDescriptor()
		}
	}
}

func (w *Watcher) markDescriptor() {
	if st, err := os.Stat(filepath.Join(w.root, paths.DescriptorFile)); err == nil {
		w.descriptorMod = st.ModTime()
	}
}

// relevant filters out build outputs, editor droppings and our own
// descriptor writes. New directories are added to the watch as a side
// effect.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || ignored(rel) {
		return false
	}
	if rel == paths.DescriptorFile {
		if st, err := os.Stat(ev.Name); err == nil && st.ModTime().Equal(w.descriptorMod) {
			return false
		}
	}
	if ev.Has(fsnotify.Create) {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.addTree(ev.Name)
		}
	}
	return true
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(w.root, path); rel != "." && ignored(rel) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, logging.Error(err))
		}
		return nil
	})
}

// ignored reports whether a root-relative path should never trigger a
// rebuild.
func ignored(rel string) bool {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	switch segments[0] {
	case paths.ObjectsDir, paths.LibDir, paths.BinDir, "..":
		return true
	}
	for _, seg := range segments {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	base := segments[len(segments)-1]
	return strings.HasPrefix(base, "#") ||
		strings.HasPrefix(base, "#") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}

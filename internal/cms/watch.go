package cms

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher invalidates a Store's cached listings when files under its content
// root change.
type Watcher struct {
	store    *Store
	root     string
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration

	mu      sync.Mutex
	pending map[Kind]*time.Timer
}

// NewWatcher watches the store's content root and every existing kind directory.
func NewWatcher(store *Store, logger *zap.Logger) (*Watcher, error) {
	if store == nil || store.Dir() == "" {
		return nil, errors.New("cms: watcher requires a store rooted on the local filesystem")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := filepath.Abs(store.Dir())
	if err != nil {
		return nil, fmt.Errorf("cms: resolve content dir: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cms: create file watcher: %w", err)
	}
	w := &Watcher{
		store:    store,
		root:     root,
		watcher:  fw,
		logger:   logger,
		debounce: defaultDebounce,
		pending:  map[Kind]*time.Timer{},
	}
	if err := fw.Add(root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("cms: watch %s: %w", root, err)
	}
	for _, kind := range Kinds {
		w.addKindDir(kind)
	}
	return w, nil
}

func (w *Watcher) addKindDir(kind Kind) {
	dir := filepath.Join(w.root, string(kind))
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("content watch failed", zap.String("dir", dir), zap.Error(err))
	}
}

// Run processes file events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("watching content", zap.String("dir", w.root))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

// Close stops the underlying fsnotify watcher and any pending invalidations.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for kind, t := range w.pending {
		t.Stop()
		delete(w.pending, kind)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	kind, isKindDir, ok := w.kindFor(event.Name)
	if !ok {
		return
	}
	if isKindDir && event.Op&fsnotify.Create == fsnotify.Create {
		w.addKindDir(kind)
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.schedule(kind)
}

// kindFor maps an event path to the kind whose listing it affects.
func (w *Watcher) kindFor(name string) (Kind, bool, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	kind, err := ParseKind(parts[0])
	if err != nil || string(kind) != parts[0] {
		return "", false, false
	}
	return kind, len(parts) == 1, true
}

func (w *Watcher) schedule(kind Kind) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[kind]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[kind] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, kind)
		w.mu.Unlock()
		w.store.Invalidate(kind)
		w.logger.Debug("content invalidated", zap.String("kind", string(kind)))
	})
}

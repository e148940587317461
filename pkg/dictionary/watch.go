package dictionary

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Reloader is rebuilt by a Watcher when one of its sources changes.
type Reloader interface {
	Reload() error
	Sources() []string
}

// Watcher rebuilds a Reloader after its source files change. Editors often
// write a file in several steps, so events are coalesced until the files have
// been quiet for the debounce period.
type Watcher struct {
	target   Reloader
	debounce time.Duration
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	logger   *log.Logger
	onReload func(error)

	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches the directories holding target's sources.
func NewWatcher(target Reloader, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		target:   target,
		debounce: debounce,
		fsw:      fsw,
		files:    make(map[string]struct{}),
		logger:   logger.New("watch"),
		done:     make(chan struct{}),
	}

	// Watching directories keeps working when a file is replaced by rename.
	dirs := make(map[string]struct{})
	for _, src := range target.Sources() {
		abs, err := filepath.Abs(src)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", src, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debugf("Watching %s", dir)
	}
	return w, nil
}

// OnReload registers fn to be called with the result of every rebuild.
// It must be set before Run.
func (w *Watcher) OnReload(fn func(error)) {
	w.onReload = fn
}

// Run handles file events until ctx is done or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-w.done:
			timer.Stop()
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debugf("Source changed: %s", ev)
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("File watcher error: %v", err)
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

func (w *Watcher) reload() {
	err := w.target.Reload()
	if err != nil {
		w.logger.Errorf("Rebuild failed, keeping the current map: %v", err)
	} else {
		w.logger.Info("Rebuilt word map after source change")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Stop ends Run. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/yildizm/CovTrack/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor or copy produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads the dataset when one of the input files changes.
type Watcher struct {
	paths    Paths
	opts     []Option
	debounce time.Duration
	log      *logger.Logger
	onReload func(*Dataset)
	onError  func(error)
	track    func(load func() error) error
}

// NewWatcher creates a watcher that calls onReload with every successfully
// reloaded dataset. Failed reloads are logged and skipped.
func NewWatcher(paths Paths, onReload func(*Dataset), log *logger.Logger, opts ...Option) *Watcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		paths:    paths,
		opts:     opts,
		debounce: DefaultDebounce,
		log:      log.WithComponent("watcher"),
		onReload: onReload,
	}
}

// SetDebounce changes the quiet period before a reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// OnError registers a callback for failed reloads.
func (w *Watcher) OnError(fn func(error)) {
	w.onError = fn
}

// TrackReloads wraps every reload attempt in track, which must call load
// once and return its error.
func (w *Watcher) TrackReloads(track func(load func() error) error) {
	w.track = track
}

// Run watches until ctx is cancelled. Directories are watched rather than
// files so rename-based writes are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.log.Warn("failed to close watcher: %v", err)
		}
	}()

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range w.paths.All() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.log.InfoWithFields("watching dataset files", []logger.Field{logger.Count(len(targets))})

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event, targets) {
				continue
			}
			w.log.Debug("dataset file event: %s", event)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error: %v", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event, targets map[string]bool) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}

func (w *Watcher) reload(ctx context.Context) {
	start := time.Now()
	var ds *Dataset
	load := func() error {
		var err error
		ds, err = Load(ctx, w.paths, w.opts...)
		return err
	}
	var err error
	if w.track != nil {
		err = w.track(load)
	} else {
		err = load()
	}
	if err != nil {
		w.log.ErrorWithFields("dataset reload failed, keeping previous data", []logger.Field{logger.Error(err)})
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	w.log.InfoWithFields("dataset reloaded", []logger.Field{
		logger.F("regions", len(ds.Regions)),
		logger.F("days", len(ds.Daily)),
		logger.Duration(time.Since(start)),
	})
	if w.onReload != nil {
		w.onReload(ds)
	}
}

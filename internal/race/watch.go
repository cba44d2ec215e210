package race

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the track data file when something else changes it and
// hands the result to the game loop through Reloads. It never touches game
// state itself.
type Watcher struct {
	store *Store
	log   *zap.Logger
	fsw   *fsnotify.Watcher
	out   chan TrackData
	done  chan struct{}
}

// WatchTrackData watches the directory holding store's file, since saves
// replace the file by rename. The watcher stops when ctx is done or Close is called.
func WatchTrackData(ctx context.Context, store *Store, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(store.Path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		store: store,
		log:   log.Named("watch"),
		fsw:   fsw,
		out:   make(chan TrackData, 1),
		done:  make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Reloads delivers freshly loaded track data. Only the latest value is kept.
func (w *Watcher) Reloads() <-chan TrackData { return w.out }

func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	target := filepath.Clean(w.store.Path)
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping track data watch")
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug("change detected", zap.String("file", event.Name), zap.Stringer("op", event.Op))
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	d, err := w.store.Load()
	if errors.Is(err, ErrNoTrackData) {
		return
	}
	if err != nil {
		w.log.Warn("ignoring unusable track data", zap.Error(err))
		return
	}
	// Keep only the newest value for the game loop.
	select {
	case <-w.out:
	default:
	}
	w.out <- d
}

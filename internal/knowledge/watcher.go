package knowledge

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces bursts of filesystem events (editors often fire
// several writes per save) into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the knowledge base when its data files change on disk.
type Watcher struct {
	base    *Base
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher starts watching base's data directory. Stop must be called to
// release the underlying watcher.
func NewWatcher(base *Base) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(base.dataDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", base.dataDir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		base:    base,
		watcher: fsw,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go w.run(ctx)
	return w, nil
}

// Stop shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	pending := false

	fire := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		pending = true
		timer = time.AfterFunc(reloadDebounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isDataFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("knowledge: watcher error: %v", err)

		case <-fire:
			if !pending {
				continue
			}
			pending = false
			if err := w.base.Load(); err != nil {
				// Keep serving the previous snapshot on a bad edit.
				log.Printf("knowledge: reload failed, keeping previous data: %v", err)
			} else {
				log.Printf("knowledge: reloaded data files")
			}
		}
	}
}

func isDataFile(path string) bool {
	switch filepath.Base(path) {
	case coursesFile, feesFile, scholarshipsFile:
		return true
	}
	return false
}

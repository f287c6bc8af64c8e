package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pitchlens/pitchlens/internal/extract"
)

// DropWatcher watches a drop directory and reports new or rewritten files
// with a recognized extension. Events are debounced so a file being copied
// in chunks surfaces once.
type DropWatcher struct {
	dir          string
	watcher      *fsnotify.Watcher
	registry     *extract.Registry
	onFiles      func([]string)
	debounceTime time.Duration

	mu      sync.Mutex
	pending map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDropWatcher creates a watcher over dir. Files are recognized by the
// extraction registry's extensions.
func NewDropWatcher(dir string, registry *extract.Registry) (*DropWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &DropWatcher{
		dir:          dir,
		watcher:      watcher,
		registry:     registry,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]bool),
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

// OnFiles sets the callback invoked with each debounced batch of paths.
func (dw *DropWatcher) OnFiles(callback func([]string)) {
	dw.onFiles = callback
}

// Start begins watching the drop directory and its subdirectories.
func (dw *DropWatcher) Start() error {
	err := filepath.WalkDir(dw.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := dw.watcher.Add(path); err != nil {
				log.Printf("failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk drop directory: %w", err)
	}

	dw.wg.Add(2)
	go dw.eventLoop()
	go dw.debounceLoop()

	return nil
}

// Stop shuts the watcher down and waits for its goroutines.
func (dw *DropWatcher) Stop() error {
	dw.cancel()
	dw.wg.Wait()
	return dw.watcher.Close()
}

func (dw *DropWatcher) eventLoop() {
	defer dw.wg.Done()

	for {
		select {
		case <-dw.ctx.Done():
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handleEvent(event)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

func (dw *DropWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := dw.watcher.Add(event.Name); err != nil {
				log.Printf("failed to watch new directory %s: %v", event.Name, err)
			}
			return
		}
	}

	if !dw.recognized(event.Name) {
		return
	}

	dw.mu.Lock()
	dw.pending[event.Name] = true
	dw.mu.Unlock()
}

// recognized reports whether the path's extension has a registered
// extractor. Unknown extensions are ignored rather than attempted, unlike
// explicit uploads.
func (dw *DropWatcher) recognized(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range dw.registry.Supported() {
		if ext == supported {
			return true
		}
	}
	return false
}

func (dw *DropWatcher) debounceLoop() {
	defer dw.wg.Done()

	ticker := time.NewTicker(dw.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-dw.ctx.Done():
			return
		case <-ticker.C:
			dw.flushPending()
		}
	}
}

func (dw *DropWatcher) flushPending() {
	dw.mu.Lock()
	if len(dw.pending) == 0 {
		dw.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(dw.pending))
	for path := range dw.pending {
		paths = append(paths, path)
	}
	dw.pending = make(map[string]bool)
	dw.mu.Unlock()

	if dw.onFiles != nil {
		log.Printf("drop watcher detected %d new files", len(paths))
		dw.onFiles(paths)
	}
}

// Package filesystem watches a local report directory and feeds changes
// to the index service.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// ChangeType describes what happened to a watched file.
type ChangeType int

const (
	// ChangeUpserted means the file was created or modified.
	ChangeUpserted ChangeType = iota

	// ChangeRemoved means the file was deleted or moved away.
	ChangeRemoved
)

// String returns the string representation.
func (t ChangeType) String() string {
	if t == ChangeRemoved {
		return "removed"
	}
	return "upserted"
}

// Change is one settled file change.
type Change struct {
	Type ChangeType
	Path string
}

// Connector watches rootPath recursively. Hidden files and directories are ignored.
type Connector struct {
	rootPath string
	accept   func(path string) bool
	debounce time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
}

// New creates a connector for rootPath. accept selects the files of interest;
// nil accepts every regular file.
func New(rootPath string, accept func(path string) bool) *Connector {
	if accept == nil {
		accept = func(string) bool { return true }
	}
	return &Connector{
		rootPath: rootPath,
		accept:   accept,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the quiet period before pending events are reported.
func (c *Connector) SetDebounce(d time.Duration) {
	if d > 0 {
		c.debounce = d
	}
}

// Watch starts watching and returns settled changes. The channel is closed
// when ctx is cancelled or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connector closed")
	}
	if c.watcher != nil {
		return nil, errors.New("already watching")
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(w, c.rootPath); err != nil {
		w.Close()
		return nil, err
	}
	c.watcher = w

	out := make(chan Change, 64)
	go c.loop(ctx, w, out)

	logger.Info("Watching %s for changes", c.rootPath)
	return out, nil
}

// Close stops watching. Safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}

// Run applies changes to idx until ctx is cancelled. Per-file failures are logged.
func (c *Connector) Run(ctx context.Context, idx driving.IndexService) error {
	changes, err := c.Watch(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	for change := range changes {
		Apply(ctx, idx, change)
	}
	return nil
}

// Apply performs one change against idx.
func Apply(ctx context.Context, idx driving.IndexService, change Change) {
	switch change.Type {
	case ChangeUpserted:
		n, err := idx.IndexFile(ctx, change.Path)
		if err != nil {
			logger.Warn("Reindex %s failed: %v", change.Path, err)
			return
		}
		logger.Info("Reindexed %s (%d chunks)", change.Path, n)
	case ChangeRemoved:
		err := idx.RemoveFile(ctx, change.Path)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Remove %s failed: %v", change.Path, err)
		}
	}
}

func (c *Connector) loop(ctx context.Context, w *fsnotify.Watcher, out chan<- Change) {
	defer close(out)

	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		settle <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod || hidden(c.rootPath, event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// Files written into a new directory before its watch
					// was added produce no events of their own.
					if err := addTree(w, event.Name); err != nil {
						logger.Warn("Failed to watch %s: %v", event.Name, err)
					}
					for _, f := range c.filesUnder(event.Name) {
						pending[f] = struct{}{}
					}
				}
			}
			pending[event.Name] = struct{}{}

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(c.debounce)
			settle = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error on %s: %v", c.rootPath, err)

		case <-settle:
			settle = nil
			for _, change := range c.settle(pending) {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
			pending = make(map[string]struct{})
		}
	}
}

// settle decides the final state of each pending path by looking at the disk.
func (c *Connector) settle(pending map[string]struct{}) []Change {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	changes := make([]Change, 0, len(paths))
	for _, p := range paths {
		if !c.accept(p) {
			continue
		}
		info, err := os.Stat(p)
		switch {
		case err == nil && info.Mode().IsRegular():
			changes = append(changes, Change{Type: ChangeUpserted, Path: p})
		case errors.Is(err, fs.ErrNotExist):
			changes = append(changes, Change{Type: ChangeRemoved, Path: p})
		}
	}
	return changes
}

func (c *Connector) filesUnder(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// addTree watches dir and every non-hidden directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// hidden reports whether any component of path below root starts with a dot.
func hidden(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

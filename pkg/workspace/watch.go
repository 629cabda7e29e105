package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jlrickert/noteweave/internal/obslog"
	"github.com/jlrickert/noteweave/pkg/graph"
)

// debounceWindow coalesces bursts of filesystem events (an editor's
// write-then-rename save sequence) into one UpdateDocument call, the same
// 120ms window editor_live.go's live-save watcher debounces on.
const debounceWindow = 120 * time.Millisecond

// Watch implements `workspace/didChangeWatchedFiles` (spec.md §6.3): it
// watches root for `.md` changes made outside the editor and folds them
// into the live graph via UpdateDocument/RemoveDocument, debounced the same
// way the reference CLI's editWithLiveSaves watches a single edited file.
// The returned stop func closes the watcher; Watch runs until ctx is done
// or stop is called.
func (w *Workspace) Watch(ctx context.Context) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := filepath.WalkDir(w.root, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			rel, relErr := filepath.Rel(w.root, p)
			if relErr == nil && rel == ConfigDir {
				return filepath.SkipDir
			}
			return watcher.Add(p)
		}
		return nil
	}); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	done := make(chan struct{})
	go w.watchLoop(ctx, watcher, done)

	return func() {
		_ = watcher.Close()
		<-done
	}, nil
}

func (w *Workspace) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	logger := obslog.FromContext(ctx)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(30 * time.Millisecond)
	defer ticker.Stop()

	flush := func() {
		now := time.Now()
		for p, at := range pending {
			if now.Sub(at) < debounceWindow {
				continue
			}
			delete(pending, p)
			w.handleWatchedChange(ctx, p, logger)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flush()
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				pending[ev.Name] = time.Now()
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("workspace: watch error", "error", werr)
		}
	}
}

func (w *Workspace) handleWatchedChange(ctx context.Context, path string, logger interface {
	Warn(string, ...any)
}) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return
	}
	key := graph.KeyFromFileName(rel)

	raw, err := w.rt.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.mu.Lock()
			w.g.RemoveDocument(key)
			w.g.RefIndex().Rebuild(w.g.Arena(), w.g.Lines())
			w.mu.Unlock()
			return
		}
		logger.Warn("workspace: watch read failed", "key", key, "error", err)
		return
	}
	if err := w.UpdateDocument(ctx, key, raw); err != nil {
		logger.Warn("workspace: watch update failed", "key", key, "error", err)
	}
}

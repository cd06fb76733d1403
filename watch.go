package extractwind

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"

	"github.com/khalilKhassep/extractwind/internal/dom"
	"github.com/khalilKhassep/extractwind/internal/extract"
)

// Watch re-extracts templates under config.ViewPath whenever they change,
// until ctx is cancelled. Events are collected for config.Debounce and then
// processed in path order. onResult is called once per processed file; a
// file whose content hash matches the previous run is reported as Unchanged
// and not rewritten.
//
// Watch does not run an initial extraction. Call Extract first when the
// outputs may be stale.
func Watch(ctx context.Context, config Config, onResult func(*FileResult, error)) error {
	config, err := prepare(config)
	if err != nil {
		return err
	}
	sel, err := newSelector(config)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	w := &templateWatcher{
		config:   config,
		sel:      sel,
		watcher:  watcher,
		hashes:   make(map[string]uint64),
		pending:  make(map[string]bool),
		onResult: onResult,
	}
	if err := w.addTree(config.ViewPath, true); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Stdout, "Watching %s\n", config.ViewPath)
	}
	return w.run(ctx)
}

type templateWatcher struct {
	config   Config
	sel      *selector
	watcher  *fsnotify.Watcher
	hashes   map[string]uint64 // last processed content per template
	pending  map[string]bool
	onResult func(*FileResult, error)
}

// addTree watches root and every directory below it except the output trees.
// With seed set, the current content of each template is hashed so that
// saving an unchanged file is a no-op.
func (w *templateWatcher) addTree(root string, seed bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.config.ViewPath && w.sel.skip(path) {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			return nil
		}
		if !w.wants(path) {
			return nil
		}
		if seed {
			// #nosec G304 - path comes from the template walker
			if content, err := os.ReadFile(path); err == nil {
				w.hashes[path] = xxhash.Sum64(content)
			}
		} else {
			// Files created together with a new directory produce no event
			w.pending[path] = true
		}
		return nil
	})
}

func (w *templateWatcher) wants(path string) bool {
	return w.sel.isTemplate(filepath.Base(path)) && w.sel.keep(path)
}

func (w *templateWatcher) run(ctx context.Context) error {
	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handle(event) {
				flush = time.After(w.config.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.report(nil, fmt.Errorf("watch: %w", err))

		case <-flush:
			flush = nil
			w.flush()
		}
	}
}

// handle records an event and reports whether anything became pending.
func (w *templateWatcher) handle(event fsnotify.Event) bool {
	path := event.Name
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.sel.skip(path) {
				return false
			}
			before := len(w.pending)
			if err := w.addTree(path, false); err != nil {
				w.report(nil, err)
			}
			return len(w.pending) > before
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !w.wants(path) {
		return false
	}
	w.pending[path] = true
	return true
}

// flush processes the pending templates in path order.
func (w *templateWatcher) flush() {
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	w.pending = make(map[string]bool)

	for _, path := range paths {
		// #nosec G304 - path comes from a watched directory
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			delete(w.hashes, path)
			continue
		}
		if err != nil {
			w.report(nil, fmt.Errorf("extract %s: read file: %w", path, err))
			continue
		}

		sum := xxhash.Sum64(content)
		if prev, ok := w.hashes[path]; ok && prev == sum {
			w.report(&FileResult{Path: path, Base: extract.FileBase(path, w.config.Suffix), Unchanged: true}, nil)
			continue
		}

		fr, err := rewriteDocument(path, dom.Parse(content), w.config)
		if err != nil {
			w.report(nil, fmt.Errorf("extract %s: %w", path, err))
			continue
		}
		w.hashes[path] = sum
		w.report(fr, nil)
	}
}

func (w *templateWatcher) report(fr *FileResult, err error) {
	if w.onResult != nil {
		w.onResult(fr, err)
	}
}

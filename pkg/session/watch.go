package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/log"
)

// Watcher re-opens the tracked document whenever the file behind it changes
// on disk. It watches the containing directory, since editors replace files
// rather than write them in place.
type Watcher struct {
	controller *Controller
	watcher    *fsnotify.Watcher

	path string
	dir  string
	mu   sync.Mutex
}

func NewWatcher(c *Controller) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		controller: c,
		watcher:    fsw,
	}, nil
}

// Watch points the watcher at the given file, replacing any previous target.
func (w *Watcher) Watch(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", path, err)
	}

	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" && w.dir != dir {
		err := w.watcher.Remove(w.dir)
		if err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			log.WithContext(ctx).ErrorContext(ctx, "remove path from watcher",
				slog.Any("err", err),
			)
		}
	}

	if w.dir != dir {
		err := w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}
	}

	w.path = abs
	w.dir = dir

	log.WithContext(ctx).DebugContext(ctx, "watching document",
		slog.String("path", abs),
	)

	return nil
}

// Run consumes file system events until the watcher is closed, re-opening
// the document on every content change.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.mu.Lock()
			path := w.path
			w.mu.Unlock()

			if path == "" || evt.Name != path {
				continue
			}

			// Attribute-only changes do not affect document content.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			logger := log.WithContext(ctx)
			logger.DebugContext(ctx, "document changed on disk",
				slog.String("event", evt.String()),
			)

			if evt.Has(fsnotify.Remove) {
				continue
			}

			err := w.controller.Open(ctx, document.OpenParams{Path: path})
			if err != nil {
				logger.ErrorContext(ctx, "reload document",
					slog.String("path", path),
					slog.Any("err", err),
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			log.WithContext(ctx).ErrorContext(ctx, "file watcher", slog.Any("err", err))

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close fsnotify watcher: %w", err)
	}

	return nil
}

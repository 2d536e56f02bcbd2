package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/event"
	"github.com/birchlabs/folio/pkg/log"
	"github.com/birchlabs/folio/pkg/viewer"
)

// errStale aborts an initialization sequence whose task or document has been
// superseded. It never reaches callers of Open.
var errStale = errors.New("superseded")

// docPrefs collects the document-declared preferences probed after load.
// Probe failures leave the zero value, meaning "no preference".
type docPrefs struct {
	layout   string
	mode     document.PageMode
	openDest string
}

// load wires the freshly settled document into the viewer and runs the
// initial view sequence. Probe failures never abort rendering; any failure
// of the sequence itself degrades to a default view.
func (c *Controller) load(ctx context.Context, task *document.LoadingTask, doc document.Document) {
	ctx, span := c.tracer.Start(ctx, "load", trace.WithAttributes(
		attribute.String("task", task.ID()),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	// The attach runs under the lifecycle lock: a superseding open either
	// completed before it (the re-check fails, nothing is attached) or waits
	// until after it (and detaches this document itself).
	c.lifecycle.Lock()

	c.mu.Lock()
	if c.task != task || c.doc != doc {
		c.mu.Unlock()
		c.lifecycle.Unlock()

		logger.DebugContext(ctx, "document superseded before attach",
			slog.String("task", task.ID()),
		)

		return
	}

	latch := c.loadedLatch
	baseURL := c.url
	c.mu.Unlock()

	c.viewer.SetDocument(doc)
	c.links.SetDocument(doc, baseURL)

	c.lifecycle.Unlock()

	// Content length unblocks the external document-loaded signal, but only
	// once the renderer reports its first page.
	go func() {
		dl, err := doc.GetDownloadInfo(ctx)
		if err != nil {
			logger.DebugContext(ctx, "download info probe failed", slog.Any("err", err))
		}

		if _, err := c.viewer.FirstPage().Await(ctx); err != nil {
			return
		}

		c.mu.Lock()
		if c.doc != doc {
			c.mu.Unlock()

			return
		}

		c.contentLength = dl.Length
		c.mu.Unlock()

		c.bus.Publish(event.DocumentLoaded{ContentLength: dl.Length})
		latch.Resolve(struct{}{})
	}()

	// Three independent, error-tolerant preference probes. Failures are
	// swallowed: they must never prevent initial view setup.
	prefs := &docPrefs{}

	var probes sync.WaitGroup

	probes.Add(3)

	go func() {
		defer probes.Done()

		layout, err := doc.GetPageLayout(ctx)
		if err != nil {
			logger.DebugContext(ctx, "page layout probe failed", slog.Any("err", err))

			return
		}

		prefs.layout = layout
	}()

	go func() {
		defer probes.Done()

		mode, err := doc.GetPageMode(ctx)
		if err != nil {
			logger.DebugContext(ctx, "page mode probe failed", slog.Any("err", err))

			return
		}

		prefs.mode = mode
	}()

	go func() {
		defer probes.Done()

		action, err := doc.GetOpenAction(ctx)
		if err != nil {
			logger.DebugContext(ctx, "open action probe failed", slog.Any("err", err))

			return
		}

		if action != nil {
			prefs.openDest = action.Dest
		}
	}()

	// Metadata resolves lazily and is discarded when the document has been
	// superseded in the meantime.
	go func() {
		info, err := doc.GetMetadata(ctx)
		if err != nil {
			logger.DebugContext(ctx, "metadata probe failed", slog.Any("err", err))

			return
		}

		c.mu.Lock()
		if c.doc != doc {
			c.mu.Unlock()

			return
		}

		c.metadata = &info
		c.mu.Unlock()

		c.bus.Publish(event.MetadataLoaded{Info: info})
	}()

	err := c.initializeView(ctx, task, doc, prefs, &probes)
	if err != nil && !errors.Is(err, errStale) {
		logger.ErrorContext(ctx, "initial view sequence failed, falling back to defaults",
			slog.Any("err", err),
		)

		// A usable default view beats an uninitialized one.
		c.setInitialView(ctx, "", NewStoredState(), docPrefs{})
		c.viewer.Update()
	}
}

// initializeView runs once per load: it joins the first page, the
// animation-start signal and the preference probes, applies the initial
// view, then races full page measurement against the deadline and performs
// the one corrective pass documents with unequal page sizes need.
func (c *Controller) initializeView(
	ctx context.Context,
	task *document.LoadingTask,
	doc document.Document,
	prefs *docPrefs,
	probes *sync.WaitGroup,
) error {
	if _, err := c.viewer.FirstPage().Await(ctx); err != nil {
		return err
	}

	if _, err := c.viewer.OnePageRendered().Await(ctx); err != nil {
		return err
	}

	probes.Wait()

	if !c.isCurrent(task, doc) {
		return errStale
	}

	stored := NewStoredState()
	if c.store != nil {
		if st, ok := c.store.Load(doc.FileName()); ok {
			stored = st
		}
	}

	hash := stored.Hash
	if hash == "" {
		hash = prefs.openDest
	}

	c.setInitialView(ctx, hash, stored, *prefs)
	c.bus.Publish(event.DocumentInit{
		FileName: doc.FileName(),
		Pages:    doc.NumPages(),
	})

	// Best-effort deadline: a late pages settlement has no further effect.
	_, _ = viewer.RaceTimeout(ctx, c.viewer.Pages(), c.initTimeout)

	if stored.Hash != "" && !c.viewer.HasEqualPageSizes() {
		if !c.isCurrent(task, doc) {
			return errStale
		}

		// Scroll positions depend on page sizes that were not measured the
		// first time around. Reapplying the scale forces a relayout before
		// the stored destination is honored again.
		c.viewer.SetCurrentScaleValue(c.viewer.CurrentScaleValue())
		c.setInitialView(ctx, stored.Hash, stored, *prefs)
	}

	// Never leave the view blank.
	c.viewer.Update()

	return nil
}

func (c *Controller) isCurrent(task *document.LoadingTask, doc document.Document) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.task == task && c.doc == doc
}

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/event"
	"github.com/birchlabs/folio/pkg/log"
	"github.com/birchlabs/folio/pkg/viewer"
)

// ErrNoViewer is returned when a controller is constructed without a viewer.
var ErrNoViewer = errors.New("no viewer attached")

// defaultInitTimeout bounds how long the initial view waits for every page
// to be measured before proceeding anyway.
const defaultInitTimeout = 10 * time.Second

// State is the controller lifecycle state.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateLoaded
	StateClosing
)

func (s State) String() string {
	return map[State]string{
		StateIdle:    "idle",
		StateOpening: "opening",
		StateLoaded:  "loaded",
		StateClosing: "closing",
	}[s]
}

// Controller owns the open/close lifecycle of one document at a time. At
// most one LoadingTask is tracked; every asynchronous continuation
// re-checks task and document identity before touching shared state, so
// continuations belonging to superseded tasks degrade to no-ops.
type Controller struct {
	tracer trace.Tracer
	engine document.Engine
	viewer Viewer
	links  LinkService
	bus    *event.Bus
	store  StateStore

	task        *document.LoadingTask
	doc         document.Document
	loadedLatch *viewer.Future[struct{}]

	url           string
	fileName      string
	metadata      *document.Info
	contentLength int64

	initTimeout time.Duration
	state       State

	// lifecycle serializes open/close transitions and the viewer attach, so
	// a superseding open can never interleave between a continuation's
	// identity check and its effect. mu guards the fields only and is never
	// held across blocking calls.
	lifecycle sync.Mutex
	mu        sync.Mutex
}

type ControllerOpt func(c *Controller)

// WithLinkService attaches the link-resolution collaborator.
func WithLinkService(links LinkService) ControllerOpt {
	return func(c *Controller) {
		c.links = links
	}
}

// WithBus sets the notification bus. Without it, events are dropped.
func WithBus(bus *event.Bus) ControllerOpt {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithStateStore attaches the per-document navigation state store.
func WithStateStore(store StateStore) ControllerOpt {
	return func(c *Controller) {
		c.store = store
	}
}

// WithInitTimeout overrides the pages-resolved deadline of the initial view
// sequence.
func WithInitTimeout(d time.Duration) ControllerOpt {
	return func(c *Controller) {
		c.initTimeout = d
	}
}

func NewController(engine document.Engine, v Viewer, opts ...ControllerOpt) (*Controller, error) {
	if v == nil {
		return nil, ErrNoViewer
	}

	c := &Controller{
		tracer:      otel.Tracer("session"),
		engine:      engine,
		viewer:      v,
		initTimeout: defaultInitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.bus == nil {
		c.bus = event.NewBus()
	}
	if c.links == nil {
		c.links = noopLinkService{}
	}

	return c, nil
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Metadata returns the lazily-resolved document information, if available.
func (c *Controller) Metadata() (document.Info, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.metadata == nil {
		return document.Info{}, false
	}

	return *c.metadata, true
}

// ContentLength returns the document byte length once known.
func (c *Controller) ContentLength() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.contentLength
}

// FileName returns the suggested filename of the open document.
func (c *Controller) FileName() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fileName
}

// Loaded settles once the document is fully loaded: first page rendered and
// content length known. Close unblocks it unconditionally.
func (c *Controller) Loaded() *viewer.Future[struct{}] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loadedLatch
}

// Open loads a document. Any previously tracked task is fully closed first.
// The error of a superseded open is swallowed; the caller of the superseding
// Open receives its own task's outcome.
func (c *Controller) Open(ctx context.Context, params document.OpenParams) error {
	ctx, span := c.tracer.Start(ctx, "open", trace.WithAttributes(
		attribute.String("path", params.Path),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	// Close-previous, engine open and task handover form one transition:
	// two racing opens must not interleave here, or the loser's task leaks.
	c.lifecycle.Lock()

	err := c.close(ctx)
	if err != nil {
		c.lifecycle.Unlock()

		return fmt.Errorf("close previous document: %w", err)
	}

	task, err := c.engine.Open(ctx, params)
	if err != nil {
		c.lifecycle.Unlock()

		return c.reportOpenError(ctx, params, err)
	}

	span.SetAttributes(attribute.String("task", task.ID()))

	c.mu.Lock()
	c.task = task
	c.state = StateOpening
	c.url = params.Path
	c.loadedLatch = viewer.NewFuture[struct{}]()
	c.mu.Unlock()

	c.lifecycle.Unlock()

	doc, err := task.Document().Await(ctx)

	// Currency check and state transition are one critical section; a
	// superseding open observes either Opening-with-our-task or our result,
	// never a half-applied settlement.
	c.mu.Lock()

	if c.task != task {
		c.mu.Unlock()

		// Superseded while settling; the resolution belongs to nobody.
		logger.DebugContext(ctx, "ignoring stale loading task",
			slog.String("task", task.ID()),
		)

		return nil
	}

	if err != nil {
		// The open failed for good: drop the dead task and return to Idle so
		// the controller does not report an open in progress forever.
		c.task = nil
		c.state = StateIdle
		latch := c.loadedLatch
		c.mu.Unlock()

		latch.Resolve(struct{}{})

		if derr := task.Destroy(ctx); derr != nil {
			logger.DebugContext(ctx, "destroy failed loading task",
				slog.String("task", task.ID()),
				slog.Any("err", derr),
			)
		}

		return c.reportOpenError(ctx, params, err)
	}

	c.state = StateLoaded
	c.fileName = doc.FileName()
	c.doc = doc
	c.mu.Unlock()

	logger.DebugContext(ctx, "document open",
		slog.String("task", task.ID()),
		slog.String("path", params.Path),
		slog.Int("pages", doc.NumPages()),
	)

	c.load(ctx, task, doc)

	return nil
}

// Close tears down the tracked task and document. It is idempotent and
// always resolves: the pending document-loaded latch is unblocked first so
// nothing downstream waits forever.
func (c *Controller) Close(ctx context.Context) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	return c.close(ctx)
}

// close is Close without the lifecycle lock, for callers already inside a
// transition.
func (c *Controller) close(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "close")
	defer span.End()

	c.mu.Lock()

	// Only the first call has an effect; the latch settles once.
	if c.loadedLatch != nil {
		c.loadedLatch.Resolve(struct{}{})
	}

	task := c.task
	doc := c.doc

	if task == nil && doc == nil {
		c.mu.Unlock()

		return nil
	}

	c.state = StateClosing
	c.task = nil
	c.doc = nil
	c.url = ""
	c.fileName = ""
	c.metadata = nil
	c.contentLength = 0
	c.mu.Unlock()

	c.viewer.SetDocument(nil)
	c.links.SetDocument(nil, "")

	var err error
	if task != nil {
		err = task.Destroy(ctx)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("destroy loading task: %w", err)
	}

	return nil
}

// Bus exposes the notification bus for subscribers.
func (c *Controller) Bus() *event.Bus {
	return c.bus
}

func (c *Controller) reportOpenError(ctx context.Context, params document.OpenParams, err error) error {
	kind := document.Classify(err)

	log.WithContext(ctx).ErrorContext(ctx, "open document",
		slog.String("path", params.Path),
		slog.String("kind", kind.String()),
		slog.Any("err", err),
	)

	c.bus.Publish(event.DocumentError{
		Err:        err,
		MessageKey: kind.MessageKey(),
		Kind:       kind,
	})

	return fmt.Errorf("open document: %w", err)
}

type noopLinkService struct{}

func (noopLinkService) SetDocument(document.Document, string) {}
func (noopLinkService) SetHash(string)                        {}

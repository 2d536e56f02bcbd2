// Package tui is the terminal shell: a minimal viewer implementation over a
// text placeholder, key and wheel translation into viewer commands, and a
// status bar.
package tui

import (
	"context"
	"math"
	"strconv"
	"sync"

	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/event"
	"github.com/birchlabs/folio/pkg/viewer"
)

const zoomStepFactor = 1.1

// Screen is the terminal-backed viewer. A text terminal has no asynchronous
// render pipeline, so attaching a document measures every page up front and
// settles all rendering milestones immediately.
type Screen struct {
	doc document.Document

	scale    viewer.ScaleValue
	page     int
	rotation viewer.Rotation
	scroll   viewer.ScrollMode
	spread   viewer.SpreadMode

	presentation bool
	findOpen     bool
	equalSizes   bool

	firstPage *viewer.Future[int]
	onePage   *viewer.Future[struct{}]
	pages     *viewer.Future[struct{}]

	notify func()
	bus    *event.Bus
	mu     sync.Mutex
}

func NewScreen() *Screen {
	s := &Screen{
		scroll: viewer.ScrollVertical,
		spread: viewer.SpreadNone,
		notify: func() {},
	}
	s.resetFutures()

	return s
}

// SetNotify registers the callback invoked whenever the session requests a
// render pass.
func (s *Screen) SetNotify(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// SetBus attaches the notification bus the screen announces state changes
// on. Without it, announcements are dropped.
func (s *Screen) SetBus(bus *event.Bus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus = bus
}

// publish is safe to call with the mutex held; Bus.Publish never blocks.
func (s *Screen) publish(evt event.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}

func (s *Screen) resetFutures() {
	s.firstPage = viewer.NewFuture[int]()
	s.onePage = viewer.NewFuture[struct{}]()
	s.pages = viewer.NewFuture[struct{}]()
}

func (s *Screen) SetDocument(doc document.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.page = 0
	s.scale = ""
	s.rotation = 0
	s.resetFutures()

	if doc == nil {
		s.equalSizes = true

		return
	}

	s.page = 1
	s.equalSizes = measureEqualPageSizes(doc)

	s.firstPage.Resolve(1)
	s.onePage.Resolve(struct{}{})
	s.pages.Resolve(struct{}{})

	s.publish(event.PageRendered{PageNumber: 1})
}

// measureEqualPageSizes compares every page's media box against the first.
// Unreadable sizes count as equal so the corrective pass is not triggered on
// parser noise.
func measureEqualPageSizes(doc document.Document) bool {
	ctx := context.Background()

	w0, h0, err := doc.PageSize(ctx, 1)
	if err != nil {
		return true
	}

	for n := 2; n <= doc.NumPages(); n++ {
		w, h, err := doc.PageSize(ctx, n)
		if err != nil {
			return true
		}

		if math.Abs(w-w0) > 0.5 || math.Abs(h-h0) > 0.5 {
			return false
		}
	}

	return true
}

func (s *Screen) CurrentScaleValue() viewer.ScaleValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scale
}

func (s *Screen) SetCurrentScaleValue(scale viewer.ScaleValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.publish(event.ScaleChanging{Scale: scale})
	s.scale = scale
}

func (s *Screen) CurrentPageNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

func (s *Screen) SetCurrentPageNumber(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setPageLocked(n)
}

func (s *Screen) setPageLocked(n int) {
	if s.doc == nil {
		return
	}

	page := min(max(n, 1), s.doc.NumPages())
	if page != s.page {
		s.page = page
		s.publish(event.PageRendered{PageNumber: page})
	}
}

func (s *Screen) PagesRotation() viewer.Rotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rotation
}

func (s *Screen) SetPagesRotation(r viewer.Rotation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.IsValid() {
		s.publish(event.RotationChanging{Rotation: r})
		s.rotation = r
	}
}

func (s *Screen) ScrollMode() viewer.ScrollMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scroll
}

func (s *Screen) SetScrollMode(m viewer.ScrollMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.IsValid() {
		s.scroll = m
	}
}

func (s *Screen) SpreadMode() viewer.SpreadMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.spread
}

func (s *Screen) SetSpreadMode(m viewer.SpreadMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.IsValid() {
		s.spread = m
	}
}

func (s *Screen) Update() {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()

	notify()
}

func (s *Screen) Refresh() {
	s.Update()
}

func (s *Screen) Focus() {}

func (s *Screen) IsInPresentationMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.presentation
}

func (s *Screen) HasEqualPageSizes() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.equalSizes
}

func (s *Screen) FirstPage() *viewer.Future[int] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.firstPage
}

func (s *Screen) OnePageRendered() *viewer.Future[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.onePage
}

func (s *Screen) Pages() *viewer.Future[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pages
}

// FindBarOpen reports whether the find bar is shown.
func (s *Screen) FindBarOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findOpen
}

// ScaleFactor returns the numeric zoom factor, anchoring pinch accumulation.
func (s *Screen) ScaleFactor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.numericScale()
}

// numericScale resolves the current scale to a factor, treating named
// presets as 1 in the terminal shell.
func (s *Screen) numericScale() float64 {
	f, ok := s.scale.Float()
	if !ok {
		return 1
	}

	return f
}

func (s *Screen) zoomSteps(steps int) {
	f := s.numericScale() * math.Pow(zoomStepFactor, float64(steps))
	s.setScaleLocked(f)
}

func (s *Screen) setScaleLocked(f float64) {
	f = min(max(f, viewer.MinScale), viewer.MaxScale)
	// Two decimal places, like the discrete zoom UI steps.
	f = math.Round(f*100) / 100

	scale := viewer.NumericScale(f)
	s.publish(event.ScaleChanging{Scale: scale})
	s.scale = scale
}

// Apply executes a viewer command against the screen state. It reports
// whether the command was recognized.
func (s *Screen) Apply(cmd viewer.Command) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c := cmd.(type) {
	case viewer.ZoomIn:
		s.zoomSteps(1)

	case viewer.ZoomOut:
		s.zoomSteps(-1)

	case viewer.ZoomTo:
		switch {
		case c.Scale > 0:
			s.setScaleLocked(c.Scale * s.numericScale())
		case c.Steps != 0:
			s.zoomSteps(c.Steps)
		}

	case viewer.ZoomReset:
		s.publish(event.ScaleChanging{Scale: viewer.DefaultScale})
		s.scale = viewer.DefaultScale

	case viewer.SetPage:
		s.setPageLocked(c.N)

	case viewer.TurnPage:
		s.setPageLocked(s.page + c.Delta)

	case viewer.RotatePages:
		s.rotation = s.rotation.Add(c.Delta)
		s.publish(event.RotationChanging{Rotation: s.rotation})

	case viewer.OpenFind:
		if !s.findOpen {
			s.findOpen = true
			s.publish(event.FindBarOpen{})
		}

	case viewer.CloseFind:
		if s.findOpen {
			s.findOpen = false
			s.publish(event.FindBarClose{})
		}

	case viewer.RepeatFind, viewer.MoveCaret, viewer.FocusViewer:
		// Accepted, but the text shell has no caret or search index yet.

	default:
		return false
	}

	return true
}

// StatusScale renders the scale for the status bar.
func (s *Screen) StatusScale() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.scale.Float(); ok {
		return strconv.Itoa(int(math.Round(f*100))) + "%"
	}

	if s.scale.IsSet() {
		return string(s.scale)
	}

	return "-"
}

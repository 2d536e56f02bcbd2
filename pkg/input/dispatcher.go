package input

import (
	"sync"

	"github.com/birchlabs/folio/pkg/viewer"
)

// Deferred wraps a command the embedder must apply on a zero-delay callback,
// after the platform's own pending adjustment for the same key has landed.
type Deferred struct {
	Cmd viewer.Command
}

// DispatchContext is the focus and capability context a key event is
// evaluated against.
type DispatchContext struct {
	// PresentationMode disables zoom shortcuts and trailing focus grabs.
	PresentationMode bool
	// OverlayActive short-circuits dispatch to a no-op (modifier tracking
	// still runs).
	OverlayActive bool
	// EditableFocus marks an input, textarea, select, or content-editable
	// focus target.
	EditableFocus bool
	// FocusIsButton marks a button focus target, which keeps Enter/Space for
	// itself.
	FocusIsButton bool
	// ViewerHasFocus suppresses the trailing focus request.
	ViewerHasFocus bool
	// PageFitsViewport gates the page-turn keys that double as scroll keys.
	PageFitsViewport bool
	// ScaleIsPageFit marks the current scale as the page-fit preset.
	ScaleIsPageFit bool
	// FindBarOpen enables Escape to close the find UI.
	FindBarOpen bool

	CurrentPage int
	PageCount   int

	// Capability flags.
	SupportsFind          bool
	SupportsCaretBrowsing bool

	// shiftHeld is stamped by Dispatch for the shift-tolerant primary
	// combos.
	shiftHeld bool
}

// handler produces commands for one table entry. Shared handlers are
// referenced from multiple entries instead of relying on switch fallthrough.
type handler func(ctx DispatchContext) (cmds []viewer.Command, handled bool)

// KeyCommandDispatcher maps key codes + modifier bitmask + focus context
// into viewer commands. Each modifier combination routes through its own
// table.
type KeyCommandDispatcher struct {
	primary  map[int]handler // ctrl or meta, optional shift
	plain    map[int]handler // no modifiers
	shifted  map[int]handler // shift only
	mu       sync.Mutex
	ctrlDown bool
}

func NewKeyCommandDispatcher() *KeyCommandDispatcher {
	d := &KeyCommandDispatcher{}
	d.buildTables()

	return d
}

// CtrlDown reports whether the ctrl key is physically held, tracked purely
// from key-down/up transitions. Best effort: fast focus-loss sequences may
// leave it stale until the next key event.
func (d *KeyCommandDispatcher) CtrlDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.ctrlDown
}

// OnKeyUp observes key releases for modifier tracking.
func (d *KeyCommandDispatcher) OnKeyUp(ev KeyEvent) {
	if ev.Code == KeyCtrl {
		d.mu.Lock()
		d.ctrlDown = false
		d.mu.Unlock()
	}
}

// ResetModifiers clears tracked modifier state, for focus-loss events.
func (d *KeyCommandDispatcher) ResetModifiers() {
	d.mu.Lock()
	d.ctrlDown = false
	d.mu.Unlock()
}

// Dispatch evaluates a key-down event. handled=true means the embedder must
// suppress the platform's default handling.
func (d *KeyCommandDispatcher) Dispatch(ev KeyEvent, ctx DispatchContext) ([]viewer.Command, bool) {
	d.mu.Lock()
	d.ctrlDown = ev.Code == KeyCtrl
	d.mu.Unlock()

	if ctx.OverlayActive {
		return nil, false
	}

	var (
		cmds    []viewer.Command
		handled bool
	)

	mask := ev.Modifiers()

	if mask == 1 || mask == 5 || mask == 8 || mask == 12 {
		if h, ok := d.primary[ev.Code]; ok {
			ctx.shiftHeld = ev.Shift
			cmds, handled = h(ctx)
			if handled {
				return cmds, true
			}
		}
	}

	// An editable focus target owns its keys; only Escape falls through.
	// Commands already produced (the deferred zoom reset) survive.
	if ctx.EditableFocus || (ctx.FocusIsButton && (ev.Code == KeyEnter || ev.Code == KeySpace)) {
		if ev.Code != KeyEscape {
			return cmds, false
		}
	}

	switch mask {
	case 0:
		if h, ok := d.plain[ev.Code]; ok {
			var tableCmds []viewer.Command

			tableCmds, handled = h(ctx)
			cmds = append(cmds, tableCmds...)
		}
	case 4:
		if h, ok := d.shifted[ev.Code]; ok {
			var tableCmds []viewer.Command

			tableCmds, handled = h(ctx)
			cmds = append(cmds, tableCmds...)
		}
	}

	if !handled && !ctx.PresentationMode {
		// Unclaimed navigation keys still pull focus toward the viewer, so
		// subsequent keys land there. Space on a button stays with the
		// button.
		isNav := (ev.Code >= KeyPageUp && ev.Code <= KeyDown) ||
			(ev.Code == KeySpace && !ctx.FocusIsButton)
		if isNav && !ctx.ViewerHasFocus {
			cmds = append(cmds, viewer.FocusViewer{})
		}
	}

	return cmds, handled
}

func (d *KeyCommandDispatcher) buildTables() {
	nextPage := func(DispatchContext) ([]viewer.Command, bool) {
		return []viewer.Command{viewer.TurnPage{Delta: 1}}, true
	}
	prevPage := func(DispatchContext) ([]viewer.Command, bool) {
		return []viewer.Command{viewer.TurnPage{Delta: -1}}, true
	}
	nextPageIfFits := func(ctx DispatchContext) ([]viewer.Command, bool) {
		if !ctx.PageFitsViewport {
			return nil, false
		}

		return nextPage(ctx)
	}
	prevPageIfFits := func(ctx DispatchContext) ([]viewer.Command, bool) {
		if !ctx.PageFitsViewport {
			return nil, false
		}

		return prevPage(ctx)
	}
	caret := func(dir viewer.CaretDirection, extend bool) handler {
		return func(ctx DispatchContext) ([]viewer.Command, bool) {
			if !ctx.SupportsCaretBrowsing {
				return nil, false
			}

			return []viewer.Command{viewer.MoveCaret{Dir: dir, Extend: extend}}, true
		}
	}
	firstPage := func(DispatchContext) ([]viewer.Command, bool) {
		return []viewer.Command{viewer.SetPage{N: 1}}, true
	}
	lastPage := func(ctx DispatchContext) ([]viewer.Command, bool) {
		return []viewer.Command{viewer.SetPage{N: ctx.PageCount}}, true
	}
	zoomIn := func(ctx DispatchContext) ([]viewer.Command, bool) {
		// Presentation mode skips the zoom but the combo stays claimed, so
		// the platform default is still suppressed.
		if ctx.PresentationMode {
			return nil, true
		}

		return []viewer.Command{viewer.ZoomIn{}}, true
	}
	zoomOut := func(ctx DispatchContext) ([]viewer.Command, bool) {
		if ctx.PresentationMode {
			return nil, true
		}

		return []viewer.Command{viewer.ZoomOut{}}, true
	}

	d.primary = map[int]handler{
		KeyF: func(ctx DispatchContext) ([]viewer.Command, bool) {
			// Find-open is shift-exempt: ctrl+shift+f belongs to the platform.
			if !ctx.SupportsFind || ctx.shiftHeld {
				return nil, false
			}

			return []viewer.Command{viewer.OpenFind{}}, true
		},
		KeyG: func(ctx DispatchContext) ([]viewer.Command, bool) {
			if !ctx.SupportsFind {
				return nil, false
			}

			return []viewer.Command{viewer.RepeatFind{Forward: !ctx.shiftHeld}}, true
		},
		KeyEquals:   zoomIn,
		KeyNumPlus:  zoomIn,
		KeyEqualsWK: zoomIn,
		KeyPlusFF:   zoomIn,
		KeyMinus:    zoomOut,
		KeyNumMinus: zoomOut,
		KeyMinusWK:  zoomOut,
		Key0:        zoomResetDeferred,
		KeyNum0:     zoomResetDeferred,
		KeyUp: func(ctx DispatchContext) ([]viewer.Command, bool) {
			return []viewer.Command{viewer.SetPage{N: 1}, viewer.FocusViewer{}}, true
		},
		KeyDown: func(ctx DispatchContext) ([]viewer.Command, bool) {
			return []viewer.Command{viewer.SetPage{N: ctx.PageCount}, viewer.FocusViewer{}}, true
		},
	}

	d.plain = map[int]handler{
		KeyUp: func(ctx DispatchContext) ([]viewer.Command, bool) {
			if ctx.SupportsCaretBrowsing {
				return caret(viewer.CaretUp, false)(ctx)
			}

			return prevPageIfFits(ctx)
		},
		KeyDown: func(ctx DispatchContext) ([]viewer.Command, bool) {
			if ctx.SupportsCaretBrowsing {
				return caret(viewer.CaretDown, false)(ctx)
			}

			return nextPageIfFits(ctx)
		},
		KeyPageUp:    prevPageIfFits,
		KeyPageDown:  nextPageIfFits,
		KeyBackspace: prevPageIfFits,
		KeyLeft:      prevPageIfFits,
		KeyRight:     nextPageIfFits,
		KeyEnter:     nextPage,
		KeySpace:     nextPage,
		KeyJ:         nextPage,
		KeyN:         nextPage,
		KeyK:         prevPage,
		KeyP:         prevPage,
		KeyHome:      firstPage,
		KeyEnd:       lastPage,
		KeyR: func(DispatchContext) ([]viewer.Command, bool) {
			return []viewer.Command{viewer.RotatePages{Delta: 90}}, true
		},
		KeyEscape: func(ctx DispatchContext) ([]viewer.Command, bool) {
			if !ctx.FindBarOpen {
				return nil, false
			}

			return []viewer.Command{viewer.CloseFind{}}, true
		},
	}

	prevPageShift := func(ctx DispatchContext) ([]viewer.Command, bool) {
		if !ctx.PresentationMode && !ctx.ScaleIsPageFit {
			return nil, false
		}

		return prevPage(ctx)
	}

	d.shifted = map[int]handler{
		KeyEnter: prevPageShift,
		KeySpace: prevPageShift,
		KeyUp:    caret(viewer.CaretUp, true),
		KeyDown:  caret(viewer.CaretDown, true),
		KeyR: func(DispatchContext) ([]viewer.Command, bool) {
			return []viewer.Command{viewer.RotatePages{Delta: -90}}, true
		},
	}
}

// zoomResetDeferred emits the 100% reset behind a Deferred marker and leaves
// the event unhandled, so the platform applies its own zoom reset first.
func zoomResetDeferred(ctx DispatchContext) ([]viewer.Command, bool) {
	if ctx.PresentationMode {
		return nil, false
	}

	return []viewer.Command{Deferred{Cmd: viewer.ZoomReset{}}}, false
}

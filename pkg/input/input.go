// Package input translates raw, noisy input-device signals into discrete
// viewer commands: wheel events through the gesture interpreter, key events
// through the modifier-routed command dispatcher, and native scroll activity
// through the scroll state tracker.
package input

// DeltaMode is the granularity a wheel event reports its deltas in.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is a raw wheel signal as delivered by the embedder.
type WheelEvent struct {
	DeltaX    float64
	DeltaY    float64
	DeltaZ    float64
	ClientX   float64
	ClientY   float64
	DeltaMode DeltaMode
	CtrlKey   bool
	MetaKey   bool
}

// KeyEvent is a raw key signal. Code is the platform key code; the modifier
// flags are the ambient modifier state at event time.
type KeyEvent struct {
	Code  int
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Modifiers returns the dispatch bitmask: ctrl | alt<<1 | shift<<2 | meta<<3.
func (e KeyEvent) Modifiers() int {
	mask := 0
	if e.Ctrl {
		mask |= 1
	}
	if e.Alt {
		mask |= 2
	}
	if e.Shift {
		mask |= 4
	}
	if e.Meta {
		mask |= 8
	}

	return mask
}

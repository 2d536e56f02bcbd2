package input

import "sync"

// ScrollStateTracker observes native scroll activity on the viewport
// container and exposes a "currently scrolling" signal. While scrolling, the
// embedder is expected to stop feeding scroll observations and instead wait
// for a settle signal (idle timeout or focus loss) to avoid event-storm
// overhead.
type ScrollStateTracker struct {
	lastX     float64
	lastY     float64
	mu        sync.Mutex
	scrolling bool
}

func NewScrollStateTracker() *ScrollStateTracker {
	return &ScrollStateTracker{}
}

// OnScroll observes the current scroll position. It marks the tracker
// scrolling when the position actually changed and no modifier-held zoom
// gesture is in progress. It returns true when the tracker switched into the
// scrolling state, telling the embedder to listen for settle instead.
func (t *ScrollStateTracker) OnScroll(x, y float64, modifierZoomActive bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.scrolling {
		return false
	}

	if x == t.lastX && y == t.lastY {
		return false
	}

	if modifierZoomActive {
		// Zoom gestures move the scroll position as a side effect; that is
		// not user scrolling.
		t.lastX, t.lastY = x, y

		return false
	}

	t.scrolling = true

	return true
}

// OnSettle records the final position and resumes position-change listening.
// Driven by the embedder's idle timeout or blur.
func (t *ScrollStateTracker) OnSettle(x, y float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastX, t.lastY = x, y
	t.scrolling = false
}

// IsScrolling is a pure read consumed by the gesture interpreter.
func (t *ScrollStateTracker) IsScrolling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.scrolling
}

package input

import (
	"math"

	"github.com/birchlabs/folio/pkg/viewer"
)

// pixelsPerLine converts pixel-granularity wheel deltas into line-equivalent
// ticks.
const pixelsPerLine = 30.0

// pinchTolerance bounds how far a synthetic ctrl-wheel scale factor may sit
// from unity and still be attributed to a trackpad pinch.
const pinchTolerance = 0.05

// GestureConfig carries the platform capability flags consulted during wheel
// classification.
type GestureConfig struct {
	// SupportsPinchToZoom enables continuous pinch zooming; without it pinch
	// events degrade to tick-quantized zoom.
	SupportsPinchToZoom bool
	// ZoomOnCtrlWheel and ZoomOnMetaWheel enable modifier-held wheel zoom.
	ZoomOnCtrlWheel bool
	ZoomOnMetaWheel bool
	// WaivePinchTolerance marks platforms whose pinch events legitimately
	// produce scale factors outside the tolerance window.
	WaivePinchTolerance bool
}

// DefaultGestureConfig matches the common desktop platform profile.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		SupportsPinchToZoom: true,
		ZoomOnCtrlWheel:     true,
	}
}

// GestureEnv is the per-event environment the interpreter gates on.
type GestureEnv struct {
	// CtrlPhysicallyDown is the dispatcher's key-transition-tracked ctrl
	// state, used to tell synthetic pinch ctrl from a held ctrl key.
	CtrlPhysicallyDown bool
	// Scrolling, Hidden and OverlayActive suppress zoom emission (the
	// default handling stays suppressed regardless).
	Scrolling     bool
	Hidden        bool
	OverlayActive bool
	// CurrentScale is the viewer's numeric scale, anchoring pinch
	// accumulation.
	CurrentScale float64
}

// GestureInterpreter classifies wheel events into pinch-zoom, modifier-zoom
// or ordinary scroll, quantizing sub-unit deltas through its accumulator.
// Not safe for concurrent use; it is owned by the embedder's input loop.
type GestureInterpreter struct {
	acc *accumulator
	cfg GestureConfig
}

func NewGestureInterpreter(cfg GestureConfig) *GestureInterpreter {
	return &GestureInterpreter{
		cfg: cfg,
		acc: newAccumulator(),
	}
}

// ClassifyWheel runs on every wheel event. handled=true means the event was
// recognized as a zoom gesture and the embedder must suppress the platform's
// default handling; cmd may still be nil when emission is gated. handled=
// false means ordinary scroll: pass the event through untouched.
func (g *GestureInterpreter) ClassifyWheel(ev WheelEvent, env GestureEnv) (viewer.Command, bool) {
	scaleFactor := math.Exp(-ev.DeltaY / 100)

	isPinch := ev.CtrlKey &&
		!env.CtrlPhysicallyDown &&
		ev.DeltaMode == DeltaPixel &&
		ev.DeltaX == 0 &&
		(math.Abs(scaleFactor-1) < pinchTolerance || g.cfg.WaivePinchTolerance) &&
		ev.DeltaZ == 0

	isModifierZoom := (ev.CtrlKey && g.cfg.ZoomOnCtrlWheel) ||
		(ev.MetaKey && g.cfg.ZoomOnMetaWheel)

	if !isPinch && !isModifierZoom {
		return nil, false
	}

	// The gesture is ours even when emission is gated below.
	if env.Scrolling || env.Hidden || env.OverlayActive {
		return nil, true
	}

	origin := viewer.Point{X: ev.ClientX, Y: ev.ClientY}

	if isPinch && g.cfg.SupportsPinchToZoom {
		newScale := g.acc.accumulateFactor(env.CurrentScale, scaleFactor)
		if newScale == 1 {
			return nil, true
		}

		return viewer.ZoomTo{Scale: newScale, Origin: origin}, true
	}

	delta := normalizeWheelDirection(ev)

	var ticks int
	if ev.DeltaMode == DeltaLine || ev.DeltaMode == DeltaPage {
		// Line and page granularity devices send at most one meaningful tick
		// per event; smaller magnitudes accumulate fractionally.
		if math.Abs(delta) >= 1 {
			ticks = int(math.Copysign(1, delta))
		} else {
			ticks = g.acc.accumulateTicks(delta)
		}
	} else {
		ticks = g.acc.accumulateTicks(delta / pixelsPerLine)
	}

	if ticks == 0 {
		return nil, true
	}

	return viewer.ZoomTo{Steps: ticks, Origin: origin}, true
}

// Reset clears accumulated sub-unit state, for document transitions.
func (g *GestureInterpreter) Reset() {
	g.acc.reset()
}

// normalizeWheelDirection folds both delta axes into one signed magnitude,
// oriented so that wheel-up means zoom in.
func normalizeWheelDirection(ev WheelEvent) float64 {
	delta := math.Hypot(ev.DeltaX, ev.DeltaY)

	angle := math.Atan2(ev.DeltaY, ev.DeltaX)
	if -math.Pi/4 < angle && angle < 3*math.Pi/4 {
		// Wheel moved down or right.
		delta = -delta
	}

	return delta
}

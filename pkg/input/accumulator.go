package input

import "math"

// accumulator quantizes continuous input into whole steps without losing
// sub-step precision. It holds two independent fractional remainders: one
// for discrete wheel ticks, one for continuous pinch scale factors. Each
// resets whenever the direction of incoming input reverses relative to the
// stored remainder, so remainders never fight fresh input.
type accumulator struct {
	unusedTicks  float64
	unusedFactor float64
}

func newAccumulator() *accumulator {
	return &accumulator{unusedFactor: 1}
}

// accumulateTicks folds ticks into the stored remainder and extracts the
// whole part. The remainder stays strictly below one unit in magnitude.
func (a *accumulator) accumulateTicks(ticks float64) int {
	if (a.unusedTicks > 0 && ticks < 0) || (a.unusedTicks < 0 && ticks > 0) {
		a.unusedTicks = 0
	}

	a.unusedTicks += ticks

	whole := math.Trunc(a.unusedTicks)
	a.unusedTicks -= whole

	return int(whole)
}

// accumulateFactor folds a pinch scale factor toward a value that lands the
// resulting scale on a whole percent, storing the leftover for the next
// event. prevScale is the viewer's current numeric scale.
func (a *accumulator) accumulateFactor(prevScale, factor float64) float64 {
	if factor == 1 {
		return 1
	}

	if (a.unusedFactor < 1) != (factor < 1) {
		a.unusedFactor = 1
	}

	newFactor := math.Floor(prevScale*factor*a.unusedFactor*100) / (100 * prevScale)
	a.unusedFactor = factor / newFactor

	return newFactor
}

func (a *accumulator) reset() {
	a.unusedTicks = 0
	a.unusedFactor = 1
}

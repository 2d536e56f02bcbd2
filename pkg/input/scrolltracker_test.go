package input_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birchlabs/folio/pkg/input"
)

func TestScrollStateTracker(t *testing.T) {
	t.Parallel()

	tr := input.NewScrollStateTracker()
	assert.False(t, tr.IsScrolling())

	// Unchanged position does not start scrolling.
	assert.False(t, tr.OnScroll(0, 0, false))
	assert.False(t, tr.IsScrolling())

	// A position change does.
	assert.True(t, tr.OnScroll(0, 120, false))
	assert.True(t, tr.IsScrolling())

	// Further observations while scrolling are ignored.
	assert.False(t, tr.OnScroll(0, 240, false))

	tr.OnSettle(0, 240)
	assert.False(t, tr.IsScrolling())

	// Settle recorded the final position, so re-observing it is no change.
	assert.False(t, tr.OnScroll(0, 240, false))
}

func TestScrollStateTrackerIgnoresZoomScrolls(t *testing.T) {
	t.Parallel()

	tr := input.NewScrollStateTracker()

	// Position moved by a modifier-held zoom gesture: not user scrolling,
	// but the position is still recorded.
	assert.False(t, tr.OnScroll(0, 80, true))
	assert.False(t, tr.IsScrolling())
	assert.False(t, tr.OnScroll(0, 80, false))
}

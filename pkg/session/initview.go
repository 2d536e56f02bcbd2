package session

import (
	"context"
	"log/slog"

	"github.com/birchlabs/folio/pkg/log"
	"github.com/birchlabs/folio/pkg/viewer"
)

// setInitialView applies stored navigation state, falling back to the
// document's own declared preferences where nothing was stored. A hash is
// only honored together with the stored rotation; without one, the viewer
// keeps its defaults. The scale is always left set.
func (c *Controller) setInitialView(ctx context.Context, hash string, st StoredState, prefs docPrefs) {
	if st.ScrollMode.IsValid() {
		c.viewer.SetScrollMode(st.ScrollMode)
	}

	if st.SpreadMode.IsValid() {
		c.viewer.SetSpreadMode(st.SpreadMode)
	}

	// The page layout declared by the document only counts when the user
	// never expressed a preference of their own, and only for the spread
	// half of the mapping: the scroll direction stays with the viewer.
	if st.ScrollMode == viewer.ScrollUnknown && st.SpreadMode == viewer.SpreadUnknown && prefs.layout != "" {
		_, spread, err := viewer.ModesForPageLayout(prefs.layout)
		if err != nil {
			log.WithContext(ctx).DebugContext(ctx, "unrecognized page layout",
				slog.String("layout", prefs.layout),
			)
		}

		if spread.IsValid() {
			c.viewer.SetSpreadMode(spread)
		}
	}

	if hash != "" {
		if st.HasRotation && st.Rotation.IsValid() {
			c.viewer.SetPagesRotation(st.Rotation)
		}

		c.links.SetHash(hash)
	}

	if !c.viewer.CurrentScaleValue().IsSet() {
		c.viewer.SetCurrentScaleValue(viewer.DefaultScale)
	}
}

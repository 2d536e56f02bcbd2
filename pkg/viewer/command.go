package viewer

// Command is a discrete instruction emitted by the input translators and
// consumed by the viewer. Commands are transient values; they are never
// stored.
type Command any

// Point is a viewport-relative coordinate used as a zoom anchor.
type Point struct {
	X float64
	Y float64
}

// CaretDirection is the movement axis for caret browsing.
type CaretDirection int

const (
	CaretUp CaretDirection = iota
	CaretDown
)

type (
	// ZoomIn and ZoomOut step the zoom by one increment.
	ZoomIn  struct{}
	ZoomOut struct{}

	// ZoomTo zooms around Origin. Exactly one of Scale (a continuous factor
	// relative to the current scale) or Steps (whole zoom increments, signed)
	// is set.
	ZoomTo struct {
		Scale  float64
		Steps  int
		Origin Point
	}

	// ZoomReset returns to the default scale.
	ZoomReset struct{}

	// SetPage jumps to an absolute page number (1-based).
	SetPage struct {
		N int
	}

	// TurnPage flips forward or backward by Delta pages.
	TurnPage struct {
		Delta int
	}

	// RotatePages rotates all pages by Delta degrees (multiple of 90).
	RotatePages struct {
		Delta int
	}

	// MoveCaret moves the caret when caret browsing is enabled, optionally
	// extending the selection.
	MoveCaret struct {
		Dir    CaretDirection
		Extend bool
	}

	// OpenFind opens the find bar.
	OpenFind struct{}

	// RepeatFind repeats the previous search in the given direction.
	RepeatFind struct {
		Forward bool
	}

	// CloseFind dismisses the find bar.
	CloseFind struct{}

	// FocusViewer requests keyboard focus for the viewer container.
	FocusViewer struct{}
)

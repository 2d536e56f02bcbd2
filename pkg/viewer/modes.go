// Package viewer defines the value types shared between the input
// translators, the document session, and viewer implementations: scale,
// rotation, scroll and spread modes, and the commands emitted toward the
// viewer.
package viewer

import (
	"fmt"
	"strconv"
)

// ScaleValue is either a named zoom preset or a numeric scale factor
// rendered as a string, mirroring how viewers address both uniformly.
type ScaleValue string

const (
	ScaleAuto       ScaleValue = "auto"
	ScalePageFit    ScaleValue = "page-fit"
	ScalePageWidth  ScaleValue = "page-width"
	ScalePageActual ScaleValue = "page-actual"

	// DefaultScale is the guaranteed fallback applied when no stored state or
	// document preference produced a concrete scale.
	DefaultScale = ScaleAuto

	// MinScale and MaxScale clamp numeric zoom.
	MinScale = 0.1
	MaxScale = 10.0
)

// NumericScale renders a scale factor as a [ScaleValue].
func NumericScale(f float64) ScaleValue {
	return ScaleValue(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float returns the numeric value of the scale, or false for named presets
// and empty values.
func (s ScaleValue) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

// IsSet reports whether a concrete scale has been assigned.
func (s ScaleValue) IsSet() bool {
	return s != ""
}

// Rotation is a page rotation in degrees, one of 0, 90, 180, 270.
type Rotation int

// IsValid reports whether the rotation is one of the four allowed values.
func (r Rotation) IsValid() bool {
	switch r {
	case 0, 90, 180, 270:
		return true
	}

	return false
}

// Add returns the rotation turned by delta degrees, normalized to [0, 360).
func (r Rotation) Add(delta int) Rotation {
	return Rotation(((int(r)+delta)%360 + 360) % 360)
}

// ScrollMode controls the scroll axis and paging behavior of the viewer.
type ScrollMode int

const (
	ScrollUnknown    ScrollMode = -1
	ScrollVertical   ScrollMode = 0
	ScrollHorizontal ScrollMode = 1
	ScrollWrapped    ScrollMode = 2
	ScrollPage       ScrollMode = 3
)

func (m ScrollMode) IsValid() bool {
	switch m {
	case ScrollVertical, ScrollHorizontal, ScrollWrapped, ScrollPage:
		return true
	case ScrollUnknown:
	}

	return false
}

func (m ScrollMode) String() string {
	switch m {
	case ScrollVertical:
		return "vertical"
	case ScrollHorizontal:
		return "horizontal"
	case ScrollWrapped:
		return "wrapped"
	case ScrollPage:
		return "page"
	case ScrollUnknown:
	}

	return "unknown"
}

// SpreadMode controls page grouping into spreads.
type SpreadMode int

const (
	SpreadUnknown SpreadMode = -1
	SpreadNone    SpreadMode = 0
	SpreadOdd     SpreadMode = 1
	SpreadEven    SpreadMode = 2
)

func (m SpreadMode) IsValid() bool {
	switch m {
	case SpreadNone, SpreadOdd, SpreadEven:
		return true
	case SpreadUnknown:
	}

	return false
}

func (m SpreadMode) String() string {
	switch m {
	case SpreadNone:
		return "none"
	case SpreadOdd:
		return "odd"
	case SpreadEven:
		return "even"
	case SpreadUnknown:
	}

	return "unknown"
}

// ModesForPageLayout maps a document-declared page layout preference onto
// viewer scroll and spread modes. Unrecognized layouts yield unknown modes.
func ModesForPageLayout(layout string) (ScrollMode, SpreadMode, error) {
	switch layout {
	case "SinglePage":
		return ScrollPage, SpreadNone, nil
	case "OneColumn":
		return ScrollVertical, SpreadNone, nil
	case "TwoColumnLeft":
		return ScrollVertical, SpreadOdd, nil
	case "TwoColumnRight":
		return ScrollVertical, SpreadEven, nil
	case "TwoPageLeft":
		return ScrollPage, SpreadOdd, nil
	case "TwoPageRight":
		return ScrollPage, SpreadEven, nil
	case "":
		return ScrollUnknown, SpreadUnknown, nil
	}

	return ScrollUnknown, SpreadUnknown, fmt.Errorf("unrecognized page layout: %q", layout)
}

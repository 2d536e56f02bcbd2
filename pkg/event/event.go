// Package event provides the notification bus connecting the document
// session to the viewer shell and other collaborators.
package event

import (
	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/viewer"
)

// Event is a marker for bus payloads.
type Event any

type (
	// DocumentInit fires after the initial view has been resolved, before any
	// user interaction is expected.
	DocumentInit struct {
		FileName string
		Pages    int
	}

	// DocumentLoaded fires once the first page has rendered and the document
	// content length is known.
	DocumentLoaded struct {
		ContentLength int64
	}

	// DocumentError reports a failed open, classified into a kind with a
	// localized message key.
	DocumentError struct {
		Err        error
		MessageKey string
		Kind       document.ErrorKind
	}

	// MetadataLoaded carries the lazily-resolved document information.
	MetadataLoaded struct {
		Info document.Info
	}

	// PageRendered fires when the renderer finishes a page.
	PageRendered struct {
		PageNumber int
	}

	// ScaleChanging fires before a scale change is applied.
	ScaleChanging struct {
		Scale viewer.ScaleValue
	}

	// RotationChanging fires before a rotation change is applied.
	RotationChanging struct {
		Rotation viewer.Rotation
	}

	// Resize indicates the viewport dimensions changed.
	Resize struct {
		Width  int
		Height int
	}

	// FindBarOpen and FindBarClose track the find UI state consumed by the
	// key dispatcher.
	FindBarOpen  struct{}
	FindBarClose struct{}
)

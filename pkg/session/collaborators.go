// Package session owns the lifecycle of a single loaded document: it opens
// and closes loading tasks, sequences the asynchronous metadata probes, and
// resolves the initial view without racing the renderer.
package session

import (
	"github.com/birchlabs/folio/pkg/document"
	"github.com/birchlabs/folio/pkg/viewer"
)

// Viewer is the rendering collaborator. Its internals (layout, pixels) are
// out of scope here; the session only drives it through this surface.
type Viewer interface {
	// SetDocument attaches a document, or detaches with nil.
	SetDocument(doc document.Document)

	CurrentScaleValue() viewer.ScaleValue
	SetCurrentScaleValue(scale viewer.ScaleValue)

	CurrentPageNumber() int
	SetCurrentPageNumber(n int)

	PagesRotation() viewer.Rotation
	SetPagesRotation(r viewer.Rotation)

	ScrollMode() viewer.ScrollMode
	SetScrollMode(m viewer.ScrollMode)

	SpreadMode() viewer.SpreadMode
	SetSpreadMode(m viewer.SpreadMode)

	// Update re-issues a render pass. Refresh forces re-rendering of already
	// rendered pages.
	Update()
	Refresh()
	Focus()

	IsInPresentationMode() bool
	HasEqualPageSizes() bool

	// Rendering milestones. FirstPage settles when the renderer holds the
	// first page, OnePageRendered when the first paint has started, Pages
	// when every page has been measured.
	FirstPage() *viewer.Future[int]
	OnePageRendered() *viewer.Future[struct{}]
	Pages() *viewer.Future[struct{}]
}

// LinkService resolves internal destinations. The session only attaches and
// detaches documents and forwards stored navigation hashes.
type LinkService interface {
	SetDocument(doc document.Document, baseURL string)
	SetHash(hash string)
}

// StoredState is the navigation state remembered for a document between
// sessions. The zero value carries unknown modes; use NewStoredState.
type StoredState struct {
	Hash        string
	Rotation    viewer.Rotation
	ScrollMode  viewer.ScrollMode
	SpreadMode  viewer.SpreadMode
	HasRotation bool
}

// NewStoredState returns a state with both modes unknown.
func NewStoredState() StoredState {
	return StoredState{
		ScrollMode: viewer.ScrollUnknown,
		SpreadMode: viewer.SpreadUnknown,
	}
}

// StateStore remembers per-document navigation state. Implementations are
// external; the session only reads.
type StateStore interface {
	Load(name string) (StoredState, bool)
}

// Package document defines the boundary to the document-parsing engine: the
// engine interface, the cancellable loading task, and the classification of
// open failures into user-reportable kinds.
package document

import (
	"context"
)

// Info is the document information dictionary, resolved lazily after load.
type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string
	ModDate      string
}

// PageMode is the document-declared UI hint for the sidebar state.
type PageMode string

const (
	PageModeNone           PageMode = "UseNone"
	PageModeOutlines       PageMode = "UseOutlines"
	PageModeThumbs         PageMode = "UseThumbs"
	PageModeFullScreen     PageMode = "FullScreen"
	PageModeOptionalGroups PageMode = "UseOC"
	PageModeAttachments    PageMode = "UseAttachments"
)

// OpenAction is the document-declared action to perform on open, reduced to
// the destination hash the viewer can honor.
type OpenAction struct {
	Dest string
}

// DownloadInfo reports the byte length of the full document.
type DownloadInfo struct {
	Length int64
}

// OpenParams addresses a document to open.
type OpenParams struct {
	// Path is a local filesystem path.
	Path string
	// OriginalURL optionally records where the document came from, for
	// display and download purposes only.
	OriginalURL string
}

// Document is an immutable handle to a loaded document. It is owned
// exclusively by the session that opened it and released on close.
type Document interface {
	// NumPages returns the page count.
	NumPages() int
	// FileName returns the suggested filename for downloads.
	FileName() string
	// GetMetadata resolves the information dictionary.
	GetMetadata(ctx context.Context) (Info, error)
	// GetPageLayout resolves the declared page layout name ("" if absent).
	GetPageLayout(ctx context.Context) (string, error)
	// GetPageMode resolves the declared page mode.
	GetPageMode(ctx context.Context) (PageMode, error)
	// GetOpenAction resolves the declared open action (nil if absent).
	GetOpenAction(ctx context.Context) (*OpenAction, error)
	// GetDownloadInfo resolves the document content length.
	GetDownloadInfo(ctx context.Context) (DownloadInfo, error)
	// PageSize returns the media box dimensions of page n (1-based).
	PageSize(ctx context.Context, n int) (width, height float64, err error)
	// Cleanup releases transient resources, optionally keeping ones that are
	// expensive to rebuild.
	Cleanup(keepResources bool) error
}

// Engine opens documents. Implementations settle the returned task's future
// asynchronously.
type Engine interface {
	Open(ctx context.Context, params OpenParams) (*LoadingTask, error)
}

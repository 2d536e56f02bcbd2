package document

import (
	"errors"
	"io/fs"
)

// Sentinel errors engines wrap their failures with so they classify cleanly.
var (
	// ErrStructureInvalid indicates the document bytes are not a valid
	// document structure.
	ErrStructureInvalid = errors.New("invalid document structure")

	// ErrResourceMissing indicates the document could not be found.
	ErrResourceMissing = errors.New("document resource missing")

	// ErrTransportUnexpected indicates the transport returned something other
	// than the document (truncated reads, bad server responses).
	ErrTransportUnexpected = errors.New("unexpected transport response")
)

// ErrorKind classifies an open failure for user-facing reporting.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindStructureInvalid
	KindResourceMissing
	KindTransportUnexpected
)

func (k ErrorKind) String() string {
	switch k {
	case KindStructureInvalid:
		return "structure-invalid"
	case KindResourceMissing:
		return "resource-missing"
	case KindTransportUnexpected:
		return "transport-unexpected"
	case KindGeneric:
	}

	return "generic"
}

// MessageKey returns the localized message key reported to the user. The
// session never renders message text itself; localization is external.
func (k ErrorKind) MessageKey() string {
	switch k {
	case KindStructureInvalid:
		return "folio-invalid-file-error"
	case KindResourceMissing:
		return "folio-missing-file-error"
	case KindTransportUnexpected:
		return "folio-unexpected-response-error"
	case KindGeneric:
	}

	return "folio-loading-error"
}

// Classify maps an open failure onto an [ErrorKind].
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrStructureInvalid):
		return KindStructureInvalid
	case errors.Is(err, ErrResourceMissing), errors.Is(err, fs.ErrNotExist):
		return KindResourceMissing
	case errors.Is(err, ErrTransportUnexpected):
		return KindTransportUnexpected
	}

	return KindGeneric
}

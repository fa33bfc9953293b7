package loader

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier is returned for region or cuisine ids that cannot
// name a document (empty, containing a path separator, or a dot segment).
var ErrInvalidIdentifier = errors.New("invalid identifier")

// IndexLoadError is fatal: the data index could not be fetched or does not
// list both regions and cuisines.
type IndexLoadError struct {
	Err error
}

func (e *IndexLoadError) Error() string {
	return fmt.Sprintf("loading data index: %v", e.Err)
}

func (e *IndexLoadError) Unwrap() error { return e.Err }

// FetchError reports a non-2xx response, a transport failure (Status 0) or
// a body that is not valid JSON.
type FetchError struct {
	Status int
	URL    string
	Err    error
}

func (e *FetchError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: HTTP %d: %v", e.URL, e.Status, e.Err)
	default:
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// StructuralError reports valid JSON with the wrong shape.
type StructuralError struct {
	URL    string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("unexpected document shape at %s: %s", e.URL, e.Reason)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// Error kinds used as the "kind" log field.
const (
	KindIndex      = "index"
	KindFetch      = "fetch"
	KindStructural = "structural"
	KindOther      = "other"
)

// Kind classifies err for logging. Anything wrapped in an IndexLoadError is
// KindIndex regardless of its cause.
func Kind(err error) string {
	var structural *StructuralError
	var fetch *FetchError
	var index *IndexLoadError
	switch {
	case errors.As(err, &index):
		return KindIndex
	case errors.As(err, &structural):
		return KindStructural
	case errors.As(err, &fetch):
		return KindFetch
	default:
		return KindOther
	}
}

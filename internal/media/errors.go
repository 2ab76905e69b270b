package media

import (
	"errors"
	"fmt"
)

// Expected failure kinds. The orchestrator converts each of these into a
// single user-visible reply; none of them is ever process-fatal.
var (
	ErrMetadataFetch    = errors.New("metadata fetch failed")
	ErrDurationExceeded = errors.New("duration exceeds the allowed ceiling")
	ErrSelectionExpired = errors.New("selection expired")
	ErrNoRenditions     = errors.New("no renditions available")
	ErrMediaFetch       = errors.New("media fetch failed")
	ErrExtraction       = errors.New("audio extraction failed")
)

// RenditionError reports an exact-match miss: the requested height was not
// among the available renditions. No fallback download is attempted.
type RenditionError struct {
	Height int
}

func (e *RenditionError) Error() string {
	return fmt.Sprintf("no rendition available at %dp", e.Height)
}

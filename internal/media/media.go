package media

import "context"

// Platform identifies the source platform of a submitted URL.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

// CanonicalURL is the platform-tagged, normalized form of a user-submitted
// link. It is immutable once computed.
type CanonicalURL struct {
	Platform Platform
	URL      string
}

// Info describes a video without downloading it. Renditions holds the
// distinct available vertical resolutions in ascending order; it may be
// empty for platforms that only offer a single variant.
type Info struct {
	Title           string
	DurationSeconds int
	Renditions      []int
}

// SelectionKind distinguishes the two things a user can ask for.
type SelectionKind string

const (
	SelectionAudio SelectionKind = "audio"
	SelectionVideo SelectionKind = "video"
)

// Selection is the user's download choice. Height is only meaningful when
// Kind is SelectionVideo and must match an advertised rendition exactly.
type Selection struct {
	Kind   SelectionKind
	Height int
}

// Sink receives artifact paths as they are produced, so the caller can
// guarantee cleanup even when a later step fails. Fetch clients must report
// every file they create, including intermediates.
type Sink interface {
	Track(path string)
}

// MetadataClient fetches video information without downloading media.
type MetadataClient interface {
	FetchInfo(ctx context.Context, u CanonicalURL) (*Info, error)
}

// FetchClient downloads media for a selection into dir and returns the path
// to the final artifact. Every created file is reported to sink.
type FetchClient interface {
	Fetch(ctx context.Context, u CanonicalURL, sel Selection, dir string, sink Sink) (string, error)
}

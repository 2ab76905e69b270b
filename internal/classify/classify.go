// Package classify determines the source platform of a pasted link and
// normalizes it into its canonical form.
package classify

import (
	"net/url"
	"strings"

	"github.com/vidsnap/bot/internal/media"
)

// LooksLikeURL reports whether text plausibly contains a link. Inputs are
// pasted by users, so a substring check is sufficient.
func LooksLikeURL(text string) bool {
	return strings.Contains(text, "http")
}

// Classify inspects a raw message and returns its canonical form. Only
// the URL token itself is kept: surrounding words would bloat callback
// payloads past the transport's size limit. Unknown platforms are tagged
// media.PlatformUnknown and must not be processed further by the caller.
func Classify(raw string) media.CanonicalURL {
	s := urlToken(raw)
	switch {
	case strings.Contains(s, "youtube.com"), strings.Contains(s, "youtu.be"):
		return media.CanonicalURL{Platform: media.PlatformYouTube, URL: s}
	case strings.Contains(s, "instagram.com"):
		return media.CanonicalURL{Platform: media.PlatformInstagram, URL: NormalizeInstagram(s)}
	default:
		return media.CanonicalURL{Platform: media.PlatformUnknown, URL: s}
	}
}

// urlToken returns the first whitespace-delimited field of raw that looks
// like a link, or the trimmed input when no field does.
func urlToken(raw string) string {
	for _, f := range strings.Fields(raw) {
		if strings.Contains(f, "http") {
			return f
		}
	}
	return strings.TrimSpace(raw)
}

// instagram path segments that are followed by a content ID.
var instagramContentSegments = map[string]bool{
	"p":     true,
	"reel":  true,
	"reels": true,
	"tv":    true,
}

// NormalizeInstagram strips tracking query parameters, the fragment, and any
// path segments after the content identifier. Normalization is idempotent.
func NormalizeInstagram(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.RawQuery = ""
	u.Fragment = ""

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if instagramContentSegments[seg] && i+1 < len(segments) {
			u.Path = "/" + strings.Join(segments[:i+2], "/") + "/"
			break
		}
	}
	return u.String()
}

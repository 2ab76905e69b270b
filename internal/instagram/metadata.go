// Package instagram implements the Instagram metadata and media fetch
// clients. Instagram only ever offers two fixed choices (video, or audio
// extracted from the video), so its metadata carries no renditions.
package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/vidsnap/bot/internal/media"
)

const (
	maxBodySize    = 1 << 20 // 1 MB
	userAgentValue = "vidsnapbot/1.0"

	fallbackTitle = "Instagram video"
)

// MetadataClient scrapes the post page for its Open Graph title. It never
// downloads media.
type MetadataClient struct {
	client *http.Client
}

// NewMetadataClient creates a MetadataClient. If client is nil the default
// HTTP client is used; timeouts come from the caller's context.
func NewMetadataClient(client *http.Client) *MetadataClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &MetadataClient{client: client}
}

func (c *MetadataClient) FetchInfo(ctx context.Context, u media.CanonicalURL) (*media.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrMetadataFetch, err)
	}
	req.Header.Set("User-Agent", userAgentValue)
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrMetadataFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", media.ErrMetadataFetch, resp.StatusCode)
	}

	title := parseTitle(io.LimitReader(resp.Body, maxBodySize))
	if title == "" {
		title = fallbackTitle
	}

	// Duration and renditions are unknown until download; that is fine,
	// the Instagram branch never presents a rendition choice.
	return &media.Info{Title: title}, nil
}

// parseTitle extracts og:title, falling back to the <title> tag.
func parseTitle(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	var fallback string

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return fallback

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := tokenizer.TagName()
			tag := string(tn)

			if tag == "body" {
				return fallback
			}

			if tag == "title" && fallback == "" {
				if tokenizer.Next() == html.TextToken {
					fallback = strings.TrimSpace(string(tokenizer.Text()))
				}
				continue
			}

			if tag == "meta" && hasAttr {
				attrs := readAttrs(tokenizer)
				if attrs["property"] == "og:title" && attrs["content"] != "" {
					return attrs["content"]
				}
			}
		}
	}
}

// readAttrs collects all attributes from the current tag token.
func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		key, val, more := z.TagAttr()
		attrs[string(key)] = string(val)
		if !more {
			return attrs
		}
	}
}

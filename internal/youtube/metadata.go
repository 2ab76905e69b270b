// Package youtube implements the YouTube metadata and media fetch clients.
package youtube

import (
	"context"
	"fmt"
	"sort"

	ytapi "github.com/kkdai/youtube/v2"

	"github.com/vidsnap/bot/internal/media"
)

// MetadataClient fetches title, duration, and available renditions for a
// YouTube video without downloading any media.
type MetadataClient struct {
	client ytapi.Client
}

func NewMetadataClient() *MetadataClient {
	return &MetadataClient{}
}

func (c *MetadataClient) FetchInfo(ctx context.Context, u media.CanonicalURL) (*media.Info, error) {
	video, err := c.client.GetVideoContext(ctx, u.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrMetadataFetch, err)
	}

	heights := make(map[int]bool)
	for _, f := range video.Formats {
		if f.Height > 0 {
			heights[f.Height] = true
		}
	}
	renditions := make([]int, 0, len(heights))
	for h := range heights {
		renditions = append(renditions, h)
	}
	sort.Ints(renditions)

	return &media.Info{
		Title:           video.Title,
		DurationSeconds: int(video.Duration.Seconds()),
		Renditions:      renditions,
	}, nil
}

package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vidsnap/bot/internal/media"
)

// FetchClient downloads YouTube media through yt-dlp.
type FetchClient struct{}

func NewFetchClient() *FetchClient {
	return &FetchClient{}
}

// Fetch downloads the selection into dir. Video selections are exact-match:
// when no rendition exists at the requested height the fetch fails with
// media.RenditionError instead of substituting a nearby one.
func (c *FetchClient) Fetch(ctx context.Context, u media.CanonicalURL, sel media.Selection, dir string, sink media.Sink) (string, error) {
	dl := ytdlp.New().
		NoPlaylist().
		ForceOverwrites().
		RestrictFilenames().
		Output(filepath.Join(dir, "%(title)s.%(ext)s"))

	switch sel.Kind {
	case media.SelectionAudio:
		dl = dl.Format("bestaudio/best").
			ExtractAudio().
			AudioFormat("mp3").
			AudioQuality("0")
	case media.SelectionVideo:
		dl = dl.Format(fmt.Sprintf("bestvideo[height=%d]+bestaudio/best[height=%d]", sel.Height, sel.Height)).
			MergeOutputFormat("mp4")
	}

	res, err := dl.Run(ctx, u.URL)
	if err != nil {
		if sel.Kind == media.SelectionVideo && isFormatUnavailable(err) {
			return "", &media.RenditionError{Height: sel.Height}
		}
		return "", fmt.Errorf("%w: %w", media.ErrMediaFetch, err)
	}

	path, err := downloadedPath(res)
	if err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrMediaFetch, err)
	}
	if sel.Kind == media.SelectionAudio {
		path = postprocessedAudioPath(path)
	}
	sink.Track(path)
	return path, nil
}

func isFormatUnavailable(err error) bool {
	return strings.Contains(err.Error(), "Requested format is not available")
}

// downloadedPath resolves the file yt-dlp actually wrote.
func downloadedPath(res *ytdlp.Result) (string, error) {
	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", err
	}
	if len(info) == 0 || info[0].Filename == nil || *info[0].Filename == "" {
		return "", errors.New("yt-dlp reported no output file")
	}
	return *info[0].Filename, nil
}

// postprocessedAudioPath accounts for yt-dlp's audio postprocessor, which
// replaces the downloaded container with an .mp3 next to it.
func postprocessedAudioPath(path string) string {
	mp3 := strings.TrimSuffix(path, filepath.Ext(path)) + ".mp3"
	if _, err := os.Stat(mp3); err == nil {
		return mp3
	}
	return path
}

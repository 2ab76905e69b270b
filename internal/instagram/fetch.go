package instagram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vidsnap/bot/internal/ffmpeg"
	"github.com/vidsnap/bot/internal/media"
)

// FetchClient downloads Instagram media through yt-dlp. The audio path is
// two-step: fetch the full video, then extract its audio track with
// ffmpeg. Both the intermediate video and the final audio file are
// reported to the sink so they are cleaned up even when extraction fails.
type FetchClient struct {
	extractor *ffmpeg.Extractor
}

func NewFetchClient(extractor *ffmpeg.Extractor) *FetchClient {
	return &FetchClient{extractor: extractor}
}

func (c *FetchClient) Fetch(ctx context.Context, u media.CanonicalURL, sel media.Selection, dir string, sink media.Sink) (string, error) {
	videoPath, err := c.fetchVideo(ctx, u, dir, sink)
	if err != nil {
		return "", err
	}
	if sel.Kind == media.SelectionVideo {
		return videoPath, nil
	}

	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
	sink.Track(audioPath)
	if err := c.extractor.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrExtraction, err)
	}
	return audioPath, nil
}

func (c *FetchClient) fetchVideo(ctx context.Context, u media.CanonicalURL, dir string, sink media.Sink) (string, error) {
	dl := ytdlp.New().
		NoPlaylist().
		ForceOverwrites().
		RestrictFilenames().
		Format("best[ext=mp4]/best").
		Output(filepath.Join(dir, "%(id)s.%(ext)s"))

	res, err := dl.Run(ctx, u.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrMediaFetch, err)
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("%w: %w", media.ErrMediaFetch, err)
	}
	if len(info) == 0 || info[0].Filename == nil || *info[0].Filename == "" {
		return "", fmt.Errorf("%w: yt-dlp reported no output file", media.ErrMediaFetch)
	}

	path := *info[0].Filename
	sink.Track(path)
	return path, nil
}

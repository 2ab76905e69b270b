// Package ffmpeg wraps the ffmpeg command line tool for audio extraction.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
)

// Extractor pulls the audio track out of a downloaded video file.
type Extractor struct {
	Path string
}

// NewExtractor returns a new Extractor. If path is empty, it looks for
// "ffmpeg" in PATH.
func NewExtractor(path string) *Extractor {
	if path == "" {
		path = "ffmpeg"
	}
	return &Extractor{Path: path}
}

// Available checks if ffmpeg is executable.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath(e.Path)
	return err == nil
}

// ExtractAudio writes the audio track of videoPath to audioPath as mp3.
// The input file is left in place; the caller owns cleanup of both files.
func (e *Extractor) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	// ffmpeg -i video.mp4 -q:a 0 -map a -y audio.mp3
	args := []string{
		"-i", videoPath,
		"-q:a", "0",
		"-map", "a",
		"-y", audioPath,
	}

	cmd := exec.CommandContext(ctx, e.Path, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg audio extraction failed: %w: %s", err, tail(out))
	}
	return nil
}

// tail keeps error output short enough to log.
func tail(out []byte) string {
	const max = 512
	if len(out) > max {
		out = out[len(out)-max:]
	}
	return string(out)
}

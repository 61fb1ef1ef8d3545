// Package transcode converts downloaded audio streams to mp3 with ffmpeg.
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ytget/yt-grab/internal/platform"
)

// FFmpeg settings for mp3 output
const (
	FFmpegCommand = "ffmpeg"
	AudioCodec    = "libmp3lame"
	AudioQuality  = "2" // VBR ~190 kbit/s
	MP3Extension  = ".mp3"

	maxErrorOutput = 512
)

// Converter turns an audio file into an mp3 next to it
type Converter interface {
	ToMP3(ctx context.Context, inputPath string) (string, error)
}

// FFmpegConverter implements Converter using the ffmpeg command line tool.
type FFmpegConverter struct {
	Path string
}

var _ Converter = (*FFmpegConverter)(nil)

// NewFFmpegConverter returns a new FFmpegConverter.
// If path is empty, it looks for "ffmpeg" in PATH.
func NewFFmpegConverter(path string) *FFmpegConverter {
	if path == "" {
		path = FFmpegCommand
	}
	return &FFmpegConverter{Path: path}
}

// Available checks if ffmpeg is executable.
func (c *FFmpegConverter) Available() bool {
	_, err := exec.LookPath(c.Path)
	return err == nil
}

// ToMP3 converts inputPath to <base>.mp3 and returns the new path.
// The input file is left in place.
func (c *FFmpegConverter) ToMP3(ctx context.Context, inputPath string) (string, error) {
	outputPath := platform.ReplaceExt(inputPath, MP3Extension)
	if outputPath == inputPath {
		return "", fmt.Errorf("input is already an mp3: %s", inputPath)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, BuildArgs(inputPath, outputPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = platform.RemoveFile(outputPath)
		return "", fmt.Errorf("ffmpeg mp3 conversion failed: %w%s", err, lastOutput(stderr.String()))
	}

	return outputPath, nil
}

// BuildArgs builds the ffmpeg arguments for an mp3 conversion
func BuildArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", AudioCodec,
		"-q:a", AudioQuality,
		outputPath,
	}
}

func lastOutput(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(s) > maxErrorOutput {
		s = s[len(s)-maxErrorOutput:]
	}
	return ": " + s
}

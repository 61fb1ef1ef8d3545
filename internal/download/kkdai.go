package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/yt-grab/internal/platform"
)

const copyBufferSize = 32 * 1024

// KkdaiFetcher fetches streams with github.com/kkdai/youtube
type KkdaiFetcher struct {
	client youtube.Client
}

// NewKkdaiFetcher creates a fetcher using httpClient for every request
func NewKkdaiFetcher(httpClient *http.Client) *KkdaiFetcher {
	return &KkdaiFetcher{client: youtube.Client{HTTPClient: httpClient}}
}

// Fetch resolves the video, picks a stream and copies it into dir
func (f *KkdaiFetcher) Fetch(ctx context.Context, url string, sel Selection, dir string, progress ProgressFunc) (*Result, error) {
	video, err := f.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", err)
	}

	streams := make([]Stream, 0, len(video.Formats))
	for i, format := range video.Formats {
		streams = append(streams, streamFromKkdai(i, format))
	}

	stream, err := SelectStream(streams, sel)
	if err != nil {
		return nil, err
	}
	format := &video.Formats[stream.Index]

	rc, size, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream itag %d: %w", format.ItagNo, err)
	}
	defer rc.Close()

	path := filepath.Join(dir, platform.SafeFilename(video.Title, platform.ExtFromMime(format.MimeType)))
	written, err := writeStream(path, rc, size, progress)
	if err != nil {
		return nil, err
	}

	return &Result{Title: video.Title, Path: path, Size: written}, nil
}

// writeStream copies r into a new file at path. The file is removed if the copy fails.
func writeStream(path string, r io.Reader, size int64, progress ProgressFunc) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	pw := &progressWriter{w: file, total: size, report: progress}
	written, err := io.CopyBuffer(pw, r, make([]byte, copyBufferSize))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = platform.RemoveFile(path)
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return written, nil
}

func streamFromKkdai(index int, format youtube.Format) Stream {
	hasVideo, hasAudio := streamKinds(format.MimeType)
	if format.AudioChannels > 0 {
		hasAudio = true
	}
	height := format.Height
	if height == 0 {
		height = parseHeight(format.QualityLabel)
	}
	return Stream{
		Index:    index,
		Itag:     format.ItagNo,
		MimeType: format.MimeType,
		Height:   height,
		Bitrate:  format.Bitrate,
		Size:     format.ContentLength,
		HasVideo: hasVideo,
		HasAudio: hasAudio,
	}
}

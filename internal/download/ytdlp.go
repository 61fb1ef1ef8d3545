package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/ytdlp/downloader"
	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-grab/internal/platform"
)

// Format selector template understood by ytdlp.Downloader.WithFormat
const itagSelector = "itag=%d"

// YTDLPFetcher fetches streams with github.com/ytget/ytdlp
type YTDLPFetcher struct {
	httpClient *http.Client
}

// NewYTDLPFetcher creates a fetcher using httpClient for every request
func NewYTDLPFetcher(httpClient *http.Client) *YTDLPFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &YTDLPFetcher{httpClient: httpClient}
}

// Fetch resolves the video, picks a stream and downloads it into dir
func (f *YTDLPFetcher) Fetch(ctx context.Context, url string, sel Selection, dir string, progress ProgressFunc) (*Result, error) {
	_, info, err := f.newDownloader().ResolveURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get video info: %w", explain(err))
	}

	streams := make([]Stream, 0, len(info.Formats))
	for i, format := range info.Formats {
		streams = append(streams, streamFromYTDLP(i, format))
	}

	stream, err := SelectStream(streams, sel)
	if err != nil {
		return nil, err
	}

	mediaURL, err := f.mediaURL(ctx, url, info.Formats[stream.Index])
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stream itag %d: %w", stream.Itag, explain(err))
	}

	path := filepath.Join(dir, platform.SafeFilename(info.Title, platform.ExtFromMime(stream.MimeType)))

	// ytdlp.Downloader.Download would resolve the video a second time, so the
	// resolved URL goes straight to the chunked downloader
	var report func(downloader.Progress)
	if progress != nil {
		report = func(p downloader.Progress) {
			progress(p.TotalSize, p.TotalSize-p.DownloadedSize)
		}
	}
	if err := downloader.New(f.httpClient, report, 0).Download(ctx, mediaURL, path); err != nil {
		return nil, fmt.Errorf("failed to download stream itag %d: %w", stream.Itag, err)
	}

	result := &Result{Title: info.Title, Path: path, Size: stream.Size}
	if fi, err := os.Stat(path); err == nil {
		result.Size = fi.Size()
	}
	return result, nil
}

// mediaURL returns a downloadable URL for format. Direct URLs are used as is;
// ciphered or throttled ones are resolved by the library for that itag only.
func (f *YTDLPFetcher) mediaURL(ctx context.Context, url string, format types.Format) (string, error) {
	if isDirectURL(format.URL) {
		return format.URL, nil
	}
	resolved, _, err := f.newDownloader().
		WithFormat(fmt.Sprintf(itagSelector, format.Itag), "").
		ResolveURL(ctx, url)
	return resolved, err
}

// isDirectURL reports whether u needs neither deciphering nor n-parameter decoding
func isDirectURL(u string) bool {
	return strings.TrimSpace(u) != "" && !strings.Contains(u, "?n=") && !strings.Contains(u, "&n=")
}

func (f *YTDLPFetcher) newDownloader() *ytdlp.Downloader {
	return ytdlp.New().WithHTTPClient(f.httpClient)
}

func streamFromYTDLP(index int, format types.Format) Stream {
	hasVideo, hasAudio := streamKinds(format.MimeType)
	return Stream{
		Index:    index,
		Itag:     format.Itag,
		MimeType: format.MimeType,
		Height:   parseHeight(format.Quality),
		Bitrate:  format.Bitrate,
		Size:     format.Size,
		HasVideo: hasVideo,
		HasAudio: hasAudio,
	}
}

// explain adds a short hint to the library's playability errors
func explain(err error) error {
	switch {
	case errors.Is(err, errs.ErrPrivate):
		return fmt.Errorf("%w: the uploader has made it private", err)
	case errors.Is(err, errs.ErrAgeRestricted):
		return fmt.Errorf("%w: sign-in is required to watch it", err)
	case errors.Is(err, errs.ErrGeoBlocked):
		return fmt.Errorf("%w: it is not available in your region", err)
	case errors.Is(err, errs.ErrRateLimited):
		return fmt.Errorf("%w: try again later", err)
	case errors.Is(err, errs.ErrCipherFailed):
		return fmt.Errorf("%w: the stream signature could not be decoded", err)
	}
	return err
}

package download

import (
	"context"
	"fmt"
	"net/http"
)

// Selection chooses which stream of a video is fetched
type Selection int

const (
	// SelectVideo picks the highest-resolution stream carrying audio and video
	SelectVideo Selection = iota
	// SelectAudio picks the best audio-only stream
	SelectAudio
)

// String returns the string representation of Selection
func (s Selection) String() string {
	if s == SelectAudio {
		return "audio"
	}
	return "video"
}

// Backend names accepted by NewFetcher
const (
	BackendYTDLP = "ytdlp"
	BackendKkdai = "kkdai"
)

// ProgressFunc receives the stream size and the bytes still to be received,
// once per downloaded chunk.
type ProgressFunc func(total, remaining int64)

// Result describes a stream written to disk
type Result struct {
	Title string
	Path  string
	Size  int64
}

// Fetcher downloads one stream of a video into a directory.
type Fetcher interface {
	Fetch(ctx context.Context, url string, sel Selection, dir string, progress ProgressFunc) (*Result, error)
}

// ValidateBackend checks that backend names a known Fetcher; empty means the default
func ValidateBackend(backend string) error {
	switch backend {
	case "", BackendYTDLP, BackendKkdai:
		return nil
	}
	return fmt.Errorf("unknown download backend: %q (want %s or %s)", backend, BackendYTDLP, BackendKkdai)
}

// NewFetcher returns the Fetcher for the named backend
func NewFetcher(backend string, httpClient *http.Client) (Fetcher, error) {
	if err := ValidateBackend(backend); err != nil {
		return nil, err
	}
	if backend == BackendKkdai {
		return NewKkdaiFetcher(httpClient), nil
	}
	return NewYTDLPFetcher(httpClient), nil
}

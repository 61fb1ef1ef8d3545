package download

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoStream is returned when a video offers no stream matching the selection
var ErrNoStream = errors.New("no matching stream")

var heightRe = regexp.MustCompile(`([0-9]{3,4})p`)

// Stream is a backend-neutral view of one available format
type Stream struct {
	Index    int // position in the backend's format list
	Itag     int
	MimeType string
	Height   int
	Bitrate  int
	Size     int64
	HasVideo bool
	HasAudio bool
}

// IsProgressive reports whether the stream carries both audio and video
func (s Stream) IsProgressive() bool {
	return s.HasVideo && s.HasAudio
}

// IsAudioOnly reports whether the stream carries audio without video
func (s Stream) IsAudioOnly() bool {
	return s.HasAudio && !s.HasVideo
}

// SelectStream picks the stream to download.
// SelectAudio takes the audio-only stream with the highest bitrate.
// SelectVideo takes the progressive stream with the greatest height (bitrate
// breaks ties) and falls back to video-only streams when none is progressive.
func SelectStream(streams []Stream, sel Selection) (Stream, error) {
	var candidates []Stream
	switch sel {
	case SelectAudio:
		candidates = filterStreams(streams, Stream.IsAudioOnly)
	default:
		candidates = filterStreams(streams, Stream.IsProgressive)
		if len(candidates) == 0 {
			candidates = filterStreams(streams, func(s Stream) bool { return s.HasVideo })
		}
	}

	if len(candidates) == 0 {
		return Stream{}, fmt.Errorf("%w: %s", ErrNoStream, sel)
	}

	best := candidates[0]
	for _, s := range candidates[1:] {
		if better(s, best, sel) {
			best = s
		}
	}
	return best, nil
}

func better(candidate, current Stream, sel Selection) bool {
	if sel != SelectAudio && candidate.Height != current.Height {
		return candidate.Height > current.Height
	}
	return candidate.Bitrate > current.Bitrate
}

func filterStreams(streams []Stream, keep func(Stream) bool) []Stream {
	var out []Stream
	for _, s := range streams {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// streamKinds derives the audio/video flags from a MIME type such as
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`.
func streamKinds(mime string) (hasVideo, hasAudio bool) {
	mime = strings.ToLower(strings.TrimSpace(mime))
	switch {
	case strings.HasPrefix(mime, "audio/"):
		return false, true
	case strings.HasPrefix(mime, "video/"):
		_, codecs, _ := strings.Cut(mime, "codecs=")
		return true, strings.Contains(codecs, ",")
	}
	return false, false
}

// parseHeight extracts the height from a quality label like "720p60"
func parseHeight(label string) int {
	m := heightRe.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return v
}

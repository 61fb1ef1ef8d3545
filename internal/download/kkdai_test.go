package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kkdai/youtube/v2"
)

func TestKkdaiFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selection
		itag     string
		filename string
		data     string
	}{
		{"video", SelectVideo, "18", "Test _ Clip.mp4", "progressive 360p stream"},
		{"audio", SelectAudio, "251", "Test _ Clip.webm", "opus audio stream"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := newFakeYouTube("Test / Clip", sampleFormats())
			dir := t.TempDir()

			var calls int
			var lastTotal, lastRemaining int64 = -1, -1
			progress := func(total, remaining int64) {
				calls++
				lastTotal, lastRemaining = total, remaining
			}

			result, err := NewKkdaiFetcher(server.client()).Fetch(context.Background(), testVideoURL, test.sel, dir, progress)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if result.Title != "Test / Clip" {
				t.Errorf("Expected title 'Test / Clip', got %q", result.Title)
			}
			if expected := filepath.Join(dir, test.filename); result.Path != expected {
				t.Errorf("Expected path %s, got %s", expected, result.Path)
			}
			if result.Size != int64(len(test.data)) {
				t.Errorf("Expected size %d, got %d", len(test.data), result.Size)
			}

			content, err := os.ReadFile(result.Path)
			if err != nil {
				t.Fatalf("Failed to read output: %v", err)
			}
			if string(content) != test.data {
				t.Errorf("Expected content %q, got %q", test.data, content)
			}

			served := server.servedItags()
			if len(served) != 1 || !served[test.itag] {
				t.Errorf("Expected only itag %s to be downloaded, got %v", test.itag, served)
			}

			if calls == 0 {
				t.Fatal("Expected progress to be reported")
			}
			if lastTotal != int64(len(test.data)) || lastRemaining != 0 {
				t.Errorf("Expected final progress %d/0, got %d/%d", len(test.data), lastTotal, lastRemaining)
			}
		})
	}
}

func TestKkdaiFetcher_FetchPrivate(t *testing.T) {
	server := newFakeYouTube("Hidden", sampleFormats())
	server.status = "LOGIN_REQUIRED"
	server.reason = "This video is private"

	_, err := NewKkdaiFetcher(server.client()).Fetch(context.Background(), testVideoURL, SelectVideo, t.TempDir(), nil)
	if !errors.Is(err, youtube.ErrVideoPrivate) {
		t.Errorf("Expected ErrVideoPrivate, got %v", err)
	}
	if len(server.servedItags()) != 0 {
		t.Error("Expected no media requests")
	}
}

func TestKkdaiFetcher_FetchNoAudio(t *testing.T) {
	formats := sampleFormats()[:2]
	server := newFakeYouTube("Silent", formats)
	dir := t.TempDir()

	_, err := NewKkdaiFetcher(server.client()).Fetch(context.Background(), testVideoURL, SelectAudio, dir, nil)
	if !errors.Is(err, ErrNoStream) {
		t.Errorf("Expected ErrNoStream, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files in %s, got %d", dir, len(entries))
	}
}

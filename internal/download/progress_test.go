package download

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleReporter(t *testing.T) {
	var out bytes.Buffer
	report := NewConsoleReporter(&out)

	report(200, 150)
	report(200, 0)
	report(0, 0)

	expected := "Download progress: 25.00%\nDownload progress: 100.00%\n"
	if out.String() != expected {
		t.Errorf("Expected %q, got %q", expected, out.String())
	}
}

func TestProgressWriter(t *testing.T) {
	var dst bytes.Buffer
	var remaining []int64

	pw := &progressWriter{w: &dst, total: 10, report: func(total, left int64) {
		if total != 10 {
			t.Errorf("Expected total 10, got %d", total)
		}
		remaining = append(remaining, left)
	}}

	for _, chunk := range []string{"abcd", "efg", "hij"} {
		if _, err := pw.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if dst.String() != "abcdefghij" {
		t.Errorf("Expected all bytes forwarded, got %q", dst.String())
	}
	if len(remaining) != 3 || remaining[0] != 6 || remaining[1] != 3 || remaining[2] != 0 {
		t.Errorf("Unexpected remaining counts: %v", remaining)
	}
}

func TestWriteStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	data := strings.Repeat("x", copyBufferSize+100)

	// LimitReader hides strings.Reader's WriteTo so the copy goes chunk by chunk
	src := io.LimitReader(strings.NewReader(data), int64(len(data)))

	calls := 0
	written, err := writeStream(path, src, int64(len(data)), func(total, remaining int64) {
		calls++
	})
	if err != nil {
		t.Fatalf("writeStream failed: %v", err)
	}

	if written != int64(len(data)) {
		t.Errorf("Expected %d bytes written, got %d", len(data), written)
	}
	if calls < 2 {
		t.Errorf("Expected progress per chunk, got %d calls", calls)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if len(content) != len(data) {
		t.Errorf("Expected file of %d bytes, got %d", len(data), len(content))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func TestWriteStream_RemovesFileOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")

	if _, err := writeStream(path, failingReader{}, 10, nil); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected partial file to be removed")
	}
}

package cli

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestPrompter(t *testing.T, in io.Reader, out io.Writer) *Prompter {
	t.Helper()
	p, err := NewPrompter(in, out)
	if err != nil {
		t.Fatalf("Failed to create prompter: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"abc", 0},
		{"-10", 0},
		{"+5", 0},
		{"12.5", 0},
		{"0", 0},
		{"42", 42},
		{"  42  ", 42},
		{"100", 100},
		{"150", 100},
		{"99999999999999999999999", 100},
	}

	for _, test := range tests {
		result := ParseRate(test.input)
		if result != test.expected {
			t.Errorf("ParseRate(%q) = %d, expected %d", test.input, result, test.expected)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"yes", true},
		{" YES ", true},
		{"Yes", true},
		{"y", false},
		{"no", false},
		{"", false},
	}

	for _, test := range tests {
		if result := ParseYesNo(test.input); result != test.expected {
			t.Errorf("ParseYesNo(%q) = %v, expected %v", test.input, result, test.expected)
		}
	}
}

func TestCollect_Video(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, strings.NewReader("https://youtu.be/abc\nno\n/tmp/videos\n35\n"), &out)

	req, err := p.Collect("output")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.URL != "https://youtu.be/abc" {
		t.Errorf("Unexpected URL: %s", req.URL)
	}
	if req.AudioOnly {
		t.Error("Expected video request")
	}
	if req.OutputDir != "/tmp/videos" {
		t.Errorf("Unexpected output dir: %s", req.OutputDir)
	}
	if req.CompressionRate != 35 {
		t.Errorf("Expected rate 35, got %d", req.CompressionRate)
	}

	expectedPrompts := PromptURL + PromptAudioOnly + "Enter the output path (default is 'output'): " + PromptCompression
	if out.String() != expectedPrompts {
		t.Errorf("Unexpected prompts:\n%q\nexpected:\n%q", out.String(), expectedPrompts)
	}
}

func TestCollect_AudioSkipsCompressionPrompt(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, strings.NewReader("https://youtu.be/abc\r\nyes\r\n\r\n"), &out)

	req, err := p.Collect("music")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !req.AudioOnly {
		t.Error("Expected audio request")
	}
	if req.OutputDir != "music" {
		t.Errorf("Expected default output dir, got %s", req.OutputDir)
	}
	if strings.Contains(out.String(), PromptCompression) {
		t.Error("Expected no compression prompt for audio")
	}
}

func TestCollect_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, strings.NewReader("https://youtu.be/abc"), &out)

	req, err := p.Collect("output")
	if err != nil {
		t.Fatalf("Expected end of input to be treated as empty answers, got %v", err)
	}

	if req.URL != "https://youtu.be/abc" || req.AudioOnly || req.OutputDir != "output" || req.CompressionRate != 0 {
		t.Errorf("Unexpected request: %+v", req)
	}
}

func TestCollect_ReadsPastEndOfInput(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, strings.NewReader("https://youtu.be/abc\n"), &out)

	req, err := p.Collect("output")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.URL != "https://youtu.be/abc" || req.OutputDir != "output" {
		t.Errorf("Unexpected request: %+v", req)
	}
	// every prompt is still shown after input runs out
	if !strings.HasSuffix(out.String(), PromptCompression) {
		t.Errorf("Expected all prompts, got %q", out.String())
	}
}

func TestCollect_Interrupt(t *testing.T) {
	var out bytes.Buffer
	p := newTestPrompter(t, strings.NewReader("\x03"), &out)

	if _, err := p.Collect("output"); !errors.Is(err, ErrInputCancelled) {
		t.Errorf("Expected ErrInputCancelled, got %v", err)
	}
}

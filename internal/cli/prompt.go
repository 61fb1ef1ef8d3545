package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ytget/yt-grab/internal/model"
)

// Prompt texts
const (
	PromptURL         = "Enter the YouTube video URL: "
	PromptAudioOnly   = "Do you want to download audio only? (yes/no, default is no): "
	PromptOutputPath  = "Enter the output path (default is '%s'): "
	PromptCompression = "Enter the compression rate as a percentage (0-100, default is 0 for no compression): "

	AnswerYes = "yes"
)

// ErrInputCancelled is returned when the user interrupts a prompt
var ErrInputCancelled = errors.New("input cancelled")

// Prompter asks the interactive questions of a run
type Prompter struct {
	rl  *readline.Instance
	out io.Writer

	// interactive is set when both ends are terminals; readline then draws
	// the prompt and handles line editing itself
	interactive bool

	// eof is set once input is exhausted; every later answer is empty
	eof bool
}

// NewPrompter creates a prompter reading answers from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) (*Prompter, error) {
	interactive := isTerminal(in) && isTerminal(out)

	cfg := &readline.Config{
		Stdin:                  io.NopCloser(in),
		Stdout:                 out,
		DisableAutoSaveHistory: true,
		FuncIsTerminal:         func() bool { return interactive },
	}
	if !interactive {
		// piped input: leave the controlling terminal alone and accept CRLF line endings
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
		cfg.FuncFilterInputRune = func(r rune) (rune, bool) { return r, r != '\r' }
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return &Prompter{rl: rl, out: out, interactive: interactive}, nil
}

// Close releases the terminal
func (p *Prompter) Close() error {
	return p.rl.Close()
}

// Collect asks for the URL, audio-only flag, output directory and, for video,
// the compression rate. An empty output answer keeps defaultOutput.
func (p *Prompter) Collect(defaultOutput string) (model.Request, error) {
	var req model.Request

	url, err := p.ask(PromptURL)
	if err != nil {
		return req, err
	}
	req.URL = strings.TrimSpace(url)

	answer, err := p.ask(PromptAudioOnly)
	if err != nil {
		return req, err
	}
	req.AudioOnly = ParseYesNo(answer)

	output, err := p.ask(fmt.Sprintf(PromptOutputPath, defaultOutput))
	if err != nil {
		return req, err
	}
	req.OutputDir = output
	if req.OutputDir == "" {
		req.OutputDir = defaultOutput
	}

	if !req.AudioOnly {
		rate, err := p.ask(PromptCompression)
		if err != nil {
			return req, err
		}
		req.CompressionRate = ParseRate(rate)
	}

	return req, nil
}

// ask shows prompt and reads one line. End of input counts as an empty answer.
func (p *Prompter) ask(prompt string) (string, error) {
	if p.interactive {
		p.rl.SetPrompt(prompt)
	} else {
		fmt.Fprint(p.out, prompt)
	}
	if p.eof {
		return "", nil
	}

	line, err := p.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrInputCancelled
	case errors.Is(err, io.EOF):
		// readline stops reading after EOF, so it must not be asked again
		p.eof = true
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ParseYesNo reports whether answer is "yes", ignoring case and surrounding spaces
func ParseYesNo(answer string) bool {
	return strings.ToLower(strings.TrimSpace(answer)) == AnswerYes
}

// ParseRate converts a compression rate answer to a percentage in [0,100].
// Anything but a plain run of digits counts as 0, so "-10" and "abc" both give 0.
func ParseRate(answer string) int {
	answer = strings.TrimSpace(answer)
	if answer == "" || strings.TrimLeft(answer, "0123456789") != "" {
		return 0
	}

	rate, err := strconv.Atoi(answer)
	if err != nil {
		// only digits, so the value overflowed int
		return model.MaxCompressionRate
	}
	return model.ClampRate(rate)
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && readline.IsTerminal(int(f.Fd()))
}

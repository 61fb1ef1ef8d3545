package compress

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ytget/yt-grab/internal/model"
	"github.com/ytget/yt-grab/internal/platform"
)

// FFmpeg constants for compression settings
const (
	VideoCodec = "libx264"

	// MaxCRF is the lowest quality end of the x264 CRF scale
	MaxCRF = 51

	FFmpegCommand = "ffmpeg"
	TaskIDPrefix  = "compress-"

	// stderrTailLines is how many trailing stderr lines are kept for error reports
	stderrTailLines = 5

	// maxStderrLine bounds a single stderr line; ffmpeg prints whole metadata tags on one line
	maxStderrLine = 1 << 20
)

var (
	durationPattern = regexp.MustCompile(`Duration: (\d{2}:\d{2}:\d{2}.\d{2})`)
	timePattern     = regexp.MustCompile(`time=(\d{2}:\d{2}:\d{2}.\d{2})`)
)

// Service runs ffmpeg to re-encode downloaded videos
type Service struct {
	ffmpegPath string
	out        io.Writer
	onUpdate   func(*model.CompressionTask)
}

var _ Compressor = (*Service)(nil)

// NewService creates a new compression service. An empty ffmpegPath uses
// ffmpeg from PATH; progress and status lines are written to out.
func NewService(ffmpegPath string, out io.Writer) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if out == nil {
		out = os.Stdout
	}
	return &Service{ffmpegPath: ffmpegPath, out: out}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.CompressionTask)) {
	s.onUpdate = callback
}

// CRF maps a compression rate in percent to the x264 constant rate factor:
// 0 keeps the lowest quality/smallest file (51), 100 the highest quality (0).
func CRF(rate int) int {
	rate = model.ClampRate(rate)
	return int(math.Round(float64(model.MaxCompressionRate-rate) * MaxCRF / model.MaxCompressionRate))
}

// Seconds converts an ffmpeg HH:MM:SS.ff timestamp to whole seconds,
// truncating the fractional part.
func Seconds(ts string) (int, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp: %q", ts)
	}

	var total float64
	for i, weight := range []float64{3600, 60, 1} {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		total += v * weight
	}
	return int(total), nil
}

// Compress re-encodes inputPath into outputPath with a CRF derived from rate.
// A rate of 0 skips compression and returns inputPath without starting ffmpeg.
// A non-zero ffmpeg exit is returned as an error and the partial output removed.
func (s *Service) Compress(ctx context.Context, inputPath, outputPath string, rate int) (string, error) {
	rate = model.ClampRate(rate)
	if rate == 0 {
		fmt.Fprintln(s.out, "Skipping compression as compression rate is 0%")
		return inputPath, nil
	}

	task := &model.CompressionTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Rate:       rate,
		CRF:        CRF(rate),
		Status:     model.TaskStatusCompressing,
		StartedAt:  time.Now(),
	}
	s.notifyUpdate(task)

	cmd := exec.CommandContext(ctx, s.ffmpegPath, s.BuildFFmpegArgs(inputPath, outputPath, task.CRF)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", s.fail(task, fmt.Errorf("failed to create stderr pipe: %w", err))
	}

	if err := cmd.Start(); err != nil {
		return "", s.fail(task, fmt.Errorf("failed to start ffmpeg: %w", err))
	}

	// Pipe must be drained before Wait closes it
	tail := s.monitorProgress(stderr, task)

	if err := cmd.Wait(); err != nil {
		_ = platform.RemoveFile(outputPath)
		return "", s.fail(task, fmt.Errorf("ffmpeg compression failed: %w%s", err, formatTail(tail)))
	}

	task.Status = model.TaskStatusCompleted
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)

	fmt.Fprintf(s.out, "Video compressed successfully and saved to '%s' with compression rate %d%% (CRF=%d)\n",
		outputPath, rate, task.CRF)
	return outputPath, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (s *Service) BuildFFmpegArgs(inputPath, outputPath string, crf int) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vcodec", VideoCodec,
		"-crf", strconv.Itoa(crf),
		outputPath,
	}
}

// monitorProgress reads ffmpeg stderr until EOF, printing the total duration
// and percent complete, and returns the last stderr lines seen. stderr is
// always read to EOF so ffmpeg never blocks on a full pipe.
func (s *Service) monitorProgress(stderr io.Reader, task *model.CompressionTask) []string {
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStderrLine)
	scanner.Split(scanTerminalLines)

	var (
		total int
		known bool
		tail  []string
	)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}

		if !known {
			if m := durationPattern.FindStringSubmatch(line); m != nil {
				known = true
				total, _ = Seconds(m[1])
				fmt.Fprintf(s.out, "Total Duration: %s\n", m[1])
			}
		}

		m := timePattern.FindStringSubmatch(line)
		if m == nil || !known || total <= 0 {
			continue
		}
		current, err := Seconds(m[1])
		if err != nil {
			continue
		}

		percent := float64(current) / float64(total) * 100
		task.Percent = percent
		s.notifyUpdate(task)
		fmt.Fprintf(s.out, "Compression progress: %.2f%%\n", percent)
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Stopped reading ffmpeg progress for %s: %v", task.ID, err)
		if _, err := io.Copy(io.Discard, stderr); err != nil {
			log.Printf("Failed to drain ffmpeg stderr: %v", err)
		}
	}

	return tail
}

// scanTerminalLines splits on \n, \r\n and bare \r; ffmpeg rewrites its stats
// line in place with carriage returns.
func scanTerminalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && i+1 < len(data) && data[i+1] == '\n' {
			advance++
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// fail sets an error state for a task and returns err
func (s *Service) fail(task *model.CompressionTask, err error) error {
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.notifyUpdate(task)
	return err
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.CompressionTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

func formatTail(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return ": " + strings.Join(lines, " | ")
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}

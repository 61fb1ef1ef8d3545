package cli

import (
	"log"
	"time"

	"github.com/ytget/yt-grab/internal/model"
)

// taskLog logs status transitions of download and compression tasks and a
// summary line once a task is finished. Progress-only updates are not logged.
type taskLog struct {
	logger *log.Logger
	last   map[string]model.TaskStatus
}

func newTaskLog(logger *log.Logger) *taskLog {
	return &taskLog{logger: logger, last: make(map[string]model.TaskStatus)}
}

// Download is registered as the download service update callback
func (l *taskLog) Download(task *model.DownloadTask) {
	if !l.transition("download:"+task.URL, task.Status) {
		return
	}

	switch {
	case task.Status.IsActive():
		l.logger.Printf("Download %s: %s", task.URL, task.Status)
	case task.Status == model.TaskStatusError:
		l.logger.Printf("Download %s: %s after %s: %s", task.URL, task.Status, elapsed(task.StartedAt, task.FinishedAt), task.LastError)
	case task.Status.IsFinished():
		l.logger.Printf("Download %s: %s in %s, %d bytes at %s",
			task.GetDisplayTitle(), task.Status, elapsed(task.StartedAt, task.FinishedAt), task.FileSize, task.OutputPath)
	}
}

// Compression is registered as the compression service update callback
func (l *taskLog) Compression(task *model.CompressionTask) {
	if !l.transition(task.ID, task.Status) {
		return
	}

	switch {
	case task.Status.IsActive():
		l.logger.Printf("Compression %s: %s %s (rate %d%%, CRF=%d)", task.ID, task.Status, task.InputPath, task.Rate, task.CRF)
	case task.Status == model.TaskStatusError:
		l.logger.Printf("Compression %s: %s at %.2f%% after %s: %s",
			task.ID, task.Status, task.Percent, elapsed(task.StartedAt, task.FinishedAt), task.LastError)
	case task.Status.IsFinished():
		l.logger.Printf("Compression %s: %s in %s, wrote %s",
			task.ID, task.Status, elapsed(task.StartedAt, task.FinishedAt), task.OutputPath)
	}
}

// transition records status for key and reports whether it changed
func (l *taskLog) transition(key string, status model.TaskStatus) bool {
	if l.last[key] == status {
		return false
	}
	l.last[key] = status
	return true
}

func elapsed(start, end time.Time) time.Duration {
	if start.IsZero() || end.Before(start) {
		return 0
	}
	return end.Sub(start).Round(time.Millisecond)
}

package download

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ytget/yt-grab/internal/model"
)

// Service runs one fetch at a time and keeps a task record for it
type Service struct {
	fetcher  Fetcher
	progress ProgressFunc
	onUpdate func(*model.DownloadTask) // callback for status changes
}

// NewService creates a new download service
func NewService(fetcher Fetcher, progress ProgressFunc) *Service {
	return &Service{
		fetcher:  fetcher,
		progress: progress,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// Download fetches the selected stream of url into dir
func (s *Service) Download(ctx context.Context, url string, sel Selection, dir string) (*model.DownloadTask, error) {
	task := &model.DownloadTask{
		URL:       url,
		Status:    model.TaskStatusDownloading,
		StartedAt: time.Now(),
	}
	s.notifyUpdate(task)

	result, err := s.fetcher.Fetch(ctx, url, sel, dir, s.progress)
	if err != nil {
		log.Printf("Download failed for %s: %v", url, err)
		task.Fail(err)
		s.notifyUpdate(task)
		return task, fmt.Errorf("download %s: %w", sel, err)
	}

	task.Title = result.Title
	task.OutputPath = result.Path
	task.FileSize = result.Size
	task.Complete()
	s.notifyUpdate(task)

	log.Printf("Downloaded %s (%d bytes) to %s", task.GetDisplayTitle(), task.FileSize, task.OutputPath)
	return task, nil
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

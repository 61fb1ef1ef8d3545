package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Compression rate bounds, in percent
const (
	MinCompressionRate = 0
	MaxCompressionRate = 100
)

// Request holds the parameters of one run, built from the prompts
type Request struct {
	URL             string
	AudioOnly       bool
	OutputDir       string
	CompressionRate int // 0 to 100, 0 disables compression
}

// Normalize clamps CompressionRate to the supported range and drops it for audio requests
func (r Request) Normalize() Request {
	r.CompressionRate = ClampRate(r.CompressionRate)
	if r.AudioOnly {
		r.CompressionRate = 0
	}
	return r
}

// ClampRate clamps a compression rate to [MinCompressionRate, MaxCompressionRate]
func ClampRate(rate int) int {
	return max(MinCompressionRate, min(MaxCompressionRate, rate))
}

// DownloadTask represents a single fetched stream
type DownloadTask struct {
	URL        string
	Title      string
	OutputPath string // path to downloaded file
	FileSize   int64  // file size in bytes
	Status     TaskStatus
	LastError  string // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// CompressionTask represents a single compression task
type CompressionTask struct {
	ID         string
	InputPath  string
	OutputPath string
	Rate       int
	CRF        int
	Status     TaskStatus
	Percent    float64 // 0 to 100
	LastError  string  // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// Fail marks the task as failed with err
func (dt *DownloadTask) Fail(err error) {
	dt.Status = TaskStatusError
	dt.LastError = err.Error()
	dt.FinishedAt = time.Now()
}

// Complete marks the task as completed
func (dt *DownloadTask) Complete() {
	dt.Status = TaskStatusCompleted
	dt.FinishedAt = time.Now()
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			return strings.TrimSuffix(filename, filepath.Ext(filename))
		}
	}

	return dt.URL
}

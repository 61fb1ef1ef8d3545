package model

// TaskStatus represents the status of a download or compression task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the stream is being fetched
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusConverting means the audio is being transcoded to mp3
	TaskStatusConverting TaskStatus = "Converting"

	// TaskStatusCompressing means ffmpeg is re-encoding the video
	TaskStatusCompressing TaskStatus = "Compressing"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusConverting || ts == TaskStatusCompressing
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}

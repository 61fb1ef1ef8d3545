// Package pipeline sequences one run: fetch the stream, then convert the audio
// to mp3 or optionally compress the video, clean up intermediates and print
// the outcome.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ytget/yt-grab/internal/download"
	"github.com/ytget/yt-grab/internal/model"
	"github.com/ytget/yt-grab/internal/platform"
)

// Downloader fetches one stream of a video into a directory
type Downloader interface {
	Download(ctx context.Context, url string, sel download.Selection, dir string) (*model.DownloadTask, error)
}

// Converter turns an audio file into an mp3 and returns its path
type Converter interface {
	ToMP3(ctx context.Context, inputPath string) (string, error)
}

// Compressor re-encodes a video at the given compression rate and returns the resulting path
type Compressor interface {
	Compress(ctx context.Context, inputPath, outputPath string, rate int) (string, error)
}

// Pipeline runs a single download request end to end
type Pipeline struct {
	downloader Downloader
	converter  Converter
	compressor Compressor
	out        io.Writer
}

// New creates a pipeline writing its messages to out (stdout when nil)
func New(downloader Downloader, converter Converter, compressor Compressor, out io.Writer) *Pipeline {
	if out == nil {
		out = os.Stdout
	}
	return &Pipeline{
		downloader: downloader,
		converter:  converter,
		compressor: compressor,
		out:        out,
	}
}

// Run executes req. Any failure is printed as "An error occurred: <msg>" and
// also returned; intermediate files are not cleaned up on failure.
func (p *Pipeline) Run(ctx context.Context, req model.Request) error {
	req = req.Normalize()

	if err := p.run(ctx, req); err != nil {
		fmt.Fprintf(p.out, "An error occurred: %v\n", err)
		return err
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, req model.Request) error {
	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if req.AudioOnly {
		return p.runAudio(ctx, req)
	}
	return p.runVideo(ctx, req)
}

func (p *Pipeline) runAudio(ctx context.Context, req model.Request) error {
	task, err := p.downloader.Download(ctx, req.URL, download.SelectAudio, req.OutputDir)
	if err != nil {
		return err
	}

	task.Status = model.TaskStatusConverting
	mp3Path, err := p.converter.ToMP3(ctx, task.OutputPath)
	if err != nil {
		task.Fail(err)
		return err
	}

	if err := platform.RemoveFile(task.OutputPath); err != nil {
		log.Printf("Failed to remove intermediate audio: %v", err)
	}
	task.OutputPath = mp3Path
	task.Complete()

	fmt.Fprintf(p.out, "Audio '%s' has been downloaded and converted to mp3 successfully to '%s'!\n", task.Title, mp3Path)
	return nil
}

func (p *Pipeline) runVideo(ctx context.Context, req model.Request) error {
	task, err := p.downloader.Download(ctx, req.URL, download.SelectVideo, req.OutputDir)
	if err != nil {
		return err
	}

	if req.CompressionRate <= 0 {
		fmt.Fprintf(p.out, "Video '%s' has been downloaded successfully to '%s'!\n", task.Title, task.OutputPath)
		return nil
	}

	task.Status = model.TaskStatusCompressing
	compressedPath, err := p.compressor.Compress(ctx, task.OutputPath, platform.CompressedPath(task.OutputPath), req.CompressionRate)
	if err != nil {
		task.Fail(err)
		return err
	}

	if compressedPath != task.OutputPath {
		if err := platform.RemoveFile(task.OutputPath); err != nil {
			log.Printf("Failed to remove uncompressed video: %v", err)
		}
	}
	task.OutputPath = compressedPath
	task.Complete()

	fmt.Fprintf(p.out, "Video '%s' has been downloaded and compressed successfully to '%s'!\n", task.Title, compressedPath)
	return nil
}

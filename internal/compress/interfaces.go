package compress

import (
	"context"

	"github.com/ytget/yt-grab/internal/model"
)

// Compressor defines the interface for the compression service.
type Compressor interface {
	SetUpdateCallback(func(*model.CompressionTask))
	Compress(ctx context.Context, inputPath, outputPath string, rate int) (string, error)
}

package cli

import (
	"context"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-grab/internal/compress"
	"github.com/ytget/yt-grab/internal/config"
	"github.com/ytget/yt-grab/internal/download"
	"github.com/ytget/yt-grab/internal/pipeline"
	"github.com/ytget/yt-grab/internal/platform"
	"github.com/ytget/yt-grab/internal/transcode"
)

// AppName is the command name
const AppName = "yt-grab"

// newFetcher is replaced in tests
var newFetcher = download.NewFetcher

type options struct {
	configPath string
	backend    string
	ffmpegPath string
	insecure   bool
	verbose    bool
}

// NewRootCommand builds the yt-grab command
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   AppName,
		Short: "Download a YouTube video or its audio track",
		Long: `Download a YouTube video or its audio track.

The URL, audio-only choice, output directory and compression rate are asked
interactively. Audio is converted to mp3 and video can be re-encoded with
ffmpeg/libx264. The chosen output directory is remembered in the config file.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Reject a bad backend before any prompt is shown
			return download.ValidateBackend(opts.backend)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "Preferences file")
	flags.StringVarP(&opts.backend, "backend", "b", download.BackendYTDLP, "Download backend ("+download.BackendYTDLP+" or "+download.BackendKkdai+")")
	flags.StringVar(&opts.ffmpegPath, "ffmpeg", compress.FFmpegCommand, "Path to the ffmpeg executable")
	flags.BoolVar(&opts.insecure, "insecure-skip-verify", false, "Disable TLS certificate verification for YouTube requests")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print diagnostic logs to stderr")

	return cmd
}

// Execute runs the root command
func Execute(ctx context.Context, version string) error {
	return NewRootCommand(version).ExecuteContext(ctx)
}

// run loads the preferences, asks the questions, saves the chosen output
// directory and runs the pipeline. Only setup failures are returned; a failed
// download is reported on out and the command still succeeds.
func run(ctx context.Context, opts *options, in io.Reader, out, errOut io.Writer) error {
	if opts.verbose {
		log.SetOutput(errOut)
	} else {
		log.SetOutput(io.Discard)
	}
	warn := log.New(errOut, "WARNING: ", 0)

	settings, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	prompter, err := NewPrompter(in, out)
	if err != nil {
		return err
	}
	req, err := prompter.Collect(settings.GetOutputPath())
	_ = prompter.Close()
	if err != nil {
		return err
	}

	settings.SetOutputPath(req.OutputDir)
	if err := settings.Save(); err != nil {
		return err
	}
	log.Printf("Saved output path %s to %s", req.OutputDir, settings.Path())

	if opts.insecure {
		warn.Println("TLS certificate verification is disabled for YouTube requests")
	}
	httpClient := platform.NewHTTPClient(platform.HTTPOptions{InsecureSkipVerify: opts.insecure})

	fetcher, err := newFetcher(opts.backend, httpClient)
	if err != nil {
		return err
	}

	converter := transcode.NewFFmpegConverter(opts.ffmpegPath)
	if (req.AudioOnly || req.CompressionRate > 0) && !converter.Available() {
		warn.Printf("%s not found; conversion will fail", opts.ffmpegPath)
	}

	// Task transitions only reach stderr with --verbose
	tasks := newTaskLog(log.Default())
	downloads := download.NewService(fetcher, download.NewConsoleReporter(out))
	downloads.SetUpdateCallback(tasks.Download)
	compressor := compress.NewService(opts.ffmpegPath, out)
	compressor.SetUpdateCallback(tasks.Compression)

	p := pipeline.New(downloads, converter, compressor, out)

	// Failures are already printed by the pipeline; the exit status stays 0
	_ = p.Run(ctx, req)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/audio"
	"github.com/jaki95/showcut/internal/downloader"
	"github.com/jaki95/showcut/internal/fetch"
	"github.com/jaki95/showcut/internal/images"
	"github.com/jaki95/showcut/internal/pipeline"
	"github.com/jaki95/showcut/internal/progress"
	"github.com/jaki95/showcut/internal/search"
	"github.com/jaki95/showcut/internal/storage"
	"github.com/jaki95/showcut/internal/tagging"
)

// NewRunner wires the production pipeline.
func NewRunner(ctx context.Context, cfg *config.Config, tracker *progress.ProgressTracker) (Runner, io.Closer, error) {
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, setupError("failed to open storage", err)
	}

	client := fetch.NewClient(fetch.Options{
		UserAgent:         cfg.HTTP.UserAgent,
		Timeout:           cfg.HTTP.Timeout,
		RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		Burst:             cfg.HTTP.Burst,
	})

	deps := pipeline.Deps{
		Searcher: search.NewClient(client, cfg.Station),
		Downloader: downloader.NewHTTPDownloader(downloader.Options{
			UserAgent: cfg.HTTP.UserAgent,
			ChunkSize: cfg.Download.ChunkSize,
			Timeout:   cfg.HTTP.Timeout,
			Retry: downloader.RetryConfig{
				MaxAttempts: cfg.Download.MaxAttempts,
				Delay:       cfg.Download.RetryDelay,
			},
		}),
		Cutter:  newCutter(cfg.Cut, cfg.Storage.TempDir),
		Tagger:  tagging.NewWriter(cfg.Station, cfg.Tagging.ID3Version),
		Storage: store,
		Tracker: tracker,
		Verify:  tagging.Verify,
	}
	if cfg.Tagging.FetchImages {
		deps.Images = images.NewFetcher(client, cfg.Tagging.ImageWorkers)
	}

	return pipeline.NewProcessor(cfg.Station, deps), store, nil
}

// newCutter returns the configured cut engine, or nil when it cannot run.
func newCutter(cfg config.CutConfig, tempDir string) audio.Cutter {
	switch cfg.Engine {
	case config.EngineFFmpeg:
		binary, err := audio.FindFFmpeg(cfg.FFmpegPath)
		if err != nil {
			slog.Warn("ffmpeg not found, cutting disabled", "error", err)
			return nil
		}
		return audio.NewFFmpegCutter(binary, tempDir)
	default:
		return audio.NewNativeCutter()
	}
}

func setupError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSetup, msg, err)
}

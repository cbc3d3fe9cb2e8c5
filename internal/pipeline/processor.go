// Package pipeline turns the broadcasts of a show into trimmed, tagged
// MP3 files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/audio"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/downloader"
	"github.com/jaki95/showcut/internal/images"
	"github.com/jaki95/showcut/internal/job"
	"github.com/jaki95/showcut/internal/progress"
	"github.com/jaki95/showcut/internal/storage"
	"github.com/jaki95/showcut/internal/tagging"
)

// ErrNoBroadcasts is returned when a search finds nothing to process.
var ErrNoBroadcasts = errors.New("no broadcasts found")

// Suffix of the raw download while it is being fetched.
const downloadSuffix = ".download"

type Searcher interface {
	Search(ctx context.Context, show string) ([]domain.Broadcast, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, images []domain.Image) *images.Picture
	FetchChapters(ctx context.Context, chapters []domain.Chapter) map[string]*images.Picture
}

type Tagger interface {
	Write(path string, m tagging.Metadata) error
}

// Deps are the collaborators of a Processor. Cutter and Images may be nil:
// without a cutter complete broadcasts are saved, without an image fetcher
// no artwork is embedded. Verify, when set, checks each tagged file.
type Deps struct {
	Searcher   Searcher
	Downloader downloader.Downloader
	Cutter     audio.Cutter
	Tagger     Tagger
	Images     ImageFetcher
	Storage    storage.Storage
	Tracker    *progress.ProgressTracker
	Verify     func(ctx context.Context, path string, m tagging.Metadata)
}

// Processor runs the search, download, cut and tag steps for every
// broadcast of a show.
type Processor struct {
	Deps
	station config.StationConfig
	jobs    *job.Manager
}

func NewProcessor(station config.StationConfig, deps Deps) *Processor {
	if deps.Tracker == nil {
		deps.Tracker = progress.NewProgressTracker()
	}
	return &Processor{
		Deps:    deps,
		station: station,
		jobs:    job.NewManager(),
	}
}

// Jobs returns the bookkeeping of the last run.
func (p *Processor) Jobs() *job.Manager {
	return p.jobs
}

// Plan searches for the broadcasts of show and computes what would be
// done with each of them, without downloading anything.
func (p *Processor) Plan(ctx context.Context, show string, opts Options) ([]*Plan, error) {
	broadcasts, opts, err := p.find(ctx, show, opts)
	if err != nil {
		return nil, err
	}

	plans := make([]*Plan, 0, len(broadcasts))
	for _, b := range broadcasts {
		plan, err := BuildPlan(b, opts, p.station)
		if err != nil {
			slog.Warn("Broadcast has nothing to download", "title", b.Title, "file", plan.Filename, "error", err)
			plan.Err = err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Run processes every broadcast of show. Broadcasts are independent: a
// failure is recorded in the job summary and the run goes on with the
// next one. The returned error is only set when the run as a whole could
// not proceed.
func (p *Processor) Run(ctx context.Context, show string, opts Options) (job.Summary, error) {
	broadcasts, opts, err := p.find(ctx, show, opts)
	if err != nil {
		p.Tracker.SetError(err)
		return p.jobs.Summary(), err
	}

	loc := p.station.Location()
	ids := make([]string, len(broadcasts))
	for i, b := range broadcasts {
		ids[i] = p.jobs.CreateJob(b.Title, time.UnixMilli(b.Start).In(loc)).ID
	}

	for i, b := range broadcasts {
		if err := ctx.Err(); err != nil {
			p.jobs.CancelPending("interrupted")
			return p.jobs.Summary(), err
		}

		p.Tracker.StartBroadcast(i+1, len(broadcasts), i, b.Title)
		if err := p.jobs.Start(ids[i]); err != nil {
			return p.jobs.Summary(), err
		}

		output, skipReason, err := p.processBroadcast(ctx, b, opts)
		if err != nil && ctx.Err() != nil {
			p.jobs.CancelPending("interrupted")
			return p.jobs.Summary(), ctx.Err()
		}
		if err != nil {
			slog.Error("Failed to process broadcast", "title", b.Title, "error", err)
			p.Tracker.SetError(err)
		}
		p.finishJob(ids[i], output, skipReason, err)
	}

	summary := p.jobs.Summary()
	p.Tracker.UpdateProgress(progress.StageComplete, 100,
		fmt.Sprintf("%d saved, %d skipped, %d failed", summary.Completed, summary.Skipped, summary.Failed))
	return summary, nil
}

// finishJob records the outcome of a broadcast and logs it.
func (p *Processor) finishJob(id, output, skipReason string, err error) {
	var recordErr error
	switch {
	case err != nil:
		recordErr = p.jobs.Fail(id, err)
	case skipReason != "":
		recordErr = p.jobs.Skip(id, skipReason, output)
	default:
		recordErr = p.jobs.Complete(id, output)
	}
	if recordErr != nil {
		slog.Warn("Failed to record broadcast result", "job", id, "error", recordErr)
		return
	}

	status, recordErr := p.jobs.GetJob(id)
	if recordErr != nil {
		slog.Warn("Failed to read broadcast result", "job", id, "error", recordErr)
		return
	}
	elapsed := time.Duration(0)
	if status.EndTime != nil {
		elapsed = status.EndTime.Sub(status.StartTime)
	}
	slog.Info("Finished broadcast",
		"job", id,
		"title", status.Title,
		"status", status.Status,
		"message", status.Message,
		"output", status.Output,
		"elapsed", elapsed)
}

// find searches for show and narrows the options to what the processor
// can do.
func (p *Processor) find(ctx context.Context, show string, opts Options) ([]domain.Broadcast, Options, error) {
	p.Tracker.UpdateProgress(progress.StageSearching, 0, "Searching broadcasts of "+show)

	broadcasts, err := p.Searcher.Search(ctx, show)
	if err != nil {
		return nil, opts, err
	}
	if len(broadcasts) == 0 {
		return nil, opts, fmt.Errorf("%w: %q", ErrNoBroadcasts, show)
	}
	if opts.NewestOnly {
		broadcasts = broadcasts[:1]
	}

	if p.Cutter == nil && (len(opts.CutTypes) > 0 || !opts.IgnoreMarks) {
		slog.Warn("Cutting audio is not available, complete broadcasts will be saved")
		opts.CutTypes = nil
		opts.IgnoreMarks = true
	}
	return broadcasts, opts, nil
}

// processBroadcast produces the output file of one broadcast. It returns
// the output location, or a reason when there was nothing to do.
func (p *Processor) processBroadcast(ctx context.Context, b domain.Broadcast, opts Options) (string, string, error) {
	plan, err := BuildPlan(b, opts, p.station)
	switch {
	case errors.Is(err, ErrNothingToKeep), errors.Is(err, ErrNoStream):
		return "", err.Error(), nil
	case err != nil:
		return "", "", err
	}

	exists, err := p.Storage.Exists(ctx, plan.Filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to check output: %w", err)
	}
	if exists {
		return p.Storage.Location(plan.Filename), "already exists", nil
	}

	downloadPath, err := p.Storage.TempPath(plan.Filename, downloadSuffix)
	if err != nil {
		return "", "", err
	}
	workPath, err := p.Storage.TempPath(plan.Filename, storage.TempSuffix)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(downloadPath)
	defer os.Remove(workPath)

	p.Tracker.UpdateProgress(progress.StageDownloading, 0, "Downloading "+plan.Filename)
	if _, err := p.Downloader.Download(ctx, plan.AudioURL, downloadPath, p.Tracker.UpdateTransfer); err != nil {
		return "", "", fmt.Errorf("failed to download audio: %w", err)
	}

	if plan.Cut {
		p.Tracker.UpdateProgress(progress.StageCutting, 0, "Cutting "+plan.Filename)
		err = p.Cutter.Cut(ctx, audio.CutParams{
			InputPath:  downloadPath,
			OutputPath: workPath,
			Keepmarks:  plan.Keepmarks,
		})
		if err != nil {
			return "", "", fmt.Errorf("failed to cut audio: %w", err)
		}
	} else if err := os.Rename(downloadPath, workPath); err != nil {
		return "", "", fmt.Errorf("failed to prepare audio: %w", err)
	}

	p.Tracker.UpdateProgress(progress.StageTagging, 0, "Tagging "+plan.Filename)
	meta := tagging.BroadcastMetadata(b, plan.Chapters, plan.Keepmarks, p.station.Location())
	if p.Images != nil {
		meta.Cover = p.Images.Fetch(ctx, b.Images)
		meta.ChapterArt = p.Images.FetchChapters(ctx, meta.Chapters)
	}
	if err := p.Tagger.Write(workPath, meta); err != nil {
		return "", "", fmt.Errorf("failed to write tags: %w", err)
	}
	if p.Verify != nil {
		p.Verify(ctx, workPath, meta)
	}

	output, err := p.Storage.Commit(ctx, workPath, plan.Filename)
	if err != nil {
		return "", "", fmt.Errorf("failed to store output: %w", err)
	}
	return output, "", nil
}

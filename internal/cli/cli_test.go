package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/domain"
	"github.com/jaki95/showcut/internal/job"
	"github.com/jaki95/showcut/internal/pipeline"
	"github.com/jaki95/showcut/internal/progress"
	"github.com/jaki95/showcut/internal/timeline"
)

type fakeRunner struct {
	jobs    *job.Manager
	fail    bool
	err     error
	plans   []*pipeline.Plan
	show    string
	opts    pipeline.Options
	cfg     *config.Config
	tracker *progress.ProgressTracker
}

func (r *fakeRunner) Run(_ context.Context, show string, opts pipeline.Options) (job.Summary, error) {
	r.show, r.opts = show, opts
	if r.err != nil {
		return r.jobs.Summary(), r.err
	}

	j := r.jobs.CreateJob("Morning Show", time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC))
	_ = r.jobs.Start(j.ID)
	r.tracker.UpdateTransfer(10, 20)
	if r.fail {
		_ = r.jobs.Fail(j.ID, errors.New("download failed"))
	} else {
		_ = r.jobs.Complete(j.ID, "/out/FM4 Morning Show.mp3")
	}
	r.tracker.UpdateProgress(progress.StageComplete, 100, "done")
	return r.jobs.Summary(), nil
}

func (r *fakeRunner) Plan(_ context.Context, show string, opts pipeline.Options) ([]*pipeline.Plan, error) {
	r.show, r.opts = show, opts
	return r.plans, r.err
}

func (r *fakeRunner) Jobs() *job.Manager {
	return r.jobs
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func testEnv(r *fakeRunner) (*Env, *bytes.Buffer) {
	var stdout bytes.Buffer
	return &Env{
		Stdout:   &stdout,
		Stderr:   io.Discard,
		Progress: io.Discard,
		Getenv:   func(string) string { return "" },
		NewRunner: func(_ context.Context, cfg *config.Config, tracker *progress.ProgressTracker) (Runner, io.Closer, error) {
			r.cfg, r.tracker = cfg, tracker
			return r, nopCloser{}, nil
		},
	}, &stdout
}

func execute(env *Env, args ...string) error {
	cmd := RootCmd(env, "test")
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestDownload(t *testing.T) {
	r := &fakeRunner{jobs: job.NewManager()}
	env, stdout := testEnv(r)
	target := t.TempDir()

	err := execute(env, "download", " Morning Show ", target, "-c", "w, n", "-n")
	require.NoError(t, err)

	assert.Equal(t, "Morning Show", r.show)
	assert.Equal(t, pipeline.Options{CutTypes: []string{"W", "N"}, NewestOnly: true}, r.opts)
	assert.Equal(t, target, r.cfg.Storage.OutputDir)
	assert.Contains(t, stdout.String(), "completed")
	assert.Contains(t, stdout.String(), "2024-03-05 06:00")
	assert.Contains(t, stdout.String(), "1 saved, 0 skipped, 0 failed")
}

func TestDownload_DetachesProgressBars(t *testing.T) {
	r := &fakeRunner{jobs: job.NewManager()}
	env, _ := testEnv(r)
	var bars bytes.Buffer
	env.Progress = &bars

	require.NoError(t, execute(env, "download", "Morning Show"))
	drawn := bars.Len()
	assert.Positive(t, drawn)

	r.tracker.UpdateTransfer(15, 20)
	assert.Equal(t, drawn, bars.Len(), "no bar is drawn after the run")
}

func TestDownload_Failure(t *testing.T) {
	r := &fakeRunner{jobs: job.NewManager(), fail: true}
	env, stdout := testEnv(r)

	err := execute(env, "download", "Morning Show", "--ignore", "-q")
	assert.ErrorIs(t, err, ErrBroadcastsFailed)
	assert.True(t, r.opts.IgnoreMarks)
	assert.Contains(t, stdout.String(), "download failed")
}

func TestDownload_NoBroadcasts(t *testing.T) {
	r := &fakeRunner{jobs: job.NewManager(), err: pipeline.ErrNoBroadcasts}
	env, stdout := testEnv(r)

	err := execute(env, "download", "Nothing")
	assert.ErrorIs(t, err, pipeline.ErrNoBroadcasts)
	assert.Empty(t, stdout.String())
}

func TestDownload_MissingTargetDir(t *testing.T) {
	r := &fakeRunner{jobs: job.NewManager()}
	env, _ := testEnv(r)

	err := execute(env, "download", "Morning Show", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrSetup)
	assert.ErrorIs(t, err, ErrTargetDir)
	assert.Nil(t, r.cfg, "runner must not be created")
}

func TestDownload_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cut:\n  engine: sox\n"), 0644))

	r := &fakeRunner{jobs: job.NewManager()}
	env, _ := testEnv(r)
	env.Getenv = func(key string) string {
		if key == config.EnvConfigPath {
			return path
		}
		return ""
	}

	err := execute(env, "download", "Morning Show")
	assert.ErrorIs(t, err, ErrSetup)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestDownload_Usage(t *testing.T) {
	env, _ := testEnv(&fakeRunner{jobs: job.NewManager()})

	err := execute(env, "download")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts between 1 and 2 arg(s)")
}

func TestPlan(t *testing.T) {
	b := domain.Broadcast{Start: 0, End: 10000}
	r := &fakeRunner{
		jobs: job.NewManager(),
		plans: []*pipeline.Plan{
			{
				Broadcast: b,
				Filename:  "FM4 Morning Show 2024-03-05 06_00.mp3",
				Keepmarks: []timeline.Interval{{Start: 0, End: 4000}, {Start: 5000, End: 10000}},
				Chapters: []domain.Chapter{
					{ID: "chp1", Start: 0, End: 4000, Title: "First", Type: domain.TypeMusic},
					{ID: "chp2", Start: 0, End: 1000, Title: "* JINGLE *", Type: domain.TypeJingle, Hidden: true},
				},
				Cut: true,
			},
			{
				Broadcast: b,
				Filename:  "FM4 Morning Show 2024-03-04 06_00.mp3",
				Err:       pipeline.ErrNothingToKeep,
			},
		},
	}
	env, stdout := testEnv(r)

	require.NoError(t, execute(env, "plan", "Morning Show", "-c", "N"))

	out := stdout.String()
	assert.Contains(t, out, "keeps 0:00:09.000 of 0:00:10.000")
	assert.Contains(t, out, "keep     0:00:05.000 - 0:00:10.000")
	assert.Contains(t, out, "chp2     0:00:00.001 - 0:00:01.000  [J] * JINGLE * (hidden)")
	assert.Contains(t, out, "skipped: nothing left to keep")
	assert.Equal(t, []string{"N"}, r.opts.CutTypes)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "0:00:00.000", clock(0))
	assert.Equal(t, "1:02:03.004", clock(3723004))
	assert.Equal(t, "-0:00:01.500", clock(-1500))
}

func TestChapterTypesHelp(t *testing.T) {
	help := chapterTypesHelp()
	assert.Contains(t, help, "W = ")
	assert.Contains(t, help, "N = ")
	assert.Less(t, bytes.Index([]byte(help), []byte("B = ")), bytes.Index([]byte(help), []byte("W = ")))
}

func TestBarListener(t *testing.T) {
	var buf bytes.Buffer
	l := newBarListener(&buf)

	l.handle(progress.Event{Stage: progress.StageDownloading, Broadcast: &progress.BroadcastDetails{Index: 1, Total: 2}})
	l.handle(progress.Event{Stage: progress.StageDownloading, Transfer: &progress.TransferDetails{Written: 512, Total: 1024}})
	require.NotNil(t, l.bar)
	l.handle(progress.Event{Stage: progress.StageTagging})
	assert.Nil(t, l.bar)
	assert.NotEmpty(t, buf.String())
}

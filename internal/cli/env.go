package cli

import (
	"context"
	"io"
	"os"

	"github.com/k0kubun/go-ansi"

	"github.com/jaki95/showcut/config"
	"github.com/jaki95/showcut/internal/job"
	"github.com/jaki95/showcut/internal/pipeline"
	"github.com/jaki95/showcut/internal/progress"
)

// DefaultConfigPath is used when neither --config nor SHOWCUT_CONFIG is set.
const DefaultConfigPath = "./config/config.yaml"

// Runner is the part of pipeline.Processor the commands use.
type Runner interface {
	Run(ctx context.Context, show string, opts pipeline.Options) (job.Summary, error)
	Plan(ctx context.Context, show string, opts pipeline.Options) ([]*pipeline.Plan, error)
	Jobs() *job.Manager
}

// RunnerFactory wires a Runner from the config. The returned closer
// releases what the runner holds open.
type RunnerFactory func(ctx context.Context, cfg *config.Config, tracker *progress.ProgressTracker) (Runner, io.Closer, error)

// Env holds injectable dependencies for CLI commands.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	// Progress receives the progress bars.
	Progress  io.Writer
	Getenv    func(string) string
	NewRunner RunnerFactory
}

// DefaultEnv returns the environment of the real program.
func DefaultEnv() *Env {
	return &Env{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Progress:  ansi.NewAnsiStderr(),
		Getenv:    os.Getenv,
		NewRunner: NewRunner,
	}
}

// loadConfig loads the config from path, SHOWCUT_CONFIG or the default
// location, in that order.
func (e *Env) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = e.Getenv(config.EnvConfigPath)
	}
	if path == "" {
		path = DefaultConfigPath
	}

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, setupError("failed to load config", err)
	}
	return cfg, nil
}

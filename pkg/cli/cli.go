package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/infra/libplf"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Exit codes of the plfrecover binary
const (
	ExitOK      = 0
	ExitPartial = 1
	ExitFatal   = 2
)

// ExitCode maps the error returned by Run to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, types.ErrPartialFailure):
		return ExitPartial
	default:
		return ExitFatal
	}
}

type runOptions struct {
	stdout    io.Writer
	logWriter io.Writer
}

// RunOption customizes output destinations of Run
type RunOption func(*runOptions)

// WithStdout sets the writer for command output (summary, tables)
func WithStdout(w io.Writer) RunOption {
	return func(o *runOptions) { o.stdout = w }
}

// WithLogWriter sets the writer for log output
func WithLogWriter(w io.Writer) RunOption {
	return func(o *runOptions) { o.logWriter = w }
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...RunOption) error {
	ro := runOptions{stdout: os.Stdout, logWriter: os.Stderr}
	for _, opt := range opts {
		opt(&ro)
	}

	loggerCfg := config.Logger{Writer: ro.logWriter}
	var logger *slog.Logger

	app := &cli.Command{
		Name:      "plfrecover",
		Usage:     "Recover a directory tree from PLF image entries",
		Version:   types.Version,
		Flags:     loggerCfg.Flags(),
		Writer:    ro.stdout,
		ErrWriter: ro.logWriter,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			return logging.With(ctx, logger), nil
		},
		Commands: []*cli.Command{
			cmdExtract(ro.stdout, libplf.GetVersion),
			cmdList(ro.stdout),
			cmdInfo(ro.stdout),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(ro.logWriter, nil))
		}
		if errors.Is(err, types.ErrPartialFailure) {
			logger.Warn("Extraction completed with failures", slog.Any("error", err))
		} else {
			logger.Error("CLI execution failed", slog.Any("error", err))
		}
		return err
	}

	return nil
}

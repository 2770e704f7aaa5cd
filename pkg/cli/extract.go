package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/interfaces"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/infra/plfsource"
	"github.com/m-mizutani/plfrecover/pkg/usecase"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdExtract(stdout io.Writer, version interfaces.VersionFunc) *cli.Command {
	var cfg config.Extract

	return &cli.Command{
		Name:    "extract",
		Aliases: []string{"x"},
		Usage:   "Recover the directory tree into the output directory",
		Flags:   cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			if err := cfg.Load(c.IsSet); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.NoColor {
				color.NoColor = true
			}

			if v := version(); v != nil {
				logger.Info("libplf", "version", v.String())
			}

			src, err := plfsource.Open(cfg.Input)
			if err != nil {
				return goerr.Wrap(err, "failed to open input")
			}

			materializer, err := usecase.NewMaterializer(cfg.Output,
				usecase.WithForce(cfg.Force),
				usecase.WithCreateParents(cfg.CreateParents),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to prepare output")
			}
			defer materializer.Close()

			uc := usecase.NewExtract(materializer, usecase.WithWorkers(cfg.Workers))
			summary, err := uc.Extract(ctx, src)
			if summary != nil {
				printSummary(stdout, summary)
			}
			if err != nil {
				return goerr.Wrap(err, "extraction aborted", goerr.V("output", materializer.Dir()))
			}

			if failures := summary.Err(); failures != nil {
				return goerr.Wrap(types.ErrPartialFailure, "some entries could not be recovered",
					goerr.V("failed", summary.Failed()),
					goerr.V("details", failures.Error()),
				)
			}
			return nil
		},
	}
}

var summaryKinds = []model.NodeKind{
	model.KindDirectory,
	model.KindRegular,
	model.KindExecutable,
	model.KindLibrary,
	model.KindSymlink,
}

func printSummary(w io.Writer, s *model.Summary) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintf(w, "run %s\n", s.RunID)
	green.Fprintf(w, "  succeeded: %d", s.Succeeded)
	fmt.Fprintf(w, " (%d bytes)\n", s.Bytes)
	for _, kind := range summaryKinds {
		if n := s.Kinds[kind]; n > 0 {
			fmt.Fprintf(w, "    %-10s %d\n", kind, n)
		}
	}
	yellow.Fprintf(w, "  skipped:   %d\n", s.Skipped)

	failed := green
	if s.Failed() > 0 {
		failed = red
	}
	failed.Fprintf(w, "  failed:    %d\n", s.Failed())
	for _, f := range s.Failures {
		fmt.Fprintf(w, "    %s: %v\n", f.ID, f.Err)
	}
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/infra/plfsource"
	"github.com/m-mizutani/plfrecover/pkg/usecase"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func cmdList(stdout io.Writer) *cli.Command {
	var cfg config.List

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Print decoded entries without writing anything",
		Flags:   cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			src, err := plfsource.Open(cfg.Input)
			if err != nil {
				return goerr.Wrap(err, "failed to open input")
			}

			infos, err := usecase.NewList().List(ctx, src)
			if err != nil {
				return goerr.Wrap(err, "failed to list entries")
			}

			printEntries(stdout, infos)
			return nil
		},
	}
}

func printEntries(w io.Writer, infos []*model.EntryInfo) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Marker", "Kind", "Mode", "Size", "Digest", "Status"})
	table.SetAutoWrapText(false)

	for _, info := range infos {
		mode := ""
		if info.Kind != "" && info.Kind != model.KindSymlink {
			mode = fmt.Sprintf("%04o", uint32(info.Mode.Perm()))
		}
		name := info.Name
		if info.Target != "" {
			name += " -> " + info.Target
		}
		dgst := ""
		if info.Digest != "" {
			dgst = info.Digest.Encoded()[:12]
		}

		table.Append([]string{
			info.ID,
			name,
			info.Marker,
			string(info.Kind),
			mode,
			fmt.Sprintf("%d", info.Size),
			dgst,
			info.Status(),
		})
	}

	table.Render()
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/infra/plfsource"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func cmdInfo(stdout io.Writer) *cli.Command {
	var cfg config.List

	return &cli.Command{
		Name:  "info",
		Usage: "Print the file header and section table of a .plf image",
		Flags: cfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := cfg.Validate(); err != nil {
				return err
			}

			if st, err := os.Stat(cfg.Input); err == nil && st.IsDir() {
				return goerr.Wrap(types.ErrInvalidConfig, "info requires a .plf image file", goerr.V("input", cfg.Input))
			}

			archive, err := plfsource.OpenArchive(cfg.Input)
			if err != nil {
				return goerr.Wrap(err, "failed to open image")
			}

			header := archive.Header()
			printHeader(stdout, &header)
			printSections(stdout, &header, archive.Sections())
			return nil
		},
	}
}

func hex32(v uint32) string {
	return fmt.Sprintf("0x%08x", v)
}

func printHeader(w io.Writer, h *model.ArchiveHeader) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.AppendBulk([][]string{
		{"HdrVersion", hex32(h.HdrVersion)},
		{"HdrSize", hex32(h.HdrSize)},
		{"SectHdrSize", hex32(h.SectHdrSize)},
		{"FileType", hex32(h.FileType) + " (" + h.FileTypeName() + ")"},
		{"EntryPoint", hex32(h.EntryPoint)},
		{"TargetPlat", hex32(h.TargetPlat)},
		{"TargetAppl", hex32(h.TargetAppl)},
		{"HwCompat", hex32(h.HwCompat)},
		{"VersionMajor", hex32(h.VersionMajor)},
		{"VersionMinor", hex32(h.VersionMinor)},
		{"VersionBugfix", hex32(h.VersionBugfix)},
		{"LangZone", hex32(h.LangZone)},
		{"FileSize", hex32(h.FileSize)},
	})
	table.Render()
}

func printSections(w io.Writer, h *model.ArchiveHeader, sections []*model.ArchiveSection) {
	fmt.Fprintf(w, "sections: %d\n", len(sections))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sect", "ID", "Type", "Size", "CRC32", "LoadAddr", "UncomprSize"})
	table.SetAutoWrapText(false)
	for _, s := range sections {
		table.Append([]string{
			fmt.Sprintf("%04d", s.Index),
			plfsource.SectionID(h.FileType, s),
			hex32(s.Type),
			hex32(s.Size),
			hex32(s.CRC32),
			hex32(s.LoadAddr),
			hex32(s.UncomprSize),
		})
	}
	table.Render()
}

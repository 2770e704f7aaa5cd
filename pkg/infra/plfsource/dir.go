package plfsource

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
)

// Dir reads entries from a directory holding one file per entry, as written by
// a raw section dump of a PLF image.
type Dir struct {
	root     string
	excluded []string
}

// NewDir creates an entry source over the directory root
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Describe returns the input directory path
func (d *Dir) Describe() string {
	return "directory " + d.root
}

// Excluded returns identifiers skipped by the last call to Entries
func (d *Dir) Excluded() []string {
	return d.excluded
}

// Entries yields regular files under root in file name order. Files are read
// lazily, one per iteration step.
func (d *Dir) Entries(ctx context.Context) iter.Seq2[*model.RawEntry, error] {
	return func(yield func(*model.RawEntry, error) bool) {
		logger := logging.From(ctx)
		d.excluded = nil

		// os.ReadDir returns entries sorted by file name
		dirents, err := os.ReadDir(d.root)
		if err != nil {
			yield(nil, goerr.Wrap(types.AsIOFailure(err), "failed to read input directory",
				goerr.V("input", d.root),
			))
			return
		}

		for _, dirent := range dirents {
			if err := ctx.Err(); err != nil {
				yield(nil, goerr.Wrap(err, "entry enumeration cancelled"))
				return
			}

			id := dirent.Name()
			if IsReserved(id) {
				logger.Debug("Skipping reserved entry", "id", id)
				d.excluded = append(d.excluded, id)
				continue
			}
			regular, err := d.isRegular(dirent)
			if err != nil {
				yield(nil, goerr.Wrap(types.AsIOFailure(err), "failed to stat entry file",
					goerr.V("input", d.root),
					goerr.V("id", id),
				))
				return
			}
			if !regular {
				logger.Debug("Skipping non-regular input", "id", id, "type", dirent.Type().String())
				d.excluded = append(d.excluded, id)
				continue
			}

			data, err := os.ReadFile(filepath.Join(d.root, id))
			if err != nil {
				yield(nil, goerr.Wrap(types.AsIOFailure(err), "failed to read entry file",
					goerr.V("input", d.root),
					goerr.V("id", id),
				))
				return
			}

			if !yield(&model.RawEntry{ID: id, Data: data}, nil) {
				return
			}
		}
	}
}

// isRegular reports whether dirent is a regular file, following symlinks.
// A dangling link is not regular.
func (d *Dir) isRegular(dirent fs.DirEntry) (bool, error) {
	if dirent.Type()&fs.ModeSymlink == 0 {
		return dirent.Type().IsRegular(), nil
	}

	st, err := os.Stat(filepath.Join(d.root, dirent.Name()))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return st.Mode().IsRegular(), nil
}

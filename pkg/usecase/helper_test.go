package usecase_test

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
)

// entryBytes encodes one image entry: name, NUL, marker, 10 zero bytes, payload
func entryBytes(name string, marker model.TypeMarker, payload []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(name)
	buf.WriteByte(0)
	buf.Write(marker[:])
	buf.Write(make([]byte, model.SeparatorLen))
	buf.Write(payload)
	return buf.Bytes()
}

// writeInput creates an entry directory from id -> entry bytes
func writeInput(t *testing.T, entries map[string][]byte) string {
	t.Helper()
	dir := t.TempDir()
	for id, data := range entries {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, id), data, 0o644))
	}
	return dir
}

// snapshot describes every node under root, one line per path
func snapshot(t *testing.T, root string) []string {
	t.Helper()
	var lines []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := os.Lstat(path)
		if err != nil {
			return err
		}

		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			lines = append(lines, fmt.Sprintf("%s symlink -> %s", rel, target))
		case info.IsDir():
			lines = append(lines, fmt.Sprintf("%s dir %o", rel, info.Mode().Perm()))
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			lines = append(lines, fmt.Sprintf("%s file %o %q", rel, info.Mode().Perm(), content))
		}
		return nil
	})
	gt.NoError(t, err)
	sort.Strings(lines)
	return lines
}

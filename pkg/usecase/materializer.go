package usecase

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/utils/fserr"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
)

const tempPrefix = ".plfrecover-"

// MaterializerOption is a functional option for FSMaterializer
type MaterializerOption func(*FSMaterializer)

// WithForce allows replacing existing non-empty files and symlinks
func WithForce(force bool) MaterializerOption {
	return func(m *FSMaterializer) {
		m.force = force
	}
}

// WithCreateParents creates missing parent directories instead of reporting
// a path conflict
func WithCreateParents(create bool) MaterializerOption {
	return func(m *FSMaterializer) {
		m.createParents = create
	}
}

// FSMaterializer writes nodes below a destination root. Every path is resolved
// through os.Root, so no node can be written outside the root.
type FSMaterializer struct {
	root          *os.Root
	dir           string
	force         bool
	createParents bool
}

// NewMaterializer opens (and creates if needed) the destination root output.
// Failing to do so is a fatal I/O failure.
func NewMaterializer(output string, opts ...MaterializerOption) (*FSMaterializer, error) {
	if err := os.MkdirAll(output, 0o755); err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to create destination root", goerr.V("output", output))
	}

	root, err := os.OpenRoot(output)
	if err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to open destination root", goerr.V("output", output))
	}

	m := &FSMaterializer{
		root: root,
		dir:  output,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dir returns the destination root path
func (m *FSMaterializer) Dir() string {
	return m.dir
}

// Close releases the destination root
func (m *FSMaterializer) Close() error {
	return m.root.Close()
}

// Materialize applies one node to the destination tree
func (m *FSMaterializer) Materialize(ctx context.Context, node *model.Node) error {
	logger := logging.From(ctx)

	rel, err := localPath(node.Path)
	if err != nil {
		return goerr.Wrap(err, "unsafe entry path", goerr.V("id", node.ID), goerr.V("path", node.Path))
	}
	if rel == "." {
		if node.Kind != model.KindDirectory {
			return goerr.Wrap(types.ErrPathConflict, "node resolves to the destination root",
				goerr.V("id", node.ID),
				goerr.V("path", node.Path),
			)
		}
		logger.Debug("Root directory entry, nothing to do", "id", node.ID)
		return nil
	}

	if err := m.ensureParent(rel); err != nil {
		return goerr.Wrap(err, "parent directory unavailable", goerr.V("id", node.ID), goerr.V("path", rel))
	}

	switch node.Kind {
	case model.KindDirectory:
		err = m.writeDir(rel, node.Mode)
	case model.KindSymlink:
		err = m.writeSymlink(rel, node.Target)
	case model.KindRegular, model.KindExecutable, model.KindLibrary:
		err = m.writeFile(rel, node.Content, node.Mode)
	default:
		return goerr.New("unsupported node kind", goerr.V("id", node.ID), goerr.V("kind", node.Kind))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to materialize node",
			goerr.V("id", node.ID),
			goerr.V("path", rel),
			goerr.V("kind", node.Kind),
		)
	}

	logger.Debug("Materialized node", "id", node.ID, "path", rel, "kind", node.Kind)
	return nil
}

// localPath converts an entry name into a path relative to the root.
// Leading slashes are dropped; names that climb out of the root are rejected.
func localPath(name string) (string, error) {
	rel := strings.TrimLeft(name, "/")
	if rel == "" {
		return ".", nil
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", goerr.Wrap(types.ErrPathConflict, "path escapes destination root")
	}
	return filepath.Clean(rel), nil
}

func (m *FSMaterializer) ensureParent(rel string) error {
	parent := filepath.Dir(rel)
	if parent == "." {
		return nil
	}

	st, err := m.root.Stat(parent)
	switch {
	case err == nil:
		if !st.IsDir() {
			return goerr.Wrap(types.ErrPathConflict, "parent is not a directory", goerr.V("parent", parent))
		}
		return nil

	case errors.Is(err, fs.ErrNotExist) && m.createParents:
		if err := m.root.MkdirAll(parent, model.ModeDirectory); err != nil {
			return classify(err)
		}
		return nil

	case errors.Is(err, fs.ErrNotExist):
		return goerr.Wrap(types.ErrPathConflict, "parent directory does not exist", goerr.V("parent", parent))

	default:
		return classify(err)
	}
}

func (m *FSMaterializer) writeDir(rel string, mode fs.FileMode) error {
	err := m.root.Mkdir(rel, mode)
	if errors.Is(err, fs.ErrExist) {
		st, lerr := m.root.Lstat(rel)
		if lerr != nil {
			return classify(lerr)
		}
		if !st.IsDir() {
			return goerr.Wrap(types.ErrPathConflict, "non-directory exists at directory path")
		}
	} else if err != nil {
		return classify(err)
	}

	// Mkdir is subject to umask
	if err := m.root.Chmod(rel, mode); err != nil {
		return classify(err)
	}
	return nil
}

// checkReplace decides whether an existing node at rel may be replaced by a
// file or symlink.
func (m *FSMaterializer) checkReplace(rel string) error {
	st, err := m.root.Lstat(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return classify(err)
	}

	switch {
	case st.IsDir():
		return goerr.Wrap(types.ErrPathConflict, "directory exists at path")
	case m.force:
		return nil
	case st.Mode()&fs.ModeSymlink != 0:
		return goerr.Wrap(types.ErrPathConflict, "symlink exists at path")
	case st.Mode().IsRegular() && st.Size() == 0:
		return nil
	default:
		return goerr.Wrap(types.ErrPathConflict, "non-empty file exists at path", goerr.V("size", st.Size()))
	}
}

// writeFile writes content to a temporary sibling and renames it into place,
// so a failed write never leaves a partial file at rel.
func (m *FSMaterializer) writeFile(rel string, content []byte, mode fs.FileMode) error {
	if err := m.checkReplace(rel); err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(rel), tempPrefix+uuid.NewString())
	f, err := m.root.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return classify(err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = m.root.Remove(tmp)
		return classify(err)
	}
	if err := f.Close(); err != nil {
		_ = m.root.Remove(tmp)
		return classify(err)
	}

	if err := m.root.Chmod(tmp, mode); err != nil {
		_ = m.root.Remove(tmp)
		return classify(err)
	}
	if err := m.root.Rename(tmp, rel); err != nil {
		_ = m.root.Remove(tmp)
		return classify(err)
	}

	return nil
}

func (m *FSMaterializer) writeSymlink(rel, target string) error {
	if err := m.checkReplace(rel); err != nil {
		return err
	}

	err := m.root.Symlink(target, rel)
	if errors.Is(err, fs.ErrExist) {
		// replacement allowed by checkReplace
		if err := m.root.Remove(rel); err != nil {
			return classify(err)
		}
		err = m.root.Symlink(target, rel)
	}
	if err != nil {
		return classify(err)
	}
	return nil
}

// classify splits filesystem errors into fatal resource failures and
// recoverable path conflicts.
func classify(err error) error {
	if fserr.IsResourceFailure(err) {
		return types.AsIOFailure(err)
	}
	return types.AsPathConflict(err)
}

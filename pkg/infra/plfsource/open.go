package plfsource

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/interfaces"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

// Open returns the entry source for input: a Dir for directories, an Archive
// for PLF image files.
func Open(input string) (interfaces.EntrySource, error) {
	st, err := os.Stat(input)
	if err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to stat input", goerr.V("input", input))
	}

	switch {
	case st.IsDir():
		return NewDir(input), nil
	case st.Mode().IsRegular():
		return OpenArchive(input)
	default:
		return nil, goerr.Wrap(types.ErrInvalidConfig, "input is neither a directory nor a file",
			goerr.V("input", input),
			goerr.V("mode", st.Mode().String()),
		)
	}
}

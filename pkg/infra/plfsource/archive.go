package plfsource

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
)

const (
	// Magic is "PLF!" read as a little-endian uint32
	Magic uint32 = 0x21464C50

	fileHeaderSize    = 0x38
	sectionHeaderSize = 0x14
)

// Archive reads entries directly from the sections of a PLF image file
type Archive struct {
	path     string
	header   model.ArchiveHeader
	sections []*model.ArchiveSection
	ids      []string
	excluded []string
}

// OpenArchive reads the file header and section table of the PLF image at path.
// Payloads are read later, during enumeration.
func OpenArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to open archive", goerr.V("input", path))
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to stat archive", goerr.V("input", path))
	}

	header, err := readFileHeader(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read archive header", goerr.V("input", path))
	}

	sections, err := readSections(f, header, st.Size())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read section table", goerr.V("input", path))
	}

	a := &Archive{
		path:     path,
		header:   *header,
		sections: sections,
	}
	for _, s := range sections {
		a.ids = append(a.ids, SectionID(header.FileType, s))
	}
	return a, nil
}

// Header returns the decoded PLF file header
func (a *Archive) Header() model.ArchiveHeader {
	return a.header
}

// Sections returns the section table in file order
func (a *Archive) Sections() []*model.ArchiveSection {
	return a.sections
}

// Describe returns the archive path and section count
func (a *Archive) Describe() string {
	return "archive " + a.path
}

// Excluded returns identifiers skipped by the last call to Entries
func (a *Archive) Excluded() []string {
	return a.excluded
}

// Entries yields one raw entry per section, sorted by section identifier.
// Compressed sections are inflated. A section that fails to inflate is yielded
// with a MalformedEntry error; the rest of the archive is still read.
func (a *Archive) Entries(ctx context.Context) iter.Seq2[*model.RawEntry, error] {
	return func(yield func(*model.RawEntry, error) bool) {
		logger := logging.From(ctx)
		a.excluded = nil

		f, err := os.Open(a.path)
		if err != nil {
			yield(nil, goerr.Wrap(types.AsIOFailure(err), "failed to open archive", goerr.V("input", a.path)))
			return
		}
		defer f.Close()

		order := make([]int, len(a.sections))
		for i := range order {
			order[i] = i
		}
		slices.SortStableFunc(order, func(x, y int) int {
			return strings.Compare(a.ids[x], a.ids[y])
		})

		for _, i := range order {
			if err := ctx.Err(); err != nil {
				yield(nil, goerr.Wrap(err, "entry enumeration cancelled"))
				return
			}

			id, section := a.ids[i], a.sections[i]
			if IsReserved(id) {
				logger.Debug("Skipping reserved section", "id", id)
				a.excluded = append(a.excluded, id)
				continue
			}

			raw := make([]byte, section.Size)
			if _, err := f.ReadAt(raw, section.Offset); err != nil {
				yield(nil, goerr.Wrap(types.AsIOFailure(err), "failed to read section payload",
					goerr.V("id", id),
					goerr.V("offset", section.Offset),
				))
				return
			}

			data, err := inflate(section, raw)
			if err != nil {
				if !yield(&model.RawEntry{ID: id}, goerr.Wrap(err, "failed to inflate section", goerr.V("id", id))) {
					return
				}
				continue
			}

			if !yield(&model.RawEntry{ID: id, Data: data}, nil) {
				return
			}
		}
	}
}

func readFileHeader(r io.ReaderAt) (*model.ArchiveHeader, error) {
	buf := make([]byte, fileHeaderSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "file is too short for a PLF header")
	}

	hdrSize := binary.LittleEndian.Uint32(buf[0x08:])
	if hdrSize < fileHeaderSize {
		clear(buf[hdrSize:])
	}

	var header model.ArchiveHeader
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &header); err != nil {
		return nil, goerr.Wrap(types.AsIOFailure(err), "failed to decode PLF header")
	}

	if header.Magic != Magic {
		return nil, goerr.Wrap(types.ErrIOFailure, "not a PLF image",
			goerr.V("magic", header.Magic),
		)
	}
	if header.HdrSize == 0 || header.SectHdrSize < sectionHeaderSize {
		return nil, goerr.Wrap(types.ErrIOFailure, "unsupported PLF header layout",
			goerr.V("hdr_size", header.HdrSize),
			goerr.V("sect_hdr_size", header.SectHdrSize),
		)
	}

	return &header, nil
}

// readSections walks the section table. A truncated header or payload ends
// the table.
func readSections(r io.ReaderAt, header *model.ArchiveHeader, size int64) ([]*model.ArchiveSection, error) {
	var sections []*model.ArchiveSection
	buf := make([]byte, sectionHeaderSize)

	offset := int64(header.HdrSize)
	for offset < size {
		if offset+int64(header.SectHdrSize) > size {
			break
		}
		if _, err := r.ReadAt(buf, offset); err != nil {
			return nil, goerr.Wrap(types.AsIOFailure(err), "failed to read section header",
				goerr.V("offset", offset),
			)
		}

		section := &model.ArchiveSection{
			Index:       len(sections),
			Type:        binary.LittleEndian.Uint32(buf[0x00:]),
			Size:        binary.LittleEndian.Uint32(buf[0x04:]),
			CRC32:       binary.LittleEndian.Uint32(buf[0x08:]),
			LoadAddr:    binary.LittleEndian.Uint32(buf[0x0C:]),
			UncomprSize: binary.LittleEndian.Uint32(buf[0x10:]),
			Offset:      offset + int64(header.SectHdrSize),
		}

		end := section.Offset + int64(section.Size)
		if end > size {
			break
		}
		sections = append(sections, section)

		// payloads are padded to 4 bytes
		offset = end + int64((4-section.Size%4)%4)
	}

	return sections, nil
}

func inflate(section *model.ArchiveSection, raw []byte) ([]byte, error) {
	if !section.Compressed() {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "section is not a gzip stream",
			goerr.V("cause", err.Error()),
		)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, int64(section.UncomprSize)+1))
	if err != nil {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "corrupt gzip stream",
			goerr.V("cause", err.Error()),
		)
	}
	if len(data) != int(section.UncomprSize) {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "inflated size mismatch",
			goerr.V("expected", section.UncomprSize),
			goerr.V("actual", len(data)),
		)
	}

	return data, nil
}

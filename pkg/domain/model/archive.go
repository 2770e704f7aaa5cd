package model

// PLF file types found in the header
const (
	FileTypeExecutable uint32 = 1
	FileTypeArchive    uint32 = 2
)

// ArchiveHeader is the decoded file header of a PLF image
type ArchiveHeader struct {
	Magic         uint32
	HdrVersion    uint32
	HdrSize       uint32
	SectHdrSize   uint32
	FileType      uint32
	EntryPoint    uint32
	TargetPlat    uint32
	TargetAppl    uint32
	HwCompat      uint32
	VersionMajor  uint32
	VersionMinor  uint32
	VersionBugfix uint32
	LangZone      uint32
	FileSize      uint32
}

// ArchiveSection is the decoded header of one PLF section
type ArchiveSection struct {
	Index       int
	Type        uint32
	Size        uint32
	CRC32       uint32
	LoadAddr    uint32
	UncomprSize uint32
	Offset      int64 // Absolute offset of the section payload
}

// Compressed reports whether the section payload is a gzip stream
func (s *ArchiveSection) Compressed() bool {
	return s.UncomprSize != 0
}

// FileTypeName returns "EXECUTABLE" or "ARCHIVE" for the header file type
func (h *ArchiveHeader) FileTypeName() string {
	if h.FileType == FileTypeExecutable {
		return "EXECUTABLE"
	}
	return "ARCHIVE"
}

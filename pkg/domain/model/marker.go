package model

import (
	"encoding/hex"
	"io/fs"
	"strings"
)

// TypeMarker is the 2-byte tag classifying an entry. Its bytes are the
// little-endian st_mode of the original inode.
type TypeMarker [MarkerLen]byte

var (
	MarkerLibrary    = TypeMarker{0x6D, 0x81}
	MarkerRegular    = TypeMarker{0xA4, 0x81}
	MarkerDirectory  = TypeMarker{0xED, 0x41}
	MarkerExecutable = TypeMarker{0xED, 0x81}
	MarkerSymlink    = TypeMarker{0xFF, 0xA1}
)

// String returns the marker as upper-case hex, e.g. "A481"
func (m TypeMarker) String() string {
	return strings.ToUpper(hex.EncodeToString(m[:]))
}

// NodeKind represents the kind of filesystem node an entry decodes to
type NodeKind string

const (
	KindDirectory  NodeKind = "directory"
	KindRegular    NodeKind = "file"
	KindExecutable NodeKind = "executable"
	KindLibrary    NodeKind = "library"
	KindSymlink    NodeKind = "symlink"
)

// Permission bits applied to materialized nodes. Symlinks carry none.
const (
	ModeDirectory  fs.FileMode = 0o755
	ModeRegular    fs.FileMode = 0o644
	ModeExecutable fs.FileMode = 0o775
	ModeLibrary    fs.FileMode = 0o555
)

type markerRule struct {
	kind NodeKind
	mode fs.FileMode
}

var markerRules = map[TypeMarker]markerRule{
	MarkerLibrary:    {kind: KindLibrary, mode: ModeLibrary},
	MarkerRegular:    {kind: KindRegular, mode: ModeRegular},
	MarkerDirectory:  {kind: KindDirectory, mode: ModeDirectory},
	MarkerExecutable: {kind: KindExecutable, mode: ModeExecutable},
	MarkerSymlink:    {kind: KindSymlink},
}

// Lookup returns the node kind and mode for a marker. ok is false for unknown markers.
func (m TypeMarker) Lookup() (kind NodeKind, mode fs.FileMode, ok bool) {
	rule, ok := markerRules[m]
	return rule.kind, rule.mode, ok
}

package model

import (
	"io/fs"

	"github.com/opencontainers/go-digest"
)

// EntryInfo describes one entry without materializing it
type EntryInfo struct {
	ID     string
	Name   string
	Marker string   // Hex marker, empty if the entry did not parse
	Kind   NodeKind // Empty if classification failed
	Mode   fs.FileMode
	Size   int           // Payload length in bytes
	Digest digest.Digest // sha256 of the payload
	Target string        // Symlink target
	Err    error
}

// Status returns "ok" or the short failure description
func (e *EntryInfo) Status() string {
	if e.Err == nil {
		return "ok"
	}
	return e.Err.Error()
}

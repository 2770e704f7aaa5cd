package model

import (
	"bytes"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

const (
	// MarkerLen is the fixed length of an entry's type marker.
	MarkerLen = 2

	// SeparatorLen is the number of zero bytes between the marker and the payload.
	// The first of them terminates the marker.
	SeparatorLen = 10
)

// RawEntry is one image entry as delivered by an entry source
type RawEntry struct {
	ID   string // Source identifier, e.g. "002_0x09_0_file_action"
	Data []byte // Entry bytes, unparsed
}

// ParsedEntry is the three-field split of a RawEntry
type ParsedEntry struct {
	ID      string
	Name    []byte
	Marker  TypeMarker
	Payload []byte
}

// ParseEntry splits raw entry bytes into name, type marker and payload.
//
// Layout: name, 0x00, 2-byte marker, 10 zero bytes, payload. The payload is taken
// verbatim from the first byte after the separator, so zero runs inside it are never
// mistaken for field boundaries.
func ParseEntry(raw *RawEntry) (*ParsedEntry, error) {
	data := raw.Data

	nameEnd := bytes.IndexByte(data, 0)
	if nameEnd < 0 {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "name terminator not found",
			goerr.V("id", raw.ID),
			goerr.V("size", len(data)),
		)
	}
	rest := data[nameEnd+1:]

	markerEnd := bytes.IndexByte(rest, 0)
	if markerEnd < 0 {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "type marker terminator not found",
			goerr.V("id", raw.ID),
		)
	}
	if markerEnd != MarkerLen {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "type marker has unexpected length",
			goerr.V("id", raw.ID),
			goerr.V("length", markerEnd),
		)
	}

	var marker TypeMarker
	copy(marker[:], rest[:MarkerLen])
	rest = rest[MarkerLen:]

	if n := leadingZeros(rest, SeparatorLen); n < SeparatorLen {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "separator too short",
			goerr.V("id", raw.ID),
			goerr.V("zero_bytes", n),
			goerr.V("offset", nameEnd+1+MarkerLen),
		)
	}

	return &ParsedEntry{
		ID:      raw.ID,
		Name:    data[:nameEnd],
		Marker:  marker,
		Payload: rest[SeparatorLen:],
	}, nil
}

// leadingZeros counts zero bytes at the head of b, up to limit.
func leadingZeros(b []byte, limit int) int {
	n := 0
	for n < limit && n < len(b) && b[n] == 0 {
		n++
	}
	return n
}

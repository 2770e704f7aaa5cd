package model

import (
	"bytes"
	"io/fs"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

// Node is a classified filesystem node ready to be materialized
type Node struct {
	ID      string
	Kind    NodeKind
	Path    string      // Decoded entry name, relative to the destination root
	Mode    fs.FileMode // Zero for symlinks
	Content []byte      // File content; nil for directories and symlinks
	Target  string      // Symlink target, taken literally

	// PayloadIgnored is set for directory-marked entries that carried a payload.
	PayloadIgnored bool
}

// IsRoot reports whether the node is the root-equivalent directory
func (n *Node) IsRoot() bool {
	return n.Kind == KindDirectory && n.Path == ""
}

// Classify maps a parsed entry to a Node.
//
// An empty payload is always a directory, whatever the marker says. Non-empty
// payloads are classified by marker alone; unknown markers fail with
// ErrUnknownTypeMarker.
func Classify(entry *ParsedEntry) (*Node, error) {
	if !utf8.Valid(entry.Name) {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "entry name is not valid UTF-8",
			goerr.V("id", entry.ID),
		)
	}
	node := &Node{
		ID:   entry.ID,
		Path: string(entry.Name),
	}

	if len(entry.Payload) == 0 {
		node.Kind = KindDirectory
		node.Mode = ModeDirectory
		return node, nil
	}
	if node.Path == "" {
		return nil, goerr.Wrap(types.ErrMalformedEntry, "empty name on non-directory entry",
			goerr.V("id", entry.ID),
			goerr.V("marker", entry.Marker.String()),
		)
	}

	kind, mode, ok := entry.Marker.Lookup()
	if !ok {
		return nil, goerr.Wrap(types.ErrUnknownTypeMarker, "unrecognized type marker",
			goerr.V("id", entry.ID),
			goerr.V("marker", entry.Marker.String()),
		)
	}
	node.Kind = kind
	node.Mode = mode

	switch kind {
	case KindDirectory:
		node.PayloadIgnored = true
	case KindSymlink:
		target, err := decodeLinkTarget(entry.Payload)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode symlink target", goerr.V("id", entry.ID))
		}
		node.Target = target
	default:
		node.Content = entry.Payload
	}

	return node, nil
}

// decodeLinkTarget trims trailing NUL and whitespace and validates what remains as text.
func decodeLinkTarget(payload []byte) (string, error) {
	trimmed := bytes.TrimRight(payload, "\x00 \t\r\n")
	switch {
	case len(trimmed) == 0:
		return "", goerr.Wrap(types.ErrSymlinkTargetInvalid, "target is empty")
	case bytes.IndexByte(trimmed, 0) >= 0:
		return "", goerr.Wrap(types.ErrSymlinkTargetInvalid, "target contains NUL byte")
	case !utf8.Valid(trimmed):
		return "", goerr.Wrap(types.ErrSymlinkTargetInvalid, "target is not valid UTF-8")
	}
	return string(trimmed), nil
}

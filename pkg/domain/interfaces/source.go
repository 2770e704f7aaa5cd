package interfaces

import (
	"context"
	"iter"

	"github.com/m-mizutani/plfrecover/pkg/domain/model"
)

// EntrySource enumerates raw image entries
type EntrySource interface {
	// Entries yields raw entries sorted by identifier. Reserved entries are never
	// yielded. An error yielded without an entry is fatal and ends the sequence;
	// an error yielded with an entry concerns only that entry.
	Entries(ctx context.Context) iter.Seq2[*model.RawEntry, error]

	// Describe returns a human readable description of the input, for logging
	Describe() string

	// Excluded returns the identifiers skipped by the last enumeration
	Excluded() []string
}

// VersionFunc queries the PLF library version record
type VersionFunc func() *model.LibraryVersion

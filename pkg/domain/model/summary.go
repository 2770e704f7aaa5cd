package model

import (
	"github.com/hashicorp/go-multierror"
	"github.com/m-mizutani/goerr/v2"
)

// EntryFailure records a recoverable failure of a single entry
type EntryFailure struct {
	ID  string // Entry identifier
	Err error
}

// Summary represents the result of one extraction pass
type Summary struct {
	RunID     string
	Succeeded int              // Entries materialized (including no-op directories)
	Skipped   int              // Entries excluded before parsing (reserved names)
	Kinds     map[NodeKind]int // Materialized entries per node kind
	Bytes     int64            // Total file content written
	Failures  []EntryFailure
}

// NewSummary creates an empty summary for a run
func NewSummary(runID string) *Summary {
	return &Summary{
		RunID: runID,
		Kinds: make(map[NodeKind]int),
	}
}

// Failed returns the number of entries that failed
func (s *Summary) Failed() int {
	return len(s.Failures)
}

// AddSuccess counts a materialized node
func (s *Summary) AddSuccess(node *Node) {
	s.Succeeded++
	s.Kinds[node.Kind]++
	s.Bytes += int64(len(node.Content))
}

// AddFailure records a recoverable entry failure
func (s *Summary) AddFailure(id string, err error) {
	s.Failures = append(s.Failures, EntryFailure{ID: id, Err: err})
}

// Err aggregates all entry failures, or returns nil if there were none
func (s *Summary) Err() error {
	var result *multierror.Error
	for _, f := range s.Failures {
		result = multierror.Append(result, goerr.Wrap(f.Err, "entry failed", goerr.V("id", f.ID)))
	}
	return result.ErrorOrNil()
}

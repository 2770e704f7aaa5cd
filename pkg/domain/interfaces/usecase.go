package interfaces

import (
	"context"

	"github.com/m-mizutani/plfrecover/pkg/domain/model"
)

// Materializer applies classified nodes to a destination tree
type Materializer interface {
	// Materialize writes one node. Recoverable conflicts wrap ErrPathConflict;
	// anything wrapping ErrIOFailure must abort the run.
	Materialize(ctx context.Context, node *model.Node) error
}

// ExtractUseCase defines the full recovery pass
type ExtractUseCase interface {
	// Extract recovers every entry of src into the destination tree
	Extract(ctx context.Context, src EntrySource) (*model.Summary, error)
}

// ListUseCase defines entry inspection without side effects
type ListUseCase interface {
	// List parses and classifies every entry of src
	List(ctx context.Context, src EntrySource) ([]*model.EntryInfo, error)
}

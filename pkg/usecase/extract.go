package usecase

import (
	"context"
	"errors"
	"runtime"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/interfaces"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/utils/async"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
)

// entries decoded concurrently per worker before the window is materialized
const windowPerWorker = 16

// ExtractOption is a functional option for the extract use case
type ExtractOption func(*extractUseCase)

// WithWorkers sets the number of concurrent decode workers
func WithWorkers(n int) ExtractOption {
	return func(uc *extractUseCase) {
		if n > 0 {
			uc.workers = n
		}
	}
}

// WithRunID overrides the generated run identifier
func WithRunID(id string) ExtractOption {
	return func(uc *extractUseCase) {
		uc.runID = id
	}
}

type extractUseCase struct {
	materializer interfaces.Materializer
	workers      int
	runID        string
}

// NewExtract creates a new instance of ExtractUseCase
func NewExtract(materializer interfaces.Materializer, opts ...ExtractOption) interfaces.ExtractUseCase {
	uc := &extractUseCase{
		materializer: materializer,
		workers:      runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type pendingEntry struct {
	raw *model.RawEntry
	err error
}

// Extract recovers every entry of src.
//
// Entries are decoded (parsed and classified) concurrently in windows, then
// materialized one by one in source order. Per-entry failures are recorded in
// the summary and the pass continues; a fatal error is returned together with
// the summary built so far.
func (uc *extractUseCase) Extract(ctx context.Context, src interfaces.EntrySource) (*model.Summary, error) {
	runID := uc.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := logging.From(ctx).With("run_id", runID)
	ctx = logging.With(ctx, logger)

	summary := model.NewSummary(runID)

	logger.Info("Starting extraction",
		"source", src.Describe(),
		"workers", uc.workers,
	)

	err := uc.run(ctx, src, summary)
	summary.Skipped = len(src.Excluded())
	if err != nil {
		return summary, err
	}

	logger.Info("Extraction finished",
		"succeeded", summary.Succeeded,
		"skipped", summary.Skipped,
		"failed", summary.Failed(),
		"bytes", summary.Bytes,
	)

	return summary, nil
}

// run feeds entries of src through decode windows until the source is drained
func (uc *extractUseCase) run(ctx context.Context, src interfaces.EntrySource, summary *model.Summary) error {
	window := make([]pendingEntry, 0, uc.workers*windowPerWorker)
	for raw, err := range src.Entries(ctx) {
		if raw == nil {
			return goerr.Wrap(err, "failed to enumerate entries")
		}
		window = append(window, pendingEntry{raw: raw, err: err})

		if len(window) == cap(window) {
			if err := uc.flush(ctx, window, summary); err != nil {
				return err
			}
			window = window[:0]
		}
	}
	return uc.flush(ctx, window, summary)
}

// flush decodes a window concurrently and materializes it in order
func (uc *extractUseCase) flush(ctx context.Context, window []pendingEntry, summary *model.Summary) error {
	logger := logging.From(ctx)

	results := async.Map(ctx, window, uc.workers, func(ctx context.Context, p pendingEntry) (*model.Node, error) {
		if p.err != nil {
			return nil, p.err
		}
		return decode(p.raw)
	})

	for i, res := range results {
		id := window[i].raw.ID

		if err := ctx.Err(); err != nil {
			return goerr.Wrap(err, "extraction cancelled", goerr.V("next_id", id))
		}

		if res.Err != nil {
			if !types.IsEntryFailure(res.Err) {
				return goerr.Wrap(res.Err, "failed to decode entry", goerr.V("id", id))
			}
			logger.Warn("Skipping entry", "id", id, "error", res.Err)
			summary.AddFailure(id, res.Err)
			continue
		}

		node := res.Value
		if node.PayloadIgnored {
			logger.Warn("Directory entry carries a payload, ignoring it", "id", id, "path", node.Path)
		}

		if err := uc.materializer.Materialize(ctx, node); err != nil {
			if errors.Is(err, types.ErrIOFailure) || !types.IsEntryFailure(err) {
				return goerr.Wrap(err, "fatal error while materializing", goerr.V("id", id))
			}
			logger.Warn("Failed to materialize entry", "id", id, "path", node.Path, "error", err)
			summary.AddFailure(id, err)
			continue
		}

		summary.AddSuccess(node)
	}

	return nil
}

// decode parses and classifies one raw entry
func decode(raw *model.RawEntry) (*model.Node, error) {
	parsed, err := model.ParseEntry(raw)
	if err != nil {
		return nil, err
	}
	return model.Classify(parsed)
}

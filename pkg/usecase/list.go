package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/plfrecover/pkg/domain/interfaces"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/utils/logging"
	"github.com/opencontainers/go-digest"
)

type listUseCase struct{}

// NewList creates a new instance of ListUseCase
func NewList() interfaces.ListUseCase {
	return &listUseCase{}
}

// List parses and classifies every entry without touching the filesystem.
// Per-entry failures are reported in EntryInfo.Err.
func (uc *listUseCase) List(ctx context.Context, src interfaces.EntrySource) ([]*model.EntryInfo, error) {
	logger := logging.From(ctx)

	var infos []*model.EntryInfo
	for raw, err := range src.Entries(ctx) {
		if raw == nil {
			return nil, goerr.Wrap(err, "failed to enumerate entries")
		}
		if err != nil {
			infos = append(infos, &model.EntryInfo{ID: raw.ID, Err: err})
			continue
		}
		infos = append(infos, describe(raw))
	}

	logger.Debug("Listed entries", "source", src.Describe(), "count", len(infos), "excluded", len(src.Excluded()))
	return infos, nil
}

func describe(raw *model.RawEntry) *model.EntryInfo {
	info := &model.EntryInfo{ID: raw.ID}

	parsed, err := model.ParseEntry(raw)
	if err != nil {
		info.Err = err
		return info
	}
	info.Name = string(parsed.Name)
	info.Marker = parsed.Marker.String()
	info.Size = len(parsed.Payload)
	info.Digest = digest.FromBytes(parsed.Payload)

	node, err := model.Classify(parsed)
	if err != nil {
		info.Err = err
		return info
	}
	info.Kind = node.Kind
	info.Mode = node.Mode
	info.Target = node.Target
	return info
}

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
	"github.com/m-mizutani/plfrecover/pkg/infra/plfsource"
	"github.com/m-mizutani/plfrecover/pkg/usecase"
	"github.com/opencontainers/go-digest"
)

func TestList(t *testing.T) {
	input := writeInput(t, map[string][]byte{
		"000_0x0b_0_volume_config": entryBytes("volume", model.MarkerRegular, []byte("x")),
		"002":                      entryBytes("etc", model.MarkerDirectory, nil),
		"003":                      entryBytes("etc/motd", model.MarkerRegular, []byte("hello")),
		"004":                      entryBytes("etc/link", model.MarkerSymlink, []byte("motd\x00")),
		"005":                      []byte("garbage"),
		"006":                      entryBytes("etc/odd", model.TypeMarker{0xAB, 0xCD}, []byte("?")),
	})

	infos, err := usecase.NewList().List(context.Background(), plfsource.NewDir(input))
	gt.NoError(t, err)
	gt.Equal(t, len(infos), 5)

	gt.Equal(t, infos[0].ID, "002")
	gt.Equal(t, infos[0].Kind, model.KindDirectory)
	gt.Equal(t, infos[0].Size, 0)
	gt.Equal(t, infos[0].Status(), "ok")

	gt.Equal(t, infos[1].Name, "etc/motd")
	gt.Equal(t, infos[1].Marker, "A481")
	gt.Equal(t, infos[1].Mode.Perm(), model.ModeRegular)
	gt.Equal(t, infos[1].Size, 5)
	gt.Equal(t, infos[1].Digest, digest.FromString("hello"))

	gt.Equal(t, infos[2].Kind, model.KindSymlink)
	gt.Equal(t, infos[2].Target, "motd")

	gt.True(t, errors.Is(infos[3].Err, types.ErrMalformedEntry))
	gt.V(t, infos[3].Status()).NotEqual("ok")

	gt.True(t, errors.Is(infos[4].Err, types.ErrUnknownTypeMarker))
	gt.Equal(t, infos[4].Marker, "ABCD")
}

func TestList_MissingInput(t *testing.T) {
	_, err := usecase.NewList().List(context.Background(), plfsource.NewDir("/nonexistent/plfrecover/input"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, types.ErrIOFailure))
}

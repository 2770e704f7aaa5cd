package model_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/plfrecover/pkg/domain/model"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		entry    *model.ParsedEntry
		wantKind model.NodeKind
		wantMode fs.FileMode
	}{
		{
			name:     "library file",
			entry:    &model.ParsedEntry{Name: []byte("lib/libfoo.so"), Marker: model.MarkerLibrary, Payload: []byte("elf")},
			wantKind: model.KindLibrary,
			wantMode: 0o555,
		},
		{
			name:     "regular file",
			entry:    &model.ParsedEntry{Name: []byte("etc/passwd"), Marker: model.MarkerRegular, Payload: []byte("root")},
			wantKind: model.KindRegular,
			wantMode: 0o644,
		},
		{
			name:     "executable file",
			entry:    &model.ParsedEntry{Name: []byte("bin/sh"), Marker: model.MarkerExecutable, Payload: []byte("elf")},
			wantKind: model.KindExecutable,
			wantMode: 0o775,
		},
		{
			name:     "directory marker with empty payload",
			entry:    &model.ParsedEntry{Name: []byte("etc"), Marker: model.MarkerDirectory},
			wantKind: model.KindDirectory,
			wantMode: 0o755,
		},
		{
			name:     "directory marker with payload",
			entry:    &model.ParsedEntry{Name: []byte("etc"), Marker: model.MarkerDirectory, Payload: []byte("junk")},
			wantKind: model.KindDirectory,
			wantMode: 0o755,
		},
		{
			name:     "symlink",
			entry:    &model.ParsedEntry{Name: []byte("bin/ls"), Marker: model.MarkerSymlink, Payload: []byte("busybox")},
			wantKind: model.KindSymlink,
			wantMode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := model.Classify(tt.entry)
			gt.NoError(t, err)
			gt.Equal(t, node.Kind, tt.wantKind)
			gt.Equal(t, node.Mode, tt.wantMode)
			gt.Equal(t, node.Path, string(tt.entry.Name))
		})
	}
}

func TestClassify_EmptyPayloadIsDirectory(t *testing.T) {
	markers := []model.TypeMarker{
		model.MarkerLibrary,
		model.MarkerRegular,
		model.MarkerDirectory,
		model.MarkerExecutable,
		model.MarkerSymlink,
		{0x00, 0x00},
		{0x12, 0x34},
		{0xFF, 0xFF},
	}

	for _, marker := range markers {
		t.Run(marker.String(), func(t *testing.T) {
			node, err := model.Classify(&model.ParsedEntry{Name: []byte("some/dir"), Marker: marker})
			gt.NoError(t, err)
			gt.Equal(t, node.Kind, model.KindDirectory)
			gt.Equal(t, node.Mode, model.ModeDirectory)
			gt.V(t, node.Content).Nil()
		})
	}
}

func TestClassify_Symlink(t *testing.T) {
	t.Run("trailing NUL bytes are stripped", func(t *testing.T) {
		node, err := model.Classify(&model.ParsedEntry{
			Name:    []byte("link"),
			Marker:  model.MarkerSymlink,
			Payload: []byte("/target/path\x00\x00"),
		})
		gt.NoError(t, err)
		gt.Equal(t, node.Kind, model.KindSymlink)
		gt.Equal(t, node.Target, "/target/path")
		gt.V(t, node.Content).Nil()
	})

	t.Run("trailing whitespace is stripped", func(t *testing.T) {
		node, err := model.Classify(&model.ParsedEntry{
			Name:    []byte("link"),
			Marker:  model.MarkerSymlink,
			Payload: []byte("../lib/libc.so.6\n"),
		})
		gt.NoError(t, err)
		gt.Equal(t, node.Target, "../lib/libc.so.6")
	})

	invalid := []struct {
		name    string
		payload []byte
	}{
		{name: "only NUL bytes", payload: []byte("\x00\x00\x00")},
		{name: "only whitespace", payload: []byte(" \n")},
		{name: "interior NUL", payload: []byte("/a\x00b")},
		{name: "invalid UTF-8", payload: []byte{0xff, 0xfe, 0xfd}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			node, err := model.Classify(&model.ParsedEntry{Name: []byte("link"), Marker: model.MarkerSymlink, Payload: tt.payload})
			gt.Error(t, err)
			gt.V(t, node).Nil()
			gt.True(t, errors.Is(err, types.ErrSymlinkTargetInvalid))
		})
	}
}

func TestClassify_Failures(t *testing.T) {
	t.Run("unknown marker", func(t *testing.T) {
		_, err := model.Classify(&model.ParsedEntry{Name: []byte("x"), Marker: model.TypeMarker{0x12, 0x34}, Payload: []byte("data")})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrUnknownTypeMarker))
		gt.True(t, types.IsEntryFailure(err))
	})

	t.Run("invalid UTF-8 name", func(t *testing.T) {
		_, err := model.Classify(&model.ParsedEntry{Name: []byte{0xc3, 0x28}, Marker: model.MarkerRegular, Payload: []byte("data")})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrMalformedEntry))
	})

	t.Run("empty name with payload", func(t *testing.T) {
		_, err := model.Classify(&model.ParsedEntry{Marker: model.MarkerRegular, Payload: []byte("data")})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrMalformedEntry))
	})
}

func TestNode_IsRoot(t *testing.T) {
	node, err := model.Classify(&model.ParsedEntry{Marker: model.MarkerDirectory})
	gt.NoError(t, err)
	gt.True(t, node.IsRoot())

	node, err = model.Classify(&model.ParsedEntry{Name: []byte("etc"), Marker: model.MarkerDirectory})
	gt.NoError(t, err)
	gt.False(t, node.IsRoot())
}

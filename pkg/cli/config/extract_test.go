package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plfrecover.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestExtract_Load(t *testing.T) {
	path := writeConfig(t, `
input = "/data/image.plf"
output = "/data/out"
force = true
create_parents = true
workers = 3
`)

	t.Run("file fills unset values", func(t *testing.T) {
		cfg := &config.Extract{ConfigFile: path, Workers: 8}
		gt.NoError(t, cfg.Load(func(string) bool { return false }))

		gt.Equal(t, cfg.Input, "/data/image.plf")
		gt.Equal(t, cfg.Output, "/data/out")
		gt.True(t, cfg.Force)
		gt.True(t, cfg.CreateParents)
		gt.Equal(t, cfg.Workers, 3)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		cfg := &config.Extract{ConfigFile: path, Output: "/tmp/elsewhere", Workers: 1}
		set := map[string]bool{"output": true, "workers": true}
		gt.NoError(t, cfg.Load(func(name string) bool { return set[name] }))

		gt.Equal(t, cfg.Input, "/data/image.plf")
		gt.Equal(t, cfg.Output, "/tmp/elsewhere")
		gt.Equal(t, cfg.Workers, 1)
	})

	t.Run("no file is a no-op", func(t *testing.T) {
		cfg := &config.Extract{Input: "in"}
		gt.NoError(t, cfg.Load(func(string) bool { return false }))
		gt.Equal(t, cfg.Input, "in")
	})
}

func TestExtract_Load_Errors(t *testing.T) {
	testCases := map[string]string{
		"missing file": filepath.Join(t.TempDir(), "missing.toml"),
		"broken toml":  writeConfig(t, "input = [unterminated"),
		"wrong type":   writeConfig(t, `workers = "many"`),
	}

	for name, path := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := &config.Extract{ConfigFile: path}
			err := cfg.Load(func(string) bool { return false })
			gt.Error(t, err)
			gt.True(t, errors.Is(err, types.ErrInvalidConfig))
		})
	}
}

func TestExtract_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     config.Extract
		wantErr bool
	}{
		{name: "complete", cfg: config.Extract{Input: "in", Output: "out", Workers: 2}},
		{name: "missing input", cfg: config.Extract{Output: "out", Workers: 2}, wantErr: true},
		{name: "missing output", cfg: config.Extract{Input: "in", Workers: 2}, wantErr: true},
		{name: "zero workers", cfg: config.Extract{Input: "in", Output: "out"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				gt.True(t, errors.Is(err, types.ErrInvalidConfig))
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestList_Validate(t *testing.T) {
	gt.True(t, errors.Is((&config.List{}).Validate(), types.ErrInvalidConfig))
	gt.NoError(t, (&config.List{Input: "in"}).Validate())
}

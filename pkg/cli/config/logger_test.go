package config_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/plfrecover/pkg/cli/config"
	"github.com/m-mizutani/plfrecover/pkg/domain/types"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG"},
		{name: "Valid level: info", level: "info"},
		{name: "Valid level: Warn", level: "Warn"},
		{name: "Valid level: error", level: "error"},
		{name: "Invalid level: invalid", level: "invalid", wantErr: true},
		{name: "Invalid level: empty string", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Logger{Level: tt.level, Writer: &bytes.Buffer{}}

			logger, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, types.ErrInvalidConfig))
				return
			}
			gt.NoError(t, err)
			gt.V(t, logger).NotNil()
		})
	}
}

func TestLogger_Configure_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logger{Level: "info", JSON: true, Writer: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Info("test log message", "id", "002_0x09_0_file_action")

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.Equal(t, record["msg"], "test log message")
	gt.Equal(t, record["id"], "002_0x09_0_file_action")
}

func TestLogger_Configure_LevelBehavior(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Logger{Level: "warn", JSON: true, Writer: &buf}

	logger, err := cfg.Configure()
	gt.NoError(t, err)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")

	out := buf.String()
	gt.False(t, strings.Contains(out, "debug message"))
	gt.False(t, strings.Contains(out, "info message"))
	gt.True(t, strings.Contains(out, "warn message"))
}

func TestLogger_Flags(t *testing.T) {
	cfg := &config.Logger{}
	flags := cfg.Flags()
	gt.A(t, flags).Length(2)

	names := map[string]bool{}
	for _, flag := range flags {
		names[flag.Names()[0]] = true
	}
	gt.True(t, names["log-level"])
	gt.True(t, names["log-json"])
}

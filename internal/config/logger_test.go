package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/unarchive/internal/config"
	"github.com/m-mizutani/gt"
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
			logger := &config.Logger{Level: tt.level}
			var buf bytes.Buffer
			result, err := logger.Configure(&buf)
			if tt.wantErr {
				gt.Error(t, err)
				gt.String(t, err.Error()).Contains("invalid log level")
				return
			}
			gt.NoError(t, err)
			gt.V(t, result).NotNil()
		})
	}
}

func TestLogger_Configure_JSONFormat(t *testing.T) {
	logger := &config.Logger{Level: "info", JSON: true}
	var buf bytes.Buffer
	result, err := logger.Configure(&buf)
	gt.NoError(t, err)

	result.Debug("hidden")
	result.Info("extracted", "file", "a.zip")
	var line map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	gt.Value(t, line["msg"]).Equal("extracted")
	gt.Value(t, line["file"]).Equal("a.zip")
}

func TestLogger_Configure_Text(t *testing.T) {
	logger := &config.Logger{Level: "warn"}
	var buf bytes.Buffer
	result, err := logger.Configure(&buf)
	gt.NoError(t, err)

	result.Info("hidden")
	gt.Number(t, buf.Len()).Equal(0)
	result.Warn("skipped")
	gt.String(t, buf.String()).Contains("skipped")
}

func TestLogger_Configure_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unarchive.log")
	logger := &config.Logger{Level: "debug", File: path}
	var buf bytes.Buffer
	result, err := logger.Configure(&buf)
	gt.NoError(t, err)

	result.Debug("scanning", "source", "/srv")
	gt.NoError(t, logger.Close())
	gt.NoError(t, logger.Close())

	gt.String(t, buf.String()).Contains("scanning")
	b, err := os.ReadFile(path)
	gt.NoError(t, err)
	var line map[string]any
	gt.NoError(t, json.Unmarshal(b, &line))
	gt.Value(t, line["source"]).Equal("/srv")
}

func TestLogger_Configure_BadFile(t *testing.T) {
	logger := &config.Logger{Level: "info", File: filepath.Join(t.TempDir(), "missing", "x.log")}
	_, err := logger.Configure(&bytes.Buffer{})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("failed to open log file")
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info", false, false},
		{"debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(FormatText, tt.debug, &buf)
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Info("info line")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug line")))
			assert.Contains(t, buf.String(), "info line")
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(FormatJSON, false, &buf)
	require.NoError(t, err)

	logger.Info("rendered", "rows", 3)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "rendered", rec["msg"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New("xml", false, nil)
	assert.Error(t, err)
}

func TestSetupInstallsDefault(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	logger, err := Setup(FormatText, true, &buf)
	require.NoError(t, err)
	assert.Same(t, logger, slog.Default())

	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")
}

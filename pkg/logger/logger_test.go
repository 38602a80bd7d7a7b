package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)

	l.Info("analysis done",
		String("symbol", "EURUSD"),
		Int("rows", 250),
		Float64("hurst", 0.61),
		Duration("duration_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "info", got["level"])
	assert.Equal(t, "analysis done", got["message"])
	assert.Equal(t, "EURUSD", got["symbol"])
	assert.Equal(t, 250.0, got["rows"])
	assert.Equal(t, 0.61, got["hurst"])
	assert.Equal(t, 1500.0, got["duration_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.WarnLevel)
	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("component", "research"))
	l.Info("x")
	assert.Contains(t, buf.String(), `"component":"research"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	assert.Error(t, err)

	l, err := New(&Config{Level: "INFO", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, l)
	Nop().Error("discarded")
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: "warn", Format: "json"})
	l.Info("hidden")
	l.Warn("table reset", slog.Int("table_id", 3))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "table reset", rec["msg"])
	assert.Equal(t, float64(3), rec["table_id"])
}

func TestNewDefaultsToText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Config{}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

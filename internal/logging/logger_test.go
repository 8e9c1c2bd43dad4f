package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/bananas-dict/bananas/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Log{Level: "info", Format: "json"}, &buf)

	logger.Info("lookup", slog.String("word", "ka"), slog.Any("error", errors.New("boom")))
	logger.Debug("hidden")

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "lookup", m["msg"])
	assert.Equal(t, "ka", m["word"])
	assert.Equal(t, "boom", m["err"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_TextDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Log{Level: "debug", Format: "text"}, &buf)

	logger.Debug("shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "source=")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewNop(t *testing.T) {
	assert.NotNil(t, NewNop())
	NewNop().Error("discarded")
}

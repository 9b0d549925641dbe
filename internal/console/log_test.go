package console

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedHandlerFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger(&buf, slog.LevelInfo)

	logger.Info("tool call",
		slog.String("trace_id", "4bf92f3577b34da6a3ce929d0e0e4736"),
		slog.String("tool", "console_list_incidents"),
		slog.Int("page", 2),
	)

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Fields(line)
	require.GreaterOrEqual(t, len(fields), 5)

	assert.True(t, strings.HasPrefix(fields[0], "time="))
	assert.Equal(t, "level=INFO", fields[1])
	assert.Equal(t, "trace_id=4bf92f3577b34da6a3ce929d0e0e4736", fields[2])
	assert.True(t, strings.HasPrefix(fields[3], "msg=tool"), "got %q", fields[3])
	assert.Contains(t, line, "tool=console_list_incidents")
	assert.Contains(t, line, "page=2")
}

func TestOrderedHandlerMissingTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger(&buf, slog.LevelInfo)

	logger.Info("startup")
	assert.Contains(t, buf.String(), "trace_id=-")
}

func TestOrderedHandlerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger(&buf, slog.LevelInfo)

	logger.Debug("too quiet")
	assert.Empty(t, buf.String())
}

func TestOrderedHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewToolLogger(&buf, slog.LevelInfo).With(slog.String("trace_id", "abc123"))

	logger.Info("tool call")
	assert.Contains(t, buf.String(), "trace_id=abc123")
}

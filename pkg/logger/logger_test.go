package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line is not JSON: %q", buf.String())
	return entry
}

func TestInit_StampsServiceAndComponent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})

	l := Component("ingest")
	l.Info().Msg("hello")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "cashback-system", entry["service"])
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Service: "first", Output: &first})
	Init(Options{Level: "debug", Service: "second", Output: &second})

	l := Get()
	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	assert.Zero(t, second.Len(), "second Init must not replace the logger")
	entry := decodeLine(t, &first)
	assert.Equal(t, "first", entry["service"])
	assert.Equal(t, "kept", entry["message"])
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()

	assert.Panics(t, func() { Get() })
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

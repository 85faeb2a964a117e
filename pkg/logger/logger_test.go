package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Initialize(Config{Level: level, Format: "json", Output: &buf})
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLogger_FieldsAndCaller(t *testing.T) {
	buf := captureJSON(t, "debug")

	WithContext(Fields{"request_id": "abc"}).Info("Order confirmed", Fields{"order_id": 7})

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "Order confirmed", entries[0]["message"])
	assert.Equal(t, "abc", entries[0]["request_id"])
	assert.Equal(t, float64(7), entries[0]["order_id"])
	assert.Contains(t, entries[0]["caller"], "logger_test.go")
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := captureJSON(t, "warn")

	Debug("hidden")
	Info("hidden")
	Warn("shown")
	Error("failed", errors.New("boom"))

	entries := lines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestLogger_With(t *testing.T) {
	buf := captureJSON(t, "info")

	Get().With("customer_id", 3).Warn("Checkout aborted")

	entries := lines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(3), entries[0]["customer_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

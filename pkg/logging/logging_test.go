package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = Configure("info", "text")
	})

	require.NoError(t, Configure("debug", "json"))
	NewLogger("worker").WithField("file", "a.html").Debug("processing")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "worker", entry["component"])
	assert.Equal(t, "a.html", entry["file"])
	assert.Equal(t, "processing", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = Configure("info", "text")
	})

	require.NoError(t, Configure("warn", "text"))
	NewLogger("server").Info("hidden")
	assert.Empty(t, buf.String())

	NewLogger("server").Warn("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=server")
}

func TestConfigure_Invalid(t *testing.T) {
	assert.Error(t, Configure("loud", "text"))
	assert.Error(t, Configure("info", "xml"))
}

package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(Config{Level: "loud", Format: "json"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "json", Output: "logs/"})
	assert.Error(t, err)
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.log")
	log, err := New(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("route saved", String("name", "0612a"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"0612a"`)
}

func TestJSONOutputCarriesNameAndFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithWriter("json", zapcore.InfoLevel, &buf)
	require.NoError(t, err)

	log.Named("planner").WithRoute("r1").Info("waypoint appended", Int("index", 3))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "planner", entry["logger"])
	assert.Equal(t, "r1", entry["route_id"])
	assert.Equal(t, float64(3), entry["index"])
	assert.Equal(t, "info", entry["level"])
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := newWithWriter("console", zapcore.InfoLevel, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	assert.Empty(t, buf.String())
}

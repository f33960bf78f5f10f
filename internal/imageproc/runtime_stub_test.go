//go:build !cgo

package imageproc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestWarnDegradedMode(t *testing.T) {
	var buf bytes.Buffer
	warnDegradedMode(zerolog.New(&buf))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "imaging", entry["engine"])
	require.Contains(t, entry["message"], "baseline JPEG")
}

func TestStartup_NoCgo(t *testing.T) {
	require.NoError(t, Startup())
	require.NoError(t, Startup())

	engine, err := NewEngine()
	require.NoError(t, err)
	require.IsType(t, imagingEngine{}, engine)
}

//go:build cgo

package imageproc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVipsLifecycle(t *testing.T) {
	var l vipsLifecycle
	starts, stops := 0, 0
	startup := func() { starts++ }
	shutdown := func() { stops++ }

	// stop before start is a no-op
	l.stop(shutdown)
	require.Equal(t, 0, stops)

	require.NoError(t, l.start(startup))
	require.NoError(t, l.start(startup))
	require.Equal(t, 1, starts)

	l.stop(shutdown)
	l.stop(shutdown)
	require.Equal(t, 1, stops)

	// no silent reuse of a stopped runtime
	require.ErrorIs(t, l.start(startup), errRuntimeStopped)
	require.Equal(t, 1, starts)
}

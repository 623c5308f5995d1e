package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestViewerWindowRecordIsIdempotentWithinTTL(t *testing.T) {
	window := NewViewerWindow(time.Minute)

	require.True(t, window.Record("recipe-1", "alice"))
	require.False(t, window.Record("recipe-1", "alice"))
	require.False(t, window.Record("recipe-1", "alice"))

	// A different key or a different recipe is a fresh view.
	require.True(t, window.Record("recipe-1", "bob"))
	require.True(t, window.Record("recipe-2", "alice"))
}

func TestViewerWindowActiveViewersCountsDistinctKeys(t *testing.T) {
	window := NewViewerWindow(time.Minute)

	window.Record("recipe-1", "alice")
	window.Record("recipe-1", "alice")
	window.Record("recipe-1", "bob")
	window.Record("recipe-2", "carol")

	require.Equal(t, 2, window.ActiveViewers("recipe-1"))
	require.Equal(t, 1, window.ActiveViewers("recipe-2"))
	require.Zero(t, window.ActiveViewers("recipe-3"))
}

func TestViewerWindowExpiry(t *testing.T) {
	window := NewViewerWindow(10 * time.Millisecond)

	require.True(t, window.Record("recipe-1", "alice"))
	require.Equal(t, 1, window.ActiveViewers("recipe-1"))

	time.Sleep(20 * time.Millisecond)

	require.Zero(t, window.ActiveViewers("recipe-1"))
	// An expired key may be recorded again.
	require.True(t, window.Record("recipe-1", "alice"))
}

package query

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPanelCloseAlwaysClearsTarget(t *testing.T) {
	t.Parallel()

	var p Panel
	require.False(t, p.Visible())
	require.Empty(t, p.TargetID())

	// Scenario D: open with a target, then close.
	p.Open("abc")
	require.True(t, p.Visible())
	require.Equal(t, "abc", p.TargetID())

	p.Close()
	require.False(t, p.Visible())
	require.Empty(t, p.TargetID(), "close must clear the target unconditionally")
}

func TestPanelOpenBlank(t *testing.T) {
	t.Parallel()

	var p Panel
	p.Open("prod-1")
	p.Close()
	p.OpenBlank()
	require.True(t, p.Visible())
	require.Empty(t, p.TargetID())

	// Re-opening with a target replaces the blank state.
	p.Open("prod-2")
	require.Equal(t, "prod-2", p.TargetID())
	p.Close()
	p.Close() // closing twice stays closed and clear
	require.False(t, p.Visible())
	require.Empty(t, p.TargetID())
}

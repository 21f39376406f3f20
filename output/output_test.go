package output

import (
	"bytes"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("tab")
	require.True(t, ok)
	require.Equal(t, ModeTab, m)

	_, ok = ParseMode("bogus")
	require.False(t, ok)
}

func TestTabWriter_TabMode(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, ModeTab, false)
	w.Row([]string{"a", "b", "c"})
	require.NoError(t, w.Flush())
	require.Equal(t, "a\tb\tc\n", buf.String())
}

func TestTabWriter_ColumnsMode(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf, ModeColumns, true)
	w.Row([]string{"a", "bb"})
	w.Row([]string{"ccc", "d"})
	require.NoError(t, w.Flush())
	require.Contains(t, buf.String(), "ccc")
}

func TestColorWriter_WrapsColumn(t *testing.T) {
	var buf bytes.Buffer
	inner := NewTabWriter(&buf, ModeTab, false)
	w := NewColor(inner, 1, tcell.ColorRed)
	w.Row([]string{"pkg", "60"})
	require.NoError(t, w.Flush())
	require.Contains(t, buf.String(), "\x1b[38;2;")
	require.Contains(t, buf.String(), "pkg")
}

func TestColorWriter_NegativeColumnDisables(t *testing.T) {
	var buf bytes.Buffer
	inner := NewTabWriter(&buf, ModeTab, false)
	w := NewColor(inner, -1, tcell.ColorRed)
	require.Same(t, inner, w)
}

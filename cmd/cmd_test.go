package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatDuration_Styles(t *testing.T) {
	require.Equal(t, "1:02", formatDuration(62, DurationHMS))
	require.Equal(t, "0:01:02", formatDuration(62, DurationHMSFixed))
	require.Equal(t, "62s", formatDuration(62, DurationSecs))
	require.Equal(t, "?", formatDuration(-1, DurationHMS))
}

func TestHumanDuration(t *testing.T) {
	require.Equal(t, "45s", humanDuration(45))
	require.Equal(t, "2.0m", humanDuration(120))
	require.Equal(t, "1.0h", humanDuration(3600))
}

func TestParseDurationStyle(t *testing.T) {
	style, ok := parseDurationStyle("human")
	require.True(t, ok)
	require.Equal(t, DurationHuman, style)

	_, ok = parseDurationStyle("bogus")
	require.False(t, ok)
}

func TestParseColorStyle(t *testing.T) {
	on, ok := parseColorStyle("y")
	require.True(t, ok)
	require.True(t, on)

	off, ok := parseColorStyle("n")
	require.True(t, ok)
	require.False(t, off)

	_, ok = parseColorStyle("maybe")
	require.False(t, ok)
}

func TestTruncatePkg_Width(t *testing.T) {
	got := truncatePkg("dev-lang/verylongpackagename-1.2.3.4", 15, 0)
	require.LessOrEqual(t, len(got), 15)
}

func TestTruncatePkg_Depth(t *testing.T) {
	got := truncatePkg("dev-lang/gcc-1.2.3.4", 100, 2)
	require.Equal(t, "dev-lang/gcc-1.2", got)
}

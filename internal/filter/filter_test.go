package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate_Relative(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	got, err := ParseDate("1w3d", now, true)
	require.NoError(t, err)
	want := now.AddDate(0, 0, -10)
	require.WithinDuration(t, want, got, time.Second)
}

func TestParseDate_Unix(t *testing.T) {
	got, err := ParseDate("1700000000", time.Now(), false)
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), got.Unix())
}

func TestParseDate_ISO(t *testing.T) {
	got, err := ParseDate("2026-08-06", time.Now(), true)
	require.NoError(t, err)
	require.Equal(t, 2026, got.Year())
}

func TestNameMatcher_ExactCategNname(t *testing.T) {
	m, err := NewNameMatcher([]string{"kde-frameworks/kactivities"}, true)
	require.NoError(t, err)
	require.True(t, m.Match("kde-frameworks/kactivities"))
	require.False(t, m.Match("frameworks/kactivities"))
}

func TestNameMatcher_ExactBareNameSuffix(t *testing.T) {
	m, err := NewNameMatcher([]string{"kactivities"}, true)
	require.NoError(t, err)
	require.True(t, m.Match("kde-frameworks/kactivities"))
	require.False(t, m.Match("kde-frameworks/kactivities-extras"))
}

func TestNameMatcher_RegexCaseInsensitive(t *testing.T) {
	m, err := NewNameMatcher([]string{"FILE"}, false)
	require.NoError(t, err)
	require.True(t, m.Match("app-misc/file-roller"))
}

func TestNameMatcher_MultiTermOR(t *testing.T) {
	m, err := NewNameMatcher([]string{"vim", "emacs"}, true)
	require.NoError(t, err)
	require.True(t, m.Match("app-editors/vim"))
	require.True(t, m.Match("app-editors/emacs"))
	require.False(t, m.Match("app-editors/nano"))
}

func TestParseShow(t *testing.T) {
	s, ok := ParseShow("a", "mus a")
	require.True(t, ok)
	require.True(t, s.Merge)
	require.True(t, s.Unmerge)
	require.True(t, s.Sync)

	_, ok = ParseShow("x", "mus a")
	require.False(t, ok)
}

func TestFormatDuration(t *testing.T) {
	require.Equal(t, "14", FormatDuration(14))
	require.Equal(t, "47", FormatDuration(47))
	require.Equal(t, "6:02", FormatDuration(362))
	require.Equal(t, "1:23:44", FormatDuration(5024))
}

func TestGroupKey_ISOWeek(t *testing.T) {
	// 2026-08-03 is a Monday.
	ts := time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC).Unix()
	got := GroupKey(ts, PeriodWeek, true)
	require.Equal(t, "2026-W32", got)
}

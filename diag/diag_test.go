package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWarnf_AlwaysEmitted(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, LevelWarn)
	d.Warnf("bad line %d", 3)
	require.Contains(t, buf.String(), "bad line 3")
	warnings, _ := d.Summary()
	require.Equal(t, 1, warnings)
}

func TestInfof_GatedByVerbosity(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, LevelWarn)
	d.Infof("hello")
	require.Empty(t, buf.String())

	d2 := New(&buf, LevelInfo)
	d2.Infof("hello")
	require.Contains(t, buf.String(), "hello")
}

func TestDebugf_TagsSessionID(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, LevelDebug)
	d.Debugf("tick")
	require.Regexp(t, `\[debug\] [0-9a-f]{8} tick`, buf.String())
}

func TestLiveDiscoveryIncomplete_CountsAndWarns(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf, LevelWarn)
	d.LiveDiscoveryIncomplete("no /proc")
	_, incomplete := d.Summary()
	require.Equal(t, 1, incomplete)
	require.Contains(t, buf.String(), "no /proc")
}

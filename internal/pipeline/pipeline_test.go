package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mlog/internal/event"
	"mlog/internal/parse"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "emerge.log")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_PreservesOrder(t *testing.T) {
	path := writeLog(t,
		"1: >>> emerge (1 of 1) a/b-1 to /",
		"2: ::: completed emerge (1 of 1) a/b-1 to /",
		"3: >>> emerge (1 of 1) c/d-2 to /",
		"4: ::: completed emerge (1 of 1) c/d-2 to /")

	h := Run(path, parse.NopSink{}, false, 0)
	var got []event.Event
	for it := range h.Items {
		require.NoError(t, it.Err)
		got = append(got, it.Event)
	}
	require.Len(t, got, 4)
	require.Equal(t, event.MergeStart, got[0].Kind)
	require.Equal(t, event.MergeStop, got[1].Kind)
	require.Equal(t, event.MergeStart, got[2].Kind)
	require.Equal(t, event.MergeStop, got[3].Kind)
}

func TestRun_CancelStopsProducer(t *testing.T) {
	var lines []string
	for i := 0; i < 1000; i++ {
		lines = append(lines, "1: >>> emerge (1 of 1) a/b-1 to /")
	}
	path := writeLog(t, lines...)

	h := Run(path, parse.NopSink{}, false, 0)
	first := <-h.Items
	require.NoError(t, first.Err)
	h.Cancel()
	// Draining should terminate quickly rather than hang forever.
	for range h.Items {
	}
}

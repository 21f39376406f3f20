package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mlog/internal/event"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/live"
	"mlog/internal/parse"
	"mlog/internal/predict"
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

func allShow() filter.Show {
	s, _ := filter.ParseShow("a", "musa")
	return s
}

func TestBuildLog_MergePair(t *testing.T) {
	path := writeLog(t,
		"1700000000: >>> emerge (1 of 1) a/b-1 to /",
		"1700000060: ::: completed emerge (1 of 1) a/b-1 to /")

	res, err := BuildLog(path, filter.Spec{Show: allShow()}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int64(60), res.Rows[0].Duration)
	require.Equal(t, int64(1700000060), res.Rows[0].Ts)
	require.Empty(t, res.Interrupted)
}

func TestBuildLog_StartTimeFlag(t *testing.T) {
	path := writeLog(t,
		"1700000000: >>> emerge (1 of 1) a/b-1 to /",
		"1700000060: ::: completed emerge (1 of 1) a/b-1 to /")

	res, err := BuildLog(path, filter.Spec{Show: allShow(), StartTime: true}, parse.NopSink{})
	require.NoError(t, err)
	require.Equal(t, int64(1700000000), res.Rows[0].Ts)
}

func TestBuildLog_UnmatchedStopYieldsUnknownDuration(t *testing.T) {
	path := writeLog(t, "1700000060: ::: completed emerge (1 of 1) a/b-1 to /")
	res, err := BuildLog(path, filter.Spec{Show: allShow()}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, UnknownDuration, res.Rows[0].Duration)
}

func TestBuildLog_NegativeDurationDiscarded(t *testing.T) {
	path := writeLog(t,
		"100: >>> emerge (1 of 1) a/b-1 to /",
		"50: ::: completed emerge (1 of 1) a/b-1 to /")
	res, err := BuildLog(path, filter.Spec{Show: allShow()}, parse.NopSink{})
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}

func TestBuildLog_LastWithBoundaryStraddlingPair(t *testing.T) {
	// The merge pair's Start sits just outside a --last 1 window sized to
	// the single trailing Stop; a naive fixed raw-event window would read
	// only the Stop and report it unmatched, even though a forward scan
	// resolves the pair cleanly.
	path := writeLog(t,
		"10: >>> Syncing repository 'gentoo'",
		"20: === Sync completed for gentoo",
		"30: >>> emerge (1 of 1) a/b-1 to /",
		"40: ::: completed emerge (1 of 1) a/b-1 to /")

	res, err := BuildLog(path, filter.Spec{Show: allShow(), Last: 1}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int64(10), res.Rows[0].Duration)
	require.Equal(t, int64(40), res.Rows[0].Ts)
}

func TestBuildLog_LastWidensWindowWhenFiltersShrinkRows(t *testing.T) {
	// Three sync pairs followed by one merge pair. --show m --last 1 must
	// still find the merge row even though the raw tail window (sized to
	// the default growth start) is dominated by sync events the --show
	// filter drops.
	path := writeLog(t,
		"10: >>> Syncing repository 'gentoo'",
		"20: === Sync completed for gentoo",
		"30: >>> Syncing repository 'gentoo'",
		"40: === Sync completed for gentoo",
		"50: >>> emerge (1 of 1) a/b-1 to /",
		"60: ::: completed emerge (1 of 1) a/b-1 to /",
		"70: >>> Syncing repository 'gentoo'",
		"80: === Sync completed for gentoo")

	show, ok := filter.ParseShow("m", "musa")
	require.True(t, ok)
	res, err := BuildLog(path, filter.Spec{Show: show, Last: 1}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, int64(10), res.Rows[0].Duration)
}

func TestBuildLog_Interrupted(t *testing.T) {
	path := writeLog(t, "1700000000: >>> emerge (1 of 1) a/b-1 to /")
	res, err := BuildLog(path, filter.Spec{Show: allShow()}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Interrupted, 1)
}

func TestBuildStats_GroupsAndTotals(t *testing.T) {
	path := writeLog(t,
		"1700000000: >>> emerge (1 of 1) a/b-1 to /",
		"1700000060: ::: completed emerge (1 of 1) a/b-1 to /",
		"1700000100: >>> emerge (1 of 1) a/b-1 to /",
		"1700000160: ::: completed emerge (1 of 1) a/b-1 to /")

	ix := history.New(10)
	groups, err := BuildStats(path, filter.Spec{Show: allShow()}, filter.PeriodNone, predict.Config{Window: 5, Avg: predict.Median}, ix, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Equal(t, 2, groups[0].MergeCount)
	require.Equal(t, int64(120), groups[0].MergeTotal)
	require.Len(t, groups[0].Packages, 1)
	require.Equal(t, 2, groups[0].Packages[0].Count)
}

func TestBuildPredict_ActiveBuild(t *testing.T) {
	ix := history.New(10)
	k := event.Key{Category: "a", Name: "b", Version: "1"}
	ix.Observe(event.Event{Kind: event.MergeStart, Ts: 100, Pkg: k}, parse.NopSink{})
	ix.Observe(event.Event{Kind: event.MergeStop, Ts: 160, Pkg: k}, parse.NopSink{})

	disc := live.Result{InFlight: []live.InFlight{
		{Pkg: event.Key{Category: "a", Name: "b"}, StartedAt: 1000 - 30, Source: live.SourceProcess, Phase: "compile"},
	}}
	res := BuildPredict(disc, predict.Config{Window: 5, Avg: predict.Median}, ix, 1000)
	require.Len(t, res.Items, 1)
	require.Equal(t, predict.Known, res.Items[0].Prediction.Status)
	require.Equal(t, int64(30), res.Items[0].Prediction.Duration) // 60 predicted - 30 elapsed
}

func TestBuildAccuracy_RollingResiduals(t *testing.T) {
	path := writeLog(t,
		"100: >>> emerge (1 of 1) a/b-1 to /",
		"160: ::: completed emerge (1 of 1) a/b-1 to /",
		"200: >>> emerge (1 of 1) a/b-2 to /",
		"320: ::: completed emerge (1 of 1) a/b-2 to /")

	res, err := BuildAccuracy(path, filter.Spec{}, predict.Config{Window: 5, Avg: predict.Median, Fallback: 30}, parse.NopSink{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	require.Equal(t, res.Rows[0].Prediction.Status, predict.Unknown) // no prior history yet
	require.Equal(t, res.Rows[1].Actual, int64(120))
	require.Equal(t, res.Rows[1].Prediction.Duration, int64(60)) // only prior entry is 60
	require.Equal(t, res.Rows[1].Residual, int64(60))
}

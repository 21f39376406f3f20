package history

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mlog/internal/event"
	"mlog/internal/parse"
)

func key(cat, name, ver string) event.Key { return event.Key{Category: cat, Name: name, Version: ver} }

func TestObserve_CompletedMerge(t *testing.T) {
	ix := New(10)
	k := key("a", "b", "1")
	r := ix.Observe(event.Event{Kind: event.MergeStart, Ts: 100, Pkg: k}, parse.NopSink{})
	require.Equal(t, NoRow, r.Outcome)

	r = ix.Observe(event.Event{Kind: event.MergeStop, Ts: 160, Pkg: k}, parse.NopSink{})
	require.Equal(t, Completed, r.Outcome)
	require.Equal(t, int64(100), r.Started)
	require.Equal(t, int64(160), r.Ended)
	require.Equal(t, []int64{60}, ix.MergeDurations(k))
}

func TestObserve_UnmatchedStop(t *testing.T) {
	ix := New(10)
	k := key("a", "b", "1")
	r := ix.Observe(event.Event{Kind: event.MergeStop, Ts: 160, Pkg: k}, parse.NopSink{})
	require.Equal(t, UnmatchedStop, r.Outcome)
	require.Empty(t, ix.MergeDurations(k))
}

func TestObserve_NegativeDurationDiscarded(t *testing.T) {
	ix := New(10)
	k := key("a", "b", "1")
	ix.Observe(event.Event{Kind: event.MergeStart, Ts: 100, Pkg: k}, parse.NopSink{})
	r := ix.Observe(event.Event{Kind: event.MergeStop, Ts: 50, Pkg: k}, parse.NopSink{})
	require.Equal(t, Discarded, r.Outcome)
	require.Empty(t, ix.MergeDurations(k))
}

func TestObserve_SyncCycleIgnoresStartRepoName(t *testing.T) {
	ix := New(10)
	ix.Observe(event.Event{Kind: event.SyncStart, Ts: 0}, parse.NopSink{})
	r := ix.Observe(event.Event{Kind: event.SyncStop, Ts: 30, Repo: "gentoo"}, parse.NopSink{})
	require.Equal(t, Completed, r.Outcome)
	require.Equal(t, []int64{30}, ix.SyncDurations("gentoo"))
}

func TestObserve_WindowTrims(t *testing.T) {
	ix := New(3)
	k := key("a", "b", "1")
	for i := int64(0); i < 20; i++ {
		ix.Observe(event.Event{Kind: event.MergeStart, Ts: i * 100, Pkg: k}, parse.NopSink{})
		ix.Observe(event.Event{Kind: event.MergeStop, Ts: i*100 + i, Pkg: k}, parse.NopSink{})
	}
	require.LessOrEqual(t, len(ix.MergeDurations(k)), 3+margin)
	d := ix.MergeDurations(k)
	require.Equal(t, int64(19), d[len(d)-1])
}

func TestDrain_InterruptedStart(t *testing.T) {
	ix := New(10)
	k := key("a", "b", "1")
	ix.Observe(event.Event{Kind: event.MergeStart, Ts: 100, Pkg: k}, parse.NopSink{})
	interrupted := ix.Drain()
	require.Len(t, interrupted, 1)
	require.Equal(t, k, interrupted[0].Pkg)
	require.Equal(t, event.MergeStart, interrupted[0].Kind)
}

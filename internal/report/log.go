package report

import (
	"mlog/internal/event"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/parse"
	"mlog/internal/pipeline"
)

// reverseWindowGrowth is the factor by which buildLogReverse widens its raw
// -event window when a pass doesn't turn up enough matching rows.
const reverseWindowGrowth = 4

// BuildLog implements the `log` report (spec.md §4.6): one row per matched
// merge/unmerge/sync, plus any still-open starts at end of stream. When
// spec.Last > 0 the scan runs in reverse and widens its raw-event window
// until it has found spec.Last *matching* rows or reached the start of the
// file — a fixed raw-event limit would undercount whenever a filter drops
// events inside the window, or a Stop's matching Start falls just outside
// it (spec.md §4.6, testable property #4: reverse iteration with --last N
// must return the same rows a forward scan would).
func BuildLog(path string, spec filter.Spec, sink parse.Sink) (LogResult, error) {
	if spec.Last <= 0 {
		res, _, ix, err := scanLog(path, spec, sink, false, 0)
		if err != nil {
			return LogResult{}, err
		}
		res.Interrupted = ix.Drain()
		return res, nil
	}
	return buildLogReverse(path, spec, sink)
}

func buildLogReverse(path string, spec filter.Spec, sink parse.Sink) (LogResult, error) {
	window := spec.Last
	for {
		res, rawCount, ix, err := scanLog(path, spec, sink, true, window)
		if err != nil {
			return LogResult{}, err
		}
		if rawCount < window {
			// The iterator ran out before filling the window: it read the
			// entire file, so this pass is exactly as complete as a
			// forward scan would have been.
			res.Interrupted = ix.Drain()
			if len(res.Rows) > spec.Last {
				res.Rows = res.Rows[len(res.Rows)-spec.Last:]
			}
			return res, nil
		}
		if len(res.Rows) >= spec.Last {
			res.Interrupted = ix.Drain()
			res.Rows = res.Rows[len(res.Rows)-spec.Last:]
			return res, nil
		}
		window *= reverseWindowGrowth
	}
}

// scanLog runs one pass over path (forward, or reverse bounded to window
// raw events) applying spec's filters and the shared start/stop matcher.
// rawCount is the number of recognised events the pass actually read,
// regardless of filtering — buildLogReverse uses it to detect end of file.
func scanLog(path string, spec filter.Spec, sink parse.Sink, reverse bool, window int) (LogResult, int, *history.Index, error) {
	ix := history.New(history.DefaultWindow)
	h := pipeline.Run(path, sink, reverse, window)
	defer h.Cancel()

	var res LogResult
	var rawCount int
	for item := range h.Items {
		if item.Err != nil {
			return res, rawCount, ix, item.Err
		}
		rawCount++
		e := item.Event
		if !wantKind(e.Kind, spec.Show) {
			continue
		}
		if !spec.Range.InRange(e.Ts) {
			continue
		}
		if spec.Names != nil && (e.Kind == event.MergeStart || e.Kind == event.MergeStop ||
			e.Kind == event.UnmergeStart || e.Kind == event.UnmergeStop) {
			if !spec.Names.MatchKey(e.Pkg) {
				continue
			}
		}

		r := ix.Observe(e, sink)
		row, ok := rowFor(e, r, spec.StartTime)
		if !ok {
			continue
		}
		res.Rows = append(res.Rows, row)
		if spec.First > 0 && len(res.Rows) >= spec.First {
			h.Cancel()
			break
		}
	}
	return res, rawCount, ix, nil
}

// wantKind applies the command's --show kind mask.
func wantKind(k event.Kind, show filter.Show) bool {
	switch k {
	case event.MergeStart, event.MergeStop:
		return show.Merge
	case event.UnmergeStart, event.UnmergeStop:
		return show.Unmerge
	case event.SyncStart, event.SyncStop:
		return show.Sync
	default:
		return false
	}
}

// rowFor turns a history.Result from a Stop event into a LogRow. Start
// events produce no row (spec.md §8 scenario 1: only the pair, delivered at
// the stop, is a row).
func rowFor(e event.Event, r history.Result, startTime bool) (LogRow, bool) {
	switch r.Outcome {
	case history.NoRow:
		return LogRow{}, false
	case history.Discarded:
		return LogRow{}, false
	case history.Completed:
		ts := r.Ended
		if startTime {
			ts = r.Started
		}
		return LogRow{
			Kind: e.Kind, Ts: ts, Pkg: r.Pkg, Repo: r.Repo,
			Duration:  r.Ended - r.Started,
			IterIndex: r.IterIndex, IterTotal: r.IterTotal, Binary: r.Binary,
		}, true
	case history.UnmatchedStop:
		return LogRow{
			Kind: e.Kind, Ts: r.Ended, Pkg: r.Pkg, Repo: r.Repo,
			Duration: UnknownDuration,
		}, true
	default:
		return LogRow{}, false
	}
}

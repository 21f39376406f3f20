// Package history implements the start/stop matching state machine shared
// by every report builder (spec.md §4.6) and, on top of it, the bounded
// per-package duration index that feeds prediction (spec.md §4.3).
package history

import (
	"sort"

	"mlog/internal/event"
	"mlog/internal/parse"
)

// DefaultWindow is the prediction window used when no --limit is given.
const DefaultWindow = 10

// margin is how far past the window a history slice is allowed to grow
// before being trimmed back down; it avoids re-allocating on every insert.
const margin = 10

// Outcome describes what happened when a Stop (or Start, trivially) event
// was fed to the Index.
type Outcome int

const (
	// NoRow: a Start event was recorded; nothing to report yet.
	NoRow Outcome = iota
	// Completed: a Stop matched a prior Start.
	Completed
	// UnmatchedStop: a Stop arrived with no open Start.
	UnmatchedStop
	// Discarded: a Stop matched a Start but the duration was negative.
	Discarded
)

// mergeStart is the subset of a MergeStart worth remembering until its
// matching stop arrives.
type mergeStart struct {
	Ts        int64
	IterIndex int
	IterTotal int
	Binary    bool
}

// Result is returned by Observe.
type Result struct {
	Outcome Outcome
	Started int64 // valid when Outcome == Completed or Discarded
	Ended   int64 // valid when Outcome != NoRow
	Pkg     event.Key
	Repo    string

	// Carried from the matching MergeStart, valid when Outcome == Completed
	// and the event kind is a merge.
	IterIndex int
	IterTotal int
	Binary    bool
}

// Index accumulates, per (category,name), the bounded tail of most recent
// successful merge durations, plus sync durations keyed by repo and
// unmerge durations keyed by (category,name). It is also the shared
// start/stop matcher: Observe must be called with every event a report
// builder cares about, in log order, for both purposes to stay consistent.
type Index struct {
	limit int

	mergeStarts   map[string]mergeStart // atom ("cat/name-version") -> start info
	unmergeStarts map[string]int64

	syncPending   bool
	syncPendingTs int64

	mergeHist   map[string][]int64 // (cat,name) -> durations, oldest first
	syncHist    map[string][]int64 // repo -> durations
	unmergeHist map[string][]int64
}

// New returns an Index with the given prediction window. limit <= 0 uses
// DefaultWindow.
func New(limit int) *Index {
	if limit <= 0 {
		limit = DefaultWindow
	}
	return &Index{
		limit:         limit,
		mergeStarts:   make(map[string]mergeStart),
		unmergeStarts: make(map[string]int64),
		mergeHist:     make(map[string][]int64),
		syncHist:      make(map[string][]int64),
		unmergeHist:   make(map[string][]int64),
	}
}

// Observe feeds one event into the matcher/index, returning what it
// resolved (if anything) so the caller's report builder can render a row.
// Diagnostics are written to sink at verbosity >= warning.
func (ix *Index) Observe(e event.Event, sink parse.Sink) Result {
	switch e.Kind {
	case event.MergeStart:
		atom := e.Pkg.String()
		if _, exists := ix.mergeStarts[atom]; exists {
			sink.Warnf("merge start for %s replaces a prior unfinished start", atom)
		}
		ix.mergeStarts[atom] = mergeStart{Ts: e.Ts, IterIndex: e.IterIndex, IterTotal: e.IterTotal, Binary: e.Binary}
		return Result{Outcome: NoRow}

	case event.MergeStop:
		atom := e.Pkg.String()
		start, ok := ix.mergeStarts[atom]
		if !ok {
			sink.Warnf("merge stop for %s has no matching start", atom)
			return Result{Outcome: UnmatchedStop, Ended: e.Ts, Pkg: e.Pkg}
		}
		delete(ix.mergeStarts, atom)
		dur := e.Ts - start.Ts
		if dur < 0 {
			sink.Warnf("negative merge duration for %s (%d -> %d)", atom, start.Ts, e.Ts)
			return Result{Outcome: Discarded, Started: start.Ts, Ended: e.Ts, Pkg: e.Pkg}
		}
		ix.mergeHist[e.Pkg.ID()] = appendBounded(ix.mergeHist[e.Pkg.ID()], dur, ix.limit)
		return Result{
			Outcome: Completed, Started: start.Ts, Ended: e.Ts, Pkg: e.Pkg,
			IterIndex: start.IterIndex, IterTotal: start.IterTotal, Binary: start.Binary,
		}

	case event.UnmergeStart:
		atom := e.Pkg.String()
		if _, exists := ix.unmergeStarts[atom]; exists {
			sink.Warnf("unmerge start for %s replaces a prior unfinished start", atom)
		}
		ix.unmergeStarts[atom] = e.Ts
		return Result{Outcome: NoRow}

	case event.UnmergeStop:
		atom := e.Pkg.String()
		startTs, ok := ix.unmergeStarts[atom]
		if !ok {
			sink.Warnf("unmerge stop for %s has no matching start", atom)
			return Result{Outcome: UnmatchedStop, Ended: e.Ts, Pkg: e.Pkg}
		}
		delete(ix.unmergeStarts, atom)
		dur := e.Ts - startTs
		if dur < 0 {
			sink.Warnf("negative unmerge duration for %s (%d -> %d)", atom, startTs, e.Ts)
			return Result{Outcome: Discarded, Started: startTs, Ended: e.Ts, Pkg: e.Pkg}
		}
		ix.unmergeHist[e.Pkg.ID()] = appendBounded(ix.unmergeHist[e.Pkg.ID()], dur, ix.limit)
		return Result{Outcome: Completed, Started: startTs, Ended: e.Ts, Pkg: e.Pkg}

	case event.SyncStart:
		ix.syncPending = true
		ix.syncPendingTs = e.Ts
		return Result{Outcome: NoRow}

	case event.SyncStop:
		if !ix.syncPending {
			sink.Warnf("sync stop for %s has no matching start", e.Repo)
			return Result{Outcome: UnmatchedStop, Ended: e.Ts, Repo: e.Repo}
		}
		startTs := ix.syncPendingTs
		ix.syncPending = false
		dur := e.Ts - startTs
		if dur < 0 {
			sink.Warnf("negative sync duration for %s (%d -> %d)", e.Repo, startTs, e.Ts)
			return Result{Outcome: Discarded, Started: startTs, Ended: e.Ts, Repo: e.Repo}
		}
		ix.syncHist[e.Repo] = appendBounded(ix.syncHist[e.Repo], dur, ix.limit)
		return Result{Outcome: Completed, Started: startTs, Ended: e.Ts, Repo: e.Repo}

	default:
		return Result{Outcome: NoRow}
	}
}

// Interrupted describes a Start event with no matching Stop by end of
// stream, reported by the `log` builder (spec.md §3 Invariants) and never
// entered into history.
type Interrupted struct {
	Pkg     event.Key
	Repo    string
	Started int64
	Kind    event.Kind // MergeStart, UnmergeStart, or SyncStart
}

// Drain returns every still-open Start at end of stream. Call once after
// the event stream is exhausted.
func (ix *Index) Drain() []Interrupted {
	var out []Interrupted
	for atom, start := range ix.mergeStarts {
		pkg, _ := parse.ParseAtom(atom)
		out = append(out, Interrupted{Pkg: pkg, Started: start.Ts, Kind: event.MergeStart})
	}
	for atom, ts := range ix.unmergeStarts {
		pkg, _ := parse.ParseAtom(atom)
		out = append(out, Interrupted{Pkg: pkg, Started: ts, Kind: event.UnmergeStart})
	}
	if ix.syncPending {
		out = append(out, Interrupted{Started: ix.syncPendingTs, Kind: event.SyncStart})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started < out[j].Started })
	return out
}

// MergeDurations returns the bounded history for (cat,name), oldest first.
func (ix *Index) MergeDurations(key event.Key) []int64 { return ix.mergeHist[key.ID()] }

// SyncDurations returns the bounded history for repo, oldest first.
func (ix *Index) SyncDurations(repo string) []int64 { return ix.syncHist[repo] }

// UnmergeDurations returns the bounded history for (cat,name), oldest first.
func (ix *Index) UnmergeDurations(key event.Key) []int64 { return ix.unmergeHist[key.ID()] }

// appendBounded appends v and, once the slice holds more than limit+margin
// entries, trims it back to the newest limit entries, so repeated inserts
// stay O(1) amortized.
func appendBounded(s []int64, v int64, limit int) []int64 {
	s = append(s, v)
	if len(s) > limit+margin {
		excess := len(s) - limit
		s = append(s[:0], s[excess:]...)
	}
	return s
}

package report

import (
	"sort"

	"mlog/internal/event"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/parse"
	"mlog/internal/pipeline"
	"mlog/internal/predict"
)

// BuildStats implements the `stats` report (spec.md §4.6): matched events
// grouped by period, each group carrying up to three sub-tables
// (per-package, totals, per-repo syncs). The "predicted" column on each
// per-package row is computed once, after the full pass, from the
// complete (not point-in-time) history — stats describes what happened,
// not what the engine would have guessed mid-stream (that's `accuracy`'s
// job).
func BuildStats(path string, spec filter.Spec, period filter.Period, predCfg predict.Config, ix *history.Index, sink parse.Sink) ([]StatsGroup, error) {
	h := pipeline.Run(path, sink, false, 0)
	defer h.Cancel()

	groups := map[string]*StatsGroup{}
	pkgCounts := map[string]map[string]int{}  // group -> pkgID -> count
	syncCounts := map[string]map[string]int{} // group -> repo -> count

	order := func(key string) *StatsGroup {
		g, ok := groups[key]
		if !ok {
			g = &StatsGroup{Key: key}
			groups[key] = g
			pkgCounts[key] = map[string]int{}
			syncCounts[key] = map[string]int{}
		}
		return g
	}

	var scanErr error
	for item := range h.Items {
		if item.Err != nil {
			scanErr = item.Err
			break
		}
		e := item.Event
		if !wantKind(e.Kind, spec.Show) {
			continue
		}
		if !spec.Range.InRange(e.Ts) {
			continue
		}
		isPkgEvent := e.Kind == event.MergeStart || e.Kind == event.MergeStop ||
			e.Kind == event.UnmergeStart || e.Kind == event.UnmergeStop
		isSyncEvent := e.Kind == event.SyncStart || e.Kind == event.SyncStop
		if spec.Names != nil {
			if isPkgEvent && !spec.Names.MatchKey(e.Pkg) {
				continue
			}
			// SyncStart carries no repo name, so only the stop is matched.
			if isSyncEvent && e.Kind == event.SyncStop && !spec.Names.Match(e.Repo) {
				continue
			}
		}

		r := ix.Observe(e, sink)
		if r.Outcome != history.Completed {
			continue
		}
		gk := filter.GroupKey(r.Ended, period, spec.UTC)
		g := order(gk)
		switch e.Kind {
		case event.MergeStop:
			g.MergeCount++
			g.MergeTotal += r.Ended - r.Started
			pkgCounts[gk][r.Pkg.ID()]++
		case event.UnmergeStop:
			g.UnmergeCount++
			g.UnmergeTotal += r.Ended - r.Started
		case event.SyncStop:
			syncCounts[gk][r.Repo]++
		}
		trackPkgTotal(g, r, e.Kind)
		trackSyncTotal(g, r, e.Kind)
	}
	if scanErr != nil {
		return nil, scanErr
	}

	var out []StatsGroup
	for gk, g := range groups {
		finalizeGroup(g, pkgCounts[gk], syncCounts[gk], predCfg, ix)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func trackPkgTotal(g *StatsGroup, r history.Result, kind event.Kind) {
	if kind != event.MergeStop {
		return
	}
	for i := range g.Packages {
		if g.Packages[i].Pkg.ID() == r.Pkg.ID() {
			g.Packages[i].Total += r.Ended - r.Started
			return
		}
	}
	g.Packages = append(g.Packages, StatsPkgRow{Pkg: r.Pkg, Total: r.Ended - r.Started})
}

func trackSyncTotal(g *StatsGroup, r history.Result, kind event.Kind) {
	if kind != event.SyncStop {
		return
	}
	for i := range g.Syncs {
		if g.Syncs[i].Repo == r.Repo {
			g.Syncs[i].Total += r.Ended - r.Started
			return
		}
	}
	g.Syncs = append(g.Syncs, StatsSyncRow{Repo: r.Repo, Total: r.Ended - r.Started})
}

func finalizeGroup(g *StatsGroup, pkgCounts, syncCounts map[string]int, predCfg predict.Config, ix *history.Index) {
	for i := range g.Packages {
		g.Packages[i].Count = pkgCounts[g.Packages[i].Pkg.ID()]
		g.Packages[i].Predicted = predict.Predict(ix.MergeDurations(g.Packages[i].Pkg), predCfg, -1)
	}
	sort.Slice(g.Packages, func(i, j int) bool { return g.Packages[i].Pkg.ID() < g.Packages[j].Pkg.ID() })
	for i := range g.Syncs {
		g.Syncs[i].Count = syncCounts[g.Syncs[i].Repo]
	}
	sort.Slice(g.Syncs, func(i, j int) bool { return g.Syncs[i].Repo < g.Syncs[j].Repo })
}

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

// BuildAccuracy implements the `accuracy` report (spec.md §4.6): replays
// the full stream and, for each completed merge, compares the duration the
// engine would have predicted using only the history observed so far
// against the observed duration. This rolling recomputation is exactly
// what `predict` would have produced if invoked live at that moment
// (spec.md §8's round-trip property), so BuildAccuracy keeps its own
// history.Index rather than sharing the caller's.
func BuildAccuracy(path string, spec filter.Spec, predCfg predict.Config, sink parse.Sink) (AccuracyResult, error) {
	ix := history.New(predCfg.Window)
	h := pipeline.Run(path, sink, false, 0)
	defer h.Cancel()

	var res AccuracyResult
	var scanErr error
	for item := range h.Items {
		if item.Err != nil {
			scanErr = item.Err
			break
		}
		e := item.Event
		if e.Kind != event.MergeStart && e.Kind != event.MergeStop {
			ix.Observe(e, sink) // still needed to keep sync/unmerge matching consistent
			continue
		}
		if !spec.Range.InRange(e.Ts) {
			continue
		}
		if spec.Names != nil && !spec.Names.MatchKey(e.Pkg) {
			ix.Observe(e, sink)
			continue
		}

		if e.Kind == event.MergeStop {
			prior := ix.MergeDurations(e.Pkg)
			pred := predict.Predict(prior, predCfg, -1)
			r := ix.Observe(e, sink)
			if r.Outcome != history.Completed {
				continue
			}
			actual := r.Ended - r.Started
			row := AccuracyRow{Pkg: r.Pkg, Ts: r.Ended, Actual: actual, Prediction: pred}
			if pred.Status != predict.Unknown {
				row.Residual = absInt64(actual - pred.Duration)
			}
			res.Rows = append(res.Rows, row)
			if spec.First > 0 && len(res.Rows) >= spec.First {
				h.Cancel()
				break
			}
			continue
		}
		ix.Observe(e, sink)
	}
	if scanErr != nil {
		return res, scanErr
	}
	if spec.Last > 0 && len(res.Rows) > spec.Last {
		res.Rows = res.Rows[len(res.Rows)-spec.Last:]
	}

	summarize(&res)
	return res, nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// summarize computes per-package and overall mean/median absolute error
// over rows whose prediction was Known (an Unknown fallback carries no
// error signal worth averaging).
func summarize(res *AccuracyResult) {
	byPkg := map[string][]int64{}
	var all []int64
	keys := map[string]event.Key{}
	for _, row := range res.Rows {
		if row.Prediction.Status == predict.Unknown {
			continue
		}
		id := row.Pkg.ID()
		byPkg[id] = append(byPkg[id], row.Residual)
		keys[id] = row.Pkg
		all = append(all, row.Residual)
	}
	for id, residuals := range byPkg {
		res.PerPkg = append(res.PerPkg, AccuracyPkgRow{
			Pkg: keys[id], Count: len(residuals),
			MeanAE: meanAbs(residuals), MedAE: medianAbs(residuals),
		})
	}
	sort.Slice(res.PerPkg, func(i, j int) bool { return res.PerPkg[i].Pkg.ID() < res.PerPkg[j].Pkg.ID() })
	res.MeanAE = meanAbs(all)
	res.MedAE = medianAbs(all)
}

func meanAbs(vals []int64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func medianAbs(vals []int64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]int64(nil), vals...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

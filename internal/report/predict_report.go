package report

import (
	"mlog/internal/history"
	"mlog/internal/live"
	"mlog/internal/parse"
	"mlog/internal/pipeline"
	"mlog/internal/predict"
)

// LoadHistory scans path forward, feeding every event into ix in log order.
// Every other report builder (BuildStats, BuildAccuracy) already scans its
// own log path as part of building its report; predict instead joins live
// discovery against history the caller already has, so the caller must
// populate ix from the log itself before calling BuildPredict (spec.md
// §4.3/§4.6).
func LoadHistory(path string, ix *history.Index, sink parse.Sink) error {
	h := pipeline.Run(path, sink, false, 0)
	defer h.Cancel()
	for item := range h.Items {
		if item.Err != nil {
			return item.Err
		}
		ix.Observe(item.Event, sink)
	}
	return nil
}

// BuildPredict implements the `predict` report (spec.md §4.6): joins
// Live-build discovery with the History Index to estimate remaining time
// for every in-progress or queued package, plus a total across all of
// them. Active builds come first (in discovery order), then resume/pretend
// entries with no started_at (a plain estimate, no elapsed subtraction).
func BuildPredict(disc live.Result, predCfg predict.Config, ix *history.Index, nowUnix int64) PredictResult {
	var res PredictResult
	res.Incomplete = disc.Incomplete

	seen := map[string]bool{}
	var total int64
	anyKnown := false
	for _, item := range disc.InFlight {
		id := item.Pkg.ID()
		if seen[id] {
			continue
		}
		seen[id] = true

		elapsed := int64(-1)
		if item.StartedAt > 0 {
			elapsed = nowUnix - item.StartedAt
			if elapsed < 1 {
				elapsed = 1
			}
		}
		pred := predict.Predict(ix.MergeDurations(item.Pkg), predCfg, elapsed)
		res.Items = append(res.Items, PredictRow{
			Pkg: item.Pkg, Phase: item.Phase, Binary: item.Binary,
			StartedAt: item.StartedAt, Prediction: pred, Source: item.Source.String(),
		})
		if pred.Status != predict.Unknown {
			total += pred.Duration
			anyKnown = true
		}
	}

	if !anyKnown {
		res.Total = predict.Prediction{Status: predict.Unknown, Duration: predCfg.Fallback}
	} else {
		res.Total = predict.Prediction{Status: predict.Known, Duration: total}
	}
	return res
}

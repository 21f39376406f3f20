// Package report implements the four row-sequence builders (spec.md §4.6):
// log, stats, predict, and accuracy. Each consumes the shared filter stage
// and the history index, dispatching on event.Kind rather than building a
// type hierarchy, per spec.md §9.
package report

import (
	"mlog/internal/event"
	"mlog/internal/history"
	"mlog/internal/predict"
)

// UnknownDuration is the sentinel LogRow.Duration carries when the
// counterpart event is missing (spec.md §8 boundary scenario 2).
const UnknownDuration int64 = -1

// LogRow is one row of the `log` report.
type LogRow struct {
	Kind      event.Kind // MergeStart/MergeStop collapse to a single "merge" row; same for unmerge/sync
	Ts        int64      // display timestamp, chosen per spec.Spec.StartTime
	Pkg       event.Key
	Repo      string
	Duration  int64 // UnknownDuration if the counterpart event never arrived
	IterIndex int
	IterTotal int
	Binary    bool
}

// LogResult is BuildLog's return value.
type LogResult struct {
	Rows        []LogRow
	Interrupted []history.Interrupted
}

// StatsPkgRow is one row of a stats group's per-package sub-table.
type StatsPkgRow struct {
	Pkg       event.Key
	Count     int
	Total     int64
	Predicted predict.Prediction
}

// StatsSyncRow is one row of a stats group's per-repo sync sub-table.
type StatsSyncRow struct {
	Repo  string
	Count int
	Total int64
}

// StatsGroup is one period bucket's worth of the `stats` report.
type StatsGroup struct {
	Key string

	Packages []StatsPkgRow

	MergeCount   int
	MergeTotal   int64
	UnmergeCount int
	UnmergeTotal int64

	Syncs []StatsSyncRow
}

// PredictRow is one row of the `predict` report's per-item output.
type PredictRow struct {
	Pkg        event.Key
	Phase      string
	Binary     bool
	StartedAt  int64
	Prediction predict.Prediction
	Source     string // "process", "resume-main", "resume-backup", "pretend"
}

// PredictResult is BuildPredict's return value.
type PredictResult struct {
	Items      []PredictRow
	Total      predict.Prediction
	Incomplete bool
}

// AccuracyPkgRow summarizes one package's prediction residuals.
type AccuracyPkgRow struct {
	Pkg    event.Key
	Count  int
	MeanAE float64
	MedAE  float64
}

// AccuracyRow is one merge's predicted-vs-actual residual.
type AccuracyRow struct {
	Pkg        event.Key
	Ts         int64
	Actual     int64
	Prediction predict.Prediction
	Residual   int64 // |actual - predicted|, valid only when Prediction.Status == Known
}

// AccuracyResult is BuildAccuracy's return value.
type AccuracyResult struct {
	Rows   []AccuracyRow
	PerPkg []AccuracyPkgRow
	MeanAE float64
	MedAE  float64
}

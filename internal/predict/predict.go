// Package predict implements the averaging algebra that turns a package's
// recent merge durations into a single predicted duration (spec.md §4.4).
package predict

import "sort"

// Average selects the aggregation function applied to a history window.
type Average int

const (
	Arith Average = iota
	Median
	WeightedArith
	WeightedMedian
)

// ParseAverage accepts the short and long forms of each average function.
func ParseAverage(s string) (Average, bool) {
	switch s {
	case "a", "arith":
		return Arith, true
	case "m", "median", "":
		return Median, true
	case "wa", "weighted-arith":
		return WeightedArith, true
	case "wm", "weighted-median":
		return WeightedMedian, true
	default:
		return 0, false
	}
}

// Status tags the kind of Prediction returned.
type Status int

const (
	Known Status = iota
	Unknown
	Overdue
)

// Prediction is the tagged result of Predict: either a Known duration, an
// Unknown fallback (no history), or Overdue (elapsed time on an in-progress
// build already exceeds the prediction).
type Prediction struct {
	Status   Status
	Duration int64 // predicted remaining/total duration for Known; fallback for Unknown; elapsed for Overdue
}

// Config bundles the parameters fixed once per invocation.
type Config struct {
	Window   int
	Avg      Average
	Fallback int64 // seconds, used when history is empty
}

// Predict computes a prediction from history (oldest first). elapsed, when
// >= 0, is subtracted for an in-progress build (now - started_at); pass -1
// for a build that hasn't started (a plain estimate).
func Predict(history []int64, cfg Config, elapsed int64) Prediction {
	window := cfg.Window
	if window <= 0 || window > len(history) {
		window = len(history)
	}
	s := history[len(history)-window:]
	if len(s) == 0 {
		return Prediction{Status: Unknown, Duration: cfg.Fallback}
	}

	var total int64
	switch cfg.Avg {
	case Arith:
		total = arithMean(s)
	case Median:
		total = median(s)
	case WeightedArith:
		total = weightedArith(s)
	case WeightedMedian:
		total = weightedMedian(s)
	default:
		total = median(s)
	}

	if elapsed < 0 {
		return Prediction{Status: Known, Duration: total}
	}
	if elapsed > total {
		return Prediction{Status: Overdue, Duration: elapsed}
	}
	remaining := total - elapsed
	if remaining < 1 {
		remaining = 1
	}
	return Prediction{Status: Known, Duration: remaining}
}

func arithMean(s []int64) int64 {
	var sum int64
	for _, v := range s {
		sum += v
	}
	return sum / int64(len(s))
}

func median(s []int64) int64 {
	sorted := append([]int64(nil), s...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// weightedArith assigns weight i+1 to the i-th entry counting from oldest
// (index 0) to newest, so the most recent entry always carries the most
// weight.
func weightedArith(s []int64) int64 {
	var num, den int64
	for i, v := range s {
		w := int64(i + 1)
		num += v * w
		den += w
	}
	return num / den
}

// weightedMedian returns the smallest value v such that the cumulative
// weight of entries <= v reaches at least half the total weight, with
// weights assigned the same way as weightedArith.
func weightedMedian(s []int64) int64 {
	type wv struct{ v, w int64 }
	pairs := make([]wv, len(s))
	var totalW int64
	for i, v := range s {
		w := int64(i + 1)
		pairs[i] = wv{v, w}
		totalW += w
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].v < pairs[j].v })
	var cum int64
	for _, p := range pairs {
		cum += p.w
		if cum*2 >= totalW {
			return p.v
		}
	}
	return pairs[len(pairs)-1].v
}

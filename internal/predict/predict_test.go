package predict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var history5 = []int64{60, 120, 180, 240, 300}

func TestPredict_WindowedAverages(t *testing.T) {
	cases := []struct {
		avg  Average
		want int64
	}{
		{Median, 240},
		{Arith, 240},
		{WeightedArith, 260},
	}
	for _, c := range cases {
		p := Predict(history5, Config{Window: 3, Avg: c.avg, Fallback: 999}, -1)
		require.Equal(t, Known, p.Status)
		require.Equal(t, c.want, p.Duration, c.avg)
	}
}

func TestPredict_UnknownWhenEmpty(t *testing.T) {
	p := Predict(nil, Config{Window: 3, Avg: Median, Fallback: 42}, -1)
	require.Equal(t, Unknown, p.Status)
	require.Equal(t, int64(42), p.Duration)
}

func TestPredict_MedianOddLength(t *testing.T) {
	p := Predict([]int64{10, 30, 20}, Config{Window: 3, Avg: Median}, -1)
	require.Equal(t, int64(20), p.Duration)
}

func TestPredict_InProgressSubtractsElapsed(t *testing.T) {
	// Known(120), elapsed 30s -> remaining 90s.
	p := Predict([]int64{120}, Config{Window: 1, Avg: Arith}, 30)
	require.Equal(t, Known, p.Status)
	require.Equal(t, int64(90), p.Duration)
}

func TestPredict_ClampsAtOneSecond(t *testing.T) {
	p := Predict([]int64{100}, Config{Window: 1, Avg: Arith}, 99)
	require.Equal(t, Known, p.Status)
	require.Equal(t, int64(1), p.Duration)
}

func TestPredict_OverdueWhenElapsedExceedsPrediction(t *testing.T) {
	p := Predict([]int64{100}, Config{Window: 1, Avg: Arith}, 150)
	require.Equal(t, Overdue, p.Status)
	require.Equal(t, int64(150), p.Duration)
}

func TestPredict_WeightedMedianWeightsIncreaseWithRecency(t *testing.T) {
	// All low values except the most recent is high: a weighted median must
	// not land below the unweighted one. Here both are 10, since the newest
	// entry's weight (5) is less than half the total weight (15).
	vals := []int64{10, 10, 10, 10, 100}
	unweighted := median(vals)
	weighted := Predict(vals, Config{Window: 5, Avg: WeightedMedian}, -1).Duration
	require.GreaterOrEqual(t, weighted, unweighted)
}

func TestParseAverage(t *testing.T) {
	for _, s := range []string{"a", "arith", "m", "median", "wa", "weighted-arith", "wm", "weighted-median"} {
		_, ok := ParseAverage(s)
		require.True(t, ok, s)
	}
	_, ok := ParseAverage("bogus")
	require.False(t, ok)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mlog/diag"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/predict"
	"mlog/internal/report"
	"mlog/output"
)

var accuracyFlags struct {
	show  string
	last  int
	avg   string
	limit int
	exact bool
}

var accuracyCmd = &cobra.Command{
	Use:   "accuracy [search...]",
	Short: "Compare past predictions against observed merge durations",
	RunE:  runAccuracy,
}

func init() {
	f := accuracyCmd.Flags()
	f.StringVar(&accuracyFlags.show, "show", "mta", "rows to include: m(erge) t(otal) a(ll)")
	f.IntVarP(&accuracyFlags.last, "last", "n", 0, "show only the last N rows")
	f.StringVar(&accuracyFlags.avg, "avg", "median", "averaging function: arith|median|weighted-arith|weighted-median")
	f.IntVar(&accuracyFlags.limit, "limit", history.DefaultWindow, "prediction window size")
	f.BoolVarP(&accuracyFlags.exact, "exact", "e", false, "match search terms exactly instead of as a regex")
}

func runAccuracy(cmd *cobra.Command, args []string) error {
	r, err := resolveCommon(cmd, "accuracy")
	if err != nil {
		return err
	}
	rng, err := buildRange(r)
	if err != nil {
		return err
	}
	show, ok := filter.ParseShow(accuracyFlags.show, "mta")
	if !ok {
		return usageErrorf("invalid --show %q for accuracy (valid: mta)", accuracyFlags.show)
	}
	avg, ok := predict.ParseAverage(accuracyFlags.avg)
	if !ok {
		return usageErrorf("invalid --avg %q", accuracyFlags.avg)
	}
	names, err := filter.NewNameMatcher(args, accuracyFlags.exact)
	if err != nil {
		return usageErrorf("%v", err)
	}

	spec := filter.Spec{Range: rng, Names: names, Show: show, Last: accuracyFlags.last, UTC: r.utc}
	predCfg := predict.Config{Window: accuracyFlags.limit, Avg: avg}

	d := diag.New(os.Stderr, r.level)
	res, err := report.BuildAccuracy(r.logfile, spec, predCfg, d)
	if err != nil {
		return usageErrorf("%v", err)
	}

	w, flush := newWriter(r)
	if r.colorOn {
		w = output.NewColor(w, 4, output.ColorOverdue)
	}
	n := 0
	if show.Merge {
		for _, row := range res.Rows {
			pred := "?"
			if row.Prediction.Status != predict.Unknown {
				pred = formatDuration(row.Prediction.Duration, r.durationStyle)
			}
			resid := "?"
			if row.Prediction.Status != predict.Unknown {
				resid = formatDuration(row.Residual, r.durationStyle)
			}
			w.Row([]string{filter.FormatTime(row.Ts, r.utc), row.Pkg.String(),
				formatDuration(row.Actual, r.durationStyle), pred, resid})
			n++
		}
	}
	if show.Tot {
		for _, p := range res.PerPkg {
			w.Row([]string{"", p.Pkg.ID(), itoaInt(p.Count),
				fmt.Sprintf("%.1f", p.MeanAE), fmt.Sprintf("%.1f", p.MedAE)})
			n++
		}
		w.Row([]string{"", "overall", "", fmt.Sprintf("%.1f", res.MeanAE), fmt.Sprintf("%.1f", res.MedAE)})
		n++
	}
	if err := flush(); err != nil {
		return err
	}

	warnings, _ := d.Summary()
	if warnings > 0 {
		fmt.Fprintf(os.Stderr, "mlog: %d warning(s)\n", warnings)
	}
	if n == 0 {
		os.Exit(1)
	}
	return nil
}

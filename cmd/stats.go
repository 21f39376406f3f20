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

var statsFlags struct {
	show    string
	groupby string
	avg     string
	limit   int
	exact   bool
}

var statsCmd = &cobra.Command{
	Use:   "stats [search...]",
	Short: "Aggregate merge/unmerge/sync statistics by period",
	RunE:  runStats,
}

func init() {
	f := statsCmd.Flags()
	f.StringVar(&statsFlags.show, "show", "ptsa", "sub-tables to include: p(ackages) t(otals) s(yncs) a(ll)")
	f.StringVar(&statsFlags.groupby, "groupby", "n", "grouping period: y|m|w|d|n(one)")
	f.StringVar(&statsFlags.avg, "avg", "median", "averaging function: arith|median|weighted-arith|weighted-median")
	f.IntVar(&statsFlags.limit, "limit", history.DefaultWindow, "prediction window size")
	f.BoolVarP(&statsFlags.exact, "exact", "e", false, "match search terms exactly instead of as a regex")
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := resolveCommon(cmd, "stats")
	if err != nil {
		return err
	}
	rng, err := buildRange(r)
	if err != nil {
		return err
	}
	show, ok := filter.ParseShow(statsFlags.show, "ptsa")
	if !ok {
		return usageErrorf("invalid --show %q for stats (valid: ptsa)", statsFlags.show)
	}
	period, ok := filter.ParsePeriod(statsFlags.groupby)
	if !ok {
		return usageErrorf("invalid --groupby %q", statsFlags.groupby)
	}
	avg, ok := predict.ParseAverage(statsFlags.avg)
	if !ok {
		return usageErrorf("invalid --avg %q", statsFlags.avg)
	}
	names, err := filter.NewNameMatcher(args, statsFlags.exact)
	if err != nil {
		return usageErrorf("%v", err)
	}

	spec := filter.Spec{Range: rng, Names: names, Show: show, UTC: r.utc}
	predCfg := predict.Config{Window: statsFlags.limit, Avg: avg}

	d := diag.New(os.Stderr, r.level)
	ix := history.New(statsFlags.limit)
	groups, err := report.BuildStats(r.logfile, spec, period, predCfg, ix, d)
	if err != nil {
		return usageErrorf("%v", err)
	}

	w, flush := newWriter(r)
	if r.colorOn {
		w = output.NewColor(w, 1, output.ColorKnown)
	}
	rows := 0
	for _, g := range groups {
		rows += writeStatsGroup(w, g, show, r)
	}
	if err := flush(); err != nil {
		return err
	}

	warnings, _ := d.Summary()
	if warnings > 0 {
		fmt.Fprintf(os.Stderr, "mlog: %d warning(s)\n", warnings)
	}
	if rows == 0 {
		os.Exit(1)
	}
	return nil
}

func writeStatsGroup(w output.Writer, g report.StatsGroup, show filter.Show, r resolved) int {
	n := 0
	label := g.Key
	if label == "" {
		label = "-"
	}
	if show.Pkg {
		for _, p := range g.Packages {
			pred := "?"
			if p.Predicted.Status != predict.Unknown {
				pred = formatDuration(p.Predicted.Duration, r.durationStyle)
			}
			w.Row([]string{label, "pkg", p.Pkg.ID(), itoaInt(p.Count), formatDuration(p.Total, r.durationStyle), pred})
			n++
		}
	}
	if show.Tot {
		w.Row([]string{label, "merge-total", "", itoaInt(g.MergeCount), formatDuration(g.MergeTotal, r.durationStyle), ""})
		w.Row([]string{label, "unmerge-total", "", itoaInt(g.UnmergeCount), formatDuration(g.UnmergeTotal, r.durationStyle), ""})
		n += 2
	}
	if show.Sync {
		for _, s := range g.Syncs {
			w.Row([]string{label, "sync", s.Repo, itoaInt(s.Count), formatDuration(s.Total, r.durationStyle), ""})
			n++
		}
	}
	return n
}

func itoaInt(n int) string { return fmt.Sprintf("%d", n) }

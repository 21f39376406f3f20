package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mlog/diag"
	"mlog/internal/event"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/report"
	"mlog/output"
)

var logFlags struct {
	show      string
	first     int
	last      int
	starttime bool
	exact     bool
}

var logCmd = &cobra.Command{
	Use:   "log [search...]",
	Short: "Print a chronological listing of merge/unmerge/sync events",
	RunE:  runLog,
}

func init() {
	f := logCmd.Flags()
	f.StringVar(&logFlags.show, "show", "musa", "event kinds to include: m(erge) u(nmerge) s(ync) a(ll)")
	f.IntVarP(&logFlags.first, "first", "N", 0, "stop after the first N matching rows")
	f.IntVarP(&logFlags.last, "last", "n", 0, "show only the last N matching rows (reverse scan)")
	f.BoolVar(&logFlags.starttime, "starttime", false, "show the start timestamp instead of the end timestamp")
	f.BoolVarP(&logFlags.exact, "exact", "e", false, "match search terms exactly instead of as a regex")
}

func runLog(cmd *cobra.Command, args []string) error {
	r, err := resolveCommon(cmd, "log")
	if err != nil {
		return err
	}
	rng, err := buildRange(r)
	if err != nil {
		return err
	}
	show, ok := filter.ParseShow(logFlags.show, "musa")
	if !ok {
		return usageErrorf("invalid --show %q for log (valid: musa)", logFlags.show)
	}
	names, err := filter.NewNameMatcher(args, logFlags.exact)
	if err != nil {
		return usageErrorf("%v", err)
	}

	spec := filter.Spec{
		Range: rng, Names: names, Show: show,
		First: logFlags.first, Last: logFlags.last,
		StartTime: logFlags.starttime, UTC: r.utc,
	}

	d := diag.New(os.Stderr, r.level)
	res, err := report.BuildLog(r.logfile, spec, d)
	if err != nil {
		return usageErrorf("%v", err)
	}

	w, flush := newWriter(r)
	if r.colorOn {
		w = output.NewColor(w, 2, output.ColorKnown)
	}
	if r.header {
		w.Row([]string{"time", "kind", "package/repo", "duration"})
	}
	for _, row := range res.Rows {
		w.Row(logRowCols(row, r))
	}
	for _, in := range res.Interrupted {
		w.Row(interruptedCols(in, r))
	}
	if err := flush(); err != nil {
		return err
	}

	warnings, _ := d.Summary()
	total := len(res.Rows) + len(res.Interrupted)
	if warnings > 0 {
		fmt.Fprintf(os.Stderr, "mlog: %d warning(s)\n", warnings)
	}
	if total == 0 {
		os.Exit(1)
	}
	return nil
}

func logRowCols(row report.LogRow, r resolved) []string {
	kind := kindLabel(row.Kind)
	subject := row.Pkg.String()
	if row.Kind == event.SyncStart || row.Kind == event.SyncStop {
		subject = row.Repo
	}
	dur := formatDuration(row.Duration, r.durationStyle)
	if row.Duration == report.UnknownDuration {
		dur = "?"
	}
	return []string{filter.FormatTime(row.Ts, r.utc), kind, subject, dur}
}

func interruptedCols(in history.Interrupted, r resolved) []string {
	kind := kindLabel(in.Kind)
	subject := in.Pkg.String()
	if in.Kind == event.SyncStart {
		subject = in.Repo
	}
	return []string{filter.FormatTime(in.Started, r.utc), kind, subject, "interrupted"}
}

func kindLabel(k event.Kind) string {
	switch k {
	case event.MergeStart, event.MergeStop:
		return "merge"
	case event.UnmergeStart, event.UnmergeStop:
		return "unmerge"
	case event.SyncStart, event.SyncStop:
		return "sync"
	default:
		return "?"
	}
}

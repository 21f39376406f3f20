package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mlog/diag"
	"mlog/internal/filter"
	"mlog/internal/history"
	"mlog/internal/live"
	"mlog/internal/predict"
	"mlog/internal/report"
	"mlog/output"
)

var predictFlags struct {
	show    string
	tmpdir  []string
	resume  string
	unknown int64
	avg     string
	limit   int
	pwidth  int
	pdepth  int
	watch   bool
}

const (
	defaultMtimedbMain   = "/var/cache/edb/mtimedb"
	defaultMtimedbBackup = "/var/cache/edb/mtimedb.bak"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate remaining time for the active or queued build",
	RunE:  runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictFlags.show, "show", "emta", "rows to include: e(merge) m(erge) t(otal) a(ll)")
	f.StringSliceVar(&predictFlags.tmpdir, "tmpdir", nil, "portage tmpdir(s) to search for build.log phase detail")
	f.StringVar(&predictFlags.resume, "resume", "auto", "resume source: auto|main|backup|either|no")
	f.Int64Var(&predictFlags.unknown, "unknown", 0, "fallback duration (seconds) for packages with no history")
	f.StringVar(&predictFlags.avg, "avg", "median", "averaging function: arith|median|weighted-arith|weighted-median")
	f.IntVar(&predictFlags.limit, "limit", history.DefaultWindow, "prediction window size")
	f.IntVar(&predictFlags.pwidth, "pwidth", 60, "truncate package names to this width")
	f.IntVar(&predictFlags.pdepth, "pdepth", 3, "version components to keep when truncating")
	f.BoolVar(&predictFlags.watch, "watch", false, "refresh the prediction table in place every second")
}

func runPredict(cmd *cobra.Command, args []string) error {
	r, err := resolveCommon(cmd, "predict")
	if err != nil {
		return err
	}
	show, ok := filter.ParseShow(predictFlags.show, "emta")
	if !ok {
		return usageErrorf("invalid --show %q for predict (valid: emta)", predictFlags.show)
	}
	resumeKind, ok := live.ParseResumeKind(predictFlags.resume)
	if !ok {
		return usageErrorf("invalid --resume %q", predictFlags.resume)
	}
	avg, ok := predict.ParseAverage(predictFlags.avg)
	if !ok {
		return usageErrorf("invalid --avg %q", predictFlags.avg)
	}

	predCfg := predict.Config{Window: predictFlags.limit, Avg: avg, Fallback: predictFlags.unknown}
	d := diag.New(os.Stderr, r.level)

	var pretendItems []live.InFlight
	if info, serr := os.Stdin.Stat(); serr == nil && (info.Mode()&os.ModeCharDevice) == 0 {
		pretendItems = live.ParsePretend(bufio.NewReader(os.Stdin))
	}

	ix := history.New(predictFlags.limit)
	if err := report.LoadHistory(r.logfile, ix, d); err != nil {
		return usageErrorf("%v", err)
	}
	buildIx := func() (report.PredictResult, live.Result) {
		lister := live.NewProcessLister()
		disc := live.Discover(lister, resumeKind, defaultMtimedbMain, defaultMtimedbBackup, pretendItems)
		if disc.Incomplete {
			d.LiveDiscoveryIncomplete(disc.Reason)
		}
		if disc.ResumeErr != nil {
			d.Warnf("resume state: %v", disc.ResumeErr)
		}
		enrichPhases(disc.InFlight, predictFlags.tmpdir)
		res := report.BuildPredict(disc, predCfg, ix, time.Now().Unix())
		return res, disc
	}

	if predictFlags.watch {
		return runPredictWatch(r, show, buildIx)
	}

	res, disc := buildIx()
	w, flush := newWriter(r)
	if r.colorOn {
		w = output.NewColor(w, 3, output.ColorKnown)
	}
	writeDriverRow(w, disc)
	n := writePredictRows(w, res, show, r)
	if err := flush(); err != nil {
		return err
	}
	warnings, incomplete := d.Summary()
	if warnings > 0 || incomplete > 0 {
		fmt.Fprintf(os.Stderr, "mlog: %d warning(s), %d incomplete discovery\n", warnings, incomplete)
	}
	if n == 0 {
		os.Exit(1)
	}
	return nil
}

// enrichPhases fills in a more precise Phase for items the process-table
// scan already found (their phase token can lag the driver's own log), by
// tailing the package's build.log under the --tmpdir search path.
func enrichPhases(items []live.InFlight, tmpdirs []string) {
	if len(tmpdirs) == 0 {
		return
	}
	for i := range items {
		path := live.FindBuildLog(tmpdirs, items[i].Pkg)
		if path == "" {
			continue
		}
		if phase, _, err := live.BuildLogTail(path, 4096); err == nil && phase != "" {
			items[i].Phase = phase
		}
	}
}

// writeDriverRow prints the build-driver process line, if one was found,
// ahead of the per-package prediction rows.
func writeDriverRow(w output.Writer, disc live.Result) {
	if disc.Driver == nil {
		return
	}
	w.Row([]string{"driver", disc.Driver.String()})
}

func writePredictRows(w output.Writer, res report.PredictResult, show filter.Show, r resolved) int {
	n := 0
	if show.Emerge || show.Merge {
		for _, item := range res.Items {
			pkg := truncatePkg(item.Pkg.String(), predictFlags.pwidth, predictFlags.pdepth)
			pred := "?"
			if item.Prediction.Status != predict.Unknown {
				pred = formatDuration(item.Prediction.Duration, r.durationStyle)
			}
			phase := item.Phase
			if phase == "" {
				phase = "-"
			}
			w.Row([]string{pkg, item.Source, phase, pred})
			n++
		}
	}
	if show.Tot {
		total := "?"
		if res.Total.Status != predict.Unknown {
			total = formatDuration(res.Total.Duration, r.durationStyle)
		}
		w.Row([]string{"total", "", "", total})
		n++
	}
	return n
}

// truncatePkg shortens a "category/name-version" string to width, keeping
// at most depth dot-separated version components (predict.go's --pwidth/
// --pdepth, grounded on original_source's table.rs column-width policy).
func truncatePkg(s string, width, depth int) string {
	if depth > 0 {
		if i := lastDash(s); i >= 0 {
			ver := s[i+1:]
			parts := splitN(ver, '.', depth)
			s = s[:i+1] + parts
		}
	}
	if width > 0 && len(s) > width {
		if width > 3 {
			s = "..." + s[len(s)-width+3:]
		} else {
			s = s[len(s)-width:]
		}
	}
	return s
}

func lastDash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '-' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			return i
		}
	}
	return -1
}

func splitN(s string, sep byte, n int) string {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			count++
			if count == n {
				return s[:i]
			}
		}
	}
	return s
}

func runPredictWatch(r resolved, show filter.Show, buildIx func() (report.PredictResult, live.Result)) error {
	watch := output.NewWatch("predict")
	return watch.Start(time.Second, func(w *output.Watch) {
		res, disc := buildIx()
		header := []string{"package", "source", "phase", "predicted"}
		var rows [][]string
		if disc.Driver != nil {
			rows = append(rows, []string{"driver", disc.Driver.String(), "", ""})
		}
		for _, item := range res.Items {
			pkg := truncatePkg(item.Pkg.String(), predictFlags.pwidth, predictFlags.pdepth)
			pred := "?"
			if item.Prediction.Status != predict.Unknown {
				pred = formatDuration(item.Prediction.Duration, r.durationStyle)
			}
			phase := item.Phase
			if phase == "" {
				phase = "-"
			}
			rows = append(rows, []string{pkg, item.Source, phase, pred})
		}
		total := "?"
		if res.Total.Status != predict.Unknown {
			total = formatDuration(res.Total.Duration, r.durationStyle)
		}
		rows = append(rows, []string{"total", "", "", total})
		w.Update(header, rows, nil)
	})
}

// Package cmd implements the command-line surface (spec.md §6): argument
// parsing, wiring flags into filter.Spec/predict.Config/live discovery, and
// formatting rows through output.Writer. It is, per spec.md §1, "external
// collaborator, specified only at its interface to the core" — every
// command here is thin plumbing onto internal/report.
//
// Completes go-synth/cmd's unfinished "Phase 3" cobra skeleton (build.go's
// buildCmd was never wired to a rootCmd); this package is that root.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mlog/config"
	"mlog/diag"
	"mlog/internal/filter"
	"mlog/output"
)

// DurationStyle selects how `log`/`stats`/`predict`/`accuracy` render a
// duration (original_source/src/main.rs's DurationStyle enum).
type DurationStyle int

const (
	DurationHMS DurationStyle = iota
	DurationHMSFixed
	DurationSecs
	DurationHuman
)

func parseDurationStyle(s string) (DurationStyle, bool) {
	switch s {
	case "", "hms":
		return DurationHMS, true
	case "hmsfixed":
		return DurationHMSFixed, true
	case "secs", "s":
		return DurationSecs, true
	case "human", "h":
		return DurationHuman, true
	default:
		return 0, false
	}
}

// formatDuration renders secs per style, sharing filter's H:MM:SS
// formatters for the two fixed-width styles.
func formatDuration(secs int64, style DurationStyle) string {
	if secs < 0 {
		return "?"
	}
	switch style {
	case DurationHMSFixed:
		return filter.FormatDurationFixed(secs)
	case DurationSecs:
		return fmt.Sprintf("%ds", secs)
	case DurationHuman:
		return humanDuration(secs)
	default:
		return filter.FormatDuration(secs)
	}
}

func humanDuration(secs int64) string {
	d := time.Duration(secs) * time.Second
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	case d >= time.Hour:
		return fmt.Sprintf("%.1fh", d.Hours())
	case d >= time.Minute:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// parseColorStyle mirrors original_source's ColorStyle enum: always or never,
// no "auto" (unlike --output, which does have an auto).
func parseColorStyle(s string) (bool, bool) {
	switch s {
	case "", "n", "never":
		return false, true
	case "y", "always":
		return true, true
	default:
		return false, false
	}
}

// commonFlags holds the top-level options common to all commands
// (spec.md §6). Each command's RunE resolves these against its own section
// of the config file before building a filter.Spec.
type commonFlags struct {
	from      string
	to        string
	logfile   string
	header    bool
	duration  string
	date      string
	utc       bool
	color     string
	output    string
	verbosity int
}

var common commonFlags

const defaultLogfile = "/var/log/emerge.log"

var rootCmd = &cobra.Command{
	Use:   "mlog",
	Short: "Analyse an emerge log for history, statistics, and build-time predictions",
	Long: `mlog reads the append-only event log of a source-based package manager
and produces four reports: a chronological event listing (log), aggregated
statistics (stats), an estimate of remaining time for a live or planned
build queue (predict), and a retrospective accuracy evaluation of past
estimates (accuracy).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&common.from, "from", "f", "", "only include events at or after this date")
	flags.StringVarP(&common.to, "to", "t", "", "only include events at or before this date")
	flags.StringVarP(&common.logfile, "logfile", "F", "", "path to the emerge log (default "+defaultLogfile+")")
	flags.BoolVarP(&common.header, "header", "H", false, "print a header row")
	flags.StringVar(&common.duration, "duration", "hms", "duration style: hms|hmsfixed|secs|human")
	flags.StringVar(&common.date, "date", "", "reference date for relative --from/--to (default: now)")
	flags.BoolVar(&common.utc, "utc", false, "interpret and render dates in UTC instead of local time")
	flags.StringVar(&common.color, "color", "n", "colorize output: y(es)|n(o)")
	flags.StringVar(&common.output, "output", "auto", "table style: columns|tab|auto")
	flags.CountVarP(&common.verbosity, "verbosity", "v", "increase diagnostic verbosity (repeatable)")

	rootCmd.AddCommand(logCmd, statsCmd, predictCmd, accuracyCmd, completeCmd)
}

// Execute runs the root command, mirroring go-synth's main.go top-level
// error handling: usage/IO errors go to stderr, exit code follows
// spec.md §7 (0 success, 1 empty result, 2 usage/IO error).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mlog:", err)
		os.Exit(exitCodeFor(err))
	}
}

// resolved holds the common options after resolveCommon has layered config
// file values under whatever the CLI actually set, per spec.md §6 "CLI always
// overrides file". resolveCommon checks cmd.Flags().Changed (or a non-empty
// flag value) before falling back to config. Only logfile is also read from
// the command's own section; header, color, output, utc and date come from
// the DEFAULT section only.
type resolved struct {
	logfile       string
	header        bool
	durationStyle DurationStyle
	dateRef       time.Time
	utc           bool
	colorOn       bool
	outMode       output.Mode
	level         diag.Level
}

func resolveCommon(cmd *cobra.Command, command string) (resolved, error) {
	cfg := config.GetConfig()

	r := resolved{
		logfile: defaultLogfile,
		utc:     cfg.Common.UTC,
	}
	if cmd.Flags().Changed("utc") {
		r.utc = common.utc
	}

	if cfg.Common.Logfile != "" {
		r.logfile = cfg.Common.Logfile
	}
	if v := config.GetConfig().StringOption(command, "logfile"); v != "" {
		r.logfile = v
	}
	if common.logfile != "" {
		r.logfile = common.logfile
	}

	r.header = cfg.Common.Header
	if cmd.Flags().Changed("header") {
		r.header = common.header
	}

	colorStr := common.color
	if !cmd.Flags().Changed("color") && cfg.Common.Color {
		colorStr = "y"
	}
	colorOn, ok := parseColorStyle(colorStr)
	if !ok {
		return r, usageErrorf("invalid --color %q", colorStr)
	}
	r.colorOn = colorOn

	outStr := common.output
	if !cmd.Flags().Changed("output") && cfg.Common.Output != "" {
		outStr = cfg.Common.Output
	}
	mode, ok := output.ParseMode(outStr)
	if !ok {
		return r, usageErrorf("invalid --output %q", outStr)
	}
	r.outMode = mode

	style, ok := parseDurationStyle(common.duration)
	if !ok {
		return r, usageErrorf("invalid --duration %q", common.duration)
	}
	r.durationStyle = style

	dateStr := common.date
	if dateStr == "" {
		dateStr = cfg.Common.Date
	}
	now := time.Now()
	if dateStr != "" {
		t, err := filter.ParseDate(dateStr, now, r.utc)
		if err != nil {
			return r, usageErrorf("invalid --date %q: %v", dateStr, err)
		}
		now = t
	}
	r.dateRef = now

	switch common.verbosity {
	case 0:
		r.level = diag.LevelWarn
	case 1:
		r.level = diag.LevelInfo
	default:
		r.level = diag.LevelDebug
	}
	return r, nil
}

// buildRange parses --from/--to against the resolved reference date.
func buildRange(r resolved) (filter.Range, error) {
	var rng filter.Range
	if common.from != "" {
		t, err := filter.ParseDate(common.from, r.dateRef, r.utc)
		if err != nil {
			return rng, usageErrorf("invalid --from %q: %v", common.from, err)
		}
		rng.From, rng.HasFrom = t.Unix(), true
	}
	if common.to != "" {
		t, err := filter.ParseDate(common.to, r.dateRef, r.utc)
		if err != nil {
			return rng, usageErrorf("invalid --to %q: %v", common.to, err)
		}
		rng.To, rng.HasTo = t.Unix(), true
	}
	return rng, nil
}

func newWriter(r resolved) (output.Writer, func() error) {
	f := os.Stdout
	w := output.NewTabWriter(f, r.outMode, output.IsTerminal(f))
	return w, w.Flush
}

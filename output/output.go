// Package output renders report rows. go-synth/build splits its terminal
// output between a plain StdoutUI and a rich tview/tcell NcursesUI
// (ui_stdout.go / ui_ncurses.go); output keeps that split: Writer is the
// plain path (spec.md §10.5's "external collaborator, specified at
// interface"), and Watch (watch.go) is the tview path for --watch.
package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"
)

// Writer renders one row at a time, then flushes.
type Writer interface {
	Row(cols []string)
	Flush() error
}

// Mode selects a Writer implementation for --output.
type Mode int

const (
	ModeAuto Mode = iota
	ModeColumns
	ModeTab
)

// ParseMode accepts the CLI's --output values.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "auto", "":
		return ModeAuto, true
	case "columns":
		return ModeColumns, true
	case "tab":
		return ModeTab, true
	default:
		return 0, false
	}
}

// tabWriter backs both ModeColumns and ModeTab: stdlib text/tabwriter
// matches the original tool's own "tabwriter crate" dependency 1:1, so no
// ecosystem table-formatting library improves on the standard library here
// (DESIGN.md records this as the one ambient concern deliberately left on
// stdlib).
type tabWriter struct {
	w       *tabwriter.Writer
	raw     io.Writer // ModeTab rows bypass tabwriter so their tabs survive
	padding int
	tab     bool
}

// NewTabWriter returns a Writer for w. mode selects padded columns
// (ModeColumns, ModeAuto when stdout is a terminal) or literal tab
// separation (ModeTab, or ModeAuto when stdout is redirected).
func NewTabWriter(w io.Writer, mode Mode, isTerminal bool) Writer {
	useTab := mode == ModeTab || (mode == ModeAuto && !isTerminal)
	padding := 2
	if useTab {
		padding = 0
	}
	return &tabWriter{
		w:       tabwriter.NewWriter(w, 0, 4, padding, ' ', 0),
		raw:     w,
		padding: padding,
		tab:     useTab,
	}
}

func (t *tabWriter) Row(cols []string) {
	sep := "\t"
	line := ""
	for i, c := range cols {
		if i > 0 {
			line += sep
		}
		line += c
	}
	if t.tab {
		fmt.Fprintln(t.raw, line)
		return
	}
	fmt.Fprintln(t.w, line)
}

func (t *tabWriter) Flush() error { return t.w.Flush() }

// IsTerminal reports whether f is an interactive terminal, used to resolve
// ModeAuto.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Package diag provides the single stderr-writing diagnostics sink every
// command uses, mirroring go-synth/log's mutex-guarded Logger and
// ContextLogger idiom generalized from per-category log files down to the
// single-shot CLI's two streams: stdout for report rows, stderr for
// diagnostics (spec.md §7's error taxonomy).
package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Level is the verbosity threshold, raised by repeated -v.
type Level int

const (
	LevelWarn Level = iota
	LevelInfo
	LevelDebug
)

// Diagnostics is the mutex-guarded sink every report builder writes
// through. It implements parse.Sink.
type Diagnostics struct {
	mu      sync.Mutex
	w       io.Writer
	level   Level
	session uuid.UUID

	warnCount             int
	incompleteDiscoveries int
}

// New returns a Diagnostics writing to w at the given verbosity, tagged
// with a fresh session ID (mirroring builddb.BuildRecord.UUID correlating
// one invocation's interleaved producer/consumer output).
func New(w io.Writer, level Level) *Diagnostics {
	return &Diagnostics{w: w, level: level, session: uuid.New()}
}

// Warnf reports a FormatWarning-class diagnostic (spec.md §7 item 2).
// Always emitted at LevelWarn and above (i.e. always, since LevelWarn is
// the floor).
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.warnCount++
	d.emit("warn", format, args...)
}

// Infof reports an informational diagnostic, gated to verbosity >= info.
func (d *Diagnostics) Infof(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.level < LevelInfo {
		return
	}
	d.emit("info", format, args...)
}

// Debugf reports a trace line tagged with the session ID, gated to
// verbosity >= debug.
func (d *Diagnostics) Debugf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.level < LevelDebug {
		return
	}
	d.emit("debug", format, args...)
}

// LiveDiscoveryIncomplete reports spec.md §7 item 3: the process listing
// was unavailable or partially denied. Non-fatal; counted for the
// end-of-run summary and always surfaced regardless of verbosity, since it
// affects how the caller should read the predict/stats output.
func (d *Diagnostics) LiveDiscoveryIncomplete(reason string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.incompleteDiscoveries++
	d.emit("warn", "live discovery incomplete: %s", reason)
}

func (d *Diagnostics) emit(tag, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if d.level >= LevelDebug {
		fmt.Fprintf(d.w, "[%s] %s %s\n", tag, d.session.String()[:8], msg)
		return
	}
	fmt.Fprintf(d.w, "[%s] %s\n", tag, msg)
}

// Summary returns the accumulated warning and incomplete-discovery counts,
// used to decide the §7 EmptyResult/exit-code policy alongside row counts.
func (d *Diagnostics) Summary() (warnings, incomplete int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.warnCount, d.incompleteDiscoveries
}
